package database

import (
	"testing"

	"household-ledger/internal/config"
	"household-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCategories_IsIdempotent(t *testing.T) {
	db := SetupTestDB(t)

	require.NoError(t, db.SeedCategories())
	require.NoError(t, db.SeedCategories())

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultCategories())), count)

	var other models.Category
	require.NoError(t, db.Where("name = ?", models.CategoryOther).First(&other).Error)
	assert.Equal(t, models.CategoryTypeBoth, other.Type)
}

func TestHealthCheck(t *testing.T) {
	db := SetupTestDB(t)

	assert.NoError(t, db.HealthCheck())
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "oracle"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestCleanupTestDB_RemovesRows(t *testing.T) {
	db := SetupTestDB(t)
	CreateTestMember(t, db, "asha")
	CreateTestCategory(t, db, "Food", models.CategoryTypeDebit)

	CleanupTestDB(t, db)

	var members, categories int64
	require.NoError(t, db.Model(&models.Member{}).Count(&members).Error)
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	assert.Zero(t, members)
	assert.Zero(t, categories)
}
