package main

import (
	"fmt"

	"household-ledger/internal/config"
	"household-ledger/internal/database"

	"github.com/spf13/cobra"
)

func (a *app) migrateCmd() *cobra.Command {
	var (
		status   bool
		rollback int
		seed     bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Bring the database schema up to date.

Postgres uses the SQL migrations under MIGRATIONS_PATH. SQLite databases
are migrated from the models directly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Database.Driver == config.DriverSQLite {
				return a.migrateSQLite(seed)
			}

			sqlDB, err := database.OpenPostgres(&a.cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = sqlDB.Close() }()

			runner := database.NewMigrationRunner(sqlDB).WithMigrationsPath(a.cfg.Database.MigrationsPath)
			if err := runner.WaitForDatabase(); err != nil {
				return err
			}

			switch {
			case status:
				version, dirty, err := runner.GetMigrationStatus()
				if err != nil {
					return fmt.Errorf("failed to read migration status: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			case rollback > 0:
				return runner.Rollback(rollback)
			}

			if err := runner.RunMigrations(); err != nil {
				return err
			}
			if seed {
				return runner.LoadSeeds()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "show the current schema version and exit")
	cmd.Flags().IntVar(&rollback, "rollback", 0, "roll back this many migrations")
	cmd.Flags().BoolVar(&seed, "seed", true, "load seed data (postgres also needs SEED_DATABASE=true)")

	return cmd
}

func (a *app) migrateSQLite(seed bool) error {
	db, err := database.New(&a.cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	if err := db.CreateIndexes(); err != nil {
		a.logger.Warn("Failed to create some indexes", "error", err)
	}
	if seed {
		if err := db.SeedCategories(); err != nil {
			return err
		}
	}

	a.logger.Info("Database migrated", "path", a.cfg.Database.SQLitePath)
	return nil
}
