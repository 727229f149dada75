package services

import (
	"crypto/rsa"
	"testing"
	"time"

	"household-ledger/internal/config"
	"household-ledger/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// TokenServiceTestSuite defines the test suite for TokenService
type TokenServiceTestSuite struct {
	suite.Suite
	privateKey     *rsa.PrivateKey
	publicKey      *rsa.PublicKey
	service        TokenServiceInterface
	issuer         string
	accessDuration time.Duration
}

// SetupTest runs before each test
func (s *TokenServiceTestSuite) SetupTest() {
	var err error
	s.privateKey, s.publicKey, err = config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.issuer = "test-issuer"
	s.accessDuration = 24 * time.Hour

	s.service = NewTokenService(&config.JWTConfig{
		PrivateKey:          s.privateKey,
		PublicKey:           s.publicKey,
		Issuer:              s.issuer,
		AccessTokenDuration: s.accessDuration,
	})
}

// TestTokenServiceSuite runs the test suite
func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

func (s *TokenServiceTestSuite) member(role string) *models.Member {
	return &models.Member{
		ID:   uuid.New(),
		Name: gofakeit.FirstName(),
		Role: role,
	}
}

func (s *TokenServiceTestSuite) TestGenerateAccessToken() {
	member := s.member(models.RoleMember)

	token, expiresAt, err := s.service.GenerateAccessToken(member)
	s.NoError(err)
	s.NotEmpty(token)
	s.WithinDuration(time.Now().Add(s.accessDuration), expiresAt, 5*time.Second)
}

func (s *TokenServiceTestSuite) TestGenerateAccessToken_NilMember() {
	_, _, err := s.service.GenerateAccessToken(nil)
	s.Error(err)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Success() {
	member := s.member(models.RoleAdmin)

	token, _, err := s.service.GenerateAccessToken(member)
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.NoError(err)
	s.Equal(member.ID.String(), claims.MemberID)
	s.Equal(member.Name, claims.Name)
	s.Equal(models.RoleAdmin, claims.Role)
	s.Equal(s.issuer, claims.Issuer)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_EmptyToken() {
	claims, err := s.service.ValidateAccessToken("")
	s.ErrorIs(err, ErrEmptyToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_MalformedToken() {
	claims, err := s.service.ValidateAccessToken("not.a.token")
	s.ErrorIs(err, ErrInvalidToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestExpiredToken() {
	expired := NewTokenService(&config.JWTConfig{
		PrivateKey:          s.privateKey,
		PublicKey:           s.publicKey,
		Issuer:              s.issuer,
		AccessTokenDuration: -time.Hour,
	})

	token, _, err := expired.GenerateAccessToken(s.member(models.RoleMember))
	s.Require().NoError(err)

	claims, err := expired.ValidateAccessToken(token)
	s.ErrorIs(err, ErrExpiredToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestWrongIssuer() {
	other := NewTokenService(&config.JWTConfig{
		PrivateKey:          s.privateKey,
		PublicKey:           s.publicKey,
		Issuer:              "someone-else",
		AccessTokenDuration: time.Hour,
	})

	token, _, err := other.GenerateAccessToken(s.member(models.RoleMember))
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidIssuer)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestDifferentKeys() {
	privateKey2, publicKey2, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	other := NewTokenService(&config.JWTConfig{
		PrivateKey:          privateKey2,
		PublicKey:           publicKey2,
		Issuer:              s.issuer,
		AccessTokenDuration: time.Hour,
	})

	token, _, err := other.GenerateAccessToken(s.member(models.RoleMember))
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader() {
	testCases := []struct {
		name    string
		header  string
		token   string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc.def", "abc.def", false},
		{"lowercase bearer", "bearer abc.def", "abc.def", false},
		{"no bearer", "abc.def", "", true},
		{"empty", "", "", true},
		{"only bearer", "Bearer", "", true},
		{"bearer space only", "Bearer ", "", true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			token, err := s.service.ExtractTokenFromHeader(tc.header)
			if tc.wantErr {
				s.ErrorIs(err, ErrInvalidAuthHeader)
				s.Empty(token)
				return
			}
			s.NoError(err)
			s.Equal(tc.token, token)
		})
	}
}

func (s *TokenServiceTestSuite) TestGetJTIAndExpiry() {
	token, expiresAt, err := s.service.GenerateAccessToken(s.member(models.RoleMember))
	s.Require().NoError(err)

	jti, err := s.service.GetJTI(token)
	s.NoError(err)
	_, err = uuid.Parse(jti)
	s.NoError(err)

	expiry, err := s.service.GetTokenExpiry(token)
	s.NoError(err)
	s.WithinDuration(expiresAt, expiry, time.Second)

	_, err = s.service.GetJTI("")
	s.ErrorIs(err, ErrEmptyToken)
}

// Benchmarks
func BenchmarkTokenService_GenerateAccessToken(b *testing.B) {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	if err != nil {
		b.Fatal(err)
	}

	ts := NewTokenService(&config.JWTConfig{
		PrivateKey:          privateKey,
		PublicKey:           publicKey,
		Issuer:              "test-issuer",
		AccessTokenDuration: time.Hour,
	})
	member := &models.Member{ID: uuid.New(), Name: "bench", Role: models.RoleMember}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = ts.GenerateAccessToken(member)
	}
}
