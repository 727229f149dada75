package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"household-ledger/internal/dto"
	"household-ledger/internal/events"
	"household-ledger/internal/models"
	"household-ledger/internal/repositories"
	"household-ledger/internal/repositories/repository_mocks"
	"household-ledger/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctx                  context.Context
	ctrl                 *gomock.Controller
	memberRepo           *repository_mocks.MockMemberRepositoryInterface
	blacklistedTokenRepo *repository_mocks.MockBlacklistedTokenRepositoryInterface
	passwordService      *service_mocks.MockPasswordServiceInterface
	tokenService         *service_mocks.MockTokenServiceInterface
	metrics              *service_mocks.MockMetricsRecorderInterface
	publisher            *events.MemoryPublisher
	authService          AuthServiceInterface
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.memberRepo = repository_mocks.NewMockMemberRepositoryInterface(s.ctrl)
	s.blacklistedTokenRepo = repository_mocks.NewMockBlacklistedTokenRepositoryInterface(s.ctrl)
	s.passwordService = service_mocks.NewMockPasswordServiceInterface(s.ctrl)
	s.tokenService = service_mocks.NewMockTokenServiceInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.publisher = events.NewMemoryPublisher()

	s.authService = NewAuthService(
		s.memberRepo,
		s.blacklistedTokenRepo,
		s.passwordService,
		s.tokenService,
		s.publisher,
		s.metrics,
		slog.Default(),
	)
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) member(role string) *models.Member {
	return &models.Member{
		ID:           uuid.New(),
		Name:         gofakeit.FirstName(),
		PasswordHash: "$2a$12$" + gofakeit.LetterN(53),
		Role:         role,
		CreatedAt:    time.Now(),
	}
}

func (s *AuthServiceTestSuite) expectAuthEvent(eventType string) {
	s.metrics.EXPECT().
		IncrementCounter("authentication_event", map[string]string{"event_type": eventType}).
		Times(1)
}

func (s *AuthServiceTestSuite) claimsFor(member *models.Member, jti string) *models.CustomClaims {
	return &models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: jti},
		MemberID:         member.ID.String(),
		Name:             member.Name,
		Role:             member.Role,
	}
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	member := s.member(models.RoleMember)
	expiresAt := time.Now().Add(time.Hour)

	s.memberRepo.EXPECT().GetByName(s.ctx, member.Name).Return(member, nil)
	s.passwordService.EXPECT().ComparePassword("secret", member.PasswordHash).Return(true)
	s.tokenService.EXPECT().GenerateAccessToken(member).Return("access-token", expiresAt, nil)
	s.expectAuthEvent("login_success")

	resp, err := s.authService.Login(s.ctx, "  "+member.Name+" ", "secret")

	s.Require().NoError(err)
	s.Equal("access-token", resp.AccessToken)
	s.Equal("Bearer", resp.TokenType)
	s.Equal(expiresAt, resp.ExpiresAt)
	s.Equal(member.ID, resp.Member.ID)
	s.Equal(models.RoleMember, resp.Member.Role)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownNameAndWrongPasswordAreIndistinguishable() {
	member := s.member(models.RoleMember)

	s.memberRepo.EXPECT().GetByName(s.ctx, "nobody").Return(nil, repositories.ErrMemberNotFound)
	s.memberRepo.EXPECT().GetByName(s.ctx, member.Name).Return(member, nil)
	s.passwordService.EXPECT().ComparePassword("wrong", member.PasswordHash).Return(false)
	s.metrics.EXPECT().
		IncrementCounter("authentication_event", map[string]string{"event_type": "login_failed"}).
		Times(2)

	_, unknownErr := s.authService.Login(s.ctx, "nobody", "wrong")
	_, wrongErr := s.authService.Login(s.ctx, member.Name, "wrong")

	s.ErrorIs(unknownErr, ErrInvalidCredentials)
	s.ErrorIs(wrongErr, ErrInvalidCredentials)
	s.Equal(unknownErr.Error(), wrongErr.Error())
}

func (s *AuthServiceTestSuite) TestLogin_BlankFields() {
	s.metrics.EXPECT().
		IncrementCounter("authentication_event", map[string]string{"event_type": "login_failed"}).
		Times(2)

	_, err := s.authService.Login(s.ctx, "   ", "secret")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.authService.Login(s.ctx, "asha", "")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_RepositoryFailure() {
	s.memberRepo.EXPECT().GetByName(s.ctx, "asha").Return(nil, errors.New("connection reset"))

	_, err := s.authService.Login(s.ctx, "asha", "secret")

	s.Error(err)
	s.NotErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogout_BlacklistsToken() {
	member := s.member(models.RoleMember)
	jti := uuid.NewString()
	expiry := time.Now().Add(time.Hour)

	s.tokenService.EXPECT().ValidateAccessToken("token").Return(s.claimsFor(member, jti), nil)
	s.tokenService.EXPECT().GetTokenExpiry("token").Return(expiry, nil)
	s.blacklistedTokenRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, token *models.BlacklistedToken) error {
			s.Equal(jti, token.JTI)
			s.Equal(member.ID, token.MemberID)
			s.Equal(expiry, token.ExpiresAt)
			return nil
		})
	s.expectAuthEvent("logout")

	s.NoError(s.authService.Logout(s.ctx, "token"))
}

func (s *AuthServiceTestSuite) TestLogout_InvalidTokenStillBlacklistsJTI() {
	s.tokenService.EXPECT().ValidateAccessToken("expired").Return(nil, ErrExpiredToken)
	s.tokenService.EXPECT().GetJTI("expired").Return("jti-1", nil)
	s.blacklistedTokenRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	s.NoError(s.authService.Logout(s.ctx, "expired"))
}

func (s *AuthServiceTestSuite) TestLogout_GarbageTokenIsIgnored() {
	s.tokenService.EXPECT().ValidateAccessToken("garbage").Return(nil, ErrInvalidToken)
	s.tokenService.EXPECT().GetJTI("garbage").Return("", ErrInvalidToken)

	s.NoError(s.authService.Logout(s.ctx, "garbage"))
}

func (s *AuthServiceTestSuite) TestAuthenticate_Success() {
	member := s.member(models.RoleAdmin)
	jti := uuid.NewString()

	s.tokenService.EXPECT().ValidateAccessToken("token").Return(s.claimsFor(member, jti), nil)
	s.blacklistedTokenRepo.EXPECT().GetByJTI(s.ctx, jti).Return(nil, repositories.ErrTokenNotFound)
	s.memberRepo.EXPECT().GetByID(s.ctx, member.ID).Return(member, nil)

	sess, err := s.authService.Authenticate(s.ctx, "token")

	s.Require().NoError(err)
	s.Equal(member.ID, sess.MemberID())
	s.Equal(member.Name, sess.Actor.Name)
	s.True(sess.IsAdmin())
	s.Empty(sess.Token)
}

func (s *AuthServiceTestSuite) TestAuthenticate_RoleComesFromStoredMember() {
	member := s.member(models.RoleMember)
	claims := s.claimsFor(member, "jti")
	claims.Role = models.RoleAdmin

	s.tokenService.EXPECT().ValidateAccessToken("token").Return(claims, nil)
	s.blacklistedTokenRepo.EXPECT().GetByJTI(s.ctx, "jti").Return(nil, repositories.ErrTokenNotFound)
	s.memberRepo.EXPECT().GetByID(s.ctx, member.ID).Return(member, nil)

	sess, err := s.authService.Authenticate(s.ctx, "token")

	s.Require().NoError(err)
	s.False(sess.IsAdmin())
}

func (s *AuthServiceTestSuite) TestAuthenticate_RevokedToken() {
	member := s.member(models.RoleMember)

	s.tokenService.EXPECT().ValidateAccessToken("token").Return(s.claimsFor(member, "jti"), nil)
	s.blacklistedTokenRepo.EXPECT().GetByJTI(s.ctx, "jti").Return(&models.BlacklistedToken{JTI: "jti"}, nil)

	_, err := s.authService.Authenticate(s.ctx, "token")

	s.ErrorIs(err, ErrTokenRevoked)
}

func (s *AuthServiceTestSuite) TestAuthenticate_DeletedMember() {
	member := s.member(models.RoleMember)

	s.tokenService.EXPECT().ValidateAccessToken("token").Return(s.claimsFor(member, "jti"), nil)
	s.blacklistedTokenRepo.EXPECT().GetByJTI(s.ctx, "jti").Return(nil, repositories.ErrTokenNotFound)
	s.memberRepo.EXPECT().GetByID(s.ctx, member.ID).Return(nil, repositories.ErrMemberNotFound)

	_, err := s.authService.Authenticate(s.ctx, "token")

	s.ErrorIs(err, ErrUnauthenticated)
}

func (s *AuthServiceTestSuite) TestAuthenticate_InvalidToken() {
	s.tokenService.EXPECT().ValidateAccessToken("bad").Return(nil, ErrInvalidToken)

	_, err := s.authService.Authenticate(s.ctx, "bad")

	s.ErrorIs(err, ErrInvalidToken)
}

func (s *AuthServiceTestSuite) TestSetup_CreatesAdmin() {
	s.memberRepo.EXPECT().Count(s.ctx).Return(int64(0), nil)
	s.passwordService.EXPECT().HashPassword("hunter22").Return("hash", nil)
	s.memberRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, member *models.Member) error {
			s.Equal("Asha", member.Name)
			s.Equal(models.RoleAdmin, member.Role)
			s.Equal("hash", member.PasswordHash)
			member.ID = uuid.New()
			return nil
		})
	s.tokenService.EXPECT().GenerateAccessToken(gomock.Any()).Return("token", time.Now().Add(time.Hour), nil)

	resp, err := s.authService.Setup(s.ctx, &dto.SetupRequest{
		Name:            " Asha ",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	})

	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, resp.Member.Role)
	s.Equal([]string{events.SetupCompleted}, s.publisher.Types())
}

func (s *AuthServiceTestSuite) TestSetup_RefusedOnceMembersExist() {
	s.memberRepo.EXPECT().Count(s.ctx).Return(int64(1), nil)

	_, err := s.authService.Setup(s.ctx, &dto.SetupRequest{Name: "Asha", Password: "pw12", ConfirmPassword: "pw12"})

	s.ErrorIs(err, ErrSetupCompleted)
	s.Empty(s.publisher.Events())
}

func (s *AuthServiceTestSuite) TestSetup_PasswordMismatch() {
	s.memberRepo.EXPECT().Count(s.ctx).Return(int64(0), nil)

	_, err := s.authService.Setup(s.ctx, &dto.SetupRequest{Name: "Asha", Password: "pw12", ConfirmPassword: "pw13"})

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("confirmPassword", verr.Field)
	s.Equal(KindMismatch, verr.Kind)
}

func (s *AuthServiceTestSuite) TestSetup_BlankName() {
	s.memberRepo.EXPECT().Count(s.ctx).Return(int64(0), nil)

	_, err := s.authService.Setup(s.ctx, &dto.SetupRequest{Name: "  ", Password: "pw12", ConfirmPassword: "pw12"})

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("name", verr.Field)
	s.Equal(KindRequired, verr.Kind)
}

func (s *AuthServiceTestSuite) TestSetup_ConcurrentCreateLoses() {
	s.memberRepo.EXPECT().Count(s.ctx).Return(int64(0), nil)
	s.passwordService.EXPECT().HashPassword("pw12").Return("hash", nil)
	s.memberRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(repositories.ErrMemberAlreadyExists)

	_, err := s.authService.Setup(s.ctx, &dto.SetupRequest{Name: "Asha", Password: "pw12", ConfirmPassword: "pw12"})

	s.ErrorIs(err, ErrSetupCompleted)
}

func (s *AuthServiceTestSuite) TestNeedsSetup() {
	s.memberRepo.EXPECT().Count(s.ctx).Return(int64(0), nil)
	needs, err := s.authService.NeedsSetup(s.ctx)
	s.NoError(err)
	s.True(needs)

	s.memberRepo.EXPECT().Count(s.ctx).Return(int64(2), nil)
	needs, err = s.authService.NeedsSetup(s.ctx)
	s.NoError(err)
	s.False(needs)
}
