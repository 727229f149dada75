package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"household-ledger/internal/dto"
	"household-ledger/internal/events"
	"household-ledger/internal/models"
	"household-ledger/internal/repositories"
	"household-ledger/internal/session"

	"github.com/google/uuid"
)

// revokedTokenTTL bounds how long an unparseable token stays blacklisted.
const revokedTokenTTL = 24 * time.Hour

// AuthService handles authentication business logic
type AuthService struct {
	memberRepo           repositories.MemberRepositoryInterface
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface
	passwordService      PasswordServiceInterface
	tokenService         TokenServiceInterface
	notify               notifier
	logger               *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	memberRepo repositories.MemberRepositoryInterface,
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	publisher events.Publisher,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AuthServiceInterface {
	n := newNotifier(publisher, metrics, logger)
	return &AuthService{
		memberRepo:           memberRepo,
		blacklistedTokenRepo: blacklistedTokenRepo,
		passwordService:      passwordService,
		tokenService:         tokenService,
		notify:               n,
		logger:               n.logger,
	}
}

// Login verifies a name and password. Unknown names and wrong passwords
// produce the same error.
func (s *AuthService) Login(ctx context.Context, name, password string) (*dto.LoginResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		s.recordLogin("login_failed")
		return nil, ErrInvalidCredentials
	}

	member, err := s.memberRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			s.recordLogin("login_failed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if !s.passwordService.ComparePassword(password, member.PasswordHash) {
		s.logger.InfoContext(ctx, "login rejected", "member_id", member.ID)
		s.recordLogin("login_failed")
		return nil, ErrInvalidCredentials
	}

	resp, err := s.loginResponse(member)
	if err != nil {
		return nil, err
	}

	s.recordLogin("login_success")
	s.logger.InfoContext(ctx, "member logged in", "member_id", member.ID, "role", member.Role)

	return resp, nil
}

// Logout blacklists the token's JTI. Expired or otherwise invalid tokens
// are blacklisted too when their JTI can be read.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		jti, _ := s.tokenService.GetJTI(accessToken)
		if jti != "" {
			if err := s.blacklistToken(ctx, jti, uuid.Nil, time.Now().Add(revokedTokenTTL)); err != nil {
				s.logger.ErrorContext(ctx, "failed to blacklist invalid token",
					"error", err,
					"jti", jti)
			}
		}
		return nil
	}

	memberID, _ := uuid.Parse(claims.MemberID)

	expiry, _ := s.tokenService.GetTokenExpiry(accessToken)
	if err := s.blacklistToken(ctx, claims.ID, memberID, expiry); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	s.recordLogin("logout")
	s.logger.InfoContext(ctx, "member logged out", "member_id", memberID)

	return nil
}

// Authenticate turns a bearer token into a session. The member must still
// exist, so deleting a member ends their sessions.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*session.Session, error) {
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	if _, err := s.blacklistedTokenRepo.GetByJTI(ctx, claims.ID); err == nil {
		return nil, ErrTokenRevoked
	} else if !errors.Is(err, repositories.ErrTokenNotFound) {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	memberID, err := uuid.Parse(claims.MemberID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return session.New(member.ID, member.Name, member.Role, ""), nil
}

// Setup creates the first admin. It is refused once any member exists.
func (s *AuthService) Setup(ctx context.Context, req *dto.SetupRequest) (*dto.LoginResponse, error) {
	needsSetup, err := s.NeedsSetup(ctx)
	if err != nil {
		return nil, err
	}
	if !needsSetup {
		return nil, ErrSetupCompleted
	}

	name, err := validateMemberName(req.Name)
	if err != nil {
		return nil, err
	}

	if req.Password != req.ConfirmPassword {
		return nil, newValidationError("confirmPassword", KindMismatch, "passwords do not match")
	}

	hash, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Member{
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	if err := s.memberRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrMemberAlreadyExists) {
			return nil, ErrSetupCompleted
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.notify.publish(ctx, events.New(events.SetupCompleted, admin.ID, admin.ID, nil))
	s.logger.InfoContext(ctx, "household setup completed", "member_id", admin.ID)

	return s.loginResponse(admin)
}

// NeedsSetup reports whether no member exists yet.
func (s *AuthService) NeedsSetup(ctx context.Context) (bool, error) {
	count, err := s.memberRepo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count members: %w", err)
	}
	return count == 0, nil
}

func (s *AuthService) loginResponse(member *models.Member) (*dto.LoginResponse, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(member)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &dto.LoginResponse{
		TokenResponse: dto.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresAt:   expiresAt,
		},
		Member: dto.NewMemberResponse(member),
	}, nil
}

func (s *AuthService) blacklistToken(ctx context.Context, jti string, memberID uuid.UUID, expiresAt time.Time) error {
	token := &models.BlacklistedToken{
		JTI:       jti,
		MemberID:  memberID,
		ExpiresAt: expiresAt,
	}
	return s.blacklistedTokenRepo.Create(ctx, token)
}

func (s *AuthService) recordLogin(eventType string) {
	s.notify.count("authentication_event", map[string]string{"event_type": eventType})
}

// validateMemberName trims name and checks it is present and short enough.
func validateMemberName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("name", KindRequired, "name is required")
	}
	if utf8.RuneCountInString(name) > models.MaxMemberNameLength {
		return "", newValidationError("name", KindTooLong,
			fmt.Sprintf("name must not exceed %d characters", models.MaxMemberNameLength))
	}
	return name, nil
}
