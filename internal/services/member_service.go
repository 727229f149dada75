package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"household-ledger/internal/dto"
	"household-ledger/internal/events"
	"household-ledger/internal/models"
	"household-ledger/internal/repositories"
	"household-ledger/internal/session"

	"github.com/google/uuid"
)

// MemberService manages household members
type MemberService struct {
	memberRepo      repositories.MemberRepositoryInterface
	passwordService PasswordServiceInterface
	notify          notifier
	logger          *slog.Logger
}

// NewMemberService creates a new member service
func NewMemberService(
	memberRepo repositories.MemberRepositoryInterface,
	passwordService PasswordServiceInterface,
	publisher events.Publisher,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) MemberServiceInterface {
	n := newNotifier(publisher, metrics, logger)
	return &MemberService{
		memberRepo:      memberRepo,
		passwordService: passwordService,
		notify:          n,
		logger:          n.logger,
	}
}

func (s *MemberService) List(ctx context.Context, sess *session.Session) ([]models.Member, error) {
	if !sess.Can(session.ActionViewAllMembers, uuid.Nil) {
		return nil, ErrForbidden
	}

	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	s.notify.metrics.RecordGauge("members", float64(len(members)), nil)
	return members, nil
}

func (s *MemberService) Create(ctx context.Context, sess *session.Session, req *dto.CreateMemberRequest) (*models.Member, error) {
	if !sess.Can(session.ActionManageMembers, uuid.Nil) {
		return nil, ErrForbidden
	}

	name, err := validateMemberName(req.Name)
	if err != nil {
		return nil, err
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleMember
	}
	if !models.IsValidRole(role) {
		return nil, newValidationError("role", KindInvalid, "role must be admin or member")
	}

	hash, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrMemberAlreadyExists) {
			return nil, ErrMemberAlreadyExists
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.notify.publish(ctx, events.New(events.MemberCreated, sess.MemberID(), member.ID, map[string]string{"role": role}))
	s.notify.count("member_change", map[string]string{"action": "created"})
	s.logger.InfoContext(ctx, "member created",
		"member_id", member.ID,
		"role", role,
		"actor_id", sess.MemberID())

	return member, nil
}

func (s *MemberService) ResetPassword(ctx context.Context, sess *session.Session, memberID uuid.UUID, password string) error {
	if !sess.Can(session.ActionManageMembers, memberID) {
		return ErrForbidden
	}

	hash, err := s.passwordService.HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.memberRepo.UpdatePasswordHash(ctx, memberID, hash); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.notify.publish(ctx, events.New(events.MemberPasswordReset, sess.MemberID(), memberID, nil))
	s.notify.count("member_change", map[string]string{"action": "password_reset"})
	s.logger.InfoContext(ctx, "member password reset",
		"member_id", memberID,
		"actor_id", sess.MemberID())

	return nil
}

// Delete removes a member together with their transactions.
func (s *MemberService) Delete(ctx context.Context, sess *session.Session, memberID uuid.UUID) error {
	if !sess.Can(session.ActionManageMembers, memberID) {
		return ErrForbidden
	}

	if memberID == sess.MemberID() {
		return ErrCannotDeleteSelf
	}

	if err := s.memberRepo.DeleteWithTransactions(ctx, memberID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}

	s.notify.publish(ctx, events.New(events.MemberDeleted, sess.MemberID(), memberID, nil))
	s.notify.count("member_change", map[string]string{"action": "deleted"})
	s.logger.InfoContext(ctx, "member deleted",
		"member_id", memberID,
		"actor_id", sess.MemberID())

	return nil
}

// Names maps member ids to names for display. Non-admins only see themselves.
func (s *MemberService) Names(ctx context.Context, sess *session.Session) (map[uuid.UUID]string, error) {
	if sess == nil {
		return nil, ErrUnauthenticated
	}

	if !sess.IsAdmin() {
		return map[uuid.UUID]string{sess.Actor.ID: sess.Actor.Name}, nil
	}

	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	names := make(map[uuid.UUID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names, nil
}
