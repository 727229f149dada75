package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// StorageKey holds the persisted session.
	StorageKey = "household_ledger_user"
	// RememberKey holds the remembered login form values.
	RememberKey = "household_ledger_remember"
)

var (
	ErrInvalidCredentials = errors.New("incorrect name or password")
	ErrMissingCredentials = errors.New("name and password are required")
)

// Verifier checks a name and password and returns the resulting session.
type Verifier interface {
	VerifyLogin(ctx context.Context, name, password string) (*Session, error)
}

// Revoker invalidates a session token server side.
type Revoker interface {
	Logout(ctx context.Context, token string) error
}

// Credentials are the remembered login form values.
type Credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Manager owns the client-side session lifecycle.
type Manager struct {
	verifier Verifier
	store    Store
	logger   *slog.Logger
}

// NewManager creates a session manager.
func NewManager(verifier Verifier, store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{verifier: verifier, store: store, logger: logger}
}

// Login verifies the credentials and persists the session on success.
// Every verification failure is reported as ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, name, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	sess, err := m.verifier.VerifyLogin(ctx, name, password)
	if err != nil {
		m.logger.Warn("Login failed", "name", name, "error", err)
		return nil, ErrInvalidCredentials
	}
	if sess == nil || !sess.Actor.Valid() {
		m.logger.Warn("Login returned an invalid session", "name", name)
		return nil, ErrInvalidCredentials
	}

	if err := m.save(sess); err != nil {
		return nil, err
	}

	m.logger.Info("Logged in", "member_id", sess.Actor.ID, "role", sess.Actor.Role)
	return sess, nil
}

// Restore returns the persisted session, or nil when there is none.
// A malformed entry is removed.
func (m *Manager) Restore() *Session {
	raw, ok, err := m.store.Get(StorageKey)
	if err != nil {
		m.logger.Warn("Failed to read session state", "error", err)
		m.clear()
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		m.logger.Warn("Discarding malformed session", "error", err)
		m.clear()
		return nil
	}

	if !sess.Actor.Valid() {
		m.logger.Warn("Discarding session with invalid actor")
		m.clear()
		return nil
	}

	return &sess
}

// Logout clears the persisted session. Server-side revocation is attempted
// when the verifier supports it, and its failure does not stop the logout.
func (m *Manager) Logout(ctx context.Context) error {
	sess := m.Restore()

	if sess != nil && sess.Token != "" {
		if revoker, ok := m.verifier.(Revoker); ok {
			if err := revoker.Logout(ctx, sess.Token); err != nil {
				m.logger.Warn("Failed to revoke token", "error", err)
			}
		}
	}

	if err := m.store.Delete(StorageKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

// Remember stores the login form values for the next start.
// The password is only base64 encoded, not encrypted.
func (m *Manager) Remember(name, password string) error {
	m.logger.Warn("Remembered credentials are stored with reversible encoding, not encryption")

	data, err := json.Marshal(Credentials{Name: name, Password: password})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := m.store.Set(RememberKey, base64.StdEncoding.EncodeToString(data)); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	return nil
}

// Recall returns remembered login form values, if any.
func (m *Manager) Recall() (Credentials, bool) {
	raw, ok, err := m.store.Get(RememberKey)
	if err != nil || !ok || raw == "" {
		return Credentials{}, false
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		_ = m.store.Delete(RememberKey)
		return Credentials{}, false
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		_ = m.store.Delete(RememberKey)
		return Credentials{}, false
	}

	return creds, true
}

// Forget removes remembered login form values.
func (m *Manager) Forget() error {
	return m.store.Delete(RememberKey)
}

func (m *Manager) save(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := m.store.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	return nil
}

func (m *Manager) clear() {
	if err := m.store.Delete(StorageKey); err != nil {
		m.logger.Warn("Failed to clear session state", "error", err)
	}
}
