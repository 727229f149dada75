package tui

import (
	"context"
	"fmt"

	"household-ledger/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI for sess and blocks until the user quits or ctx ends.
func Run(ctx context.Context, api API, sess *session.Session, cfg Config) error {
	if sess == nil {
		return fmt.Errorf("tui requires a signed-in session")
	}

	program := tea.NewProgram(
		New(api, sess, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
