package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"household-ledger/internal/dto"
	"household-ledger/internal/shell"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// loadSummary fetches the dashboard and, for admins, the member list in
// parallel.
func (m Model) loadSummary(token uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
		defer cancel()

		msg := summaryLoadedMsg{token: token}
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			dashboard, err := m.api.Dashboard(gctx)
			if err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}
			msg.dashboard = dashboard
			return nil
		})

		if m.sess.IsAdmin() {
			g.Go(func() error {
				members, err := m.api.Members(gctx)
				if err != nil {
					return fmt.Errorf("failed to load members: %w", err)
				}
				msg.members = members
				return nil
			})
		}

		msg.err = g.Wait()
		return msg
	}
}

func (m Model) loadHistory(ticket shell.Ticket[filter]) tea.Cmd {
	f := ticket.Key()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
		defer cancel()

		resp, err := m.api.Transactions(ctx, dto.TransactionQuery{
			Year:     f.Year,
			MemberID: f.MemberID,
			Limit:    dto.MaxHistoryLimit,
		})
		if err != nil {
			return historyLoadedMsg{ticket: ticket, err: fmt.Errorf("failed to load transactions: %w", err)}
		}
		return historyLoadedMsg{ticket: ticket, resp: resp}
	}
}

func (m Model) loadOverview(ticket shell.Ticket[filter]) tea.Cmd {
	f := ticket.Key()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
		defer cancel()

		resp, err := m.api.Overview(ctx, dto.ReportQuery{Year: f.Year, MemberID: f.MemberID})
		if err != nil {
			return overviewLoadedMsg{ticket: ticket, err: fmt.Errorf("failed to load overview: %w", err)}
		}
		return overviewLoadedMsg{ticket: ticket, resp: resp}
	}
}

// exportReport saves the printable report for f into the export directory.
func (m Model) exportReport(f filter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
		defer cancel()

		var buf bytes.Buffer
		name, err := m.api.ExportReport(ctx, dto.ReportQuery{Year: f.Year, MemberID: f.MemberID}, &buf)
		if err != nil {
			return reportExportedMsg{err: fmt.Errorf("failed to export report: %w", err)}
		}
		if name == "" {
			name = fmt.Sprintf("household-ledger-%d.html", f.Year)
		}

		path := filepath.Join(m.cfg.ExportDir, filepath.Base(name))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return reportExportedMsg{err: fmt.Errorf("failed to write report: %w", err)}
		}
		return reportExportedMsg{path: path}
	}
}
