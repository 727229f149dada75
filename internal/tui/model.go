// Package tui is the terminal client of the ledger. It draws the same tabs
// as the web shell and keeps the previously loaded data on screen when a
// fetch fails.
package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"household-ledger/internal/client"
	"household-ledger/internal/dto"
	"household-ledger/internal/report"
	"household-ledger/internal/session"
	"household-ledger/internal/shell"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultTimeout = 15 * time.Second
	allMembers     = "all"
)

// API is the part of the ledger client the TUI reads from.
type API interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Transactions(ctx context.Context, query dto.TransactionQuery) (*dto.ListTransactionsResponse, error)
	Overview(ctx context.Context, query dto.ReportQuery) (*dto.OverviewResponse, error)
	Members(ctx context.Context) ([]dto.MemberResponse, error)
	ExportReport(ctx context.Context, query dto.ReportQuery, w io.Writer) (string, error)
}

var _ API = (*client.Client)(nil)

// Config holds TUI settings. Zero values fall back to defaults.
type Config struct {
	Timeout        time.Duration
	ExportDir      string
	CurrencySymbol string
	Now            func() time.Time
	Logger         *slog.Logger
}

// Model is the bubbletea model of the ledger client.
type Model struct {
	api    API
	sess   *session.Session
	cfg    Config
	keys   KeyMap
	format report.Formatter
	logger *slog.Logger

	nav          *shell.Navigator
	refresher    *shell.Refresher
	historyGuard *shell.Latest[filter]
	reportsGuard *shell.Latest[filter]

	filter filter

	dashboard *dto.DashboardResponse
	members   []dto.MemberResponse
	history   table.Model
	overview  *dto.OverviewResponse

	spinner spinner.Model
	help    help.Model
	pending int
	notice  string
	status  string

	width  int
	height int
}

// New creates the model for sess. The first summary load is already
// counted as pending; Init issues it.
func New(api API, sess *session.Session, cfg Config) Model {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		api:          api,
		sess:         sess,
		cfg:          cfg,
		keys:         DefaultKeyMap(),
		format:       report.NewFormatter(cfg.CurrencySymbol),
		logger:       logger,
		nav:          shell.NewNavigator(sess),
		refresher:    shell.NewRefresher(nil),
		historyGuard: &shell.Latest[filter]{},
		reportsGuard: &shell.Latest[filter]{},
		filter:       filter{Year: cfg.Now().Year(), MemberID: allMembers},
		history:      newHistoryTable(sess.IsAdmin()),
		spinner:      s,
		help:         help.New(),
		pending:      1,
	}
	m.refresher.Bump()

	return m
}

// Init loads the dashboard.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSummary(m.refresher.Token()), m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.history.SetHeight(max(5, msg.Height-8))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case summaryLoadedMsg:
		m.pending--
		if msg.token != m.refresher.Token() {
			return m, nil
		}
		if msg.err != nil {
			m.fail("dashboard", msg.err)
			return m, nil
		}
		m.dashboard = msg.dashboard
		if msg.members != nil {
			m.members = msg.members
		}
		m.notice = ""
		return m, nil

	case historyLoadedMsg:
		m.pending--
		m.historyGuard.Apply(msg.ticket, func() {
			if msg.err != nil {
				m.fail("history", msg.err)
				return
			}
			m.history.SetRows(historyRows(msg.resp.Transactions, m.format, m.sess.IsAdmin()))
			m.history.GotoTop()
			m.notice = ""
		})
		return m, nil

	case overviewLoadedMsg:
		m.pending--
		m.reportsGuard.Apply(msg.ticket, func() {
			if msg.err != nil {
				m.fail("overview", msg.err)
				return
			}
			m.overview = msg.resp
			m.notice = ""
		})
		return m, nil

	case reportExportedMsg:
		m.pending--
		if msg.err != nil {
			m.fail("export", msg.err)
			return m, nil
		}
		m.status = "Saved " + msg.path
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dashboard):
		return m.show(shell.TabDashboard)
	case key.Matches(msg, m.keys.History):
		return m.show(shell.TabHistory)
	case key.Matches(msg, m.keys.Reports):
		return m.show(shell.TabReports)
	case key.Matches(msg, m.keys.Members):
		return m.show(shell.TabMembers)

	case key.Matches(msg, m.keys.Next):
		if m.nav.Swipe(-shell.SwipeThreshold) {
			return m.enter()
		}
		return m, nil
	case key.Matches(msg, m.keys.Previous):
		if m.nav.Swipe(shell.SwipeThreshold) {
			return m.enter()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.nav.Pull(shell.PullThreshold, m.atTop()) {
			return m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.PreviousYear):
		return m.shiftYear(-1)
	case key.Matches(msg, m.keys.NextYear):
		return m.shiftYear(1)
	case key.Matches(msg, m.keys.CycleMember):
		return m.cycleMember()

	case key.Matches(msg, m.keys.Export):
		if m.nav.Active() != shell.TabReports {
			return m, nil
		}
		m.pending++
		m.status = ""
		return m, m.exportReport(m.filter)
	}

	if m.nav.Active() == shell.TabHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) show(tab shell.Tab) (tea.Model, tea.Cmd) {
	if !m.nav.Select(tab) {
		return m, nil
	}
	return m.enter()
}

// enter loads the data of the newly active tab.
func (m Model) enter() (tea.Model, tea.Cmd) {
	m.status = ""
	cmd := m.loadActive()
	return m, cmd
}

// refresh reloads the summary and the active tab. Responses to earlier
// refreshes are dropped when they arrive.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.pending++
	cmds := []tea.Cmd{m.loadSummary(m.refresher.Bump())}
	if cmd := m.loadActive(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// loadActive begins a guarded request for the active tab, if it has one.
// It must be called on the model that Update returns.
func (m *Model) loadActive() tea.Cmd {
	switch m.nav.Active() {
	case shell.TabHistory:
		m.pending++
		return m.loadHistory(m.historyGuard.Begin(m.filter))
	case shell.TabReports:
		m.pending++
		return m.loadOverview(m.reportsGuard.Begin(m.filter))
	default:
		return nil
	}
}

func (m Model) shiftYear(delta int) (tea.Model, tea.Cmd) {
	if !m.filtered() {
		return m, nil
	}
	m.filter.Year += delta
	cmd := m.loadActive()
	return m, cmd
}

// cycleMember steps the member filter through all members, then back to
// everyone. Only admins may filter.
func (m Model) cycleMember() (tea.Model, tea.Cmd) {
	if !m.filtered() || !m.sess.IsAdmin() {
		return m, nil
	}

	options := make([]string, 0, len(m.members)+1)
	options = append(options, allMembers)
	for _, member := range m.members {
		options = append(options, member.ID.String())
	}

	next := 0
	for i, id := range options {
		if id == m.filter.MemberID {
			next = (i + 1) % len(options)
			break
		}
	}
	m.filter.MemberID = options[next]

	cmd := m.loadActive()
	return m, cmd
}

func (m Model) filtered() bool {
	active := m.nav.Active()
	return active == shell.TabHistory || active == shell.TabReports
}

// atTop reports whether the active view is scrolled to its start.
func (m Model) atTop() bool {
	if m.nav.Active() == shell.TabHistory {
		return m.history.Cursor() <= 0
	}
	return true
}

// fail keeps the current data and shows a generic notice.
func (m *Model) fail(what string, err error) {
	m.logger.Warn("Failed to load ledger data", "view", what, "error", err)
	m.notice = failureNotice(err)
}

func failureNotice(err error) string {
	switch {
	case client.IsUnauthorized(err):
		return "Your session has ended. Run 'ledger login' to sign in again."
	case client.IsForbidden(err):
		return "You do not have access to this view."
	default:
		return "Could not load the latest data. Showing what was loaded before."
	}
}

// memberName resolves the member filter for display.
func (m Model) memberName(id string) string {
	if id == "" || id == allMembers {
		return "All members"
	}
	for _, member := range m.members {
		if member.ID.String() == id {
			return member.Name
		}
	}
	return id
}
