package tui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"household-ledger/internal/aggregation"
	"household-ledger/internal/client"
	"household-ledger/internal/dto"
	"household-ledger/internal/models"
	"household-ledger/internal/session"
	"household-ledger/internal/shell"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeAPI struct {
	mu sync.Mutex

	dashboard    *dto.DashboardResponse
	dashboardErr error
	members      []dto.MemberResponse
	memberCalls  int

	transactions    *dto.ListTransactionsResponse
	transactionsErr error
	queries         []dto.TransactionQuery

	overview      *dto.OverviewResponse
	reportQueries []dto.ReportQuery

	exportBody string
	exportName string
}

func (f *fakeAPI) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	return f.dashboard, f.dashboardErr
}

func (f *fakeAPI) Members(ctx context.Context) ([]dto.MemberResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberCalls++
	return f.members, nil
}

func (f *fakeAPI) Transactions(ctx context.Context, query dto.TransactionQuery) (*dto.ListTransactionsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.transactions, f.transactionsErr
}

func (f *fakeAPI) Overview(ctx context.Context, query dto.ReportQuery) (*dto.OverviewResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportQueries = append(f.reportQueries, query)
	return f.overview, nil
}

func (f *fakeAPI) ExportReport(ctx context.Context, query dto.ReportQuery, w io.Writer) (string, error) {
	_, err := io.WriteString(w, f.exportBody)
	return f.exportName, err
}

type ModelTestSuite struct {
	suite.Suite
	api    *fakeAPI
	admin  *session.Session
	member *session.Session
	bob    dto.MemberResponse
}

func TestModelTestSuite(t *testing.T) {
	suite.Run(t, new(ModelTestSuite))
}

func (s *ModelTestSuite) SetupTest() {
	s.admin = session.New(uuid.New(), "Asha", models.RoleAdmin, "admin-token")
	s.member = session.New(uuid.New(), "Bob", models.RoleMember, "member-token")
	s.bob = dto.MemberResponse{ID: s.member.MemberID(), Name: "Bob", Role: models.RoleMember}

	s.api = &fakeAPI{
		dashboard: &dto.DashboardResponse{
			Dashboard: aggregation.Dashboard{
				Summary: aggregation.Summary{
					Credit:  decimal.NewFromInt(1000),
					Debit:   decimal.NewFromInt(500),
					Balance: decimal.NewFromInt(500),
				},
				TransactionCount: 3,
			},
		},
		members: []dto.MemberResponse{
			{ID: s.admin.MemberID(), Name: "Asha", Role: models.RoleAdmin},
			s.bob,
		},
		transactions: &dto.ListTransactionsResponse{
			Transactions: []dto.TransactionResponse{
				{ID: uuid.New(), Type: models.TransactionTypeDebit, Amount: decimal.NewFromInt(300), CategoryName: "Food", TransactionDate: "2025-01-20"},
				{ID: uuid.New(), Type: models.TransactionTypeCredit, Amount: decimal.NewFromInt(1000), CategoryName: "Salary", TransactionDate: "2025-01-05"},
			},
			Count: 2,
		},
		overview: &dto.OverviewResponse{
			YearOverview: aggregation.BuildYearOverview(nil, 2025, nil),
		},
	}
}

func (s *ModelTestSuite) newModel(sess *session.Session) Model {
	return New(s.api, sess, Config{
		ExportDir: s.T().TempDir(),
		Now:       func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func step(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyPress(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// drain runs cmd and any batched commands and returns their messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func (s *ModelTestSuite) deliver(m Model, cmd tea.Cmd) Model {
	for _, msg := range drain(cmd) {
		m, _ = step(m, msg)
	}
	return m
}

func (s *ModelTestSuite) TestNew_StartsOnDashboardWithInitialLoadPending() {
	m := s.newModel(s.admin)

	s.Equal(shell.TabDashboard, m.nav.Active())
	s.Equal(1, m.pending)
	s.Equal(uint64(1), m.refresher.Token())
	s.Equal(filter{Year: 2025, MemberID: allMembers}, m.filter)
	s.Contains(m.nav.Tabs(), shell.TabMembers)

	s.NotContains(s.newModel(s.member).nav.Tabs(), shell.TabMembers)
}

func (s *ModelTestSuite) TestLoadSummary_AdminFetchesMembers() {
	m := s.newModel(s.admin)

	m = s.deliver(m, m.loadSummary(m.refresher.Token()))

	s.Equal(0, m.pending)
	s.Require().NotNil(m.dashboard)
	s.Equal(3, m.dashboard.TransactionCount)
	s.Len(m.members, 2)
	s.Equal(1, s.api.memberCalls)
	s.Empty(m.notice)
	s.Contains(m.View(), "Balance")
}

func (s *ModelTestSuite) TestLoadSummary_MemberSkipsMembers() {
	m := s.newModel(s.member)

	m = s.deliver(m, m.loadSummary(m.refresher.Token()))

	s.NotNil(m.dashboard)
	s.Empty(m.members)
	s.Equal(0, s.api.memberCalls)
}

func (s *ModelTestSuite) TestSummary_StaleTokenIsDropped() {
	m := s.newModel(s.admin)
	stale := m.loadSummary(m.refresher.Token())

	m, _ = step(m, keyPress("r"))
	m = s.deliver(m, stale)

	s.Nil(m.dashboard)
}

func (s *ModelTestSuite) TestSummary_FailureKeepsPreviousData() {
	m := s.newModel(s.admin)
	m = s.deliver(m, m.loadSummary(m.refresher.Token()))
	previous := m.dashboard

	s.api.dashboardErr = errors.New("connection refused")
	m, cmd := step(m, keyPress("r"))
	m = s.deliver(m, cmd)

	s.Same(previous, m.dashboard)
	s.Equal("Could not load the latest data. Showing what was loaded before.", m.notice)
}

func (s *ModelTestSuite) TestSummary_UnauthorizedAsksToSignInAgain() {
	m := s.newModel(s.member)
	s.api.dashboardErr = &client.RemoteError{StatusCode: http.StatusUnauthorized}

	m = s.deliver(m, m.loadSummary(m.refresher.Token()))

	s.Contains(m.notice, "ledger login")
	s.Nil(m.dashboard)
}

func (s *ModelTestSuite) TestSwipe_MovesToHistoryAndLoads() {
	m := s.newModel(s.admin)

	m, cmd := step(m, keyPress("l"))
	s.Equal(shell.TabHistory, m.nav.Active())
	s.Equal(2, m.pending)

	m = s.deliver(m, cmd)

	s.Equal(1, m.pending)
	s.Len(m.history.Rows(), 2)
	s.Require().Len(s.api.queries, 1)
	s.Equal(dto.TransactionQuery{Year: 2025, MemberID: allMembers, Limit: dto.MaxHistoryLimit}, s.api.queries[0])
	s.Equal("-₹300", m.history.Rows()[0][3])
	s.Equal("20 Jan 2025", m.history.Rows()[0][0])
}

func (s *ModelTestSuite) TestSwipe_StopsAtEdges() {
	m := s.newModel(s.member)

	m, cmd := step(m, keyPress("h"))
	s.Nil(cmd)
	s.Equal(shell.TabDashboard, m.nav.Active())

	m, _ = step(m, keyPress("3"))
	m, cmd = step(m, keyPress("l"))
	s.Nil(cmd)
	s.Equal(shell.TabReports, m.nav.Active())
}

func (s *ModelTestSuite) TestMembersTab_HiddenFromMembers() {
	m := s.newModel(s.member)

	m, cmd := step(m, keyPress("4"))

	s.Nil(cmd)
	s.Equal(shell.TabDashboard, m.nav.Active())
}

func (s *ModelTestSuite) TestHistory_StaleResponseIsDiscarded() {
	m := s.newModel(s.admin)
	m, first := step(m, keyPress("2"))

	m, second := step(m, keyPress("["))
	s.Equal(2024, m.filter.Year)

	s.api.transactions = &dto.ListTransactionsResponse{}
	m = s.deliver(m, second)
	s.Empty(m.history.Rows())

	s.api.transactions = &dto.ListTransactionsResponse{
		Transactions: []dto.TransactionResponse{{Type: models.TransactionTypeCredit, Amount: decimal.NewFromInt(1), TransactionDate: "2025-03-01"}},
	}
	m = s.deliver(m, first)

	s.Empty(m.history.Rows())
	s.Equal(1, m.pending)
}

func (s *ModelTestSuite) TestHistory_FailureKeepsRows() {
	m := s.newModel(s.admin)
	m, cmd := step(m, keyPress("2"))
	m = s.deliver(m, cmd)
	s.Require().Len(m.history.Rows(), 2)

	s.api.transactionsErr = errors.New("timeout")
	m, cmd = step(m, keyPress("]"))
	m = s.deliver(m, cmd)

	s.Len(m.history.Rows(), 2)
	s.NotEmpty(m.notice)
}

func (s *ModelTestSuite) TestCycleMember_AdminOnly() {
	m := s.newModel(s.admin)
	m = s.deliver(m, m.loadSummary(m.refresher.Token()))
	m, _ = step(m, keyPress("3"))

	m, cmd := step(m, keyPress("m"))
	s.Equal(s.admin.MemberID().String(), m.filter.MemberID)
	m = s.deliver(m, cmd)

	m, _ = step(m, keyPress("m"))
	s.Equal(s.bob.ID.String(), m.filter.MemberID)
	s.Contains(m.View(), "Bob")

	m, _ = step(m, keyPress("m"))
	s.Equal(allMembers, m.filter.MemberID)

	plain := s.newModel(s.member)
	plain, _ = step(plain, keyPress("3"))
	plain, cmd = step(plain, keyPress("m"))
	s.Nil(cmd)
	s.Equal(allMembers, plain.filter.MemberID)
}

func (s *ModelTestSuite) TestReports_LoadsOverview() {
	m := s.newModel(s.admin)

	m, cmd := step(m, keyPress("3"))
	m = s.deliver(m, cmd)

	s.Require().NotNil(m.overview)
	s.Require().Len(s.api.reportQueries, 1)
	s.Equal(dto.ReportQuery{Year: 2025, MemberID: allMembers}, s.api.reportQueries[0])
	s.Contains(m.View(), "Money out")
}

func (s *ModelTestSuite) TestRefresh_OnlyWhenAtTop() {
	m := s.newModel(s.admin)
	m, cmd := step(m, keyPress("2"))
	m = s.deliver(m, cmd)

	m, _ = step(m, tea.KeyMsg{Type: tea.KeyDown})
	s.Equal(1, m.history.Cursor())

	token := m.refresher.Token()
	m, cmd = step(m, keyPress("r"))
	s.Nil(cmd)
	s.Equal(token, m.refresher.Token())

	m, _ = step(m, tea.KeyMsg{Type: tea.KeyUp})
	m, cmd = step(m, keyPress("r"))
	s.NotNil(cmd)
	s.Equal(token+1, m.refresher.Token())
}

func (s *ModelTestSuite) TestExport_WritesReportFile() {
	s.api.exportBody = "<html>report</html>"
	s.api.exportName = "household-ledger-2025.html"
	m := s.newModel(s.admin)

	m, cmd := step(m, keyPress("e"))
	s.Nil(cmd)

	m, _ = step(m, keyPress("3"))
	m, cmd = step(m, keyPress("e"))
	m = s.deliver(m, cmd)

	path := filepath.Join(m.cfg.ExportDir, "household-ledger-2025.html")
	s.Equal("Saved "+path, m.status)
	body, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal("<html>report</html>", string(body))
}

func (s *ModelTestSuite) TestQuit() {
	m := s.newModel(s.admin)

	_, cmd := step(m, keyPress("q"))

	s.Require().NotNil(cmd)
	s.IsType(tea.QuitMsg{}, cmd())
}

func TestFailureNotice(t *testing.T) {
	assert.Contains(t, failureNotice(&client.RemoteError{StatusCode: http.StatusForbidden}), "access")
	assert.Contains(t, failureNotice(context.DeadlineExceeded), "Could not load")
}

func TestRun_RequiresSession(t *testing.T) {
	err := Run(context.Background(), &fakeAPI{}, nil, Config{})
	require.Error(t, err)
}
