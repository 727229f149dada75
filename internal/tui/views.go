package tui

import (
	"fmt"
	"strings"

	"household-ledger/internal/aggregation"
	"household-ledger/internal/dto"
	"household-ledger/internal/models"
	"household-ledger/internal/report"
	"household-ledger/internal/shell"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var tabTitles = map[shell.Tab]string{
	shell.TabDashboard: "Dashboard",
	shell.TabHistory:   "History",
	shell.TabReports:   "Reports",
	shell.TabMembers:   "Members",
}

// View renders the active tab.
func (m Model) View() string {
	var body string
	switch m.nav.Active() {
	case shell.TabHistory:
		body = m.renderHistory()
	case shell.TabReports:
		body = m.renderReports()
	case shell.TabMembers:
		body = m.renderMembers()
	default:
		body = m.renderDashboard()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		"",
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, len(m.nav.Tabs()))
	for _, tab := range m.nav.Tabs() {
		if tab == m.nav.Active() {
			tabs = append(tabs, activeTabStyle.Render(tabTitles[tab]))
			continue
		}
		tabs = append(tabs, tabStyle.Render(tabTitles[tab]))
	}

	who := labelStyle.Render(fmt.Sprintf("%s (%s)", m.sess.Actor.Name, m.sess.Actor.Role))
	if m.pending > 0 {
		who = m.spinner.View() + " " + who
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, "  ", who)...)
}

func (m Model) renderFooter() string {
	lines := make([]string, 0, 3)
	if m.notice != "" {
		lines = append(lines, noticeStyle.Render(m.notice))
	}
	if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m Model) renderDashboard() string {
	if m.dashboard == nil {
		return labelStyle.Render("Loading dashboard...")
	}
	d := m.dashboard

	figures := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Balance  "+m.format.Currency(d.Summary.Balance)),
		"",
		m.figure("Money in", creditStyle.Render(m.format.Currency(d.Summary.Credit))),
		m.figure("Money out", debitStyle.Render(m.format.Currency(d.Summary.Debit))),
		m.figure("Daily in", m.format.Currency(decimal.NewFromInt(d.AverageDailyCredit))),
		m.figure("Daily out", m.format.Currency(decimal.NewFromInt(d.AverageDailyDebit))),
		m.figure("Turnover", m.format.Currency(d.Turnover)),
		m.figure("Transactions", fmt.Sprintf("%d", d.TransactionCount)),
	)

	recent := []string{titleStyle.Render("Recent")}
	if len(d.Recent) == 0 {
		recent = append(recent, labelStyle.Render("No transactions yet"))
	}
	for _, t := range d.Recent {
		recent = append(recent, fmt.Sprintf("%s  %-14s %s",
			displayDate(t.TransactionDate, m.format),
			t.CategoryName,
			signed(m.format, t.Type, t.Amount),
		))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		boxStyle.Render(figures),
		"  ",
		boxStyle.Render(strings.Join(recent, "\n")),
	)
}

func (m Model) figure(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-13s", label)) + value
}

func (m Model) renderFilter() string {
	text := fmt.Sprintf("%d", m.filter.Year)
	if m.sess.IsAdmin() {
		text += " · " + m.memberName(m.filter.MemberID)
	}
	return labelStyle.Render(text)
}

func (m Model) renderHistory() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderFilter(), m.history.View())
}

func (m Model) renderReports() string {
	if m.overview == nil {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderFilter(), labelStyle.Render("Loading overview..."))
	}
	o := m.overview

	months := []string{titleStyle.Render("Month        In           Out")}
	for _, month := range o.Monthly.Months {
		months = append(months, fmt.Sprintf("%-5s %12s %12s",
			month.Label,
			m.format.Currency(month.Credit),
			m.format.Currency(month.Debit),
		))
	}
	months = append(months, "",
		m.figure("Daily in", m.format.Currency(decimal.NewFromInt(o.AverageDailyCredit))),
		m.figure("Daily out", m.format.Currency(decimal.NewFromInt(o.AverageDailyDebit))),
		m.figure("Balance", m.format.Currency(o.Summary.Balance)),
	)

	breakdowns := lipgloss.JoinVertical(
		lipgloss.Left,
		renderBreakdown("Money in", o.CreditBreakdown, o.Summary.Credit, m.format),
		"",
		renderBreakdown("Money out", o.DebitBreakdown, o.Summary.Debit, m.format),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderFilter(),
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			boxStyle.Render(strings.Join(months, "\n")),
			"  ",
			boxStyle.Render(breakdowns),
		),
	)
}

func renderBreakdown(title string, breakdown aggregation.CategoryBreakdown, total decimal.Decimal, format report.Formatter) string {
	lines := []string{titleStyle.Render(title)}
	if len(breakdown) == 0 {
		return strings.Join(append(lines, labelStyle.Render("Nothing recorded")), "\n")
	}
	for _, row := range breakdown {
		lines = append(lines, fmt.Sprintf("%-16s %12s %7s",
			row.Name,
			format.Currency(row.Total),
			format.Share(aggregation.Share(row.Total, total)),
		))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMembers() string {
	if len(m.members) == 0 {
		return labelStyle.Render("No members loaded")
	}
	lines := []string{titleStyle.Render(fmt.Sprintf("%-20s %-8s %s", "Name", "Role", "Joined"))}
	for _, member := range m.members {
		lines = append(lines, fmt.Sprintf("%-20s %-8s %s",
			member.Name,
			member.Role,
			m.format.Date(member.CreatedAt),
		))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func newHistoryTable(showMember bool) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Description", Width: 28},
		{Title: "Amount", Width: 14},
	}
	if showMember {
		columns = append(columns, table.Column{Title: "Member", Width: 14})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(border).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#fafafa")).
		Background(primary).
		Bold(false)
	t.SetStyles(s)

	return t
}

func historyRows(txns []dto.TransactionResponse, format report.Formatter, showMember bool) []table.Row {
	rows := make([]table.Row, 0, len(txns))
	for _, t := range txns {
		row := table.Row{
			displayDate(t.TransactionDate, format),
			t.CategoryName,
			t.Description,
			format.Signed(t.Type, t.Amount),
		}
		if showMember {
			row = append(row, t.MemberName)
		}
		rows = append(rows, row)
	}
	return rows
}

func signed(format report.Formatter, transactionType string, amount decimal.Decimal) string {
	text := format.Signed(transactionType, amount)
	if transactionType == models.TransactionTypeDebit {
		return debitStyle.Render(text)
	}
	return creditStyle.Render(text)
}

func displayDate(value string, format report.Formatter) string {
	date, err := models.ParseDate(value)
	if err != nil {
		return value
	}
	return format.Date(date)
}
