package tui

import (
	"household-ledger/internal/dto"
	"household-ledger/internal/shell"
)

// filter is the year and member selection shared by history and reports.
type filter struct {
	Year     int
	MemberID string
}

// summaryLoadedMsg carries the dashboard and, for admins, the member list.
type summaryLoadedMsg struct {
	dashboard *dto.DashboardResponse
	members   []dto.MemberResponse
	err       error
	token     uint64
}

type historyLoadedMsg struct {
	resp   *dto.ListTransactionsResponse
	err    error
	ticket shell.Ticket[filter]
}

type overviewLoadedMsg struct {
	resp   *dto.OverviewResponse
	err    error
	ticket shell.Ticket[filter]
}

type reportExportedMsg struct {
	path string
	err  error
}
