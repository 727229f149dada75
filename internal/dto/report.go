package dto

import "household-ledger/internal/aggregation"

// ReportQuery selects the year and member of a report
type ReportQuery struct {
	Year     int    `query:"year" validate:"omitempty,min=1900,max=9999"`
	MemberID string `query:"memberId" validate:"omitempty,member_filter"`
}

// DashboardResponse is the all-time dashboard for the session's scope
type DashboardResponse struct {
	aggregation.Dashboard
	Recent []TransactionResponse `json:"recent"`
}

// OverviewResponse carries the chart data for one year
type OverviewResponse struct {
	aggregation.YearOverview
	AverageDailyCredit int64 `json:"averageDailyCredit"`
	AverageDailyDebit  int64 `json:"averageDailyDebit"`
}
