package aggregation

import (
	"household-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Dashboard is the all-time snapshot shown after login.
type Dashboard struct {
	Summary            Summary         `json:"summary"`
	AverageDailyCredit int64           `json:"averageDailyCredit"`
	AverageDailyDebit  int64           `json:"averageDailyDebit"`
	Turnover           decimal.Decimal `json:"turnover"`
	TransactionCount   int             `json:"transactionCount"`
}

// BuildDashboard computes the dashboard figures for txns.
func BuildDashboard(txns []models.Transaction) Dashboard {
	summary := Summarize(txns)
	return Dashboard{
		Summary:            summary,
		AverageDailyCredit: DailyAverage(summary.Credit),
		AverageDailyDebit:  DailyAverage(summary.Debit),
		Turnover:           Turnover(summary),
		TransactionCount:   len(txns),
	}
}

// YearOverview bundles every aggregate the reports screen charts for one year.
type YearOverview struct {
	Year            int               `json:"year"`
	Summary         Summary           `json:"summary"`
	Monthly         MonthlySeries     `json:"monthly"`
	CreditBreakdown CategoryBreakdown `json:"creditBreakdown"`
	DebitBreakdown  CategoryBreakdown `json:"debitBreakdown"`
}

// BuildYearOverview aggregates txns, which must already be limited to year.
func BuildYearOverview(txns []models.Transaction, year int, lookup CategoryLookup) YearOverview {
	return YearOverview{
		Year:            year,
		Summary:         Summarize(txns),
		Monthly:         Monthly(txns, year),
		CreditBreakdown: Breakdown(txns, models.TransactionTypeCredit, lookup),
		DebitBreakdown:  Breakdown(txns, models.TransactionTypeDebit, lookup),
	}
}
