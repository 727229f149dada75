// Package aggregation reduces transaction sets into the monthly series,
// category breakdowns and summary figures shown on dashboards and reports.
//
// Every function is pure. Results never depend on the order of the input.
package aggregation

import (
	"sort"
	"time"

	"household-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyAverageDivisor is the fixed number of days used for daily averages,
// whatever the real length of the period.
const DailyAverageDivisor = 30

// OtherLabel is the bucket for transactions without a resolvable category.
const OtherLabel = models.CategoryOther

var (
	hundred = decimal.NewFromInt(100)
	divisor = decimal.NewFromInt(DailyAverageDivisor)
)

// CategoryLookup resolves category ids to display names.
type CategoryLookup map[uuid.UUID]string

// NewCategoryLookup indexes categories by id.
func NewCategoryLookup(categories []models.Category) CategoryLookup {
	lookup := make(CategoryLookup, len(categories))
	for _, c := range categories {
		lookup[c.ID] = c.Name
	}
	return lookup
}

// Resolve returns the category name for id, or OtherLabel when id is nil or unknown.
func (l CategoryLookup) Resolve(id *uuid.UUID) string {
	if id == nil {
		return OtherLabel
	}
	if name, ok := l[*id]; ok && name != "" {
		return name
	}
	return OtherLabel
}

// MonthTotal holds one calendar month of a series.
type MonthTotal struct {
	Month  time.Month      `json:"month"`
	Label  string          `json:"label"`
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
}

// MonthlySeries always holds twelve months in calendar order.
type MonthlySeries struct {
	Year   int            `json:"year"`
	Months [12]MonthTotal `json:"months"`
}

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// CategoryBreakdown lists categories in order of first occurrence.
type CategoryBreakdown []CategoryTotal

// Total sums every row of the breakdown.
func (b CategoryBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, row := range b {
		total = total.Add(row.Total)
	}
	return total
}

// Summary holds the headline figures for a transaction set.
type Summary struct {
	Credit  decimal.Decimal `json:"credit"`
	Debit   decimal.Decimal `json:"debit"`
	Balance decimal.Decimal `json:"balance"`
}

// Monthly partitions txns by the month of their transaction date. Callers
// exclude transactions outside year beforehand; only the month is read here.
func Monthly(txns []models.Transaction, year int) MonthlySeries {
	series := MonthlySeries{Year: year}
	for i := range series.Months {
		month := time.Month(i + 1)
		series.Months[i] = MonthTotal{
			Month:  month,
			Label:  MonthLabel(month),
			Credit: decimal.Zero,
			Debit:  decimal.Zero,
		}
	}

	for _, t := range txns {
		idx := int(t.TransactionDate.Month()) - 1
		if idx < 0 || idx > 11 {
			continue
		}

		switch t.Type {
		case models.TransactionTypeCredit:
			series.Months[idx].Credit = series.Months[idx].Credit.Add(t.Amount)
		case models.TransactionTypeDebit:
			series.Months[idx].Debit = series.Months[idx].Debit.Add(t.Amount)
		}
	}

	return series
}

// Breakdown groups transactions of the given type by resolved category name
// and sums each group. Two ids resolving to the same name share one row.
// Rows appear in order of first occurrence over the canonical ordering of
// txns, so the result is the same for any permutation of the input.
func Breakdown(txns []models.Transaction, transactionType string, lookup CategoryLookup) CategoryBreakdown {
	ordered := Canonical(txns)

	index := make(map[string]int)
	breakdown := CategoryBreakdown{}

	for _, t := range ordered {
		if t.Type != transactionType {
			continue
		}

		name := lookup.Resolve(t.CategoryID)
		i, ok := index[name]
		if !ok {
			index[name] = len(breakdown)
			breakdown = append(breakdown, CategoryTotal{Name: name, Total: t.Amount})
			continue
		}

		breakdown[i].Total = breakdown[i].Total.Add(t.Amount)
	}

	return breakdown
}

// Summarize totals credits and debits. Balance may be negative.
func Summarize(txns []models.Transaction) Summary {
	credit := decimal.Zero
	debit := decimal.Zero

	for _, t := range txns {
		switch t.Type {
		case models.TransactionTypeCredit:
			credit = credit.Add(t.Amount)
		case models.TransactionTypeDebit:
			debit = debit.Add(t.Amount)
		}
	}

	return Summary{
		Credit:  credit,
		Debit:   debit,
		Balance: credit.Sub(debit),
	}
}

// DailyAverage is round(total / 30). Non-positive totals average to zero.
func DailyAverage(total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}
	return total.Div(divisor).Round(0).IntPart()
}

// Share is part as a percentage of total, rounded to one decimal place.
// A zero total yields zero.
func Share(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(1)
}

// Turnover is the sum of money in and money out.
func Turnover(s Summary) decimal.Decimal {
	return s.Credit.Add(s.Debit)
}

// Canonical returns a copy of txns ordered by transaction date, then
// creation time, then id.
func Canonical(txns []models.Transaction) []models.Transaction {
	ordered := make([]models.Transaction, len(txns))
	copy(ordered, txns)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.Before(b.TransactionDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	return ordered
}

// MonthLabel is the three letter English month abbreviation.
func MonthLabel(m time.Month) string {
	return m.String()[:3]
}
