// Package report builds the printable yearly statement from a filtered
// transaction set.
package report

import (
	"time"

	"household-ledger/internal/aggregation"
	"household-ledger/internal/models"
	"household-ledger/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultTitle = "Household Ledger Report"

// Input is everything Build needs. Transactions must already be scoped to
// what the session may see and limited to Year.
type Input struct {
	Title          string
	Year           int
	Session        *session.Session
	Transactions   []models.Transaction
	Categories     aggregation.CategoryLookup
	Members        map[uuid.UUID]string
	CurrencySymbol string
	GeneratedAt    time.Time
}

// Header identifies the report and who produced it.
type Header struct {
	Title       string
	Year        int
	ActorName   string
	ActorRole   string
	GeneratedAt time.Time
}

// CategoryRow is one line of a category table.
type CategoryRow struct {
	Name   string
	Amount decimal.Decimal
	Share  decimal.Decimal
}

// CategoryTable lists one transaction type broken down by category.
type CategoryTable struct {
	Type  string
	Rows  []CategoryRow
	Total decimal.Decimal
}

// LedgerRow is one numbered transaction line.
type LedgerRow struct {
	Number      int
	Date        time.Time
	MemberName  string
	Type        string
	Category    string
	Description string
	Amount      decimal.Decimal
}

// Totals closes the ledger. It is summed from the ledger rows.
type Totals struct {
	Credit  decimal.Decimal
	Debit   decimal.Decimal
	Balance decimal.Decimal
}

// Document is the structured report, independent of layout.
type Document struct {
	Header     Header
	Summary    aggregation.Summary
	Credit     CategoryTable
	Debit      CategoryTable
	Ledger     []LedgerRow
	ShowMember bool
	Totals     Totals
	Format     Formatter
}

// Reconciles reports whether the ledger totals equal the summary figures.
func (d *Document) Reconciles() bool {
	return d.Totals.Credit.Equal(d.Summary.Credit) &&
		d.Totals.Debit.Equal(d.Summary.Debit) &&
		d.Totals.Balance.Equal(d.Summary.Balance)
}

// Build assembles the document for in.
func Build(in Input) *Document {
	title := in.Title
	if title == "" {
		title = DefaultTitle
	}

	generatedAt := in.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	lookup := in.Categories
	if lookup == nil {
		lookup = aggregation.CategoryLookup{}
	}

	summary := aggregation.Summarize(in.Transactions)
	showMember := in.Session.IsAdmin()

	doc := &Document{
		Header: Header{
			Title:       title,
			Year:        in.Year,
			GeneratedAt: generatedAt,
		},
		Summary:    summary,
		Credit:     categoryTable(in.Transactions, models.TransactionTypeCredit, lookup, summary.Credit),
		Debit:      categoryTable(in.Transactions, models.TransactionTypeDebit, lookup, summary.Debit),
		ShowMember: showMember,
		Format:     NewFormatter(in.CurrencySymbol),
	}

	if in.Session != nil {
		doc.Header.ActorName = in.Session.Actor.Name
		doc.Header.ActorRole = in.Session.Actor.Role
	}

	doc.Ledger = ledger(in.Transactions, lookup, in.Members, showMember)
	doc.Totals = totals(doc.Ledger)

	return doc
}

func categoryTable(txns []models.Transaction, transactionType string, lookup aggregation.CategoryLookup, typeTotal decimal.Decimal) CategoryTable {
	breakdown := aggregation.Breakdown(txns, transactionType, lookup)

	table := CategoryTable{
		Type:  transactionType,
		Rows:  make([]CategoryRow, 0, len(breakdown)),
		Total: breakdown.Total(),
	}

	for _, row := range breakdown {
		table.Rows = append(table.Rows, CategoryRow{
			Name:   row.Name,
			Amount: row.Total,
			Share:  aggregation.Share(row.Total, typeTotal),
		})
	}

	return table
}

func ledger(txns []models.Transaction, lookup aggregation.CategoryLookup, members map[uuid.UUID]string, showMember bool) []LedgerRow {
	ordered := aggregation.Canonical(txns)
	rows := make([]LedgerRow, 0, len(ordered))

	for i, t := range ordered {
		row := LedgerRow{
			Number:      i + 1,
			Date:        t.TransactionDate,
			Type:        t.Type,
			Category:    lookup.Resolve(t.CategoryID),
			Description: t.DescriptionText(),
			Amount:      t.Amount,
		}

		if showMember {
			row.MemberName = members[t.MemberID]
		}

		rows = append(rows, row)
	}

	return rows
}

func totals(rows []LedgerRow) Totals {
	t := Totals{Credit: decimal.Zero, Debit: decimal.Zero}

	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeCredit:
			t.Credit = t.Credit.Add(row.Amount)
		case models.TransactionTypeDebit:
			t.Debit = t.Debit.Add(row.Amount)
		}
	}

	t.Balance = t.Credit.Sub(t.Debit)
	return t
}
