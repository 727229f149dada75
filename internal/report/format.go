package report

import (
	"time"

	"household-ledger/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol is used when no symbol is configured.
const DefaultCurrencySymbol = "₹"

// DateLayout is how ledger dates are printed.
const DateLayout = "02 Jan 2006"

// Formatter renders numbers for the report.
type Formatter struct {
	Symbol string
}

// NewFormatter returns a formatter for symbol, falling back to the default.
func NewFormatter(symbol string) Formatter {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return Formatter{Symbol: symbol}
}

// Currency rounds to whole units and groups thousands: 1234567.4 -> ₹1,234,567.
// Negative amounts put the sign before the symbol.
func (f Formatter) Currency(amount decimal.Decimal) string {
	units := amount.Round(0).IntPart()
	if units < 0 {
		return "-" + f.Symbol + humanize.Comma(-units)
	}
	return f.Symbol + humanize.Comma(units)
}

// Signed prefixes credits with + and debits with -.
func (f Formatter) Signed(transactionType string, amount decimal.Decimal) string {
	abs := f.Currency(amount.Abs())
	if transactionType == models.TransactionTypeDebit {
		return "-" + abs
	}
	return "+" + abs
}

// Share renders a percentage with one decimal place.
func (f Formatter) Share(share decimal.Decimal) string {
	return share.StringFixed(1) + "%"
}

// Date renders a calendar date.
func (f Formatter) Date(t time.Time) string {
	return t.Format(DateLayout)
}

// Timestamp renders the generation time.
func (f Formatter) Timestamp(t time.Time) string {
	return t.Format("02 Jan 2006 15:04 MST")
}
