package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Transaction is a single income or expense entry. Kind decides which
// ledger it lives in.
type Transaction struct {
	ID           string
	Kind         Kind
	ProfileID    string
	CategoryID   string
	CategoryName string // joined on read, empty when the category is gone
	Name         string
	Icon         string
	Amount       decimal.Decimal
	Date         time.Time // calendar date at midnight UTC
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DateOf truncates t to its calendar date in t's own location and returns
// that date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// MonthBounds returns the first and last calendar day of the month that
// contains t.
func MonthBounds(t time.Time) (first, last time.Time) {
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}
