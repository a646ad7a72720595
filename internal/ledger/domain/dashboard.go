package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecentTransaction is a read-only row of the merged dashboard feed.
type RecentTransaction struct {
	ID        string
	ProfileID string
	Name      string
	Icon      string
	Amount    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Type      Kind
}

// Dashboard is the aggregated overview of a profile.
type Dashboard struct {
	TotalBalance       decimal.Decimal
	TotalIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	RecentIncome       []Transaction
	RecentExpenses     []Transaction
	RecentTransactions []RecentTransaction
}

func (t Transaction) Recent() RecentTransaction {
	return RecentTransaction{
		ID:        t.ID,
		ProfileID: t.ProfileID,
		Name:      t.Name,
		Icon:      t.Icon,
		Amount:    t.Amount,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Type:      t.Kind,
	}
}
