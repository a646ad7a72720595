package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"golang.org/x/sync/errgroup"
)

// DashboardService aggregates both ledgers of a profile.
type DashboardService struct {
	Incomes  *LedgerService
	Expenses *LedgerService
}

// Build computes totals and the recent activity feed for profileID.
func (s *DashboardService) Build(ctx context.Context, profileID string) (domain.Dashboard, error) {
	var d domain.Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TotalIncome, err = s.Incomes.Total(gctx, profileID)
		return err
	})
	g.Go(func() (err error) {
		d.TotalExpenses, err = s.Expenses.Total(gctx, profileID)
		return err
	})
	g.Go(func() (err error) {
		d.RecentIncome, err = s.Incomes.ListRecentTop(gctx, profileID, DefaultRecentLimit)
		return err
	})
	g.Go(func() (err error) {
		d.RecentExpenses, err = s.Expenses.ListRecentTop(gctx, profileID, DefaultRecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Dashboard{}, err
	}

	d.TotalBalance = d.TotalIncome.Sub(d.TotalExpenses)
	d.RecentTransactions = MergeRecent(d.RecentIncome, d.RecentExpenses)
	return d, nil
}

// MergeRecent joins incomes and expenses into one feed, newest date first.
// Same-day entries are ordered by creation time, newest first; a missing
// creation time compares equal. Nothing is dropped.
func MergeRecent(incomes, expenses []domain.Transaction) []domain.RecentTransaction {
	feed := make([]domain.RecentTransaction, 0, len(incomes)+len(expenses))
	for _, t := range incomes {
		feed = append(feed, t.Recent())
	}
	for _, t := range expenses {
		feed = append(feed, t.Recent())
	}

	slices.SortStableFunc(feed, func(a, b domain.RecentTransaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if a.CreatedAt.IsZero() || b.CreatedAt.IsZero() {
			return 0
		}
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return feed
}
