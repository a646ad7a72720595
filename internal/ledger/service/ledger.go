package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store"
	"github.com/aussiebroadwan/moneymanager/pkg/idx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransaction  = errors.New("name and category are required")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("transaction belongs to another profile")
	ErrInvalidSortField    = errors.New("unsupported sort field")
)

// DefaultRecentLimit is how many entries per kind the dashboard shows.
const DefaultRecentLimit = 5

// minDate is the lower bound used when a filter has no start date.
var minDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// sortFields resolves the sort names clients send, lowercased.
var sortFields = map[string]domain.SortField{
	"date":       domain.SortByDate,
	"amount":     domain.SortByAmount,
	"name":       domain.SortByName,
	"createdat":  domain.SortByCreatedAt,
	"created_at": domain.SortByCreatedAt,
	"updatedat":  domain.SortByUpdatedAt,
	"updated_at": domain.SortByUpdatedAt,
	"id":         domain.SortByID,
}

// TransactionInput is the payload of LedgerService.Add. A nil Date means
// today in the service location.
type TransactionInput struct {
	CategoryID string
	Name       string
	Icon       string
	Amount     decimal.Decimal
	Date       *time.Time
}

// FilterQuery is an unresolved search as clients send it. Zero values take
// the documented defaults.
type FilterQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Keyword   string
	SortField string
	SortOrder string
}

// LedgerService manages one kind of ledger entry. The income and expense
// services are two instances differing only in Kind.
type LedgerService struct {
	Store store.Store
	Kind  domain.Kind

	// Location decides what "today" and "this month" mean.
	Location *time.Location
	Now      func() time.Time
}

func (s *LedgerService) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}

// Today is the current calendar date in the service location.
func (s *LedgerService) Today() time.Time {
	return domain.DateOf(s.now())
}

func (s *LedgerService) ledger() store.Transactions {
	return s.Store.Transactions(s.Kind)
}

// Add records an entry for profileID. The category has to exist; whose it is
// is not checked.
func (s *LedgerService) Add(ctx context.Context, profileID string, in TransactionInput) (domain.Transaction, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID == "" {
		return domain.Transaction{}, ErrInvalidTransaction
	}
	if in.Amount.IsNegative() {
		return domain.Transaction{}, ErrInvalidAmount
	}

	// 2. Resolve the category
	category, err := s.Store.Categories().GetCategoryByID(ctx, in.CategoryID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Transaction{}, ErrCategoryNotFound
	}
	if err != nil {
		log.Error("failed to fetch category", slog.Any("error", err))
		return domain.Transaction{}, err
	}

	// 3. Build and store the entry
	date := s.Today()
	if in.Date != nil {
		date = domain.DateOf(*in.Date)
	}

	now := s.now().UTC()
	t := domain.Transaction{
		ID:           idx.NewAt(now).String(),
		Kind:         s.Kind,
		ProfileID:    profileID,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Name:         name,
		Icon:         in.Icon,
		Amount:       in.Amount,
		Date:         date,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.ledger().CreateTransaction(ctx, t); err != nil {
		log.Error("failed to create transaction", slog.String("kind", s.Kind.String()), slog.Any("error", err))
		return domain.Transaction{}, err
	}

	log.Debug("transaction created",
		slog.String("kind", s.Kind.String()),
		slog.String("transaction_id", t.ID),
	)
	return t, nil
}

// ListCurrentMonth returns the entries dated in the current month, both ends
// inclusive.
func (s *LedgerService) ListCurrentMonth(ctx context.Context, profileID string) ([]domain.Transaction, error) {
	first, last := domain.MonthBounds(s.Today())
	return s.ledger().ListBetween(ctx, profileID, first, last)
}

// ListRecentTop returns the n newest entries. n <= 0 uses DefaultRecentLimit.
func (s *LedgerService) ListRecentTop(ctx context.Context, profileID string, n int) ([]domain.Transaction, error) {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	return s.ledger().ListRecent(ctx, profileID, n)
}

// ListOnDate returns the entries of a single calendar day.
func (s *LedgerService) ListOnDate(ctx context.Context, profileID string, date time.Time) ([]domain.Transaction, error) {
	day := domain.DateOf(date)
	return s.ledger().ListBetween(ctx, profileID, day, day)
}

// Delete removes an entry owned by profileID.
func (s *LedgerService) Delete(ctx context.Context, profileID, id string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		ledger := tx.Transactions(s.Kind)

		t, err := ledger.GetTransactionByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return err
		}

		if t.ProfileID != profileID {
			log.Warn("delete attempted on foreign transaction",
				slog.String("kind", s.Kind.String()),
				slog.String("transaction_id", id),
			)
			return ErrForbidden
		}

		if err := ledger.DeleteTransaction(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Debug("transaction deleted", slog.String("kind", s.Kind.String()), slog.String("transaction_id", id))
	return nil
}

// Total sums every entry of profileID. It is zero, not absent, when there
// are none.
func (s *LedgerService) Total(ctx context.Context, profileID string) (decimal.Decimal, error) {
	return s.ledger().Sum(ctx, profileID)
}

// ResolveFilter applies the defaults to q: from the earliest date to today,
// any name, by date, ascending unless SortOrder is "desc".
func (s *LedgerService) ResolveFilter(q FilterQuery) (domain.TransactionFilter, error) {
	f := domain.TransactionFilter{
		Start:      minDate,
		End:        s.Today(),
		Keyword:    strings.TrimSpace(q.Keyword),
		SortField:  domain.SortByDate,
		Descending: strings.EqualFold(strings.TrimSpace(q.SortOrder), "desc"),
	}

	if q.StartDate != nil {
		f.Start = domain.DateOf(*q.StartDate)
	}
	if q.EndDate != nil {
		f.End = domain.DateOf(*q.EndDate)
	}

	if name := strings.TrimSpace(q.SortField); name != "" {
		field, ok := sortFields[strings.ToLower(name)]
		if !ok {
			return domain.TransactionFilter{}, ErrInvalidSortField
		}
		f.SortField = field
	}

	return f, nil
}

// Filter searches the entries of profileID.
func (s *LedgerService) Filter(ctx context.Context, profileID string, q FilterQuery) ([]domain.Transaction, error) {
	f, err := s.ResolveFilter(q)
	if err != nil {
		return nil, err
	}
	return s.ledger().Search(ctx, profileID, f)
}
