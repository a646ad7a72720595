package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store"
	"github.com/aussiebroadwan/moneymanager/pkg/idx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedProfile(t *testing.T, s *Store, email string) domain.Profile {
	t.Helper()

	p := domain.Profile{
		ID:                  idx.New().String(),
		FullName:            "Test User",
		Email:               email,
		PasswordHash:        "hash",
		ActivationTokenHash: "fp-" + email,
		CreatedAt:           base,
		UpdatedAt:           base,
	}
	require.NoError(t, s.Profiles().CreateProfile(context.Background(), p))
	return p
}

func seedCategory(t *testing.T, s *Store, profileID, name string, kind domain.Kind) domain.Category {
	t.Helper()

	c := domain.Category{
		ID:        idx.New().String(),
		ProfileID: profileID,
		Name:      name,
		Type:      kind,
		CreatedAt: base,
		UpdatedAt: base,
	}
	require.NoError(t, s.Categories().CreateCategory(context.Background(), c))
	return c
}

func seedEntry(t *testing.T, s *Store, kind domain.Kind, c domain.Category, name, amount, date string, created time.Time) domain.Transaction {
	t.Helper()

	d, err := domain.ParseDate(date)
	require.NoError(t, err)

	tx := domain.Transaction{
		ID:         idx.NewAt(created).String(),
		Kind:       kind,
		ProfileID:  c.ProfileID,
		CategoryID: c.ID,
		Name:       name,
		Amount:     decimal.RequireFromString(amount),
		Date:       d,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, s.Transactions(kind).CreateTransaction(context.Background(), tx))
	return tx
}

func names(txs []domain.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.Name)
	}
	return out
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestProfiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	p := seedProfile(t, s, "ana@example.com")

	t.Run("lookups", func(t *testing.T) {
		got, err := s.Profiles().GetProfileByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		require.Equal(t, p.ID, got.ID)
		require.False(t, got.IsActive)
		require.Nil(t, got.ActivatedAt)
		require.True(t, base.Equal(got.CreatedAt))

		got, err = s.Profiles().GetProfileByActivationHash(ctx, "fp-ana@example.com")
		require.NoError(t, err)
		require.Equal(t, p.ID, got.ID)

		_, err = s.Profiles().GetProfileByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("email is unique regardless of case", func(t *testing.T) {
		err := s.Profiles().CreateProfile(ctx, domain.Profile{
			ID:                  idx.New().String(),
			Email:               "ANA@example.com",
			ActivationTokenHash: "other",
			CreatedAt:           base,
			UpdatedAt:           base,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("activation happens once", func(t *testing.T) {
		at := base.Add(time.Hour)
		require.NoError(t, s.Profiles().ActivateProfile(ctx, p.ID, at))
		require.ErrorIs(t, s.Profiles().ActivateProfile(ctx, p.ID, at), store.ErrNotFound)

		got, err := s.Profiles().GetProfileByID(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, got.IsActive)
		require.NotNil(t, got.ActivatedAt)
		require.True(t, at.Equal(*got.ActivatedAt))
	})

	t.Run("list", func(t *testing.T) {
		all, err := s.Profiles().ListProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})
}

func TestCategories(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	ana := seedProfile(t, s, "ana@example.com")
	bob := seedProfile(t, s, "bob@example.com")

	salary := seedCategory(t, s, ana.ID, "Salary", domain.KindIncome)
	food := seedCategory(t, s, ana.ID, "Food", domain.KindExpense)
	seedCategory(t, s, bob.ID, "Salary", domain.KindIncome)

	t.Run("names are unique per profile", func(t *testing.T) {
		err := s.Categories().CreateCategory(ctx, domain.Category{
			ID: idx.New().String(), ProfileID: ana.ID, Name: "Salary", Type: domain.KindIncome,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("list scopes to owner and type", func(t *testing.T) {
		all, err := s.Categories().ListCategories(ctx, ana.ID)
		require.NoError(t, err)
		require.Len(t, all, 2)

		expenses, err := s.Categories().ListCategoriesByType(ctx, ana.ID, domain.KindExpense)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		require.Equal(t, food.ID, expenses[0].ID)
	})

	t.Run("owned lookup", func(t *testing.T) {
		_, err := s.Categories().GetOwnedCategory(ctx, ana.ID, salary.ID)
		require.NoError(t, err)

		_, err = s.Categories().GetOwnedCategory(ctx, bob.ID, salary.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		salary.Name = "Wages"
		salary.Icon = "💰"
		salary.UpdatedAt = base.Add(time.Minute)
		require.NoError(t, s.Categories().UpdateCategory(ctx, salary))

		got, err := s.Categories().GetCategoryByID(ctx, salary.ID)
		require.NoError(t, err)
		require.Equal(t, "Wages", got.Name)
		require.Equal(t, "💰", got.Icon)

		food.Name = "Wages"
		require.ErrorIs(t, s.Categories().UpdateCategory(ctx, food), store.ErrAlreadyExists)

		stolen := salary
		stolen.ProfileID = bob.ID
		require.ErrorIs(t, s.Categories().UpdateCategory(ctx, stolen), store.ErrNotFound)
	})
}

func TestTransactions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	ana := seedProfile(t, s, "ana@example.com")
	salary := seedCategory(t, s, ana.ID, "Salary", domain.KindIncome)
	food := seedCategory(t, s, ana.ID, "Food", domain.KindExpense)

	seedEntry(t, s, domain.KindIncome, salary, "March pay", "100", "2025-03-01", base)
	bonus := seedEntry(t, s, domain.KindIncome, salary, "Bonus", "9.50", "2025-03-05", base.Add(time.Minute))
	seedEntry(t, s, domain.KindIncome, salary, "Side gig", "0.25", "2025-02-20", base.Add(2*time.Minute))
	seedEntry(t, s, domain.KindExpense, food, "Lunch", "12.40", "2025-03-05", base)

	incomes := s.Transactions(domain.KindIncome)

	t.Run("get joins category", func(t *testing.T) {
		got, err := incomes.GetTransactionByID(ctx, bonus.ID)
		require.NoError(t, err)
		require.Equal(t, domain.KindIncome, got.Kind)
		require.Equal(t, "Salary", got.CategoryName)
		require.Equal(t, "2025-03-05", got.Date.Format(domain.DateLayout))
		require.True(t, decimal.RequireFromString("9.5").Equal(got.Amount))

		_, err = s.Transactions(domain.KindExpense).GetTransactionByID(ctx, bonus.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list between is inclusive and newest first", func(t *testing.T) {
		start, _ := domain.ParseDate("2025-03-01")
		end, _ := domain.ParseDate("2025-03-31")
		got, err := incomes.ListBetween(ctx, ana.ID, start, end)
		require.NoError(t, err)
		require.Equal(t, []string{"Bonus", "March pay"}, names(got))
	})

	t.Run("list recent", func(t *testing.T) {
		got, err := incomes.ListRecent(ctx, ana.ID, 2)
		require.NoError(t, err)
		require.Equal(t, []string{"Bonus", "March pay"}, names(got))
	})

	t.Run("search", func(t *testing.T) {
		start, _ := domain.ParseDate("0001-01-01")
		end, _ := domain.ParseDate("2025-12-31")

		tests := []struct {
			name   string
			filter domain.TransactionFilter
			want   []string
		}{
			{"amount sorts numerically", domain.TransactionFilter{SortField: domain.SortByAmount}, []string{"Side gig", "Bonus", "March pay"}},
			{"amount descending", domain.TransactionFilter{SortField: domain.SortByAmount, Descending: true}, []string{"March pay", "Bonus", "Side gig"}},
			{"keyword ignores case", domain.TransactionFilter{SortField: domain.SortByDate, Keyword: "PAY"}, []string{"March pay"}},
			{"name", domain.TransactionFilter{SortField: domain.SortByName}, []string{"Bonus", "March pay", "Side gig"}},
			{"unknown field falls back to date", domain.TransactionFilter{SortField: "bogus"}, []string{"Side gig", "March pay", "Bonus"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := tt.filter
				f.Start, f.End = start, end
				got, err := incomes.Search(ctx, ana.ID, f)
				require.NoError(t, err)
				require.Equal(t, tt.want, names(got))
			})
		}

		narrow, _ := domain.ParseDate("2025-03-04")
		got, err := incomes.Search(ctx, ana.ID, domain.TransactionFilter{Start: narrow, End: end, SortField: domain.SortByDate})
		require.NoError(t, err)
		require.Equal(t, []string{"Bonus"}, names(got))
	})

	t.Run("sum is exact", func(t *testing.T) {
		total, err := incomes.Sum(ctx, ana.ID)
		require.NoError(t, err)
		require.Equal(t, "109.75", total.String())

		none, err := s.Transactions(domain.KindExpense).Sum(ctx, "nobody")
		require.NoError(t, err)
		require.True(t, none.IsZero())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, incomes.DeleteTransaction(ctx, bonus.ID))
		require.ErrorIs(t, incomes.DeleteTransaction(ctx, bonus.ID), store.ErrNotFound)
	})
}

func TestSearchKeywordFoldsUnicode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	ana := seedProfile(t, s, "ana@example.com")
	food := seedCategory(t, s, ana.ID, "Food", domain.KindExpense)
	seedEntry(t, s, domain.KindExpense, food, "CAFÉ Noir", "3", "2025-03-01", base)
	seedEntry(t, s, domain.KindExpense, food, "Épicerie", "40", "2025-03-02", base.Add(time.Minute))
	seedEntry(t, s, domain.KindExpense, food, "Phở ĐẶC BIỆT", "6", "2025-03-03", base.Add(2*time.Minute))

	start, _ := domain.ParseDate("0001-01-01")
	end, _ := domain.ParseDate("2025-12-31")

	tests := []struct {
		keyword string
		want    []string
	}{
		{"café", []string{"CAFÉ Noir"}},
		{"ÉPI", []string{"Épicerie"}},
		{"đặc biệt", []string{"Phở ĐẶC BIỆT"}},
		{"cafe", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, err := s.Transactions(domain.KindExpense).Search(ctx, ana.ID, domain.TransactionFilter{
				Start: start, End: end, SortField: domain.SortByDate, Keyword: tt.keyword,
			})
			require.NoError(t, err)
			require.Equal(t, tt.want, names(got))
		})
	}
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Profiles().CreateProfile(ctx, domain.Profile{
			ID: "p1", Email: "tx@example.com", ActivationTokenHash: "fp",
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Profiles().GetProfileByID(ctx, "p1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestForeignKeysEnforced(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.Categories().CreateCategory(context.Background(), domain.Category{
		ID: "c1", ProfileID: "ghost", Name: "Orphan", Type: domain.KindIncome,
	})
	require.Error(t, err)
}

func TestFileDSNEnforcesForeignKeysOnEveryConnection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := NewStore(FileDSN(filepath.Join(t.TempDir(), "ledger.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	// Every query below opens a connection that never saw the startup PRAGMA.
	s.db.SetMaxIdleConns(0)

	var fk int
	require.NoError(t, s.db.GetContext(ctx, &fk, `PRAGMA foreign_keys`))
	require.Equal(t, 1, fk)

	err = s.Categories().CreateCategory(ctx, domain.Category{
		ID: "c1", ProfileID: "ghost", Name: "Orphan", Type: domain.KindIncome,
	})
	require.Error(t, err)
}

func TestDriverErrorPaths(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := newStoreFromDB(db)

	mock.ExpectQuery("SELECT .* FROM profiles WHERE id = ?").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = s.Profiles().GetProfileByID(ctx, "p1")
	require.ErrorIs(t, err, store.ErrNotFound)

	mock.ExpectExec("DELETE FROM expenses").
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, s.Transactions(domain.KindExpense).DeleteTransaction(ctx, "e1"), store.ErrNotFound)

	diskFull := errors.New("disk full")
	mock.ExpectExec("INSERT INTO categories").WillReturnError(diskFull)
	err = s.Categories().CreateCategory(ctx, domain.Category{ID: "c1"})
	require.ErrorIs(t, err, diskFull)
	require.NotErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}
