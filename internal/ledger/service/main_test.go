package service

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store/drivers/sqlite"
	"github.com/aussiebroadwan/moneymanager/pkg/cryptox"
	"github.com/aussiebroadwan/moneymanager/pkg/mailx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var (
	bangkok = time.FixedZone("GMT+7", 7*60*60)

	// 2025-03-15 19:00 in Bangkok.
	testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-pepper")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testEnv struct {
	store      store.Store
	mailer     *mailx.Recorder
	tokens     *TokenService
	profiles   *ProfileService
	categories *CategoryService
	incomes    *LedgerService
	expenses   *LedgerService
	dashboard  *DashboardService
	exports    *ExportService
	reminders  *ReminderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := func() time.Time { return testNow }

	tokens, err := NewTokenService([]byte(testSecret), "", 0)
	require.NoError(t, err)
	tokens.Now = clock

	mailer := &mailx.Recorder{}
	incomes := &LedgerService{Store: st, Kind: domain.KindIncome, Location: bangkok, Now: clock}
	expenses := &LedgerService{Store: st, Kind: domain.KindExpense, Location: bangkok, Now: clock}

	return &testEnv{
		store:  st,
		mailer: mailer,
		tokens: tokens,
		profiles: &ProfileService{
			Store:             st,
			Mailer:            mailer,
			Tokens:            tokens,
			ActivationBaseURL: "http://localhost:8080",
			Now:               clock,
		},
		categories: &CategoryService{Store: st, Now: clock},
		incomes:    incomes,
		expenses:   expenses,
		dashboard:  &DashboardService{Incomes: incomes, Expenses: expenses},
		exports:    &ExportService{Incomes: incomes, Expenses: expenses, Mailer: mailer},
		reminders: &ReminderService{
			Store:       st,
			Expenses:    expenses,
			Mailer:      mailer,
			Logger:      slogx.Discard(),
			FrontendURL: "http://localhost:5173",
			Location:    bangkok,
		},
	}
}

var activationToken = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)

// tokenFromMail pulls the activation token out of the last mail sent to to.
func (e *testEnv) tokenFromMail(t *testing.T, to string) string {
	t.Helper()

	sent := e.mailer.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].To != to {
			continue
		}
		m := activationToken.FindStringSubmatch(sent[i].HTMLBody)
		require.Len(t, m, 2, "no activation link in mail")
		return m[1]
	}
	t.Fatalf("no mail sent to %s", to)
	return ""
}

// activeProfile registers and activates a profile.
func (e *testEnv) activeProfile(t *testing.T, name, email string) domain.PublicProfile {
	t.Helper()
	ctx := context.Background()

	p, err := e.profiles.Register(ctx, Registration{FullName: name, Email: email, Password: "s3cret!"})
	require.NoError(t, err)
	require.NoError(t, e.profiles.Activate(ctx, e.tokenFromMail(t, email)))
	return p
}

func (e *testEnv) category(t *testing.T, profileID, name string, kind domain.Kind) domain.Category {
	t.Helper()

	c, err := e.categories.Add(context.Background(), profileID, CategoryInput{Name: name, Type: kind.String()})
	require.NoError(t, err)
	return c
}

func (e *testEnv) entry(t *testing.T, l *LedgerService, c domain.Category, profileID, name, amount, date string) domain.Transaction {
	t.Helper()

	d, err := domain.ParseDate(date)
	require.NoError(t, err)

	tx, err := l.Add(context.Background(), profileID, TransactionInput{
		CategoryID: c.ID,
		Name:       name,
		Amount:     decimal.RequireFromString(amount),
		Date:       &d,
	})
	require.NoError(t, err)
	return tx
}
