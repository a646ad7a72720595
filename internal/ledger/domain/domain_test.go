package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Kind
		wantErr bool
	}{
		{"income", domain.KindIncome, false},
		{"EXPENSE", domain.KindExpense, false},
		{" Income ", domain.KindIncome, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	require.Equal(t, "incomes", domain.KindIncome.Plural())
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		wantFirst string
		wantLast  string
	}{
		{"leap february", time.Date(2024, 2, 14, 18, 0, 0, 0, time.UTC), "2024-02-01", "2024-02-29"},
		{"plain february", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), "2025-02-01", "2025-02-28"},
		{"december", time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC), "2025-12-01", "2025-12-31"},
		{"thirty day month", time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), "2025-04-01", "2025-04-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := domain.MonthBounds(tt.at)
			require.Equal(t, tt.wantFirst, first.Format(domain.DateLayout))
			require.Equal(t, tt.wantLast, last.Format(domain.DateLayout))
		})
	}
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	bangkok := time.FixedZone("GMT+7", 7*60*60)
	late := time.Date(2025, 3, 31, 23, 30, 0, 0, time.UTC).In(bangkok)

	require.Equal(t, "2025-04-01", domain.DateOf(late).Format(domain.DateLayout))
}

func TestPublicProfileDropsSecrets(t *testing.T) {
	p := domain.Profile{
		ID:                  "p1",
		Email:               "ana@example.com",
		PasswordHash:        "$argon2id$...",
		ActivationTokenHash: "fingerprint",
	}

	pub := p.Public()
	require.Equal(t, "p1", pub.ID)
	require.Equal(t, "ana@example.com", pub.Email)
}
