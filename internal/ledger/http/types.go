package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

// Date is a calendar day on the wire, "2006-01-02". An empty string decodes
// to the zero Date.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(domain.DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return fmt.Errorf("date must look like %s: %w", domain.DateLayout, err)
	}
	d.Time = t
	return nil
}

// value returns the date, or nil when it was absent.
func (d *Date) value() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

type ProfileRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type ProfileResponse struct {
	ID              string    `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newProfileResponse(p domain.PublicProfile) ProfileResponse {
	return ProfileResponse{
		ID:              p.ID,
		FullName:        p.FullName,
		Email:           p.Email,
		ProfileImageURL: p.ProfileImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

type CategoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type string `json:"type"`
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		ProfileID: c.ProfileID,
		Name:      c.Name,
		Icon:      c.Icon,
		Type:      c.Type.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func newCategoryResponses(cs []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, newCategoryResponse(c))
	}
	return out
}

// TransactionRequest is the body of POST /incomes and POST /expenses.
type TransactionRequest struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Amount     decimal.Decimal `json:"amount"`
	Date       *Date           `json:"date"`
}

type TransactionResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Icon         string          `json:"icon"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
	Date         Date            `json:"date"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func newTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		Name:         t.Name,
		Icon:         t.Icon,
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		Amount:       t.Amount,
		Date:         Date{t.Date},
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func newTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTransactionResponse(t))
	}
	return out
}

type RecentTransactionResponse struct {
	ID        string          `json:"id"`
	ProfileID string          `json:"profileId"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Amount    decimal.Decimal `json:"amount"`
	Date      Date            `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Type      string          `json:"type"`
}

type DashboardResponse struct {
	TotalBalance       decimal.Decimal             `json:"totalBalance"`
	TotalIncome        decimal.Decimal             `json:"totalIncome"`
	TotalExpenses      decimal.Decimal             `json:"totalExpenses"`
	Recent5Expenses    []TransactionResponse       `json:"recent5Expenses"`
	Recent5Income      []TransactionResponse       `json:"recent5Income"`
	RecentTransactions []RecentTransactionResponse `json:"recentTransactions"`
}

func newDashboardResponse(d domain.Dashboard) DashboardResponse {
	recent := make([]RecentTransactionResponse, 0, len(d.RecentTransactions))
	for _, t := range d.RecentTransactions {
		recent = append(recent, RecentTransactionResponse{
			ID:        t.ID,
			ProfileID: t.ProfileID,
			Name:      t.Name,
			Icon:      t.Icon,
			Amount:    t.Amount,
			Date:      Date{t.Date},
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
			Type:      t.Type.String(),
		})
	}

	return DashboardResponse{
		TotalBalance:       d.TotalBalance,
		TotalIncome:        d.TotalIncome,
		TotalExpenses:      d.TotalExpenses,
		Recent5Expenses:    newTransactionResponses(d.RecentExpenses),
		Recent5Income:      newTransactionResponses(d.RecentIncome),
		RecentTransactions: recent,
	}
}

// FilterRequest is the body of POST /filter. Everything but Type is optional.
type FilterRequest struct {
	Type      string `json:"type"`
	StartDate *Date  `json:"startDate"`
	EndDate   *Date  `json:"endDate"`
	Keyword   string `json:"keyword"`
	SortField string `json:"sortField"`
	SortOrder string `json:"sortOrder"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
