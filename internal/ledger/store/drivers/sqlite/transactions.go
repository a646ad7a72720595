package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type transactionRow struct {
	ID           string          `db:"id"`
	ProfileID    string          `db:"profile_id"`
	CategoryID   string          `db:"category_id"`
	CategoryName *string         `db:"category_name"`
	Name         string          `db:"name"`
	Icon         string          `db:"icon"`
	Amount       decimal.Decimal `db:"amount"`
	Date         string          `db:"date"`
	CreatedAt    string          `db:"created_at"`
	UpdatedAt    string          `db:"updated_at"`
}

// sortColumns maps filter sort fields to ORDER BY expressions.
var sortColumns = map[domain.SortField]string{
	domain.SortByDate:      "t.date",
	domain.SortByAmount:    "CAST(t.amount AS REAL)",
	domain.SortByName:      "t.name COLLATE NOCASE",
	domain.SortByCreatedAt: "t.created_at",
	domain.SortByUpdatedAt: "t.updated_at",
	domain.SortByID:        "t.id",
}

// transactionsRepo serves one ledger table. incomes and expenses share a
// shape, so the table name is the only thing that varies.
type transactionsRepo struct {
	q     sqlx.ExtContext
	kind  domain.Kind
	table string
}

func (r *transactionsRepo) selectFrom() string {
	return fmt.Sprintf(`
		SELECT t.id, t.profile_id, t.category_id, c.name AS category_name, t.name, t.icon,
			t.amount, t.date, t.created_at, t.updated_at
		FROM %s t
		LEFT JOIN categories c ON c.id = t.category_id`, r.table)
}

func (r *transactionsRepo) CreateTransaction(ctx context.Context, t domain.Transaction) error {
	_, err := r.q.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, profile_id, category_id, name, icon, amount, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.table),
		t.ID, t.ProfileID, t.CategoryID, t.Name, t.Icon, t.Amount.String(),
		formatDate(t.Date), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	return mapErr(err)
}

func (r *transactionsRepo) GetTransactionByID(ctx context.Context, id string) (domain.Transaction, error) {
	var row transactionRow
	if err := sqlx.GetContext(ctx, r.q, &row, r.selectFrom()+` WHERE t.id = ?`, id); err != nil {
		return domain.Transaction{}, mapErr(err)
	}
	return r.mapTransaction(row), nil
}

func (r *transactionsRepo) DeleteTransaction(ctx context.Context, id string) error {
	return requireAffected(r.q.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table), id))
}

func (r *transactionsRepo) ListBetween(ctx context.Context, profileID string, start, end time.Time) ([]domain.Transaction, error) {
	return r.list(ctx, r.selectFrom()+`
		WHERE t.profile_id = ? AND t.date BETWEEN ? AND ?
		ORDER BY t.date DESC, t.created_at DESC, t.id DESC`,
		profileID, formatDate(start), formatDate(end))
}

func (r *transactionsRepo) ListRecent(ctx context.Context, profileID string, limit int) ([]domain.Transaction, error) {
	return r.list(ctx, r.selectFrom()+`
		WHERE t.profile_id = ?
		ORDER BY t.date DESC, t.created_at DESC, t.id DESC
		LIMIT ?`,
		profileID, limit)
}

func (r *transactionsRepo) Search(ctx context.Context, profileID string, f domain.TransactionFilter) ([]domain.Transaction, error) {
	column, ok := sortColumns[f.SortField]
	if !ok {
		column = sortColumns[domain.SortByDate]
	}
	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}

	query := r.selectFrom() + fmt.Sprintf(`
		WHERE t.profile_id = ?
			AND t.date BETWEEN ? AND ?
			AND (? = '' OR instr(%[1]s(t.name), %[1]s(?)) > 0)
		ORDER BY %[2]s %[3]s, t.id %[3]s`, foldFunc, column, dir)

	return r.list(ctx, query,
		profileID, formatDate(f.Start), formatDate(f.End), f.Keyword, f.Keyword)
}

// Sum adds amounts in Go so decimal precision is kept.
func (r *transactionsRepo) Sum(ctx context.Context, profileID string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := sqlx.SelectContext(ctx, r.q, &amounts,
		fmt.Sprintf(`SELECT amount FROM %s WHERE profile_id = ?`, r.table), profileID); err != nil {
		return decimal.Zero, mapErr(err)
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

func (r *transactionsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	var rows []transactionRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, mapErr(err)
	}

	out := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.mapTransaction(row))
	}
	return out, nil
}

func (r *transactionsRepo) mapTransaction(row transactionRow) domain.Transaction {
	t := domain.Transaction{
		ID:         row.ID,
		Kind:       r.kind,
		ProfileID:  row.ProfileID,
		CategoryID: row.CategoryID,
		Name:       row.Name,
		Icon:       row.Icon,
		Amount:     row.Amount,
		Date:       parseDate(row.Date),
		CreatedAt:  parseTime(row.CreatedAt),
		UpdatedAt:  parseTime(row.UpdatedAt),
	}
	if row.CategoryName != nil {
		t.CategoryName = *row.CategoryName
	}
	return t
}
