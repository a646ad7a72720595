package sqlite

import (
	"context"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/jmoiron/sqlx"
)

const categoryColumns = `id, profile_id, name, icon, type, created_at, updated_at`

type categoryRow struct {
	ID        string `db:"id"`
	ProfileID string `db:"profile_id"`
	Name      string `db:"name"`
	Icon      string `db:"icon"`
	Type      string `db:"type"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type categoriesRepo struct {
	q sqlx.ExtContext
}

func (r *categoriesRepo) CreateCategory(ctx context.Context, c domain.Category) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ProfileID, c.Name, c.Icon, string(c.Type),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	return mapErr(err)
}

func (r *categoriesRepo) GetCategoryByID(ctx context.Context, id string) (domain.Category, error) {
	var row categoryRow
	if err := sqlx.GetContext(ctx, r.q, &row,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id); err != nil {
		return domain.Category{}, mapErr(err)
	}
	return mapCategory(row), nil
}

func (r *categoriesRepo) GetOwnedCategory(ctx context.Context, profileID, id string) (domain.Category, error) {
	var row categoryRow
	if err := sqlx.GetContext(ctx, r.q, &row,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND profile_id = ?`, id, profileID); err != nil {
		return domain.Category{}, mapErr(err)
	}
	return mapCategory(row), nil
}

func (r *categoriesRepo) ListCategories(ctx context.Context, profileID string) ([]domain.Category, error) {
	return r.list(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE profile_id = ? ORDER BY created_at, id`,
		profileID)
}

func (r *categoriesRepo) ListCategoriesByType(ctx context.Context, profileID string, kind domain.Kind) ([]domain.Category, error) {
	return r.list(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE profile_id = ? AND type = ? ORDER BY created_at, id`,
		profileID, string(kind))
}

func (r *categoriesRepo) UpdateCategory(ctx context.Context, c domain.Category) error {
	return requireAffected(r.q.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, icon = ?, type = ?, updated_at = ?
		WHERE id = ? AND profile_id = ?`,
		c.Name, c.Icon, string(c.Type), formatTime(c.UpdatedAt), c.ID, c.ProfileID,
	))
}

func (r *categoriesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	var rows []categoryRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, mapErr(err)
	}

	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapCategory(row))
	}
	return out, nil
}

func mapCategory(row categoryRow) domain.Category {
	return domain.Category{
		ID:        row.ID,
		ProfileID: row.ProfileID,
		Name:      row.Name,
		Icon:      row.Icon,
		Type:      domain.Kind(row.Type),
		CreatedAt: parseTime(row.CreatedAt),
		UpdatedAt: parseTime(row.UpdatedAt),
	}
}
