package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/jmoiron/sqlx"
)

const profileColumns = `id, full_name, email, password_hash, profile_image_url, is_active,
	activation_token_hash, activated_at, created_at, updated_at`

type profileRow struct {
	ID                  string         `db:"id"`
	FullName            string         `db:"full_name"`
	Email               string         `db:"email"`
	PasswordHash        string         `db:"password_hash"`
	ProfileImageURL     string         `db:"profile_image_url"`
	IsActive            bool           `db:"is_active"`
	ActivationTokenHash string         `db:"activation_token_hash"`
	ActivatedAt         sql.NullString `db:"activated_at"`
	CreatedAt           string         `db:"created_at"`
	UpdatedAt           string         `db:"updated_at"`
}

type profilesRepo struct {
	q sqlx.ExtContext
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FullName, p.Email, p.PasswordHash, p.ProfileImageURL, p.IsActive,
		p.ActivationTokenHash, formatNullTime(p.ActivatedAt),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	return mapErr(err)
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
}

func (r *profilesRepo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email)
}

func (r *profilesRepo) GetProfileByActivationHash(ctx context.Context, hash string) (domain.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE activation_token_hash = ?`, hash)
}

func (r *profilesRepo) ActivateProfile(ctx context.Context, id string, at time.Time) error {
	return requireAffected(r.q.ExecContext(ctx, `
		UPDATE profiles
		SET is_active = 1, activated_at = ?, updated_at = ?
		WHERE id = ? AND is_active = 0`,
		formatTime(at), formatTime(at), id,
	))
}

func (r *profilesRepo) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	var rows []profileRow
	if err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at, id`); err != nil {
		return nil, mapErr(err)
	}

	out := make([]domain.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapProfile(row))
	}
	return out, nil
}

func (r *profilesRepo) getOne(ctx context.Context, query string, arg any) (domain.Profile, error) {
	var row profileRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, arg); err != nil {
		return domain.Profile{}, mapErr(err)
	}
	return mapProfile(row), nil
}

func mapProfile(row profileRow) domain.Profile {
	return domain.Profile{
		ID:                  row.ID,
		FullName:            row.FullName,
		Email:               row.Email,
		PasswordHash:        row.PasswordHash,
		ProfileImageURL:     row.ProfileImageURL,
		IsActive:            row.IsActive,
		ActivationTokenHash: row.ActivationTokenHash,
		ActivatedAt:         parseNullTime(row.ActivatedAt),
		CreatedAt:           parseTime(row.CreatedAt),
		UpdatedAt:           parseTime(row.UpdatedAt),
	}
}
