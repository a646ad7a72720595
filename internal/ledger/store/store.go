package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it
// and expose sub-repositories so transactional code only ever sees the
// Tx-scoped versions of them.
type Store interface {
	Profiles() Profiles
	Categories() Categories

	// Transactions returns the ledger for kind (incomes or expenses).
	Transactions(kind domain.Kind) Transactions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Profiles interface {
	// CreateProfile inserts a new profile. ErrAlreadyExists when the email
	// is taken.
	CreateProfile(ctx context.Context, p domain.Profile) error

	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error)
	GetProfileByActivationHash(ctx context.Context, hash string) (domain.Profile, error)

	// ActivateProfile flips is_active for an inactive profile. It returns
	// ErrNotFound when no inactive profile with that id exists.
	ActivateProfile(ctx context.Context, id string, at time.Time) error

	// ListProfiles returns every profile ordered by creation.
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
}

type Categories interface {
	// CreateCategory inserts a category. ErrAlreadyExists when the profile
	// already has one with that name.
	CreateCategory(ctx context.Context, c domain.Category) error

	GetCategoryByID(ctx context.Context, id string) (domain.Category, error)

	// GetOwnedCategory returns the category only if profileID owns it.
	GetOwnedCategory(ctx context.Context, profileID, id string) (domain.Category, error)

	ListCategories(ctx context.Context, profileID string) ([]domain.Category, error)
	ListCategoriesByType(ctx context.Context, profileID string, kind domain.Kind) ([]domain.Category, error)

	// UpdateCategory rewrites name, icon and type. ErrAlreadyExists on a
	// name clash, ErrNotFound when the row is missing.
	UpdateCategory(ctx context.Context, c domain.Category) error
}

type Transactions interface {
	CreateTransaction(ctx context.Context, t domain.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// ListBetween returns entries dated in [start, end], newest date first.
	ListBetween(ctx context.Context, profileID string, start, end time.Time) ([]domain.Transaction, error)

	// ListRecent returns the newest limit entries by date, then creation.
	ListRecent(ctx context.Context, profileID string, limit int) ([]domain.Transaction, error)

	// Search applies a resolved filter.
	Search(ctx context.Context, profileID string, f domain.TransactionFilter) ([]domain.Transaction, error)

	// Sum totals every entry of the profile, zero when there are none.
	Sum(ctx context.Context, profileID string) (decimal.Decimal, error)
}
