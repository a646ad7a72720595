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
)

var (
	ErrInvalidCategory  = errors.New("category name is required")
	ErrInvalidKind      = errors.New("type must be income or expense")
	ErrCategoryExists   = errors.New("category with this name already exists")
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryInput carries the mutable fields of a category.
type CategoryInput struct {
	Name string
	Icon string
	Type string
}

type CategoryService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *CategoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (in CategoryInput) resolve() (name string, kind domain.Kind, err error) {
	name = strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", ErrInvalidCategory
	}
	kind, err = domain.ParseKind(in.Type)
	if err != nil {
		return "", "", ErrInvalidKind
	}
	return name, kind, nil
}

// Add creates a category owned by profileID.
func (s *CategoryService) Add(ctx context.Context, profileID string, in CategoryInput) (domain.Category, error) {
	log := slogx.FromContext(ctx)

	name, kind, err := in.resolve()
	if err != nil {
		return domain.Category{}, err
	}

	now := s.now().UTC()
	c := domain.Category{
		ID:        idx.NewAt(now).String(),
		ProfileID: profileID,
		Name:      name,
		Icon:      in.Icon,
		Type:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Categories().CreateCategory(ctx, c); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Category{}, ErrCategoryExists
		}
		log.Error("failed to create category", slog.Any("error", err))
		return domain.Category{}, err
	}

	log.Debug("category created", slog.String("category_id", c.ID), slog.String("type", kind.String()))
	return c, nil
}

// List returns every category of profileID.
func (s *CategoryService) List(ctx context.Context, profileID string) ([]domain.Category, error) {
	return s.Store.Categories().ListCategories(ctx, profileID)
}

// ListByType returns the categories of profileID of one kind.
func (s *CategoryService) ListByType(ctx context.Context, profileID, typ string) ([]domain.Category, error) {
	kind, err := domain.ParseKind(typ)
	if err != nil {
		return nil, ErrInvalidKind
	}
	return s.Store.Categories().ListCategoriesByType(ctx, profileID, kind)
}

// Update rewrites a category owned by profileID. A category owned by someone
// else is reported as not found.
func (s *CategoryService) Update(ctx context.Context, profileID, categoryID string, in CategoryInput) (domain.Category, error) {
	log := slogx.FromContext(ctx)

	name, kind, err := in.resolve()
	if err != nil {
		return domain.Category{}, err
	}

	var updated domain.Category
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Categories().GetOwnedCategory(ctx, profileID, categoryID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrCategoryNotFound
		}
		if err != nil {
			return err
		}

		existing.Name = name
		existing.Icon = in.Icon
		existing.Type = kind
		existing.UpdatedAt = s.now().UTC()

		switch err := tx.Categories().UpdateCategory(ctx, existing); {
		case errors.Is(err, store.ErrAlreadyExists):
			return ErrCategoryExists
		case errors.Is(err, store.ErrNotFound):
			return ErrCategoryNotFound
		case err != nil:
			return err
		}

		updated = existing
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrCategoryNotFound) && !errors.Is(err, ErrCategoryExists) {
			log.Error("failed to update category", slog.String("category_id", categoryID), slog.Any("error", err))
		}
		return domain.Category{}, err
	}

	return updated, nil
}
