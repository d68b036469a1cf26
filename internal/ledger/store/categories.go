package store

import (
	"context"
	"strings"

	"github.com/feyli/moneymood/internal/ledger/domain"
)

// ExpenseCategories returns a copy of the expense catalog.
func (s *Store) ExpenseCategories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Category, len(s.expenseCats))
	copy(out, s.expenseCats)
	return out
}

// IncomeCategories returns a copy of the income catalog.
func (s *Store) IncomeCategories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Category, len(s.incomeCats))
	copy(out, s.incomeCats)
	return out
}

func (s *Store) catalogLocked(kind domain.CategoryKind) (*[]domain.Category, string) {
	if kind == domain.CategoryKindIncome {
		return &s.incomeCats, keyIncomeCategories
	}
	return &s.expenseCats, keyExpenseCategories
}

// AddCategory appends a catalog entry. Duplicate names are a UI-level
// concern, not a stored invariant; only emptiness is rejected.
func (s *Store) AddCategory(ctx context.Context, kind domain.CategoryKind, name, glyph string) (domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Category{}, domain.ErrMissingCategoryName
	}

	cat := domain.Category{
		ID:    domain.NewLocalID(),
		Name:  strings.TrimSpace(name),
		Glyph: glyph,
	}

	s.mu.Lock()
	catalog, key := s.catalogLocked(kind)
	*catalog = append(*catalog, cat)
	s.persist(ctx, key, *catalog)
	s.mu.Unlock()

	return cat, nil
}

// DeleteCategory removes a catalog entry by id.
func (s *Store) DeleteCategory(ctx context.Context, kind domain.CategoryKind, id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, key := s.catalogLocked(kind)
	for i, c := range *catalog {
		if c.ID == id {
			next := make([]domain.Category, 0, len(*catalog)-1)
			next = append(next, (*catalog)[:i]...)
			next = append(next, (*catalog)[i+1:]...)
			*catalog = next
			s.persist(ctx, key, *catalog)
			return nil
		}
	}
	return domain.ErrCategoryNotFound
}

// RestoreDefaultCategories replaces a catalog with its built-in set.
func (s *Store) RestoreDefaultCategories(ctx context.Context, kind domain.CategoryKind) []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, key := s.catalogLocked(kind)
	if kind == domain.CategoryKindIncome {
		*catalog = domain.DefaultIncomeCategories()
	} else {
		*catalog = domain.DefaultExpenseCategories()
	}
	s.persist(ctx, key, *catalog)

	out := make([]domain.Category, len(*catalog))
	copy(out, *catalog)
	return out
}

// ReplaceCategories installs an imported catalog wholesale.
func (s *Store) ReplaceCategories(ctx context.Context, kind domain.CategoryKind, cats []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, key := s.catalogLocked(kind)
	*catalog = cats
	s.persist(ctx, key, *catalog)
}
