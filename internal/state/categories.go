package state

import (
	"context"
	"log/slog"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
)

// CategoryStore mirrors the category list. Every screen that needs
// categories reads this one store; there is no secondary copy.
type CategoryStore struct {
	Collection[domain.Category]

	client *api.Client
	logger *slog.Logger
}

// NewCategoryStore creates the category store.
func NewCategoryStore(client *api.Client, logger *slog.Logger) *CategoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryStore{client: client, logger: logger}
}

// FetchAll replaces the category list with the server's.
func (s *CategoryStore) FetchAll(ctx context.Context) error {
	s.begin()
	cats, err := s.client.ListCategories(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	s.replaceAll(cats)
	return nil
}

// Create adds a category and appends the server's copy.
func (s *CategoryStore) Create(ctx context.Context, name, description string) error {
	s.begin()
	cat, err := s.client.CreateCategory(ctx, name, description)
	if err != nil {
		s.fail(err)
		return err
	}
	s.appendOne(cat)
	s.setSuccess("Category created")
	s.logger.Info("created category", "id", cat.ID, "name", cat.Name)
	return nil
}

// Delete removes a category after server confirmation.
func (s *CategoryStore) Delete(ctx context.Context, id int) error {
	s.begin()
	if err := s.client.DeleteCategory(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.removeOne(id)
	s.setSuccess("Category deleted")
	return nil
}

// Name resolves a category id for display, falling back to a dash for
// ids not yet loaded.
func (s *CategoryStore) Name(id int) string {
	if cat, ok := s.Find(id); ok {
		return cat.Name
	}
	return "-"
}
