package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
)

// BookStore mirrors the book catalog.
type BookStore struct {
	Collection[domain.Book]

	client *api.Client
	logger *slog.Logger

	// Selected book detail, independent of the collection
	selMu      sync.RWMutex
	selected   *domain.Book
	selLoading bool
	selErr     string
}

// NewBookStore creates the catalog store.
func NewBookStore(client *api.Client, logger *slog.Logger) *BookStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookStore{client: client, logger: logger}
}

// FetchAll replaces the catalog with the server's list.
func (s *BookStore) FetchAll(ctx context.Context) error {
	s.begin()
	books, err := s.client.ListBooks(ctx, "")
	if err != nil {
		s.fail(err)
		return err
	}
	s.replaceAll(books)
	s.logger.Debug("loaded books", "count", len(books))
	return nil
}

// Search replaces the catalog with a server-side search result across
// title, author and ISBN. An empty term is a plain fetch.
func (s *BookStore) Search(ctx context.Context, term string) error {
	s.begin()
	books, err := s.client.ListBooks(ctx, term)
	if err != nil {
		s.fail(err)
		return err
	}
	s.replaceAll(books)
	return nil
}

// FetchOne populates the selected-book detail without touching the
// collection.
func (s *BookStore) FetchOne(ctx context.Context, id int) error {
	s.selMu.Lock()
	s.selLoading = true
	s.selErr = ""
	s.selMu.Unlock()

	book, err := s.client.GetBook(ctx, id)

	s.selMu.Lock()
	defer s.selMu.Unlock()
	s.selLoading = false
	if err != nil {
		s.selErr = err.Error()
		return err
	}
	s.selected = &book
	return nil
}

// Selected returns the detail view's book, its loading flag and error.
func (s *BookStore) Selected() (*domain.Book, bool, string) {
	s.selMu.RLock()
	defer s.selMu.RUnlock()
	return s.selected, s.selLoading, s.selErr
}

// Create adds a book and appends the server's copy. No refetch.
func (s *BookStore) Create(ctx context.Context, draft api.BookDraft) error {
	s.begin()
	book, err := s.client.CreateBook(ctx, draft)
	if err != nil {
		s.fail(err)
		return err
	}
	s.appendOne(book)
	s.setSuccess("Book added")
	s.logger.Info("created book", "id", book.ID, "title", book.Title)
	return nil
}

// Update replaces the book in place by id. An id absent from the
// collection is left alone.
func (s *BookStore) Update(ctx context.Context, id int, draft api.BookDraft) error {
	s.begin()
	book, err := s.client.UpdateBook(ctx, id, draft)
	if err != nil {
		s.fail(err)
		return err
	}
	s.replaceOne(book)
	return nil
}

// Delete removes the book after server confirmation.
func (s *BookStore) Delete(ctx context.Context, id int) error {
	s.begin()
	if err := s.client.DeleteBook(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.removeOne(id)
	s.setSuccess("Book deleted")
	s.logger.Info("deleted book", "id", id)
	return nil
}
