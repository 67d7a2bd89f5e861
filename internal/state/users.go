package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
)

// UserStore mirrors the account list for the admin screens.
type UserStore struct {
	Collection[domain.User]

	client *api.Client
	logger *slog.Logger

	selMu      sync.RWMutex
	selected   *domain.User
	selLoading bool
	selErr     string
}

// NewUserStore creates the account store.
func NewUserStore(client *api.Client, logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{client: client, logger: logger}
}

// FetchAll replaces the account list with the server's.
func (s *UserStore) FetchAll(ctx context.Context) error {
	s.begin()
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	s.replaceAll(users)
	return nil
}

// FetchOne populates the selected-account detail without touching the
// collection.
func (s *UserStore) FetchOne(ctx context.Context, id int) error {
	s.selMu.Lock()
	s.selLoading = true
	s.selErr = ""
	s.selMu.Unlock()

	user, err := s.client.GetUser(ctx, id)

	s.selMu.Lock()
	defer s.selMu.Unlock()
	s.selLoading = false
	if err != nil {
		s.selErr = err.Error()
		return err
	}
	s.selected = &user
	return nil
}

// Selected returns the detail view's account, its loading flag and error.
func (s *UserStore) Selected() (*domain.User, bool, string) {
	s.selMu.RLock()
	defer s.selMu.RUnlock()
	return s.selected, s.selLoading, s.selErr
}

// Delete removes an account after server confirmation.
func (s *UserStore) Delete(ctx context.Context, id int) error {
	s.begin()
	if err := s.client.DeleteUser(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.removeOne(id)
	s.setSuccess("User deleted")
	s.logger.Info("deleted user", "id", id)
	return nil
}
