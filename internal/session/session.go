// Package session owns the authentication state: the persisted token
// pair, the current user profile, and the in-flight/error flags the view
// renders. It is the single writer of the token vault.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
	"github.com/jtallard/biblio/internal/store"
)

// Snapshot is the immutable view of the session handed to the UI and the
// route guard. Authenticated tracks token presence only; User may be nil
// while authenticated until the profile fetch lands.
type Snapshot struct {
	Authenticated bool
	User          *domain.User
	Loading       bool
	Error         string
}

// Manager is the session state machine. States: anonymous (no token),
// authenticating (login in flight), authenticated (token present),
// profile-loaded (user set), back to anonymous on logout. Concurrent
// actions are not serialized; the last settling call wins.
type Manager struct {
	client *api.Client
	vault  *store.Vault
	logger *slog.Logger

	mu      sync.RWMutex
	user    *domain.User
	loading bool
	err     string
}

// NewManager creates a session manager over the vault. A token already in
// the vault (from a previous run) makes the session authenticated at
// start, matching the persisted-login behavior.
func NewManager(client *api.Client, vault *store.Vault, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client: client,
		vault:  vault,
		logger: logger,
	}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Authenticated: m.vault.AccessToken() != "",
		User:          m.user,
		Loading:       m.loading,
		Error:         m.err,
	}
}

// Authenticated reports whether a token is present.
func (m *Manager) Authenticated() bool {
	return m.vault.AccessToken() != ""
}

// User returns the loaded profile, or nil before FetchCurrentUser.
func (m *Manager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

func (m *Manager) setLoading() {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	m.mu.Unlock()
}

func (m *Manager) settle(err error) {
	m.mu.Lock()
	m.loading = false
	if err != nil {
		m.err = err.Error()
	}
	m.mu.Unlock()
}

// Login exchanges credentials for tokens and persists them. On failure
// the session stays anonymous and the error is kept for the view.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if errs := ValidateLogin(username, password); len(errs) > 0 {
		err := FieldErrors(errs)
		m.mu.Lock()
		m.err = err.Error()
		m.mu.Unlock()
		return err
	}

	m.setLoading()
	pair, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.settle(err)
		m.logger.Warn("login failed", "username", username, "error", err)
		return err
	}

	if err := m.vault.SetTokens(pair.Access, pair.Refresh); err != nil {
		m.settle(err)
		return err
	}

	m.settle(nil)
	m.logger.Info("logged in", "username", username)
	return nil
}

// Register creates an account. It validates client-side first and never
// reaches the network on a validation failure. Registration does not
// authenticate; callers log in afterwards.
func (m *Manager) Register(ctx context.Context, reg api.Registration) error {
	if errs := ValidateRegistration(reg); len(errs) > 0 {
		err := FieldErrors(errs)
		m.mu.Lock()
		m.err = err.Error()
		m.mu.Unlock()
		return err
	}

	m.setLoading()
	_, err := m.client.Register(ctx, reg)
	m.settle(err)
	if err != nil {
		m.logger.Warn("registration failed", "username", reg.Username, "error", err)
		return err
	}

	m.logger.Info("registered", "username", reg.Username)
	return nil
}

// FetchCurrentUser populates the profile. A failure records the error
// but does not revoke authentication.
func (m *Manager) FetchCurrentUser(ctx context.Context) error {
	m.setLoading()
	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.settle(err)
		return err
	}

	m.mu.Lock()
	m.user = &user
	m.loading = false
	m.mu.Unlock()
	return nil
}

// Logout clears the persisted tokens and all session fields. Synchronous,
// no network call.
func (m *Manager) Logout() {
	m.vault.ClearTokens()

	m.mu.Lock()
	m.user = nil
	m.loading = false
	m.err = ""
	m.mu.Unlock()

	m.logger.Info("logged out")
}

// ClearError drops the stored error after the view has shown it.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.err = ""
	m.mu.Unlock()
}
