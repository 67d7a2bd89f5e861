package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
	"github.com/jtallard/biblio/internal/log"
	"github.com/jtallard/biblio/internal/store"
)

func newTestManager(t *testing.T, handler http.HandlerFunc) (*Manager, *store.Vault) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	vault, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { vault.Close() })

	client := api.NewClient(srv.URL, vault, log.NullLogger())
	return NewManager(client, vault, log.NullLogger()), vault
}

func TestLoginPersistsTokens(t *testing.T) {
	mgr, vault := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/token/", r.URL.Path)
		w.Write([]byte(`{"access":"acc-1","refresh":"ref-1"}`))
	})

	require.False(t, mgr.Authenticated())

	err := mgr.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	assert.True(t, mgr.Authenticated())
	assert.Equal(t, "acc-1", vault.AccessToken())
	assert.Equal(t, "ref-1", vault.Get(store.KeyRefreshToken))

	snap := mgr.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.Loading)
}

func TestLoginFailureStaysAnonymous(t *testing.T) {
	mgr, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	})

	err := mgr.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	assert.False(t, mgr.Authenticated())
	snap := mgr.Snapshot()
	assert.Equal(t, "No active account found with the given credentials", snap.Error)
}

func TestLoginValidatesBeforeNetwork(t *testing.T) {
	requests := 0
	mgr, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	err := mgr.Login(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, 0, requests, "validation failures must not reach the server")

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "username")
	assert.Contains(t, fieldErrs, "password")
}

func TestRegisterNeverAuthenticates(t *testing.T) {
	mgr, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/", r.URL.Path)
		w.Write([]byte(`{"id":5,"username":"bob","email":"bob@example.org","role":"member"}`))
	})

	err := mgr.Register(context.Background(), api.Registration{
		Username: "bob",
		Email:    "bob@example.org",
		Password: "Secret1",
	})
	require.NoError(t, err)

	assert.False(t, mgr.Authenticated(), "registration must not sign the user in")
	assert.Nil(t, mgr.User())
}

func TestRegisterValidationShortCircuits(t *testing.T) {
	requests := 0
	mgr, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	err := mgr.Register(context.Background(), api.Registration{
		Username: "bob",
		Email:    "bob@example.org",
		Password: "Shor1", // 5 chars
	})
	require.Error(t, err)
	assert.Equal(t, 0, requests)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Password must be at least 6 characters", fieldErrs["password"])
}

func TestFetchCurrentUserFailureKeepsAuthentication(t *testing.T) {
	mgr, vault := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"boom"}`))
	})

	require.NoError(t, vault.SetTokens("acc", "ref"))
	require.True(t, mgr.Authenticated())

	err := mgr.FetchCurrentUser(context.Background())
	require.Error(t, err)

	assert.True(t, mgr.Authenticated(), "a failed profile fetch must not revoke the session")
	assert.Nil(t, mgr.User())
	assert.Equal(t, "boom", mgr.Snapshot().Error)
}

func TestFetchCurrentUserPopulatesProfile(t *testing.T) {
	mgr, vault := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"username":"alice","email":"alice@example.org","role":"admin"}`))
	})
	require.NoError(t, vault.SetTokens("acc", "ref"))

	require.NoError(t, mgr.FetchCurrentUser(context.Background()))

	user := mgr.User()
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.True(t, user.Role.IsStaff())
}

func TestLogoutClearsEverything(t *testing.T) {
	mgr, vault := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"username":"alice","email":"alice@example.org","role":"member"}`))
	})
	require.NoError(t, vault.SetTokens("acc", "ref"))
	require.NoError(t, mgr.FetchCurrentUser(context.Background()))
	require.NotNil(t, mgr.User())

	mgr.Logout()

	assert.False(t, mgr.Authenticated())
	assert.Nil(t, mgr.User())
	assert.Empty(t, vault.AccessToken())
	assert.Empty(t, vault.Get(store.KeyRefreshToken))

	snap := mgr.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Empty(t, snap.Error)
}
