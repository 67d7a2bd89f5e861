package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
	"github.com/jtallard/biblio/internal/log"
	"github.com/jtallard/biblio/internal/session"
	"github.com/jtallard/biblio/internal/state"
	"github.com/jtallard/biblio/internal/store"
)

// newTestModel builds a model over a throwaway server. role "" leaves the
// session anonymous; otherwise the session is authenticated with that
// role's profile already loaded.
func newTestModel(t *testing.T, role domain.Role) *Model {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/me/" {
			w.Write([]byte(`{"id":1,"username":"u","email":"u@example.org","role":"` + string(role) + `"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	vault, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { vault.Close() })

	client := api.NewClient(srv.URL, vault, log.NullLogger())
	sess := session.NewManager(client, vault, log.NullLogger())

	if role != "" {
		require.NoError(t, vault.SetTokens("tok", "ref"))
		require.NoError(t, sess.FetchCurrentUser(context.Background()))
	}

	m := NewModel(sess,
		state.NewBookStore(client, log.NullLogger()),
		state.NewBorrowStore(client, log.NullLogger()),
		state.NewCategoryStore(client, log.NullLogger()),
		state.NewUserStore(client, log.NullLogger()),
		log.NullLogger(),
	)
	return m
}

func TestAnonymousStartsOnLogin(t *testing.T) {
	m := newTestModel(t, "")
	assert.Equal(t, ViewLogin, m.view)
	assert.NotNil(t, m.activeForm)
}

func TestNavigateRedirectsAnonymousToLogin(t *testing.T) {
	m := newTestModel(t, "")
	m.view = ViewBooks // pretend the session expired mid-screen

	m.navigate(ViewBorrows)
	assert.Equal(t, ViewLogin, m.view)
}

func TestNavigateDeniesMemberFromUsers(t *testing.T) {
	m := newTestModel(t, domain.RoleMember)

	cmd := m.navigate(ViewUsers)
	assert.Nil(t, cmd)
	assert.Equal(t, ViewDenied, m.view)
	assert.Equal(t, "Admin access required.", m.deniedReason)
	assert.Equal(t, ViewBooks, m.returnView)
}

func TestNavigateDeniesMemberFromFines(t *testing.T) {
	m := newTestModel(t, domain.RoleMember)

	m.navigate(ViewFines)
	assert.Equal(t, ViewDenied, m.view)
	assert.Equal(t, "Only librarians and admins can access this page.", m.deniedReason)
}

func TestNavigateAllowsLibrarianToCategories(t *testing.T) {
	m := newTestModel(t, domain.RoleLibrarian)

	cmd := m.navigate(ViewCategories)
	assert.Equal(t, ViewCategories, m.view)
	assert.NotNil(t, cmd, "an allowed navigation must load its data")
}

func TestDeniedPanelReturnsToPreviousView(t *testing.T) {
	m := newTestModel(t, domain.RoleMember)
	m.navigate(ViewUsers)
	require.Equal(t, ViewDenied, m.view)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, ViewBooks, model.(*Model).view)
}

func TestUnauthorizedResponseDropsSession(t *testing.T) {
	m := newTestModel(t, domain.RoleMember)
	m.view = ViewBorrows

	model, _ := m.Update(ErrMsg{
		Err:     &api.Error{Status: 401, Message: "Given token not valid"},
		Context: "loading borrows",
	})

	got := model.(*Model)
	assert.Equal(t, ViewLogin, got.view)
	assert.False(t, got.session.Authenticated())
}

func TestServerFaultShowsErrorScreen(t *testing.T) {
	m := newTestModel(t, domain.RoleMember)
	m.view = ViewBooks

	model, _ := m.Update(ErrMsg{
		Err:     &api.Error{Status: 500, Message: "database down"},
		Context: "loading books",
	})

	got := model.(*Model)
	assert.Equal(t, ViewError, got.view)
	assert.Equal(t, 500, got.errStatus)
	assert.Equal(t, "database down", got.errMessage)
}

func TestClientErrorStaysInline(t *testing.T) {
	m := newTestModel(t, domain.RoleMember)
	m.view = ViewBooks

	model, _ := m.Update(ErrMsg{
		Err:     &api.Error{Status: 400, Message: "Book is not available"},
		Context: "borrowing",
	})

	got := model.(*Model)
	assert.Equal(t, ViewBooks, got.view, "a 4xx must not leave the screen")
	assert.Equal(t, "Book is not available", got.status)
	assert.True(t, got.statusIsErr)
}

func TestValidationErrorsLandOnFormFields(t *testing.T) {
	m := newTestModel(t, "")
	require.NotNil(t, m.activeForm)

	model, _ := m.Update(ErrMsg{
		Err:     session.FieldErrors{"username": "Username is required"},
		Context: "login",
	})

	got := model.(*Model)
	assert.Equal(t, ViewLogin, got.view)
	assert.Equal(t, "Username is required", got.activeForm.errors["username"])
}
