package state

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/log"
)

type staticToken string

func (t staticToken) AccessToken() string { return string(t) }

func newTestBookStore(t *testing.T, handler http.HandlerFunc) *BookStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, staticToken("tok"), log.NullLogger())
	return NewBookStore(client, log.NullLogger())
}

const bookListJSON = `[
	{"id":1,"title":"Dune","author":"Frank Herbert","category":1,"ISBN":"111","status":"available"},
	{"id":2,"title":"Hyperion","author":"Dan Simmons","category":1,"ISBN":"222","status":"borrowed"}
]`

func TestBookFetchAllReplacesCollection(t *testing.T) {
	store := newTestBookStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/", r.URL.Path)
		w.Write([]byte(bookListJSON))
	})

	require.NoError(t, store.FetchAll(context.Background()))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Dune", snap.Items[0].Title)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
}

func TestBookFetchFailureKeepsPriorItems(t *testing.T) {
	failing := false
	store := newTestBookStore(t, func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"database down"}`))
			return
		}
		w.Write([]byte(bookListJSON))
	})

	require.NoError(t, store.FetchAll(context.Background()))
	require.Equal(t, 2, store.Len())

	failing = true
	err := store.FetchAll(context.Background())
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Len(t, snap.Items, 2, "a failed fetch must leave the previous data intact")
	assert.Equal(t, "database down", snap.Error)
	assert.False(t, snap.Loading)
}

func TestBookCreateAppendsExactlyOne(t *testing.T) {
	store := newTestBookStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":3,"title":"Ubik","author":"Philip K. Dick","category":1,"ISBN":"333","status":"available"}`))
			return
		}
		w.Write([]byte(bookListJSON))
	})

	require.NoError(t, store.FetchAll(context.Background()))
	require.NoError(t, store.Create(context.Background(), api.BookDraft{Title: "Ubik"}))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "Ubik", snap.Items[2].Title)
	assert.Equal(t, "Book added", snap.Success)
}

func TestBookUpdateOnMissingIDIsNoOp(t *testing.T) {
	store := newTestBookStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.Write([]byte(`{"id":99,"title":"Ghost","author":"Nobody","category":1,"ISBN":"999","status":"available"}`))
			return
		}
		w.Write([]byte(bookListJSON))
	})

	require.NoError(t, store.FetchAll(context.Background()))
	require.NoError(t, store.Update(context.Background(), 99, api.BookDraft{Title: "Ghost"}))

	snap := store.Snapshot()
	assert.Len(t, snap.Items, 2, "updating an id not in the collection must not insert it")
	_, found := store.Find(99)
	assert.False(t, found)
}

func TestBookDeleteRemovesExactlyThatID(t *testing.T) {
	store := newTestBookStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(bookListJSON))
	})

	require.NoError(t, store.FetchAll(context.Background()))
	require.NoError(t, store.Delete(context.Background(), 1))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].ID)
}

func TestBookDetailIndependentOfCollection(t *testing.T) {
	store := newTestBookStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/books/1/" {
			w.Write([]byte(`{"id":1,"title":"Dune","author":"Frank Herbert","category":1,"ISBN":"111","status":"available","description":"Spice"}`))
			return
		}
		w.Write([]byte(bookListJSON))
	})

	require.NoError(t, store.FetchOne(context.Background(), 1))

	book, loading, errMsg := store.Selected()
	require.NotNil(t, book)
	assert.Equal(t, "Spice", book.Description)
	assert.False(t, loading)
	assert.Empty(t, errMsg)

	assert.Equal(t, 0, store.Len(), "detail fetch must not populate the collection")
}
