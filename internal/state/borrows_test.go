package state

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/log"
)

func jsonDecode(r *http.Request, dest interface{}) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

func newTestBorrowStore(t *testing.T, handler http.HandlerFunc) *BorrowStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, staticToken("tok"), log.NullLogger())
	return NewBorrowStore(client, log.NullLogger())
}

const borrowListJSON = `[
	{"id":10,"user":3,"book":{"id":1,"title":"Dune","author":"Frank Herbert","category":1,"ISBN":"111","status":"borrowed"},
	 "borrow_date":"2026-08-01T10:00:00Z","due_date":"2026-08-15T10:00:00Z","return_date":null,
	 "user_info":null,"fine_amount":"0.00","fine_paid":false},
	{"id":11,"user":3,"book":{"id":2,"title":"Hyperion","author":"Dan Simmons","category":1,"ISBN":"222","status":"borrowed"},
	 "borrow_date":"2026-07-01T10:00:00Z","due_date":"2026-07-15T10:00:00Z","return_date":null,
	 "user_info":null,"fine_amount":"0.00","fine_paid":false}
]`

func TestReturnRefetchesServerRecord(t *testing.T) {
	store := newTestBorrowStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/borrow-records/10/return_book/":
			w.Write([]byte(`{"message":"Book returned successfully"}`))
		case r.URL.Path == "/borrow-records/10/":
			w.Write([]byte(`{"id":10,"user":3,
				"book":{"id":1,"title":"Dune","author":"Frank Herbert","category":1,"ISBN":"111","status":"available"},
				"borrow_date":"2026-08-01T10:00:00Z","due_date":"2026-08-15T10:00:00Z",
				"return_date":"2026-08-20T09:00:00Z","user_info":null,"fine_amount":"5.00","fine_paid":false}`))
		default:
			w.Write([]byte(borrowListJSON))
		}
	})

	require.NoError(t, store.FetchAll(context.Background()))
	require.NoError(t, store.Return(context.Background(), 10))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 2)

	returned, found := store.Find(10)
	require.True(t, found)
	require.NotNil(t, returned.ReturnDate, "return date must come from the refetched server record")
	assert.Equal(t, 20, returned.ReturnDate.Day())
	assert.InDelta(t, 5.0, returned.FineAmount, 0.001)

	other, found := store.Find(11)
	require.True(t, found)
	assert.Nil(t, other.ReturnDate, "returning one loan must not touch the others")

	assert.Equal(t, "Book returned successfully", snap.Success)
}

func TestReturnKeepsConfirmationWhenRefetchFails(t *testing.T) {
	store := newTestBorrowStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/borrow-records/10/return_book/":
			w.Write([]byte(`{"message":"Book returned successfully"}`))
		case r.URL.Path == "/borrow-records/10/":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(borrowListJSON))
		}
	})

	require.NoError(t, store.FetchAll(context.Background()))
	require.NoError(t, store.Return(context.Background(), 10), "a refetch failure must not fail the return")

	snap := store.Snapshot()
	assert.Equal(t, "Book returned successfully", snap.Success)
	assert.Empty(t, snap.Error)
}

func TestBorrowAppendsServerRecord(t *testing.T) {
	store := newTestBorrowStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var payload map[string]interface{}
			require.NoError(t, jsonDecode(r, &payload))
			assert.EqualValues(t, 1, payload["book_id"])
			w.Write([]byte(`{"id":12,"user":3,
				"book":{"id":1,"title":"Dune","author":"Frank Herbert","category":1,"ISBN":"111","status":"borrowed"},
				"borrow_date":"2026-08-29T12:00:00Z","due_date":"2026-09-12T12:00:00Z",
				"return_date":null,"user_info":null,"fine_amount":"0.00","fine_paid":false}`))
			return
		}
		w.Write([]byte(borrowListJSON))
	})

	require.NoError(t, store.Borrow(context.Background(), 1, time.Now().AddDate(0, 0, 14)))

	rec, found := store.Find(12)
	require.True(t, found)
	assert.True(t, rec.Active())
}

func TestMarkFinePaidUpdatesOnlyThatRecord(t *testing.T) {
	store := newTestBorrowStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/borrow-records/unpaid_fines/":
			w.Write([]byte(`[
				{"id":10,"user":3,"book":{"id":1,"title":"Dune","author":"Frank Herbert","category":1,"ISBN":"111","status":"available"},
				 "borrow_date":"2026-07-01T10:00:00Z","due_date":"2026-07-15T10:00:00Z","return_date":"2026-07-20T10:00:00Z",
				 "user_info":{"id":3,"username":"alice","email":"alice@example.org"},"fine_amount":"5.00","fine_paid":false},
				{"id":11,"user":4,"book":{"id":2,"title":"Hyperion","author":"Dan Simmons","category":1,"ISBN":"222","status":"available"},
				 "borrow_date":"2026-07-01T10:00:00Z","due_date":"2026-07-15T10:00:00Z","return_date":"2026-07-22T10:00:00Z",
				 "user_info":{"id":4,"username":"bob","email":"bob@example.org"},"fine_amount":"7.00","fine_paid":false}
			]`))
		case "/borrow-records/10/mark_fine_paid/":
			w.Write([]byte(`{"message":"Fine marked as paid"}`))
		}
	})

	require.NoError(t, store.FetchUnpaidFines(context.Background()))
	require.Equal(t, 2, store.Len())

	require.NoError(t, store.MarkFinePaid(context.Background(), 10))

	paid, _ := store.Find(10)
	assert.True(t, paid.FinePaid)
	unpaid, _ := store.Find(11)
	assert.False(t, unpaid.FinePaid)
}

func TestActiveAndOverdueFilters(t *testing.T) {
	store := newTestBorrowStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(borrowListJSON))
	})
	require.NoError(t, store.FetchAll(context.Background()))

	active := store.Active()
	assert.Len(t, active, 2)

	// Record 11 was due 2026-07-15; record 10 is due 2026-08-15
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	overdue := store.Overdue(now)
	require.Len(t, overdue, 1)
	assert.Equal(t, 11, overdue[0].ID)
}
