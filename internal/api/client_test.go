package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtallard/biblio/internal/domain"
	"github.com/jtallard/biblio/internal/log"
)

// staticToken is a fixed-token TokenSource for tests.
type staticToken string

func (t staticToken) AccessToken() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, staticToken(token), log.NullLogger()), srv
}

func TestBearerHeaderAttachedWhenTokenPresent(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}, "tok123")

	_, err := client.ListBooks(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestBearerHeaderOmittedWhenNoToken(t *testing.T) {
	var hasAuth bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{"access":"a","refresh":"r"}`))
	}, "")

	_, err := client.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.False(t, hasAuth, "anonymous requests must not carry an Authorization header")
}

func TestErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail wins over message", `{"detail":"No active account found","message":"other"}`, "No active account found"},
		{"message wins over error", `{"message":"Book is not available","error":"nope"}`, "Book is not available"},
		{"error field alone", `{"error":"Something broke"}`, "Something broke"},
		{"empty body falls back to status text", ``, "Bad Request"},
		{"non-json body falls back to status text", `<html>oops</html>`, "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := normalizeError(http.StatusBadRequest, []byte(tt.body))
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		})
	}
}

func TestErrorSentinels(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/me/":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Given token not valid"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not found."}`))
		}
	}, "tok")

	_, err := client.CurrentUser(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthFailed)

	_, err = client.GetBook(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransportFailureIsServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, staticToken(""), log.NullLogger())
	_, err := client.ListBooks(context.Background(), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServerOffline)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
}

func TestExactlyOneAttemptOnFailure(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}, "tok")

	_, err := client.ListBooks(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "failed requests must not be retried")
}

func TestListBooksSendsSearchQuery(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search")
		w.Write([]byte(`[{"id":1,"title":"Dune","author":"Frank Herbert","category":2,"ISBN":"123","status":"available"}]`))
	}, "tok")

	books, err := client.ListBooks(context.Background(), "dune")
	require.NoError(t, err)
	assert.Equal(t, "dune", gotQuery)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, domain.StatusAvailable, books[0].Status)
}

func TestGetBorrowRecordDecoding(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/borrow-records/7/", r.URL.Path)
		w.Write([]byte(`{
			"id": 7,
			"user": 3,
			"book": {"id":1,"title":"Dune","author":"Frank Herbert","category":2,"ISBN":"123","status":"borrowed"},
			"borrow_date": "2026-08-01T10:30:00.123456Z",
			"due_date": "2026-08-15T10:30:00Z",
			"return_date": "2026-08-20T09:00:00Z",
			"user_info": {"id":3,"username":"alice","email":"alice@example.org"},
			"fine_amount": "12.50",
			"fine_paid": false
		}`))
	}, "tok")

	rec, err := client.GetBorrowRecord(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, rec.ID)
	assert.Equal(t, 3, rec.UserID)
	assert.Equal(t, "Dune", rec.Book.Title)
	require.NotNil(t, rec.ReturnDate)
	assert.Equal(t, 20, rec.ReturnDate.Day())
	require.NotNil(t, rec.UserInfo)
	assert.Equal(t, "alice", rec.UserInfo.Username)
	assert.InDelta(t, 12.50, rec.FineAmount, 0.001)
	assert.False(t, rec.FinePaid)
	assert.False(t, rec.Active())
}

func TestActiveRecordHasNilReturnDate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 8,
			"user": 3,
			"book": {"id":1,"title":"Dune","author":"Frank Herbert","category":2,"ISBN":"123","status":"borrowed"},
			"borrow_date": "2026-08-01T10:30:00Z",
			"due_date": "2026-08-15T10:30:00Z",
			"return_date": null,
			"user_info": null,
			"fine_amount": 0,
			"fine_paid": false
		}`))
	}, "tok")

	rec, err := client.GetBorrowRecord(context.Background(), 8)
	require.NoError(t, err)

	assert.Nil(t, rec.ReturnDate)
	assert.Nil(t, rec.UserInfo)
	assert.True(t, rec.Active())
	assert.Equal(t, 0.0, rec.FineAmount)
}

func TestReturnBookReturnsServerMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/borrow-records/7/return_book/", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"message":"Book returned successfully"}`))
	}, "tok")

	msg, err := client.ReturnBook(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Book returned successfully", msg)
}

func TestParseTimeLayouts(t *testing.T) {
	tests := []struct {
		in      string
		wantDay int
	}{
		{"2026-08-01T10:30:00.123456Z", 1},
		{"2026-08-02T10:30:00Z", 2},
		{"2026-08-03T10:30:00", 3},
		{"2026-08-04", 4},
	}
	for _, tt := range tests {
		got := parseTime(tt.in)
		require.False(t, got.IsZero(), "failed to parse %q", tt.in)
		assert.Equal(t, tt.wantDay, got.Day())
	}

	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("not a date").IsZero())
}

func TestUnwrapOnlyMapsKnownStatuses(t *testing.T) {
	err := &Error{Status: http.StatusForbidden, Message: "denied"}
	assert.False(t, errors.Is(err, domain.ErrAuthFailed))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.EqualError(t, err, "denied")
}
