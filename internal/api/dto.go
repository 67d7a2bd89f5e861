package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Wire DTOs for the library server's JSON. Field names follow the
// server's snake_case; mappers in mapper.go convert to domain types.

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userDTO struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	DateJoined string `json:"date_joined,omitempty"`
}

type bookDTO struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    int    `json:"category"`
	ISBN        string `json:"ISBN"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

type bookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    int    `json:"category"`
	ISBN        string `json:"ISBN"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

type categoryDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type userInfoDTO struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type borrowRecordDTO struct {
	ID         int           `json:"id"`
	User       int           `json:"user"`
	Book       bookDTO       `json:"book"`
	BorrowDate string        `json:"borrow_date"`
	DueDate    string        `json:"due_date"`
	ReturnDate *string       `json:"return_date"`
	UserInfo   *userInfoDTO  `json:"user_info"`
	FineAmount decimalString `json:"fine_amount"`
	FinePaid   bool          `json:"fine_paid"`
}

type borrowRequest struct {
	BookID  int    `json:"book_id"`
	DueDate string `json:"due_date"`
}

type emailRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// decimalString accepts the server's DecimalField, which serializes as a
// quoted string ("10.00") but shows up as a bare number from some
// endpoints.
type decimalString float64

func (d *decimalString) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	*d = decimalString(f)
	return nil
}

// timestamp layouts the server emits, in order of likelihood
var timeLayouts = []string{
	"2006-01-02T15:04:05.999999Z07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime parses a server timestamp, returning the zero time for empty
// or unparseable input.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
