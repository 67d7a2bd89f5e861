package domain

import (
	"fmt"
	"time"
)

// Role gates which screens and actions a user may reach.
type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// IsStaff reports whether the role may manage the catalog.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

// BookStatus tracks a copy's circulation state.
type BookStatus string

const (
	StatusAvailable BookStatus = "available"
	StatusBorrowed  BookStatus = "borrowed"
	StatusReserved  BookStatus = "reserved"
)

// User is the profile snapshot returned by the server. It is replaced
// wholesale on refetch, never mutated field by field.
type User struct {
	ID         int
	Username   string
	Email      string
	Role       Role
	DateJoined time.Time
}

// Book is a catalog entry.
type Book struct {
	ID          int
	Title       string
	Author      string
	CategoryID  int
	ISBN        string
	Status      BookStatus
	Description string
}

// Category is a catalog grouping.
type Category struct {
	ID          int
	Name        string
	Description string
}

// UserInfo is the borrower summary embedded in borrow records for staff.
type UserInfo struct {
	ID       int
	Username string
	Email    string
}

// BorrowRecord tracks a single loan from borrow date through optional
// return date and fine.
type BorrowRecord struct {
	ID         int
	Book       Book
	UserID     int
	UserInfo   *UserInfo
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	FineAmount float64
	FinePaid   bool
}

// Active reports whether the loan is still out.
func (r BorrowRecord) Active() bool {
	return r.ReturnDate == nil
}

// Overdue reports whether the loan is out past its due date.
func (r BorrowRecord) Overdue(now time.Time) bool {
	return r.Active() && r.DueDate.Before(now)
}

// FormattedFine renders the fine for display.
func (r BorrowRecord) FormattedFine() string {
	if r.FineAmount <= 0 {
		return "-"
	}
	s := fmt.Sprintf("%.2f", r.FineAmount)
	if r.FinePaid {
		return s + " (paid)"
	}
	return s
}

// Entity is anything with a server-assigned identifier. The state
// collections are generic over it.
type Entity interface {
	EntityID() int
}

func (u User) EntityID() int         { return u.ID }
func (b Book) EntityID() int         { return b.ID }
func (c Category) EntityID() int     { return c.ID }
func (r BorrowRecord) EntityID() int { return r.ID }
