package tui

// Message types for the TUI

// ErrMsg represents a failed async action
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// LoggedInMsg signals a successful login; the profile fetch follows
type LoggedInMsg struct {
	Username string
}

// RegisteredMsg signals a successful registration; the user still logs in
type RegisteredMsg struct {
	Username string
}

// ProfileLoadedMsg signals that the current user's profile arrived
type ProfileLoadedMsg struct{}

// BooksLoadedMsg signals that the catalog was (re)loaded
type BooksLoadedMsg struct{}

// BookDetailLoadedMsg signals that a single book's detail arrived
type BookDetailLoadedMsg struct {
	BookID int
}

// BookSavedMsg signals a successful create or update
type BookSavedMsg struct{}

// BookDeletedMsg signals a successful delete
type BookDeletedMsg struct {
	BookID int
}

// BorrowsLoadedMsg signals that borrow records were (re)loaded
type BorrowsLoadedMsg struct{}

// BorrowCreatedMsg signals a successful borrow
type BorrowCreatedMsg struct{}

// BookReturnedMsg signals a successful return
type BookReturnedMsg struct {
	RecordID int
}

// EmailSentMsg signals that the borrower email went out
type EmailSentMsg struct{}

// BorrowDeletedMsg signals a successful borrow-record delete
type BorrowDeletedMsg struct {
	RecordID int
}

// CategoriesLoadedMsg signals that categories were (re)loaded
type CategoriesLoadedMsg struct{}

// CategorySavedMsg signals a successful category create
type CategorySavedMsg struct{}

// CategoryDeletedMsg signals a successful category delete
type CategoryDeletedMsg struct {
	CategoryID int
}

// UsersLoadedMsg signals that the account list was (re)loaded
type UsersLoadedMsg struct{}

// UserDeletedMsg signals a successful account delete
type UserDeletedMsg struct {
	UserID int
}

// FinesLoadedMsg signals that unpaid fines were (re)loaded
type FinesLoadedMsg struct{}

// FinePaidMsg signals a fine was marked paid
type FinePaidMsg struct {
	RecordID int
}

// DueCheckedMsg carries the server's overdue-notification summary
type DueCheckedMsg struct {
	Summary string
}

// StatusMsg sets a temporary status-bar message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar
type ClearStatusMsg struct{}
