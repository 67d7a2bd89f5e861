package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/session"
	"github.com/jtallard/biblio/internal/state"
)

// Command factories for async operations. Every command carries its own
// timeout so an unmounted view never leaves a request waiting forever.

const (
	requestTimeout = 30 * time.Second
	statusLinger   = 4 * time.Second
)

// LoginCmd authenticates and persists the token pair
func LoginCmd(sess *session.Manager, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := sess.Login(ctx, username, password); err != nil {
			return ErrMsg{Err: err, Context: "login"}
		}
		return LoggedInMsg{Username: username}
	}
}

// RegisterCmd creates an account; it does not authenticate
func RegisterCmd(sess *session.Manager, reg api.Registration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := sess.Register(ctx, reg); err != nil {
			return ErrMsg{Err: err, Context: "register"}
		}
		return RegisteredMsg{Username: reg.Username}
	}
}

// FetchProfileCmd loads the current user's profile
func FetchProfileCmd(sess *session.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := sess.FetchCurrentUser(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading profile"}
		}
		return ProfileLoadedMsg{}
	}
}

// LoadBooksCmd loads the catalog
func LoadBooksCmd(books *state.BookStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := books.FetchAll(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading books"}
		}
		return BooksLoadedMsg{}
	}
}

// SearchBooksCmd runs a server-side catalog search
func SearchBooksCmd(books *state.BookStore, term string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := books.Search(ctx, term); err != nil {
			return ErrMsg{Err: err, Context: "searching books"}
		}
		return BooksLoadedMsg{}
	}
}

// LoadBookDetailCmd loads one book for the detail view
func LoadBookDetailCmd(books *state.BookStore, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := books.FetchOne(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "loading book"}
		}
		return BookDetailLoadedMsg{BookID: id}
	}
}

// CreateBookCmd adds a catalog entry
func CreateBookCmd(books *state.BookStore, draft api.BookDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := books.Create(ctx, draft); err != nil {
			return ErrMsg{Err: err, Context: "creating book"}
		}
		return BookSavedMsg{}
	}
}

// UpdateBookCmd replaces a catalog entry
func UpdateBookCmd(books *state.BookStore, id int, draft api.BookDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := books.Update(ctx, id, draft); err != nil {
			return ErrMsg{Err: err, Context: "updating book"}
		}
		return BookSavedMsg{}
	}
}

// DeleteBookCmd removes a catalog entry
func DeleteBookCmd(books *state.BookStore, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := books.Delete(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "deleting book"}
		}
		return BookDeletedMsg{BookID: id}
	}
}

// LoadBorrowsCmd loads borrow records
func LoadBorrowsCmd(borrows *state.BorrowStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := borrows.FetchAll(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading borrow records"}
		}
		return BorrowsLoadedMsg{}
	}
}

// BorrowBookCmd creates a loan
func BorrowBookCmd(borrows *state.BorrowStore, bookID int, dueDate time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := borrows.Borrow(ctx, bookID, dueDate); err != nil {
			return ErrMsg{Err: err, Context: "borrowing book"}
		}
		return BorrowCreatedMsg{}
	}
}

// ReturnBookCmd marks a loan returned and refreshes the record
func ReturnBookCmd(borrows *state.BorrowStore, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := borrows.Return(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "returning book"}
		}
		return BookReturnedMsg{RecordID: id}
	}
}

// SendEmailCmd emails a record's borrower
func SendEmailCmd(borrows *state.BorrowStore, id int, subject, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := borrows.SendEmail(ctx, id, subject, message); err != nil {
			return ErrMsg{Err: err, Context: "sending email"}
		}
		return EmailSentMsg{}
	}
}

// DeleteBorrowCmd removes a borrow record
func DeleteBorrowCmd(borrows *state.BorrowStore, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := borrows.Delete(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "deleting borrow record"}
		}
		return BorrowDeletedMsg{RecordID: id}
	}
}

// LoadCategoriesCmd loads categories
func LoadCategoriesCmd(cats *state.CategoryStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := cats.FetchAll(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading categories"}
		}
		return CategoriesLoadedMsg{}
	}
}

// CreateCategoryCmd adds a category
func CreateCategoryCmd(cats *state.CategoryStore, name, description string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := cats.Create(ctx, name, description); err != nil {
			return ErrMsg{Err: err, Context: "creating category"}
		}
		return CategorySavedMsg{}
	}
}

// DeleteCategoryCmd removes a category
func DeleteCategoryCmd(cats *state.CategoryStore, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := cats.Delete(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "deleting category"}
		}
		return CategoryDeletedMsg{CategoryID: id}
	}
}

// LoadUsersCmd loads the account list
func LoadUsersCmd(users *state.UserStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := users.FetchAll(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading users"}
		}
		return UsersLoadedMsg{}
	}
}

// DeleteUserCmd removes an account
func DeleteUserCmd(users *state.UserStore, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := users.Delete(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "deleting user"}
		}
		return UserDeletedMsg{UserID: id}
	}
}

// LoadFinesCmd loads records with unpaid fines
func LoadFinesCmd(borrows *state.BorrowStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := borrows.FetchUnpaidFines(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading fines"}
		}
		return FinesLoadedMsg{}
	}
}

// MarkFinePaidCmd settles a fine
func MarkFinePaidCmd(borrows *state.BorrowStore, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := borrows.MarkFinePaid(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "marking fine paid"}
		}
		return FinePaidMsg{RecordID: id}
	}
}

// CheckDueCmd triggers the server's due-date sweep
func CheckDueCmd(borrows *state.BorrowStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		summary, err := borrows.CheckDue(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "checking due books"}
		}
		return DueCheckedMsg{Summary: summary}
	}
}

// ClearStatusCmd clears the status bar after a short linger
func ClearStatusCmd() tea.Cmd {
	return tea.Tick(statusLinger, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
