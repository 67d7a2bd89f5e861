package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
)

// BorrowStore mirrors the borrow-record list. The server scopes the list
// to the caller's role, so members only ever see their own loans here.
type BorrowStore struct {
	Collection[domain.BorrowRecord]

	client *api.Client
	logger *slog.Logger
}

// NewBorrowStore creates the borrow-record store.
func NewBorrowStore(client *api.Client, logger *slog.Logger) *BorrowStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BorrowStore{client: client, logger: logger}
}

// FetchAll replaces the record list with the server's.
func (s *BorrowStore) FetchAll(ctx context.Context) error {
	s.begin()
	records, err := s.client.ListBorrowRecords(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	s.replaceAll(records)
	s.logger.Debug("loaded borrow records", "count", len(records))
	return nil
}

// Borrow creates a loan for a book and appends the server's record.
func (s *BorrowStore) Borrow(ctx context.Context, bookID int, dueDate time.Time) error {
	s.begin()
	record, err := s.client.CreateBorrowRecord(ctx, bookID, dueDate)
	if err != nil {
		s.fail(err)
		return err
	}
	s.appendOne(record)
	s.setSuccess("Borrow record created")
	s.logger.Info("borrowed book", "recordID", record.ID, "bookID", bookID)
	return nil
}

// Return marks a loan as returned. The return date and fine are the
// server's call, so the record is refetched afterwards rather than
// stamped with the client clock; a stale refetch failure keeps the
// confirmation but logs the miss.
func (s *BorrowStore) Return(ctx context.Context, id int) error {
	s.begin()
	message, err := s.client.ReturnBook(ctx, id)
	if err != nil {
		s.fail(err)
		return err
	}

	record, err := s.client.GetBorrowRecord(ctx, id)
	if err != nil {
		s.logger.Warn("return confirmed but refetch failed", "recordID", id, "error", err)
		s.settle()
		s.setSuccess(message)
		return nil
	}

	s.replaceOne(record)
	s.setSuccess(message)
	s.logger.Info("returned book", "recordID", id, "fine", record.FineAmount)
	return nil
}

// SendEmail sends a message to a record's borrower. State is untouched
// beyond the transient success message.
func (s *BorrowStore) SendEmail(ctx context.Context, id int, subject, message string) error {
	s.begin()
	reply, err := s.client.SendBorrowerEmail(ctx, id, subject, message)
	if err != nil {
		s.fail(err)
		return err
	}
	s.settle()
	s.setSuccess(reply)
	return nil
}

// Delete removes a record after server confirmation.
func (s *BorrowStore) Delete(ctx context.Context, id int) error {
	s.begin()
	if err := s.client.DeleteBorrowRecord(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.removeOne(id)
	s.setSuccess("Borrow record deleted")
	return nil
}

// FetchUnpaidFines replaces the list with records carrying unpaid fines.
func (s *BorrowStore) FetchUnpaidFines(ctx context.Context) error {
	s.begin()
	records, err := s.client.UnpaidFines(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	s.replaceAll(records)
	return nil
}

// MarkFinePaid settles a record's fine, then mirrors the change.
func (s *BorrowStore) MarkFinePaid(ctx context.Context, id int) error {
	s.begin()
	message, err := s.client.MarkFinePaid(ctx, id)
	if err != nil {
		s.fail(err)
		return err
	}

	if record, ok := s.Find(id); ok {
		record.FinePaid = true
		s.replaceOne(record)
	} else {
		s.settle()
	}
	s.setSuccess(message)
	return nil
}

// CheckDue triggers the server's due-date sweep, which emails borrowers
// with loans due soon. Returns the server's summary line.
func (s *BorrowStore) CheckDue(ctx context.Context) (string, error) {
	s.begin()
	summary, err := s.client.CheckDueBooks(ctx)
	if err != nil {
		s.fail(err)
		return "", err
	}
	s.settle()
	return summary, nil
}

// Active returns the loans still out, newest first preserved from the
// server's order.
func (s *BorrowStore) Active() []domain.BorrowRecord {
	snap := s.Snapshot()
	active := make([]domain.BorrowRecord, 0, len(snap.Items))
	for _, r := range snap.Items {
		if r.Active() {
			active = append(active, r)
		}
	}
	return active
}

// Overdue returns the active loans past their due date.
func (s *BorrowStore) Overdue(now time.Time) []domain.BorrowRecord {
	snap := s.Snapshot()
	overdue := make([]domain.BorrowRecord, 0, len(snap.Items))
	for _, r := range snap.Items {
		if r.Overdue(now) {
			overdue = append(overdue, r)
		}
	}
	return overdue
}
