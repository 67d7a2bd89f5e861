package api

import (
	"context"
	"fmt"
	"time"

	"github.com/jtallard/biblio/internal/domain"
)

// ListBorrowRecords returns borrow records. The server scopes the result
// to the caller: members see their own loans, staff see everything.
func (c *Client) ListBorrowRecords(ctx context.Context) ([]domain.BorrowRecord, error) {
	var resp []borrowRecordDTO
	if err := c.get(ctx, "/borrow-records", nil, &resp); err != nil {
		return nil, err
	}
	return mapBorrowRecords(resp), nil
}

// GetBorrowRecord fetches a single borrow record by id.
func (c *Client) GetBorrowRecord(ctx context.Context, id int) (domain.BorrowRecord, error) {
	var resp borrowRecordDTO
	if err := c.get(ctx, fmt.Sprintf("/borrow-records/%d/", id), nil, &resp); err != nil {
		return domain.BorrowRecord{}, err
	}
	return mapBorrowRecord(resp), nil
}

// CreateBorrowRecord borrows a book. The server assigns the borrower and
// the borrow date, flips the book to borrowed, and rejects unavailable
// books.
func (c *Client) CreateBorrowRecord(ctx context.Context, bookID int, dueDate time.Time) (domain.BorrowRecord, error) {
	var resp borrowRecordDTO
	err := c.post(ctx, "/borrow-records/", borrowRequest{
		BookID:  bookID,
		DueDate: formatTime(dueDate),
	}, &resp)
	if err != nil {
		return domain.BorrowRecord{}, err
	}
	return mapBorrowRecord(resp), nil
}

// ReturnBook marks a loan as returned. The server stamps the return date
// and computes any fine; the response only carries a confirmation
// message, so callers refetch the record for the authoritative values.
func (c *Client) ReturnBook(ctx context.Context, id int) (string, error) {
	var resp messageResponse
	err := c.post(ctx, fmt.Sprintf("/borrow-records/%d/return_book/", id), struct{}{}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// SendBorrowerEmail sends a message to the borrower on a record.
func (c *Client) SendBorrowerEmail(ctx context.Context, id int, subject, message string) (string, error) {
	var resp messageResponse
	err := c.post(ctx, fmt.Sprintf("/borrow-records/%d/send_email/", id), emailRequest{
		Subject: subject,
		Message: message,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DeleteBorrowRecord removes a borrow record by id.
func (c *Client) DeleteBorrowRecord(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/borrow-records/%d/", id))
}

// UnpaidFines returns records carrying an unpaid fine. Staff only.
func (c *Client) UnpaidFines(ctx context.Context) ([]domain.BorrowRecord, error) {
	var resp []borrowRecordDTO
	if err := c.get(ctx, "/borrow-records/unpaid_fines/", nil, &resp); err != nil {
		return nil, err
	}
	return mapBorrowRecords(resp), nil
}

// MarkFinePaid settles the fine on a record. Staff only.
func (c *Client) MarkFinePaid(ctx context.Context, id int) (string, error) {
	var resp messageResponse
	err := c.post(ctx, fmt.Sprintf("/borrow-records/%d/mark_fine_paid/", id), struct{}{}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CheckDueBooks asks the server to send overdue notifications. Admin
// only. Returns the server's summary message.
func (c *Client) CheckDueBooks(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.get(ctx, "/borrow-records/check_due_books/", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
