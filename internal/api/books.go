package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jtallard/biblio/internal/domain"
)

// BookDraft is the writable portion of a book used by create and update.
type BookDraft struct {
	Title       string
	Author      string
	CategoryID  int
	ISBN        string
	Status      domain.BookStatus
	Description string
}

func (d BookDraft) toRequest() bookRequest {
	status := d.Status
	if status == "" {
		status = domain.StatusAvailable
	}
	return bookRequest{
		Title:       d.Title,
		Author:      d.Author,
		Category:    d.CategoryID,
		ISBN:        d.ISBN,
		Status:      string(status),
		Description: d.Description,
	}
}

// ListBooks returns the catalog. A non-empty search term narrows the
// result server-side across title, author and ISBN.
func (c *Client) ListBooks(ctx context.Context, search string) ([]domain.Book, error) {
	var query url.Values
	if search != "" {
		query = url.Values{}
		query.Set("search", search)
	}
	var resp []bookDTO
	if err := c.get(ctx, "/books/", query, &resp); err != nil {
		return nil, err
	}
	return mapBooks(resp), nil
}

// GetBook fetches a single book by id.
func (c *Client) GetBook(ctx context.Context, id int) (domain.Book, error) {
	var resp bookDTO
	if err := c.get(ctx, fmt.Sprintf("/books/%d/", id), nil, &resp); err != nil {
		return domain.Book{}, err
	}
	return mapBook(resp), nil
}

// CreateBook adds a book and returns the server's copy with its id.
func (c *Client) CreateBook(ctx context.Context, draft BookDraft) (domain.Book, error) {
	var resp bookDTO
	if err := c.post(ctx, "/books/", draft.toRequest(), &resp); err != nil {
		return domain.Book{}, err
	}
	return mapBook(resp), nil
}

// UpdateBook replaces a book and returns the server's copy.
func (c *Client) UpdateBook(ctx context.Context, id int, draft BookDraft) (domain.Book, error) {
	var resp bookDTO
	if err := c.put(ctx, fmt.Sprintf("/books/%d/", id), draft.toRequest(), &resp); err != nil {
		return domain.Book{}, err
	}
	return mapBook(resp), nil
}

// DeleteBook removes a book by id.
func (c *Client) DeleteBook(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/books/%d/", id))
}
