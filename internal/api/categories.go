package api

import (
	"context"
	"fmt"

	"github.com/jtallard/biblio/internal/domain"
)

// ListCategories returns all catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var resp []categoryDTO
	if err := c.get(ctx, "/categories/", nil, &resp); err != nil {
		return nil, err
	}
	return mapCategories(resp), nil
}

// CreateCategory adds a category and returns the server's copy.
func (c *Client) CreateCategory(ctx context.Context, name, description string) (domain.Category, error) {
	var resp categoryDTO
	err := c.post(ctx, "/categories/", categoryRequest{Name: name, Description: description}, &resp)
	if err != nil {
		return domain.Category{}, err
	}
	return mapCategory(resp), nil
}

// DeleteCategory removes a category by id.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/categories/%d/", id))
}
