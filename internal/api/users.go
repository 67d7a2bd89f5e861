package api

import (
	"context"
	"fmt"

	"github.com/jtallard/biblio/internal/domain"
)

// ListUsers returns all accounts. Staff only.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var resp []userDTO
	if err := c.get(ctx, "/users/", nil, &resp); err != nil {
		return nil, err
	}
	return mapUsers(resp), nil
}

// GetUser fetches a single account by id.
func (c *Client) GetUser(ctx context.Context, id int) (domain.User, error) {
	var resp userDTO
	if err := c.get(ctx, fmt.Sprintf("/users/%d/", id), nil, &resp); err != nil {
		return domain.User{}, err
	}
	return mapUser(resp), nil
}

// DeleteUser removes an account by id. Staff only.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/users/%d/", id))
}
