package api

import (
	"context"

	"github.com/jtallard/biblio/internal/domain"
)

// TokenPair is the access/refresh pair returned by a successful login.
type TokenPair struct {
	Access  string
	Refresh string
}

// Login exchanges credentials for a token pair. The caller decides where
// the tokens live; the client does not persist anything.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var resp tokenResponse
	err := c.post(ctx, "/api/token/", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: resp.Access, Refresh: resp.Refresh}, nil
}

// Registration is the payload for creating a new account.
type Registration struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a new account. It does not authenticate; the caller
// logs in separately afterwards.
func (c *Client) Register(ctx context.Context, reg Registration) (domain.User, error) {
	role := reg.Role
	if role == "" {
		role = domain.RoleMember
	}
	var resp userDTO
	err := c.post(ctx, "/users/", registerRequest{
		Username: reg.Username,
		Email:    reg.Email,
		Password: reg.Password,
		Role:     string(role),
	}, &resp)
	if err != nil {
		return domain.User{}, err
	}
	return mapUser(resp), nil
}

// CurrentUser fetches the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var resp userDTO
	if err := c.get(ctx, "/users/me/", nil, &resp); err != nil {
		return domain.User{}, err
	}
	return mapUser(resp), nil
}
