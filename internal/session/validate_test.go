package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jtallard/biblio/internal/api"
)

func TestValidateLogin(t *testing.T) {
	assert.Nil(t, ValidateLogin("alice", "pw"))

	errs := ValidateLogin("  ", "")
	assert.Equal(t, "Username is required", errs["username"])
	assert.Equal(t, "Password is required", errs["password"])
}

func TestValidateRegistration(t *testing.T) {
	valid := api.Registration{
		Username: "alice",
		Email:    "alice@example.org",
		Password: "Secret1",
	}

	tests := []struct {
		name    string
		mutate  func(*api.Registration)
		field   string
		message string
	}{
		{
			name:   "valid registration passes",
			mutate: func(r *api.Registration) {},
		},
		{
			name:    "username too short",
			mutate:  func(r *api.Registration) { r.Username = "ab" },
			field:   "username",
			message: "Username must be at least 3 characters",
		},
		{
			name:    "username with spaces",
			mutate:  func(r *api.Registration) { r.Username = "a b" },
			field:   "username",
			message: "Username cannot contain spaces",
		},
		{
			name:    "missing email",
			mutate:  func(r *api.Registration) { r.Email = "" },
			field:   "email",
			message: "Email is required",
		},
		{
			name:    "malformed email",
			mutate:  func(r *api.Registration) { r.Email = "not-an-email" },
			field:   "email",
			message: "Enter a valid email address",
		},
		{
			name:    "email with spaces",
			mutate:  func(r *api.Registration) { r.Email = "a b@example.org" },
			field:   "email",
			message: "Enter a valid email address",
		},
		{
			name:    "password too short",
			mutate:  func(r *api.Registration) { r.Password = "Abc1" },
			field:   "password",
			message: "Password must be at least 6 characters",
		},
		{
			name:    "password missing uppercase",
			mutate:  func(r *api.Registration) { r.Password = "secret1" },
			field:   "password",
			message: "Password must contain at least one uppercase, one lowercase, and one number",
		},
		{
			name:    "password missing digit",
			mutate:  func(r *api.Registration) { r.Password = "Secrets" },
			field:   "password",
			message: "Password must contain at least one uppercase, one lowercase, and one number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := valid
			tt.mutate(&reg)
			errs := ValidateRegistration(reg)

			if tt.field == "" {
				assert.Nil(t, errs)
				return
			}
			assert.Equal(t, tt.message, errs[tt.field])
		})
	}
}

func TestFieldErrorsMessageIsDeterministic(t *testing.T) {
	errs := FieldErrors{
		"username": "Username is required",
		"email":    "Email is required",
	}
	assert.Equal(t, "email: Email is required; username: Username is required", errs.Error())
}
