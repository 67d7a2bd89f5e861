package session

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jtallard/biblio/internal/api"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors is a validation failure keyed by form field. It never
// reaches the network; forms render it inline next to each field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + e[field]
	}
	return strings.Join(parts, "; ")
}

// ValidateLogin checks that both credentials are present.
func ValidateLogin(username, password string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(username) == "" {
		errs["username"] = "Username is required"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateRegistration applies the registration form rules: username at
// least 3 characters with no spaces, a plausible email, password at least
// 6 characters mixing upper, lower and digit.
func ValidateRegistration(reg api.Registration) FieldErrors {
	errs := FieldErrors{}

	switch {
	case strings.TrimSpace(reg.Username) == "":
		errs["username"] = "Username is required"
	case len(reg.Username) < 3:
		errs["username"] = "Username must be at least 3 characters"
	case strings.ContainsAny(reg.Username, " \t"):
		errs["username"] = "Username cannot contain spaces"
	}

	switch {
	case strings.TrimSpace(reg.Email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(reg.Email):
		errs["email"] = "Enter a valid email address"
	}

	switch {
	case reg.Password == "":
		errs["password"] = "Password is required"
	case len(reg.Password) < 6:
		errs["password"] = "Password must be at least 6 characters"
	case !passwordComplexEnough(reg.Password):
		errs["password"] = "Password must contain at least one uppercase, one lowercase, and one number"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func passwordComplexEnough(password string) bool {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
