package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim from the access token without verifying
// the signature. Verification is the server's job; the client only uses
// the claim to tell the user when the session will lapse. Returns false
// for malformed tokens or tokens without an expiry.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expiry reports when the current session's token lapses, if a token is
// present and carries an exp claim.
func (m *Manager) Expiry() (time.Time, bool) {
	token := m.vault.AccessToken()
	if token == "" {
		return time.Time{}, false
	}
	return TokenExpiry(token)
}
