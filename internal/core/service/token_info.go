package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo summarises claims peeked from a bearer token without verifying
// its signature. The token is treated as opaque everywhere else; this exists
// only so the session status view can show expiry to the operator. It is
// never consulted for an access decision.
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// PeekToken parses token as a JWT without signature verification. Returns
// false for tokens that are not JWTs at all.
func PeekToken(token string) (*TokenInfo, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info, true
}
