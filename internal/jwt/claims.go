package jwt

import (
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Claims del access token. sub = ID de la identidad; roles = nombres de rol.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwtv5.RegisteredClaims
}

// IssuedAtTime devuelve iat (zero si falta).
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime devuelve exp (zero si falta).
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// HasRole reporta si el token declara el rol name.
func (c *Claims) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r == name {
			return true
		}
	}
	return false
}
