package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the verified claims of a session token
type AuthClaims interface {
	UserID() int64
	Username() string
	Role() string
	HasRole(role string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims.
// The payload keys match what clients already decode:
// subject, username and role_name.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      int64  `json:"subject"`
	Name     string `json:"username"`
	UserRole string `json:"role_name"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// UserID returns the user ID
func (c *JWTClaims) UserID() int64 {
	return c.UID
}

// Username returns the username the token was issued to
func (c *JWTClaims) Username() string {
	return c.Name
}

// Role returns the role name
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// HasRole checks for an exact role match
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
