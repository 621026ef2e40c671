package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Logger takes a message followed by key/value pairs
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() time.Duration
	GetIssuer() string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetHashCost() int
	GetExposeStorageErrors() bool
}

// Users is the credential store
type Users interface {
	// FindByUsername returns ErrIdentityNotFound when there is no match
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Insert(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// TokenService issues and verifies session tokens
type TokenService interface {
	Generate(user *User) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

var (
	errPrefix = color.New(color.FgRed).Sprint("[ERR]")
	wrnPrefix = color.New(color.FgYellow).Sprint("[WRN]")
	infPrefix = color.New(color.FgCyan).Sprint("[INF]")
	dbgPrefix = color.New(color.FgHiBlack).Sprint("[DBG]")
)

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Print(errPrefix + " AUTH " + logLine(msg, args...))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Print(wrnPrefix + " AUTH " + logLine(msg, args...))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Print(infPrefix + " AUTH " + logLine(msg, args...))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Print(dbgPrefix + " AUTH " + logLine(msg, args...))
}

func logLine(msg string, args ...any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	b.WriteString("\n")
	return b.String()
}
