package auth

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig is the Config loaded from environment variables
type EnvConfig struct {
	SigningKey          string        `env:"AUTH_JWT_SECRET"`
	TokenExpiration     time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
	Issuer              string        `env:"AUTH_ISSUER"`
	ContextKey          string        `env:"AUTH_CONTEXT_KEY" envDefault:"user"`
	TokenLookup         string        `env:"AUTH_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme          string        `env:"AUTH_SCHEME"`
	HashCost            int           `env:"BCRYPT_ROUNDS" envDefault:"10"`
	ExposeStorageErrors bool          `env:"AUTH_EXPOSE_STORAGE_ERRORS" envDefault:"false"`
	DSN                 string        `env:"AUTH_DB_DSN" envDefault:"file:auth.db?cache=shared"`
	ListenAddr          string        `env:"AUTH_LISTEN_ADDR" envDefault:":9000"`
	AdminUsername       string        `env:"AUTH_ADMIN_USERNAME"`
	AdminPassword       string        `env:"AUTH_ADMIN_PASSWORD"`
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig parses the environment into an EnvConfig
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the values the server can not start without
func (c *EnvConfig) Validate() error {
	if c.SigningKey == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if c.TokenExpiration <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive, got %s", c.TokenExpiration)
	}
	return nil
}

func (c *EnvConfig) GetSigningKey() string { return c.SigningKey }
func (c *EnvConfig) GetTokenExpiration() time.Duration { return c.TokenExpiration }
func (c *EnvConfig) GetIssuer() string { return c.Issuer }
func (c *EnvConfig) GetContextKey() string { return c.ContextKey }
func (c *EnvConfig) GetTokenLookup() string { return c.TokenLookup }
func (c *EnvConfig) GetAuthScheme() string { return c.AuthScheme }
func (c *EnvConfig) GetHashCost() int { return c.HashCost }
func (c *EnvConfig) GetExposeStorageErrors() bool { return c.ExposeStorageErrors }
