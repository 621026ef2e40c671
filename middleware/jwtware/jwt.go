package jwtware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup = "header:" + router.HeaderAuthorization

	// ErrTokenMissing is returned when no extractor found a token
	ErrTokenMissing = errors.New("token required")
	// ErrTokenInvalid is returned when a token was found but did not verify
	ErrTokenInvalid = errors.New("token invalid")
	// ErrForbidden is returned when the verified role does not match
	ErrForbidden = errors.New("access denied")
)

// TokenValidator interface for validating tokens without import cycles
// This mirrors the TokenService.Validate method from the auth package
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims interface for structured claims without import cycles
// This mirrors the AuthClaims interface from the auth package
type AuthClaims interface {
	UserID() int64
	Username() string
	Role() string
}

// ValidationListener is invoked after a token has been validated but before claims are stored.
type ValidationListener func(ctx router.Context, claims AuthClaims) error

type Config struct {
	Filter func(router.Context) bool
	// SuccessHandler runs after the checks pass and before the next
	// handler. An error stops the chain.
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	// ContextKey is the router locals key holding verified claims
	ContextKey string
	// TokenLookup is a comma separated list of source:name pairs,
	// e.g. "header:Authorization,cookie:jwt"
	TokenLookup string
	// AuthScheme is stripped from header values when set. Empty means
	// the header value is used exactly as supplied.
	AuthScheme string
	// TokenValidator is required by New
	TokenValidator TokenValidator

	// ContextEnricher is an optional function to propagate claims to the
	// request context after successful validation.
	ContextEnricher func(c context.Context, claims AuthClaims) context.Context

	ValidationListeners []ValidationListener
}

// New returns the authentication middleware. It extracts the raw token,
// runs exactly one validation and stores the decoded claims under
// ContextKey. Requests without valid claims never reach the next handler.
func New(config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)
	if cfg.TokenValidator == nil {
		panic("AUTH: JWT middleware configuration: TokenValidator is required.")
	}
	extractors := cfg.getExtractors()

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return next(ctx)
			}

			raw, err := ExtractRawTokenFromContext(ctx, extractors)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, fmt.Errorf("%w: %w", ErrTokenInvalid, err))
			}
			if claims == nil {
				return cfg.ErrorHandler(ctx, ErrTokenInvalid)
			}

			if err := cfg.runValidationListeners(ctx, claims); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, claims)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), claims))
			}

			return cfg.proceed(ctx, next)
		}
	}
}

// Only returns the authorization middleware. It must run after New and
// compares the role of the stored claims with role, exact and case
// sensitive. It never validates the token again.
func Only(role string, config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			claims, ok := ctx.Locals(cfg.ContextKey).(AuthClaims)
			if !ok || claims == nil {
				return cfg.ErrorHandler(ctx, ErrTokenMissing)
			}

			if claims.Role() != role {
				return cfg.ErrorHandler(ctx, fmt.Errorf("%w: required role '%s'", ErrForbidden, role))
			}

			return cfg.proceed(ctx, next)
		}
	}
}

// ExtractRawTokenFromContext returns the first token found by extractors.
// When none finds one, ErrTokenInvalid wins over ErrTokenMissing.
func ExtractRawTokenFromContext(ctx router.Context, extractors []JWTExtractor) (string, error) {
	err := ErrTokenMissing

	for _, extractor := range extractors {
		raw, e := extractor(ctx)
		if raw != "" && e == nil {
			return raw, nil
		}
		if errors.Is(e, ErrTokenInvalid) {
			err = e
		}
	}

	return "", err
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	cfg.AuthScheme = strings.TrimSpace(cfg.AuthScheme)

	return cfg
}

// DefaultErrorHandler writes the fixed JSON bodies for gate failures
func DefaultErrorHandler(ctx router.Context, err error) error {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Token required"})
	case errors.Is(err, ErrForbidden):
		return ctx.JSON(http.StatusForbidden, map[string]string{"message": "This is not for you"})
	default:
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Token invalid"})
	}
}

func (cfg *Config) proceed(ctx router.Context, next router.HandlerFunc) error {
	if cfg.SuccessHandler != nil {
		if err := cfg.SuccessHandler(ctx); err != nil {
			return err
		}
	}
	return next(ctx)
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func (cfg *Config) runValidationListeners(ctx router.Context, claims AuthClaims) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(ctx, claims); err != nil {
			return err
		}
	}
	return nil
}

func GetExtractors(tokenLookup string, authScheme string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1]))
		}
	}

	return extractors
}

type JWTExtractor func(c router.Context) (string, error)

// jwtFromHeader returns a function that extracts token from the request header.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		if a == "" {
			return "", ErrTokenMissing
		}

		if authScheme == "" {
			return a, nil
		}

		l := len(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrTokenInvalid
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) JWTExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) JWTExtractor {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

// jwtFromCookie returns a function that extracts token from the named cookie.
func jwtFromCookie(name string) JWTExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}
