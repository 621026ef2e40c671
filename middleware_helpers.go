package auth

import (
	"context"
	"errors"

	"github.com/goliatone/go-auth-roles/middleware/jwtware"
	"github.com/goliatone/go-router"
)

// ValidationListener aliases the jwtware listener so consumers can use auth helpers directly.
type ValidationListener = jwtware.ValidationListener

// ContextEnricherAdapter adapts jwtware.AuthClaims to auth.AuthClaims and stores
// claims in the standard context for downstream handlers.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}
	return WithClaimsContext(c, authClaims)
}

// TokenValidatorAdapter exposes a TokenService as a jwtware.TokenValidator
func TokenValidatorAdapter(ts TokenService) jwtware.TokenValidator {
	return tokenValidatorAdapter{ts: ts}
}

type tokenValidatorAdapter struct {
	ts TokenService
}

func (a tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// GateErrorHandler maps jwtware failures onto the auth error taxonomy so
// the application error handler renders them.
func GateErrorHandler(_ router.Context, err error) error {
	switch {
	case errors.Is(err, jwtware.ErrTokenMissing):
		return ErrTokenRequired
	case errors.Is(err, jwtware.ErrForbidden):
		return withSource(ErrForbidden, err)
	case errors.Is(err, jwtware.ErrTokenInvalid):
		return withSource(ErrTokenInvalid, err)
	}

	if richErr, ok := AsError(err); ok {
		return richErr
	}

	return withSource(ErrTokenInvalid, err)
}

// RegisterValidationListeners appends listeners to a jwtware.Config in a safe, reusable way.
func RegisterValidationListeners(cfg *jwtware.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}
