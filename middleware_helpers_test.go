package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-auth-roles"
	"github.com/goliatone/go-auth-roles/middleware/jwtware"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		in       error
		want     *goerrors.Error
		category goerrors.Category
	}{
		{"missing token", jwtware.ErrTokenMissing, auth.ErrTokenRequired, goerrors.CategoryAuth},
		{"wrong role", fmt.Errorf("%w: required role 'admin'", jwtware.ErrForbidden), auth.ErrForbidden, goerrors.CategoryAuthz},
		{"bad token", fmt.Errorf("%w: %w", jwtware.ErrTokenInvalid, errors.New("expired")), auth.ErrTokenInvalid, goerrors.CategoryAuth},
		{"listener rich error", auth.ErrForbidden, auth.ErrForbidden, goerrors.CategoryAuthz},
		{"listener plain error", errors.New("revoked"), auth.ErrTokenInvalid, goerrors.CategoryAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.GateErrorHandler(nil, tt.in)

			richErr, ok := auth.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want.TextCode, richErr.TextCode)
			assert.Equal(t, tt.want.Message, richErr.Message)
			assert.Equal(t, tt.want.Code, richErr.Code)
			assert.Equal(t, tt.category, richErr.Category)
		})
	}
}

func TestGateErrorHandlerKeepsSource(t *testing.T) {
	in := fmt.Errorf("%w: %w", jwtware.ErrTokenInvalid, errors.New("token is expired"))

	err := auth.GateErrorHandler(nil, in)
	richErr, ok := auth.AsError(err)
	require.True(t, ok)
	assert.Equal(t, in, richErr.Source)
	assert.Nil(t, auth.ErrTokenInvalid.Source, "shared sentinel is never mutated")
}

func TestTokenValidatorAdapter(t *testing.T) {
	tokens := auth.NewTokenService([]byte("test-signing-key"), auth.DefaultTokenExpiration, "", nil)
	validator := auth.TokenValidatorAdapter(tokens)

	raw, err := tokens.Generate(&auth.User{ID: 9, Username: "anna", RoleName: "angel"})
	require.NoError(t, err)

	claims, err := validator.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID())
	assert.Equal(t, "angel", claims.Role())

	claims, err = validator.Validate("garbage")
	assert.Nil(t, claims)
	assert.True(t, auth.HasTextCode(err, auth.TextCodeTokenInvalid))
}

func TestContextEnricherAdapter(t *testing.T) {
	claims := &auth.JWTClaims{UID: 4, Name: "sue", UserRole: auth.RoleStudent}

	ctx := auth.ContextEnricherAdapter(context.Background(), claims)
	got, ok := auth.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, "sue", got.Username())
}

func TestRegisterValidationListeners(t *testing.T) {
	cfg := &jwtware.Config{}
	listener := func(router.Context, jwtware.AuthClaims) error { return nil }

	auth.RegisterValidationListeners(cfg, listener, listener)
	assert.Len(t, cfg.ValidationListeners, 2)

	auth.RegisterValidationListeners(nil, listener)
	auth.RegisterValidationListeners(cfg)
	assert.Len(t, cfg.ValidationListeners, 2)
}
