package auth_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-auth-roles"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)

	_, ok = auth.FromContext(auth.WithContext(context.Background(), nil))
	assert.False(t, ok)

	user := &auth.User{ID: 1, Username: "sue"}
	got, ok := auth.FromContext(auth.WithContext(context.Background(), user))
	require.True(t, ok)
	assert.Same(t, user, got)
}

func TestClaimsContext(t *testing.T) {
	_, ok := auth.GetClaims(context.Background())
	assert.False(t, ok)

	claims := &auth.JWTClaims{UID: 2, Name: "bob", UserRole: auth.RoleAdmin}
	got, ok := auth.GetClaims(auth.WithClaimsContext(context.Background(), claims))
	require.True(t, ok)
	assert.Equal(t, int64(2), got.UserID())
	assert.True(t, got.HasRole(auth.RoleAdmin))
	assert.False(t, got.HasRole("Admin"))
}

func TestGetRouterClaims(t *testing.T) {
	tests := []struct {
		name    string
		setupFn func() router.Context
		key     string
		wantOK  bool
	}{
		{
			name: "claims under the default key",
			setupFn: func() router.Context {
				ctx := router.NewMockContext()
				ctx.LocalsMock["user"] = &auth.JWTClaims{UID: 7, Name: "anna", UserRole: "angel"}
				return ctx
			},
			wantOK: true,
		},
		{
			name: "claims under a custom key",
			setupFn: func() router.Context {
				ctx := router.NewMockContext()
				ctx.LocalsMock["jwt"] = &auth.JWTClaims{UID: 7, Name: "anna", UserRole: "angel"}
				return ctx
			},
			key:    "jwt",
			wantOK: true,
		},
		{
			name: "nothing stored",
			setupFn: func() router.Context {
				return router.NewMockContext()
			},
			key:    "user",
			wantOK: false,
		},
		{
			name: "wrong type stored",
			setupFn: func() router.Context {
				ctx := router.NewMockContext()
				ctx.LocalsMock["user"] = "not-claims"
				return ctx
			},
			key:    "user",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := auth.GetRouterClaims(tt.setupFn(), tt.key)

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, int64(7), got.UserID())
			assert.Equal(t, "anna", got.Username())
			assert.Equal(t, "angel", got.Role())
		})
	}
}
