package auth_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/goliatone/go-auth-roles"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger implements auth.Logger for testing
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any) { l.add("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any) { l.add("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.add("error", msg, args) }

func (l *recordingLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

// MockUsers implements auth.Users for testing
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) Insert(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

func (m *MockUsers) List(ctx context.Context) ([]*auth.User, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*auth.User)
	return list, args.Error(1)
}

func newTestConfig() *auth.EnvConfig {
	return &auth.EnvConfig{
		SigningKey:      "test-signing-key",
		TokenExpiration: auth.DefaultTokenExpiration,
		ContextKey:      "user",
		TokenLookup:     "header:Authorization",
		HashCost:        bcrypt.MinCost,
	}
}

func newTestStore(t *testing.T) auth.Users {
	t.Helper()

	db, err := auth.OpenSQLite(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	require.NoError(t, auth.CreateSchema(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
	})

	return auth.NewUsersRepository(db)
}

func seedUser(t *testing.T, store auth.Users, username, password, role string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	user, err := store.Insert(context.Background(), &auth.User{
		Username:     username,
		PasswordHash: hash,
		RoleName:     role,
	})
	require.NoError(t, err, fmt.Sprintf("seed user %s", username))
	return user
}
