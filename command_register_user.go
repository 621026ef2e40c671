package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUserMessage carries a registration request. RoleName is the
// raw submitted value, nil when absent. Result, when set, receives the
// stored user.
type RegisterUserMessage struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	RoleName *string `json:"role_name"`
	Result   *User   `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler hashes the password and stores the new user
type RegisterUserHandler struct {
	users     Users
	passwords PasswordAuthenticator
	timeout   time.Duration
}

// NewRegisterUserHandler returns a handler storing users in store
func NewRegisterUserHandler(store Users, passwords PasswordAuthenticator) *RegisterUserHandler {
	return &RegisterUserHandler{
		users:     store,
		passwords: passwords,
		timeout:   time.Second * 10,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	role, err := NormalizeRoleName(event.RoleName)
	if err != nil {
		return err
	}

	payload := Credentials{Username: event.Username, Password: event.Password}
	if err := payload.Validate(); err != nil {
		return withSource(ErrShapeInvalid, err)
	}

	hash, err := h.passwords.HashPassword(event.Password)
	if err != nil {
		if errors.Is(err, ErrNoEmptyString) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return withSource(ErrShapeInvalid, err)
		}
		return StorageFailure(fmt.Errorf("hash password: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	user, err := h.users.Insert(ctx, &User{
		Username:     event.Username,
		PasswordHash: hash,
		RoleName:     role,
	})
	if err != nil {
		return StorageFailure(err)
	}

	if event.Result != nil {
		*event.Result = *user
	}

	return nil
}
