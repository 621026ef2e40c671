package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goliatone/go-auth-roles/middleware/jwtware"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

const (
	credentialsLocalsKey = "auth_credentials"
	roleNameLocalsKey    = "auth_role_name"
)

// AuthControllerRoutes holds the paths mounted by RegisterRoutes
type AuthControllerRoutes struct {
	Register string
	Login    string
	Users    string
}

// RegisterUserCommand runs a registration message
type RegisterUserCommand interface {
	Execute(ctx context.Context, msg RegisterUserMessage) error
}

// AuthController serves registration, login and the gated users resource
type AuthController struct {
	Logger       Logger
	Users        Users
	Tokens       TokenService
	Passwords    PasswordAuthenticator
	RegisterUser RegisterUserCommand
	Routes       *AuthControllerRoutes
	ErrorHandler router.ErrorHandler
	cfg          Config
}

// NewAuthController wires a controller with the default routes and a
// RegisterUserHandler backed by store.
func NewAuthController(cfg Config, store Users, tokens TokenService, passwords PasswordAuthenticator) *AuthController {
	a := &AuthController{
		Logger:       defLogger{},
		Users:        store,
		Tokens:       tokens,
		Passwords:    passwords,
		RegisterUser: NewRegisterUserHandler(store, passwords),
		cfg:          cfg,
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Users:    "/users",
		},
	}
	a.ErrorHandler = a.defaultErrHandler
	return a
}

// WithLogger replaces the controller logger, nil is ignored
func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// RegisterRoutes mounts the auth and users routes on r
func RegisterRoutes[T any](r router.Router[T], a *AuthController) {
	errs := ErrorMiddleware(a.ErrorHandler)

	r.Post(a.Routes.Register, a.Register, errs, a.ValidateRoleName)
	r.Post(a.Routes.Login, a.Login, errs, a.ValidateCredentials, a.CheckUsernameExists)

	r.Get(a.Routes.Users, a.ListUsers, errs, a.Restricted())
	r.Get(a.Routes.Users+"/:user_id", a.GetUser, errs, a.Restricted(), a.Only(RoleAdmin))
}

// GateConfig is the jwtware configuration shared by Restricted and Only
func (a *AuthController) GateConfig() jwtware.Config {
	return jwtware.Config{
		ErrorHandler:    GateErrorHandler,
		ContextKey:      a.cfg.GetContextKey(),
		TokenLookup:     a.cfg.GetTokenLookup(),
		AuthScheme:      a.cfg.GetAuthScheme(),
		TokenValidator:  TokenValidatorAdapter(a.Tokens),
		ContextEnricher: ContextEnricherAdapter,
	}
}

// Restricted requires a valid token
func (a *AuthController) Restricted() router.MiddlewareFunc {
	return jwtware.New(a.GateConfig())
}

// Only requires the verified role to equal role
func (a *AuthController) Only(role string) router.MiddlewareFunc {
	return jwtware.Only(role, a.GateConfig())
}

func (a *AuthController) defaultErrHandler(c router.Context, err error) error {
	return NewErrorHandler(a.Logger, a.cfg.GetExposeStorageErrors())(c, err)
}

// ValidateRoleName normalizes role_name before registration
func (a *AuthController) ValidateRoleName(next router.HandlerFunc) router.HandlerFunc {
	return func(ctx router.Context) error {
		payload, err := bindCredentials(ctx)
		if err != nil {
			a.Logger.Error("register parse payload", "error", err)
			return withSource(ErrShapeInvalid, err)
		}

		role, err := NormalizeRoleName(payload.RoleName)
		if err != nil {
			return err
		}

		ctx.Locals(roleNameLocalsKey, role)
		return next(ctx)
	}
}

// ValidateCredentials checks the login payload shape
func (a *AuthController) ValidateCredentials(next router.HandlerFunc) router.HandlerFunc {
	return func(ctx router.Context) error {
		payload, err := bindCredentials(ctx)
		if err != nil {
			a.Logger.Error("login parse payload", "error", err)
			return withSource(ErrShapeInvalid, err)
		}

		if err := payload.Validate(); err != nil {
			return withSource(ErrShapeInvalid, err)
		}

		return next(ctx)
	}
}

// CheckUsernameExists loads the user named in the payload and stores it
// on the request, failing with ErrUnknownUsername when there is none.
func (a *AuthController) CheckUsernameExists(next router.HandlerFunc) router.HandlerFunc {
	return func(ctx router.Context) error {
		payload, err := bindCredentials(ctx)
		if err != nil {
			return withSource(ErrShapeInvalid, err)
		}

		user, err := a.Users.FindByUsername(ctx.Context(), payload.Username)
		if err != nil {
			if IsRecordNotFound(err) {
				return ErrUnknownUsername
			}
			return StorageFailure(err)
		}

		ctx.SetContext(WithContext(ctx.Context(), user))
		return next(ctx)
	}
}

// Register dispatches a RegisterUserMessage built from the payload
func (a *AuthController) Register(ctx router.Context) error {
	payload, err := bindCredentials(ctx)
	if err != nil {
		return withSource(ErrShapeInvalid, err)
	}

	msg := RegisterUserMessage{
		Username: payload.Username,
		Password: payload.Password,
		RoleName: payload.RoleName,
		Result:   &User{},
	}
	if role, ok := ctx.Locals(roleNameLocalsKey).(string); ok {
		msg.RoleName = &role
	}

	if err := a.RegisterUser.Execute(ctx.Context(), msg); err != nil {
		return err
	}

	res := msg.Result.Projection()
	a.Logger.Debug("user registered", "user", print.MaybePrettyJSON(res))

	return ctx.JSON(http.StatusCreated, res)
}

// Login verifies the password of the user loaded by CheckUsernameExists
// and issues a token.
func (a *AuthController) Login(ctx router.Context) error {
	payload, err := bindCredentials(ctx)
	if err != nil {
		return withSource(ErrShapeInvalid, err)
	}

	user, ok := FromContext(ctx.Context())
	if !ok {
		if user, err = a.Users.FindByUsername(ctx.Context(), payload.Username); err != nil {
			if IsRecordNotFound(err) {
				return ErrInvalidCredentials
			}
			return StorageFailure(err)
		}
	}

	if err := a.Passwords.ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		if !errors.Is(err, ErrMismatchedHashAndPassword) {
			a.Logger.Warn("login compare password", "user_id", user.ID, "error", err)
		}
		return withSource(ErrInvalidCredentials, err)
	}

	token, err := a.Tokens.Generate(user)
	if err != nil {
		return StorageFailure(err)
	}

	a.Logger.Info("user logged in", "user_id", user.ID, "role_name", user.RoleName)

	return ctx.JSON(router.StatusOK, LoginResponse{
		Message: fmt.Sprintf("%s is back!", user.Username),
		Token:   token,
	})
}

// ListUsers returns every user projection
func (a *AuthController) ListUsers(ctx router.Context) error {
	records, err := a.Users.List(ctx.Context())
	if err != nil {
		return StorageFailure(err)
	}

	res := make([]UserProjection, 0, len(records))
	for _, u := range records {
		res = append(res, u.Projection())
	}

	return ctx.JSON(router.StatusOK, res)
}

// GetUser returns one user projection
func (a *AuthController) GetUser(ctx router.Context) error {
	id, err := strconv.ParseInt(ctx.Param("user_id"), 10, 64)
	if err != nil {
		return withSource(ErrShapeInvalid, err)
	}

	user, err := a.Users.FindByID(ctx.Context(), id)
	if err != nil {
		if IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return StorageFailure(err)
	}

	return ctx.JSON(router.StatusOK, user.Projection())
}

// bindCredentials parses the body once per request
func bindCredentials(ctx router.Context) (*Credentials, error) {
	if payload, ok := ctx.Locals(credentialsLocalsKey).(*Credentials); ok {
		return payload, nil
	}

	payload := new(Credentials)
	if err := ctx.Bind(payload); err != nil {
		return nil, err
	}

	ctx.Locals(credentialsLocalsKey, payload)
	return payload, nil
}
