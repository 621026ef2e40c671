package auth

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeShapeInvalid       = "auth_shape_invalid"
	TextCodeAdminReserved      = "auth_role_admin_reserved"
	TextCodeRoleTooLong        = "auth_role_too_long"
	TextCodeTokenRequired      = "auth_token_required"
	TextCodeTokenInvalid       = "auth_token_invalid"
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeForbidden          = "auth_forbidden"
	TextCodeUserNotFound       = "auth_user_not_found"
	TextCodeIdentityNotFound   = "auth_identity_not_found"
	TextCodeStorageFailure     = "auth_storage_failure"
)

// ErrShapeInvalid is returned when username or password are missing
var ErrShapeInvalid = goerrors.New("please try again", goerrors.CategoryBadInput).
	WithTextCode(TextCodeShapeInvalid).
	WithCode(goerrors.CodeBadRequest)

// ErrRoleAdminReserved is returned when a registration claims the admin role
var ErrRoleAdminReserved = goerrors.New("Role name can not be admin", goerrors.CategoryValidation).
	WithTextCode(TextCodeAdminReserved).
	WithCode(http.StatusUnprocessableEntity)

// ErrRoleTooLong is returned when the trimmed role name exceeds MaxRoleNameLength
var ErrRoleTooLong = goerrors.New("Role name can not be longer than 32 chars", goerrors.CategoryValidation).
	WithTextCode(TextCodeRoleTooLong).
	WithCode(http.StatusUnprocessableEntity)

var ErrTokenRequired = goerrors.New("Token required", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenRequired).
	WithCode(goerrors.CodeUnauthorized)

var ErrTokenInvalid = goerrors.New("Token invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(goerrors.CodeUnauthorized)

var ErrForbidden = goerrors.New("This is not for you", goerrors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// ErrUnknownUsername is the username existence check failure
var ErrUnknownUsername = goerrors.New("Invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredentials is the password comparison failure
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrIdentityNotFound is the error we return for non found identities.
// The store returns it as is, never cloned.
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(goerrors.CodeNotFound)

// storageFailureMessage is the generic store failure shown to clients
const storageFailureMessage = "unable to process request"

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password can not be empty")

// ErrMismatchedHashAndPassword is returned when a password does not match its hash
var ErrMismatchedHashAndPassword = errors.New("password does not match hash")

// StorageFailure wraps a store error so it renders as a 500
func StorageFailure(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, storageFailureMessage).
		WithTextCode(TextCodeStorageFailure).
		WithCode(goerrors.CodeInternal)
}

// withSource returns a copy of base carrying err as its source.
// Sentinels are shared so they are never mutated.
func withSource(base *goerrors.Error, err error) *goerrors.Error {
	clone := base.Clone()
	clone.Source = err
	return clone
}

// AsError extracts a *goerrors.Error from err
func AsError(err error) (*goerrors.Error, bool) {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr, true
	}
	return nil, false
}

// HasTextCode reports whether the first rich error in err carries code
func HasTextCode(err error, code string) bool {
	richErr, ok := AsError(err)
	return ok && richErr.TextCode == code
}

// IsRecordNotFound checks for store lookups that found nothing
func IsRecordNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrIdentityNotFound) || HasTextCode(err, TextCodeIdentityNotFound)
}
