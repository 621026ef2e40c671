// Package auth provides token based authentication for an HTTP API: JWT
// issuance at login, request gating, role scoped access and the
// registration rules that protect those paths.
//
// Flows:
//   - Registration runs ValidateRoleName (trim, reject "admin", reject names
//     longer than 32 UTF-16 units, default to "student") and dispatches a
//     RegisterUserMessage. RegisterUserHandler checks the credentials shape,
//     hashes the password with bcrypt and inserts the user.
//   - Login checks the credentials shape, loads the user by username, compares
//     the password and signs a token valid for one day carrying subject,
//     username and role_name.
//
// Gates:
//   - Restricted (jwtware.New) reads the raw Authorization header, verifies
//     it once and stores the claims in router locals and the request context.
//   - Only (jwtware.Only) compares the stored role_name with the required
//     role. It trusts the claims stored by Restricted and must run after it.
//
// Every failure is a go-errors *Error with a fixed client message. Storage
// failures hide the store error text unless Config.GetExposeStorageErrors
// is set.
package auth
