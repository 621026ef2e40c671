package auth

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// NormalizeRoleName validates the role name submitted at registration.
// A nil or blank value resolves to RoleStudent. The admin check runs
// before the length check, and both run before defaulting.
func NormalizeRoleName(raw *string) (string, error) {
	if raw == nil {
		return RoleStudent, nil
	}

	role := strings.TrimFunc(*raw, isTrimmable)

	switch {
	case role == RoleAdmin:
		return "", ErrRoleAdminReserved
	case roleNameLength(role) > MaxRoleNameLength:
		return "", ErrRoleTooLong
	case role != "":
		return role, nil
	default:
		return RoleStudent, nil
	}
}

// isTrimmable matches the characters stripped around role names:
// unicode white space and the byte order mark, but not NEL (U+0085).
func isTrimmable(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// roleNameLength counts UTF-16 code units, so a character outside the
// basic multilingual plane counts twice.
func roleNameLength(role string) int {
	return len(utf16.Encode([]rune(role)))
}

// HasRole reports whether the claims carry exactly the given role.
// Comparison is case sensitive.
func HasRole(claims AuthClaims, role string) bool {
	if claims == nil {
		return false
	}
	return claims.Role() == role
}
