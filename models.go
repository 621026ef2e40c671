package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/uptrace/bun"
)

const (
	// RoleStudent is assigned when registration omits a role name
	RoleStudent = "student"
	// RoleAdmin is reserved, it can not be claimed through registration
	RoleAdmin = "admin"
	// MaxRoleNameLength is the longest role name accepted at registration
	MaxRoleNameLength = 32
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64     `bun:"user_id,pk,autoincrement" json:"user_id"`
	Username      string    `bun:"username,notnull,unique" json:"username"`
	PasswordHash  string    `bun:"password,notnull" json:"-"`
	RoleName      string    `bun:"role_name,notnull" json:"role_name"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"-"`
}

// Projection returns the public view of the user, it never
// carries the password hash.
func (u *User) Projection() UserProjection {
	return UserProjection{
		UserID:   u.ID,
		Username: u.Username,
		RoleName: u.RoleName,
	}
}

// UserProjection is what we send back to clients
type UserProjection struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	RoleName string `json:"role_name"`
}

// Credentials is the register and login payload
type Credentials struct {
	Username string  `form:"username" json:"username"`
	Password string  `form:"password" json:"password"`
	RoleName *string `form:"role_name" json:"role_name,omitempty"`
}

// Validate will validate the payload shape
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
