package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns a bun backed Users store
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

// CreateSchema creates the users table if it does not exist
func CreateSchema(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (a *users) FindByUsername(ctx context.Context, username string) (*User, error) {
	return a.findOne(ctx, "username", username)
}

func (a *users) FindByID(ctx context.Context, id int64) (*User, error) {
	return a.findOne(ctx, "user_id", id)
}

func (a *users) findOne(ctx context.Context, column string, value any) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return record, nil
}

// Insert stores the user inside a transaction and returns the stored
// record with its assigned ID.
func (a *users) Insert(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, errors.New("user must not be nil")
	}

	record := &User{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		RoleName:     user.RoleName,
	}

	err := a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(record).
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (a *users) List(ctx context.Context) ([]*User, error) {
	records := make([]*User, 0)
	err := a.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureUser registers username with the given role unless it already
// exists. It skips role validation and is meant for seeding accounts
// such as admins that can not be created through registration.
func EnsureUser(ctx context.Context, store Users, hasher PasswordAuthenticator, username, password, role string) (*User, error) {
	existing, err := store.FindByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !IsRecordNotFound(err) {
		return nil, err
	}

	hash, err := hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	return store.Insert(ctx, &User{
		Username:     username,
		PasswordHash: hash,
		RoleName:     role,
	})
}

// OpenSQLite opens dsn through the sqlite shim and returns a bun DB
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
