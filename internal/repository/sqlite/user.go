package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors immediately — here, not at
// the distant call site where *DB gets passed as a UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user.
//
// The caller (the auth service) has already checked the name for
// uniqueness, but the UNIQUE constraint is the real guarantee — two
// concurrent signups with the same name race past the service check, and
// the second INSERT fails here. We translate that failure to a Conflict
// so both paths surface the same error.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, password_hash, role, email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Email,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Name)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByName retrieves a user by their unique name.
// sql.ErrNoRows is translated into the app's NotFound error — "no matching
// row" is a domain outcome here, not a database failure.
func (db *DB) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	return db.getUser(ctx, `WHERE name = ?`, name)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, password_hash, role, email, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &user, nil
}
