package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mhasan/codepilot/internal/apperror"
	"github.com/mhasan/codepilot/internal/model"
	"github.com/mhasan/codepilot/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors immediately instead of at the
// first call site that needs the interface.
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements repository.UserRepository on the shared connection pool.
type UserRepo struct {
	conn *sql.DB
}

// Create inserts a new user.
//
// POINTER RECEIVER (*model.User): we take a pointer so we can write the
// server-assigned ID and timestamp back into the caller's struct. SQLite
// assigns the id from the AUTOINCREMENT column; LastInsertId() returns it after
// the INSERT, which is why ids here are numeric rather than generated in Go.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	// The ? placeholders are filled in order by the driver, which handles
	// escaping — never build SQL with string concatenation.
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, created_at) VALUES (?, ?, ?)`,
		user.Username,
		user.Email,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user %s: %w", user.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	user.ID = id

	return nil
}

// FindByEmail retrieves a user by their unique email address.
// Returns apperror.ErrNotFound if no user exists with that email — the seed
// flow relies on this to decide between "return existing" and "create new".
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, username, email, created_at FROM users WHERE email = ?`,
		email,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.CreatedAt,
	)
	if err != nil {
		// sql.ErrNoRows is not really an error — it just means "no matching
		// row". We translate it into our domain's NotFound so callers don't
		// have to import database/sql.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: finding user by email %s: %w", email, err)
	}

	return &u, nil
}
