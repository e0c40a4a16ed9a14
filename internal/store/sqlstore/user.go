package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taskflow/taskflow-go/internal/model"
	"github.com/taskflow/taskflow-go/internal/store"
)

// CreateUser inserts a new user and sets the generated ID and CreatedAt on the
// struct. A duplicate email fails atomically on the unique constraint.
func (s *SQLStore) CreateUser(ctx context.Context, user *model.User) error {
	createdAt := time.Now().UTC()

	query := `INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query, user.Email, user.PasswordHash, createdAt.UnixMicro())
	if err != nil {
		if isDuplicateEntryError(err) {
			return store.ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	user.CreatedAt = createdAt
	return nil
}

// UserByEmail retrieves a user by email address.
func (s *SQLStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// UserByID retrieves a user by ID.
func (s *SQLStore) UserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *SQLStore) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var createdAt int64

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}

	user.CreatedAt = time.UnixMicro(createdAt).UTC()
	return user, nil
}
