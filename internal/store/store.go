// Package store defines the storage contract shared by the SQL and in-memory
// backends.
package store

import (
	"context"
	"errors"

	"github.com/taskflow/taskflow-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrTodoNotFound   = errors.New("todo not found")
)

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser inserts a new user and sets the generated ID and CreatedAt
	// on the struct. Returns ErrDuplicateEmail if the email is taken; the
	// failed insert leaves no partial row behind.
	CreateUser(ctx context.Context, user *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
}

// TodoStore handles todo persistence. All single-record operations are atomic
// at storage granularity.
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error

	// CreateTodos inserts a batch within one transaction: either every todo
	// is created or none is.
	CreateTodos(ctx context.Context, todos []*model.Todo) error

	TodoByID(ctx context.Context, id string) (*model.Todo, error)

	// TodosByOwner returns the owner's todos newest-first. Unowned rows are
	// never included.
	TodosByOwner(ctx context.Context, ownerID int64) ([]model.Todo, error)

	// FlipCompleted atomically inverts the completed flag, but only if the
	// stored value still equals expected. Returns false without error when
	// the expectation is stale (the row changed underneath the caller), and
	// ErrTodoNotFound if the row does not exist at all.
	FlipCompleted(ctx context.Context, id string, expected bool) (bool, error)

	DeleteTodo(ctx context.Context, id string) error
}

// Store is the full storage surface consumed by the services.
type Store interface {
	UserStore
	TodoStore
	Close() error
}
