package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taskflow/taskflow-go/internal/model"
	"github.com/taskflow/taskflow-go/internal/store"
)

const insertTodoQuery = `INSERT INTO todos (id, owner_id, title, completed, created_at) VALUES (?, ?, ?, ?, ?)`

// CreateTodo inserts a single todo.
func (s *SQLStore) CreateTodo(ctx context.Context, todo *model.Todo) error {
	_, err := s.db.ExecContext(ctx, insertTodoQuery,
		todo.ID, ownerArg(todo.OwnerID), todo.Title, todo.Completed, todo.CreatedAt.UnixMicro())
	return err
}

// CreateTodos inserts a batch of todos within one transaction. Any failure
// rolls back the whole batch.
func (s *SQLStore) CreateTodos(ctx context.Context, todos []*model.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, todo := range todos {
		if _, err := tx.ExecContext(ctx, insertTodoQuery,
			todo.ID, ownerArg(todo.OwnerID), todo.Title, todo.Completed, todo.CreatedAt.UnixMicro()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// TodoByID retrieves a todo by ID.
func (s *SQLStore) TodoByID(ctx context.Context, id string) (*model.Todo, error) {
	query := `SELECT id, owner_id, title, completed, created_at FROM todos WHERE id = ?`

	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTodoNotFound
		}
		return nil, err
	}

	return todo, nil
}

// TodosByOwner retrieves the owner's todos, newest first. Unowned rows never
// match an owner id and are therefore never listed.
func (s *SQLStore) TodosByOwner(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	query := `SELECT id, owner_id, title, completed, created_at
		FROM todos WHERE owner_id = ? ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}

	return todos, rows.Err()
}

// FlipCompleted inverts the completed flag in a single conditional UPDATE. The
// flip only applies while the stored value still equals expected, so a stale
// caller cannot overwrite a newer write; it observes a no-op instead.
func (s *SQLStore) FlipCompleted(ctx context.Context, id string, expected bool) (bool, error) {
	query := `UPDATE todos SET completed = NOT completed WHERE id = ? AND completed = ?`

	result, err := s.db.ExecContext(ctx, query, id, expected)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return true, nil
	}

	// Distinguish a stale expectation from a missing row.
	if _, err := s.TodoByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// DeleteTodo removes a todo by ID.
func (s *SQLStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrTodoNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (*model.Todo, error) {
	todo := &model.Todo{}
	var owner sql.NullInt64
	var createdAt int64

	if err := row.Scan(&todo.ID, &owner, &todo.Title, &todo.Completed, &createdAt); err != nil {
		return nil, err
	}

	if owner.Valid {
		todo.OwnerID = &owner.Int64
	}
	todo.CreatedAt = time.UnixMicro(createdAt).UTC()
	return todo, nil
}

func ownerArg(ownerID *int64) any {
	if ownerID == nil {
		return nil
	}
	return *ownerID
}
