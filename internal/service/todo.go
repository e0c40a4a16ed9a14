package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/taskflow-go/internal/model"
	"github.com/taskflow/taskflow-go/internal/store"
)

var (
	ErrTitleRequired = errors.New("title is required")

	// ErrTodoNotFound is returned both for missing todos and for todos owned
	// by someone else: a caller must not be able to tell a foreign record
	// apart from a nonexistent one.
	ErrTodoNotFound = errors.New("todo not found")
)

// TodoService handles todo business logic. Every mutating operation runs the
// ownership check before touching the store.
type TodoService struct {
	todos store.TodoStore
}

// NewTodoService creates a new TodoService.
func NewTodoService(todos store.TodoStore) *TodoService {
	return &TodoService{todos: todos}
}

// Add creates a todo. caller is nil for anonymous requests, which produce a
// legacy unowned row; such rows never show up in server-side listings.
func (s *TodoService) Add(ctx context.Context, caller *int64, title string) (model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, ErrTitleRequired
	}

	todo := model.Todo{
		ID:        uuid.NewString(),
		OwnerID:   caller,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.todos.CreateTodo(ctx, &todo); err != nil {
		return model.Todo{}, err
	}

	return todo, nil
}

// List returns the owner's todos, newest first.
func (s *TodoService) List(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	return s.todos.TodosByOwner(ctx, ownerID)
}

// Toggle flips a todo's completed flag. The new value is derived from the
// freshest stored state: the expected pre-state is read server-side right
// before an atomic conditional flip, so of two racing toggles only one flips
// and the loser observes the winner's result instead of reverting it.
func (s *TodoService) Toggle(ctx context.Context, caller *int64, id string) (model.Todo, error) {
	todo, err := s.load(ctx, caller, id)
	if err != nil {
		return model.Todo{}, err
	}

	flipped, err := s.todos.FlipCompleted(ctx, id, todo.Completed)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			return model.Todo{}, ErrTodoNotFound
		}
		return model.Todo{}, err
	}

	if flipped {
		todo.Completed = !todo.Completed
		return *todo, nil
	}

	// Lost the race: return the fresh state written by the winner.
	fresh, err := s.todos.TodoByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			return model.Todo{}, ErrTodoNotFound
		}
		return model.Todo{}, err
	}
	return *fresh, nil
}

// Delete removes a todo after the ownership check.
func (s *TodoService) Delete(ctx context.Context, caller *int64, id string) error {
	if _, err := s.load(ctx, caller, id); err != nil {
		return err
	}

	err := s.todos.DeleteTodo(ctx, id)
	if errors.Is(err, store.ErrTodoNotFound) {
		return ErrTodoNotFound
	}
	return err
}

// Migrate imports a batch of client-held guest todos under userID in one
// all-or-none write and returns the number imported. Client-side ids are
// discarded; completed flags are preserved. The whole batch is stamped newer
// than any pre-existing todo, with strictly increasing timestamps so its
// internal order is stable. Deduplication is the caller's job: it must clear
// its local copy after a successful call.
func (s *TodoService) Migrate(ctx context.Context, userID int64, entries []model.GuestTodo) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	todos := make([]*model.Todo, 0, len(entries))
	for i, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			return 0, ErrTitleRequired
		}
		todos = append(todos, &model.Todo{
			ID:        uuid.NewString(),
			OwnerID:   &userID,
			Title:     title,
			Completed: entry.Completed,
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}

	if err := s.todos.CreateTodos(ctx, todos); err != nil {
		return 0, err
	}

	return len(todos), nil
}

// load fetches a todo and applies the ownership gate: a missing todo and a
// todo owned by a different (or no) authenticated user are both reported as
// not found. Unowned rows stay reachable by any caller — they only exist via
// the legacy anonymous add path.
func (s *TodoService) load(ctx context.Context, caller *int64, id string) (*model.Todo, error) {
	todo, err := s.todos.TodoByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	if todo.OwnerID != nil {
		if caller == nil || *caller != *todo.OwnerID {
			return nil, ErrTodoNotFound
		}
	}

	return todo, nil
}
