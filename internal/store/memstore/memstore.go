// Package memstore implements the storage contract in memory. It backs the
// service tests and serves as the degraded mode when the database is
// unreachable at startup.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/taskflow/taskflow-go/internal/model"
	"github.com/taskflow/taskflow-go/internal/store"
)

var errDuplicateTodoID = errors.New("duplicate todo id")

// MemStore is a mutex-guarded in-memory implementation of store.Store.
type MemStore struct {
	mu         sync.Mutex
	users      map[int64]*model.User
	emailIndex map[string]int64
	todos      map[string]*model.Todo
	nextUserID int64
	seq        map[string]int64
	nextSeq    int64
}

// New creates an empty MemStore.
func New() *MemStore {
	return &MemStore{
		users:      make(map[int64]*model.User),
		emailIndex: make(map[string]int64),
		todos:      make(map[string]*model.Todo),
		seq:        make(map[string]int64),
	}
}

// Close implements store.Store; there is nothing to release.
func (m *MemStore) Close() error { return nil }

// CreateUser inserts a new user, enforcing email uniqueness.
func (m *MemStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.emailIndex[user.Email]; taken {
		return store.ErrDuplicateEmail
	}

	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now().UTC()

	clone := *user
	m.users[user.ID] = &clone
	m.emailIndex[user.Email] = user.ID
	return nil
}

// UserByEmail retrieves a user by email address.
func (m *MemStore) UserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.emailIndex[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *m.users[id]
	return &clone, nil
}

// UserByID retrieves a user by ID.
func (m *MemStore) UserByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// CreateTodo inserts a single todo.
func (m *MemStore) CreateTodo(_ context.Context, todo *model.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertLocked(todo)
	return nil
}

// CreateTodos inserts a batch all-or-none. Duplicate ids within the batch (or
// against existing rows) fail the whole batch before anything is written.
func (m *MemStore) CreateTodos(_ context.Context, todos []*model.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{}, len(todos))
	for _, todo := range todos {
		if _, dup := seen[todo.ID]; dup {
			return errDuplicateTodoID
		}
		if _, exists := m.todos[todo.ID]; exists {
			return errDuplicateTodoID
		}
		seen[todo.ID] = struct{}{}
	}

	for _, todo := range todos {
		m.insertLocked(todo)
	}
	return nil
}

func (m *MemStore) insertLocked(todo *model.Todo) {
	m.nextSeq++
	clone := *todo
	m.todos[todo.ID] = &clone
	m.seq[todo.ID] = m.nextSeq
}

// TodoByID retrieves a todo by ID.
func (m *MemStore) TodoByID(_ context.Context, id string) (*model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	todo, ok := m.todos[id]
	if !ok {
		return nil, store.ErrTodoNotFound
	}
	clone := *todo
	return &clone, nil
}

// TodosByOwner retrieves the owner's todos, newest first. Unowned rows are
// never listed.
func (m *MemStore) TodosByOwner(_ context.Context, ownerID int64) ([]model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var todos []model.Todo
	for _, todo := range m.todos {
		if todo.OwnerID != nil && *todo.OwnerID == ownerID {
			todos = append(todos, *todo)
		}
	}

	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return m.seq[todos[i].ID] > m.seq[todos[j].ID]
	})

	return todos, nil
}

// FlipCompleted inverts the completed flag if the stored value still equals
// expected; a stale expectation is a no-op, not an overwrite.
func (m *MemStore) FlipCompleted(_ context.Context, id string, expected bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	todo, ok := m.todos[id]
	if !ok {
		return false, store.ErrTodoNotFound
	}
	if todo.Completed != expected {
		return false, nil
	}

	todo.Completed = !todo.Completed
	return true, nil
}

// DeleteTodo removes a todo by ID.
func (m *MemStore) DeleteTodo(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[id]; !ok {
		return store.ErrTodoNotFound
	}
	delete(m.todos, id)
	delete(m.seq, id)
	return nil
}
