package model

import "time"

// Todo represents a todo record. OwnerID is nil for legacy unowned rows
// created by anonymous callers; such rows are never returned by server-side
// listing.
type Todo struct {
	ID        string
	OwnerID   *int64
	Title     string
	Completed bool
	CreatedAt time.Time
}

// CreateTodoRequest represents an add-todo request.
type CreateTodoRequest struct {
	Title string `json:"title"`
}

// ToggleTodoRequest carries the client's guess of the current completed state.
// The server ignores it: the new value is derived from the freshest stored
// state so a stale guess cannot overwrite a newer write.
type ToggleTodoRequest struct {
	Completed bool `json:"completed"`
}

// GuestTodo represents one client-held anonymous todo submitted for migration.
// Client-side identifiers are discarded on import.
type GuestTodo struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// MigrateRequest represents a guest migration batch.
type MigrateRequest struct {
	Todos []GuestTodo `json:"todos"`
}

// MigrateResponse reports how many guest todos were imported.
type MigrateResponse struct {
	Imported int `json:"imported"`
}

// TodoResponse represents a todo in API responses.
type TodoResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicTodo converts a stored todo to its API projection.
func PublicTodo(t *Todo) TodoResponse {
	return TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}
