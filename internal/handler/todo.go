package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskflow/taskflow-go/internal/middleware"
	"github.com/taskflow/taskflow-go/internal/model"
	"github.com/taskflow/taskflow-go/internal/service"
)

// TodoHandler handles HTTP requests for todo operations. Identity comes from
// the session middleware; anonymous callers are served where the model allows
// it rather than rejected.
type TodoHandler struct {
	service *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{service: svc}
}

// caller returns the resolved user id, or nil for anonymous requests.
func caller(r *http.Request) *int64 {
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		return &userID
	}
	return nil
}

// HandleList handles GET /api/v1/todos requests. Anonymous callers get an
// empty list: their todos live in client storage, not on the server.
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, []model.TodoResponse{})
		return
	}

	todos, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("listing todos failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	resp := make([]model.TodoResponse, 0, len(todos))
	for i := range todos {
		resp = append(resp, model.PublicTodo(&todos[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /api/v1/todos requests.
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	todo, err := h.service.Add(r.Context(), caller(r), req.Title)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("creating todo failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, model.PublicTodo(&todo))
}

// HandleToggle handles PATCH /api/v1/todos/{id}/toggle requests. The body may
// carry the client's guess of the current completed state; it is decoded for
// wire compatibility and ignored — the flip is derived from stored state.
func (h *TodoHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid todo id"))
		return
	}

	var req model.ToggleTodoRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	todo, err := h.service.Toggle(r.Context(), caller(r), id)
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		slog.Error("toggling todo failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.PublicTodo(&todo))
}

// HandleDelete handles DELETE /api/v1/todos/{id} requests.
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid todo id"))
		return
	}

	if err := h.service.Delete(r.Context(), caller(r), id); err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		slog.Error("deleting todo failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse())
}

// HandleMigrate handles POST /api/v1/todos/migrate requests: the one-shot
// import of client-held guest todos after login or registration. Anonymous
// callers get imported=0 rather than an error.
func (h *TodoHandler) HandleMigrate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, model.MigrateResponse{Imported: 0})
		return
	}

	var req model.MigrateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	count, err := h.service.Migrate(r.Context(), userID, req.Todos)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("guest migration failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.MigrateResponse{Imported: count})
}
