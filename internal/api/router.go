// Package api assembles the HTTP router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taskflow/taskflow-go/internal/handler"
	"github.com/taskflow/taskflow-go/internal/middleware"
	"github.com/taskflow/taskflow-go/internal/service"
	"github.com/taskflow/taskflow-go/internal/session"
	"github.com/taskflow/taskflow-go/internal/store"
)

// NewRouter wires the middleware stack and route table. allowedOrigins feeds
// the CORS policy; credentials stay enabled because the browser sends the
// session cookie cross-origin.
func NewRouter(st store.Store, sessions *session.Manager, allowedOrigins []string) *chi.Mux {
	authService := service.NewAuthService(st)
	todoService := service.NewTodoService(st)

	authHandler := handler.NewAuthHandler(authService, sessions)
	todoHandler := handler.NewTodoHandler(todoService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.WithSession(sessions))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
			r.Get("/me", authHandler.HandleMe)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", todoHandler.HandleList)
			r.Post("/", todoHandler.HandleCreate)
			r.Post("/migrate", todoHandler.HandleMigrate)
			r.Patch("/{id}/toggle", todoHandler.HandleToggle)
			r.Delete("/{id}", todoHandler.HandleDelete)
		})
	})

	return r
}
