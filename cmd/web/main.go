package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/todoapp/internal/auth"
	"github.com/crucial707/todoapp/internal/config"
	"github.com/crucial707/todoapp/internal/db"
	"github.com/crucial707/todoapp/internal/handlers"
	"github.com/crucial707/todoapp/internal/middleware"
	"github.com/crucial707/todoapp/internal/repo"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repo.NewUserRepo(database)
	todoRepo := repo.NewTodoRepo(database)
	authSvc := auth.NewService(userRepo, []byte(cfg.JWTSecret))

	authHandler := &handlers.AuthHandler{Auth: authSvc, Users: userRepo}
	userHandler := &handlers.UserHandler{Users: userRepo}
	todoHandler := &handlers.TodoHandler{Todos: todoRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.Env == "prod"))
	r.Use(middleware.Prometheus)

	// Health and metrics (no auth, no CSRF)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	csrfProtect := csrf.Protect(
		[]byte(cfg.CSRFAuthKey),
		csrf.Secure(cfg.Env == "prod"),
		csrf.Path("/"),
	)
	authLimiter := middleware.AuthRateLimiter()

	r.Group(func(r chi.Router) {
		r.Use(csrfProtect)
		r.Use(middleware.MaxBytes(0))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/todos", http.StatusFound)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/", authHandler.LoginPage)
			r.With(authLimiter.Middleware).Post("/", authHandler.Login)
			r.Get("/logout", authHandler.Logout)
			r.Get("/register", authHandler.RegisterPage)
			r.With(authLimiter.Middleware).Post("/register", authHandler.Register)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAuth(authSvc))
			r.Get("/edit-password", userHandler.EditPasswordPage)
			r.Post("/edit-password", userHandler.EditPassword)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Use(middleware.RequireAuth(authSvc))
			r.Get("/", todoHandler.List)
			r.Get("/add-todo", todoHandler.AddPage)
			r.Post("/add-todo", todoHandler.Add)
			r.Get("/edit-todo/{id}", todoHandler.EditPage)
			r.Post("/edit-todo/{id}", todoHandler.Edit)
			r.Get("/complete/{id}", todoHandler.Complete)
			r.Get("/delete/{id}", todoHandler.Delete)
		})
	})

	slog.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
