package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/crucial707/todoapp/internal/middleware"
	"github.com/crucial707/todoapp/internal/models"
	"github.com/crucial707/todoapp/internal/repo"
)

// ==========================
// Todo Handler
// ==========================
// Every operation is scoped to the session user's ID, so a guessed or
// stale todo ID belonging to someone else behaves like a missing row.
type TodoHandler struct {
	Todos *repo.TodoRepo
}

// ==========================
// List
// ==========================
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusFound)
		return
	}

	todos, err := h.Todos.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("todos: list", "error", err)
		renderTemplate(w, "todos.html", pageData(r, map[string]interface{}{"Msg": MsgUnknownError}))
		return
	}

	renderTemplate(w, "todos.html", pageData(r, map[string]interface{}{"Todos": todos}))
}

// ==========================
// Add form
// ==========================
func (h *TodoHandler) AddPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "todo_form.html", pageData(r, map[string]interface{}{
		"Heading":     "Add Todo",
		"FormAction":  "/todos/add-todo",
		"SubmitLabel": "Create",
	}))
}

// ==========================
// Add submit
// ==========================
func (h *TodoHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	priority := parsePriority(r.FormValue("priority"))

	if title == "" {
		renderTemplate(w, "todo_form.html", pageData(r, map[string]interface{}{
			"Msg":         "Title is required",
			"Heading":     "Add Todo",
			"FormAction":  "/todos/add-todo",
			"SubmitLabel": "Create",
		}))
		return
	}

	if _, err := h.Todos.Create(r.Context(), claims.UserID, title, description, priority); err != nil {
		slog.Error("todos: create", "error", err)
		renderTemplate(w, "todo_form.html", pageData(r, map[string]interface{}{
			"Msg":         MsgUnknownError,
			"Heading":     "Add Todo",
			"FormAction":  "/todos/add-todo",
			"SubmitLabel": "Create",
		}))
		return
	}

	http.Redirect(w, r, "/todos", http.StatusFound)
}

// ==========================
// Edit form
// ==========================
func (h *TodoHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusFound)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}

	todo, err := h.Todos.GetByID(r.Context(), id, claims.UserID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			slog.Error("todos: get", "error", err)
		}
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}

	renderTemplate(w, "todo_form.html", pageData(r, map[string]interface{}{
		"Heading":     "Edit Todo",
		"Todo":        todo,
		"FormAction":  "/todos/edit-todo/" + strconv.Itoa(todo.ID),
		"SubmitLabel": "Save",
	}))
}

// ==========================
// Edit submit
// ==========================
func (h *TodoHandler) Edit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusFound)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	priority := parsePriority(r.FormValue("priority"))

	if title == "" {
		http.Redirect(w, r, "/todos/edit-todo/"+strconv.Itoa(id), http.StatusFound)
		return
	}

	if _, err := h.Todos.Update(r.Context(), id, claims.UserID, title, description, priority); err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			slog.Error("todos: update", "error", err)
		}
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}

	http.Redirect(w, r, "/todos", http.StatusFound)
}

// ==========================
// Toggle complete
// ==========================
func (h *TodoHandler) Complete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusFound)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}

	if err := h.Todos.ToggleComplete(r.Context(), id, claims.UserID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		slog.Error("todos: toggle complete", "error", err)
	}

	http.Redirect(w, r, "/todos", http.StatusFound)
}

// ==========================
// Delete
// ==========================
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusFound)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}

	if err := h.Todos.Delete(r.Context(), id, claims.UserID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		slog.Error("todos: delete", "error", err)
	}

	http.Redirect(w, r, "/todos", http.StatusFound)
}

// parsePriority clamps the submitted priority into the valid range,
// defaulting to the minimum when absent or malformed.
func parsePriority(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return models.PriorityMin
	}
	if n < models.PriorityMin {
		return models.PriorityMin
	}
	if n > models.PriorityMax {
		return models.PriorityMax
	}
	return n
}
