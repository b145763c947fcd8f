package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/todoapp/internal/auth"
	"github.com/crucial707/todoapp/internal/repo"
)

const (
	MsgPasswordUpdated   = "Password updated"
	MsgInvalidUserOrPass = "Invalid username or password"
)

// ==========================
// User Handler
// ==========================
// Mounted behind RequireAuth; a request without a valid session never
// reaches these handlers.
type UserHandler struct {
	Users *repo.UserRepo
}

// ==========================
// Edit-password page
// ==========================
func (h *UserHandler) EditPasswordPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "edit-user-password.html", pageData(r, nil))
}

// ==========================
// Edit-password submit
// ==========================
// The submitted current password is re-verified against the stored hash
// before the new one replaces it. Failures share one message so the form
// does not reveal which check failed.
func (h *UserHandler) EditPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	newPassword := r.FormValue("password2")

	msg := MsgInvalidUserOrPass

	user, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		slog.Error("edit password: lookup", "error", err)
	}
	if err == nil && auth.VerifyPassword(password, user.PasswordHash) {
		hash, hashErr := auth.HashPassword(newPassword)
		if hashErr != nil {
			slog.Error("edit password: hash", "error", hashErr)
		} else if updateErr := h.Users.UpdatePassword(r.Context(), user.ID, hash); updateErr != nil {
			slog.Error("edit password: update", "error", updateErr)
		} else {
			msg = MsgPasswordUpdated
		}
	}

	renderTemplate(w, "edit-user-password.html", pageData(r, map[string]interface{}{"Msg": msg}))
}
