package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/todoapp/internal/auth"
	"github.com/crucial707/todoapp/internal/metrics"
	"github.com/crucial707/todoapp/internal/repo"
)

// User-facing messages rendered into the form pages.
const (
	MsgBadCredentials      = "Incorrect Username or Password"
	MsgLogoutSuccessful    = "Logout Successful"
	MsgInvalidRegistration = "Invalid registration request"
	MsgUserCreated         = "User successfully created"
	MsgUnknownError        = "Unknown Error"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth  *auth.Service
	Users *repo.UserRepo
}

// ==========================
// Login page
// ==========================
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already signed in: skip the form.
	if _, err := h.Auth.CurrentUser(r); err == nil {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}
	renderTemplate(w, "login.html", pageData(r, nil))
}

// ==========================
// Login submit
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.Auth.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.IncLogin("failure")
			renderTemplate(w, "login.html", pageData(r, map[string]interface{}{"Msg": MsgBadCredentials}))
			return
		}
		slog.Error("login: authenticate", "error", err)
		renderTemplate(w, "login.html", pageData(r, map[string]interface{}{"Msg": MsgUnknownError}))
		return
	}

	token, err := h.Auth.IssueToken(user.Username, user.ID)
	if err != nil {
		slog.Error("login: issue token", "error", err)
		renderTemplate(w, "login.html", pageData(r, map[string]interface{}{"Msg": MsgUnknownError}))
		return
	}

	metrics.IncLogin("success")
	auth.SetSessionCookie(w, token)
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// ==========================
// Logout
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	renderTemplate(w, "login.html", pageData(r, map[string]interface{}{"Msg": MsgLogoutSuccessful}))
}

// ==========================
// Registration page
// ==========================
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "register.html", pageData(r, nil))
}

// ==========================
// Registration submit
// ==========================
// Username and email uniqueness rides on the database constraints; a
// duplicate surfaces as repo.ErrDuplicate and maps to the same message as
// any other invalid registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	username := strings.TrimSpace(r.FormValue("username"))
	firstName := strings.TrimSpace(r.FormValue("firstname"))
	lastName := strings.TrimSpace(r.FormValue("lastname"))
	password := r.FormValue("password")
	password2 := r.FormValue("password2")

	if email == "" || username == "" || password == "" || password != password2 {
		renderTemplate(w, "register.html", pageData(r, map[string]interface{}{"Msg": MsgInvalidRegistration}))
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("register: hash password", "error", err)
		renderTemplate(w, "register.html", pageData(r, map[string]interface{}{"Msg": MsgUnknownError}))
		return
	}

	if _, err := h.Users.Create(r.Context(), email, username, firstName, lastName, hash); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			renderTemplate(w, "register.html", pageData(r, map[string]interface{}{"Msg": MsgInvalidRegistration}))
			return
		}
		slog.Error("register: create user", "error", err)
		renderTemplate(w, "register.html", pageData(r, map[string]interface{}{"Msg": MsgUnknownError}))
		return
	}

	metrics.IncRegistration()
	renderTemplate(w, "login.html", pageData(r, map[string]interface{}{"Msg": MsgUserCreated}))
}
