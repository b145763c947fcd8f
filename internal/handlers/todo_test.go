package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"

	"github.com/crucial707/todoapp/internal/auth"
	"github.com/crucial707/todoapp/internal/middleware"
	"github.com/crucial707/todoapp/internal/repo"
)

var todoCols = []string{"id", "title", "description", "priority", "complete", "owner_id"}

func newTodoHandler(t *testing.T) (*TodoHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return &TodoHandler{Todos: repo.NewTodoRepo(db)}, mock, db
}

// asUser injects verified session claims the way RequireAuth does.
func asUser(req *http.Request, username string, id int) *http.Request {
	ctx := middleware.WithUser(req.Context(), &auth.Claims{Username: username, UserID: id})
	return req.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTodoHandler_List(t *testing.T) {
	h, mock, db := newTodoHandler(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, description, priority, complete, owner_id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(todoCols).
			AddRow(1, "Buy milk", "2 liters", 1, false, 1).
			AddRow(2, "Walk dog", "", 2, true, 1))

	req := asUser(httptest.NewRequest("GET", "/todos", nil), "alice", 1)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Buy milk") || !strings.Contains(body, "Walk dog") {
		t.Errorf("todos missing from page")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTodoHandler_List_NoSession(t *testing.T) {
	h, _, db := newTodoHandler(t)
	defer db.Close()

	req := httptest.NewRequest("GET", "/todos", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status: got %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/auth" {
		t.Errorf("location: got %q, want /auth", loc)
	}
}

func TestTodoHandler_Add(t *testing.T) {
	h, mock, db := newTodoHandler(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO todos`).
		WithArgs("Buy milk", "2 liters", 3, 1).
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow(5, "Buy milk", "2 liters", 3, false, 1))

	form := url.Values{
		"title":       {"Buy milk"},
		"description": {"2 liters"},
		"priority":    {"3"},
	}
	req := asUser(formRequest(t, "/todos/add-todo", form), "alice", 1)
	rr := httptest.NewRecorder()
	h.Add(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status: got %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/todos" {
		t.Errorf("location: got %q, want /todos", loc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTodoHandler_Add_MissingTitle(t *testing.T) {
	h, mock, db := newTodoHandler(t)
	defer db.Close()

	req := asUser(formRequest(t, "/todos/add-todo", url.Values{"title": {"  "}}), "alice", 1)
	rr := httptest.NewRecorder()
	h.Add(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Title is required") {
		t.Error("expected validation message in page")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTodoHandler_Complete(t *testing.T) {
	h, mock, db := newTodoHandler(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE todos SET complete = NOT complete`).
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := asUser(httptest.NewRequest("GET", "/todos/complete/7", nil), "alice", 1)
	req = withURLParam(req, "id", "7")
	rr := httptest.NewRecorder()
	h.Complete(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status: got %d, want 302", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTodoHandler_Delete_OtherOwnersTodo(t *testing.T) {
	h, mock, db := newTodoHandler(t)
	defer db.Close()

	// The delete is scoped to the session user, so someone else's todo
	// matches no row and nothing is removed.
	mock.ExpectExec(`DELETE FROM todos`).
		WithArgs(7, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := asUser(httptest.NewRequest("GET", "/todos/delete/7", nil), "bob", 2)
	req = withURLParam(req, "id", "7")
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status: got %d, want 302", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTodoHandler_EditPage(t *testing.T) {
	h, mock, db := newTodoHandler(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, description, priority, complete, owner_id`).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow(7, "Buy milk", "2 liters", 3, false, 1))

	req := asUser(httptest.NewRequest("GET", "/todos/edit-todo/7", nil), "alice", 1)
	req = withURLParam(req, "id", "7")
	rr := httptest.NewRecorder()
	h.EditPage(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Buy milk") {
		t.Error("todo missing from edit form")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTodoHandler_EditPage_NotFound(t *testing.T) {
	h, mock, db := newTodoHandler(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, description, priority, complete, owner_id`).
		WithArgs(99, 1).
		WillReturnError(sql.ErrNoRows)

	req := asUser(httptest.NewRequest("GET", "/todos/edit-todo/99", nil), "alice", 1)
	req = withURLParam(req, "id", "99")
	rr := httptest.NewRecorder()
	h.EditPage(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status: got %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/todos" {
		t.Errorf("location: got %q, want /todos", loc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"9", 5},
	}
	for _, c := range cases {
		if got := parsePriority(c.in); got != c.want {
			t.Errorf("parsePriority(%q): got %d, want %d", c.in, got, c.want)
		}
	}
}
