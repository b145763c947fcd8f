package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crucial707/todoapp/internal/auth"
)

func TestRequireAuth_NoCookie(t *testing.T) {
	svc := auth.NewService(nil, []byte("test-secret"))
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler should not run")
	}))

	req := httptest.NewRequest("GET", "/todos", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status: got %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/auth" {
		t.Errorf("location: got %q, want /auth", loc)
	}
	// No cookie came in, so nothing to clear.
	if sc := rr.Header().Get("Set-Cookie"); sc != "" {
		t.Errorf("unexpected Set-Cookie: %q", sc)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	svc := auth.NewService(nil, []byte("test-secret"))
	token, err := svc.IssueToken("alice", 1)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var got *auth.Claims
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUser(r.Context())
	}))

	req := httptest.NewRequest("GET", "/todos", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if got == nil || got.Username != "alice" || got.UserID != 1 {
		t.Errorf("unexpected claims: %+v", got)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	svc := auth.NewService(nil, secret)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"id":  1,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	token, err := expired.SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler should not run")
	}))

	req := httptest.NewRequest("GET", "/todos", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status: got %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/auth" {
		t.Errorf("location: got %q, want /auth", loc)
	}
	// Expired token is cleared so the browser stops sending it.
	sc := rr.Header().Get("Set-Cookie")
	if !strings.Contains(sc, auth.CookieName+"=") || !strings.Contains(sc, "Max-Age=0") {
		t.Errorf("cookie not cleared: %q", sc)
	}
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	svc := auth.NewService(nil, []byte("test-secret"))
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler should not run")
	}))

	req := httptest.NewRequest("GET", "/todos", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not-a-token"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status: got %d, want 302", rr.Code)
	}
	if sc := rr.Header().Get("Set-Cookie"); !strings.Contains(sc, "Max-Age=0") {
		t.Errorf("cookie not cleared: %q", sc)
	}
}
