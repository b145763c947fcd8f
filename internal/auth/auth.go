// Package auth validates credentials and manages the signed session tokens
// carried in the access_token cookie. The server holds no session state;
// identity lives entirely in the token.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/todoapp/internal/models"
	"github.com/crucial707/todoapp/internal/repo"
)

// CookieName is the session cookie holding the signed token.
const CookieName = "access_token"

// TokenTTL is the fixed session lifetime. There is no refresh path; after
// expiry the user must log in again.
const TokenTTL = 60 * time.Minute

var (
	// ErrInvalidCredentials covers both unknown-user and wrong-password so
	// callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoSession means the request carried no session cookie at all.
	ErrNoSession = errors.New("no session")

	// ErrTokenExpired means the token was well formed but past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken means the token failed signature or structural checks.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the identity recovered from a verified session token.
type Claims struct {
	Username string
	UserID   int
}

type Service struct {
	Users  *repo.UserRepo
	secret []byte
}

func NewService(users *repo.UserRepo, secret []byte) *Service {
	return &Service{Users: users, secret: secret}
}

// HashPassword returns a one-way salted bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Authenticate looks the user up by username and verifies the password.
// It fails closed with ErrInvalidCredentials whether the user is missing
// or the password is wrong.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken mints a signed HS256 token for the user, valid for TokenTTL.
func (s *Service) IssueToken(username string, userID int) (string, error) {
	return s.issueToken(username, userID, TokenTTL)
}

func (s *Service) issueToken(username string, userID int, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"id":  userID,
		"exp": time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies signature and expiry and recovers the identity claims.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return nil, ErrInvalidToken
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Claims{Username: username, UserID: int(id)}, nil
}

// CurrentUser reads the session cookie from the request and verifies it.
// Returns ErrNoSession when no cookie is present, ErrTokenExpired or
// ErrInvalidToken when the cookie cannot be trusted.
func (s *Service) CurrentUser(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	return s.ParseToken(cookie.Value)
}

// SetSessionCookie attaches the signed token as an httpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
