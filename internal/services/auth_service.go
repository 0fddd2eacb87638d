package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"bloomadmin/internal/backend"
	"bloomadmin/internal/domain"
	"bloomadmin/internal/repos"
)

var (
	ErrBadCreds  = errors.New("invalid email or password")
	ErrNotAdmin  = errors.New("only administrators may sign in")
	ErrNoSession = errors.New("not signed in")
)

// Authenticator checks credentials against the shop backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
}

// Claims is the payload of the session cookie. The session id points at the
// server-side session row; the token alone grants nothing.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Backend  Authenticator
	Sessions *repos.SessionRepo
	Secret   []byte
	TTL      time.Duration
}

// Login signs an admin in and returns the session token for the cookie.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, repos.Session, error) {
	u, err := s.Backend.Login(ctx, email, password)
	if err != nil {
		var fe *backend.FetchError
		if errors.As(err, &fe) && fe.Status >= http.StatusBadRequest && fe.Status < http.StatusInternalServerError {
			return "", repos.Session{}, ErrBadCreds
		}
		if errors.Is(err, backend.ErrNoUser) {
			return "", repos.Session{}, ErrBadCreds
		}
		return "", repos.Session{}, fmt.Errorf("login: %w", err)
	}
	if !u.IsAdmin() {
		return "", repos.Session{}, ErrNotAdmin
	}

	now := time.Now()
	sess := repos.Session{ID: uuid.NewString(), User: u, CreatedAt: now, LastSeen: now, ExpiresAt: now.Add(s.TTL)}
	if err := s.Sessions.Bind(sess.ID, u, now, sess.ExpiresAt); err != nil {
		return "", repos.Session{}, err
	}
	tok, err := s.sign(sess)
	if err != nil {
		_ = s.Sessions.Delete(sess.ID)
		return "", repos.Session{}, err
	}
	return tok, sess, nil
}

func (s *AuthService) sign(sess repos.Session) (string, error) {
	claims := &Claims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sess.User.ID, 10),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			NotBefore: jwt.NewNumericDate(sess.CreatedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// sessionID verifies the token and returns its session id.
func (s *AuthService) sessionID(token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil {
		return "", ErrNoSession
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", ErrNoSession
	}
	return claims.SessionID, nil
}

// CurrentUser returns the live session behind token.
func (s *AuthService) CurrentUser(token string) (repos.Session, error) {
	sid, err := s.sessionID(token)
	if err != nil {
		return repos.Session{}, err
	}
	sess, err := s.Sessions.Get(sid, time.Now())
	if errors.Is(err, repos.ErrNoSession) {
		return repos.Session{}, ErrNoSession
	}
	return sess, err
}

// Logout ends the session behind token and returns its id. An invalid token is not an error.
func (s *AuthService) Logout(token string) (string, error) {
	sid, err := s.sessionID(token)
	if err != nil {
		return "", nil
	}
	return sid, s.Sessions.Delete(sid)
}
