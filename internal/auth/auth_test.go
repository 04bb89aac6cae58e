// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestStore(t *testing.T) *BadgerRevocationStore {
	t.Helper()
	store, err := OpenBadgerRevocationStore("")
	if err != nil {
		t.Fatalf("OpenBadgerRevocationStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestTokens(t *testing.T, ttl time.Duration) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(&config.SecurityConfig{JWTSecret: testSecret, TokenTTL: ttl}, newTestStore(t))
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestTokens(t, time.Hour)

	token, expires, err := m.Issue(Subject{UserID: "u-1", Username: "ana"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if d := time.Until(expires); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expiry in %v, want about 1h", d)
	}

	s, err := m.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if s.UserID != "u-1" || s.Username != "ana" || s.TokenID == "" {
		t.Errorf("subject = %+v", s)
	}
}

func TestVerifyRejects(t *testing.T) {
	m := newTestTokens(t, time.Hour)
	ctx := context.Background()

	t.Run("expired", func(t *testing.T) {
		short := newTestTokens(t, time.Hour)
		short.ttl = -time.Minute
		token, _, err := short.Issue(Subject{UserID: "u-1"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.Verify(ctx, token); !errors.Is(err, ErrTokenExpired) {
			t.Errorf("Verify = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokenManager(&config.SecurityConfig{JWTSecret: strings.Repeat("x", 32), TokenTTL: time.Hour}, nil)
		if err != nil {
			t.Fatal(err)
		}
		token, _, _ := other.Issue(Subject{UserID: "u-1"})
		if _, err := m.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "u-1",
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Verify(ctx, "not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify = %v, want ErrInvalidToken", err)
		}
	})
}

func TestRevoke(t *testing.T) {
	m := newTestTokens(t, time.Hour)
	ctx := context.Background()

	token, _, _ := m.Issue(Subject{UserID: "u-1", Username: "ana"})
	s, err := m.Verify(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Revoke(ctx, s); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := m.Verify(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("Verify after revoke = %v, want ErrTokenRevoked", err)
	}

	// A second login is a new session.
	fresh, _, _ := m.Issue(Subject{UserID: "u-1", Username: "ana"})
	if _, err := m.Verify(ctx, fresh); err != nil {
		t.Errorf("fresh token rejected: %v", err)
	}
}

func TestRevocationStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, &RevokedToken{TokenID: "old", ExpiresAt: time.Now().Add(-time.Second)}); err != nil {
		t.Fatalf("Revoke expired: %v", err)
	}
	if revoked, _ := store.IsRevoked(ctx, "old"); revoked {
		t.Error("already-expired token recorded as revoked")
	}

	if err := store.Revoke(ctx, &RevokedToken{TokenID: "live", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked, err := store.IsRevoked(ctx, "live"); err != nil || !revoked {
		t.Errorf("IsRevoked(live) = %v, %v", revoked, err)
	}
	if revoked, _ := store.IsRevoked(ctx, "unknown"); revoked {
		t.Error("unknown token reported revoked")
	}

	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := store.IsRevoked(ctx, "live"); !errors.Is(err, ErrRevocationStoreClosed) {
		t.Errorf("IsRevoked after Close = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := CheckPassword(hash, "correct horse"); !ok || err != nil {
		t.Errorf("CheckPassword(right) = %v, %v", ok, err)
	}
	if ok, err := CheckPassword(hash, "battery staple"); ok || err != nil {
		t.Errorf("CheckPassword(wrong) = %v, %v", ok, err)
	}
	if _, err := CheckPassword("not-a-hash", "x"); err == nil {
		t.Error("CheckPassword accepted a malformed hash")
	}
}

func TestMiddleware(t *testing.T) {
	m := newTestTokens(t, time.Hour)
	mw := NewMiddleware(m, "allscreen_session", nil)

	var seen Subject
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	token, _, _ := m.Issue(Subject{UserID: "u-7", Username: "kim"})

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusNoContent},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+token) }, http.StatusNoContent},
		{"basic scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) }, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "allscreen_session", Value: token}) }, http.StatusNoContent},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = Subject{}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusNoContent && (seen.UserID != "u-7" || seen.Username != "kim") {
				t.Errorf("subject = %+v", seen)
			}
			if tt.status == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"UNAUTHORIZED"`) {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (s *memUsers) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Name == u.Name || existing.Email == strings.ToLower(u.Email) {
			return models.ErrConflict
		}
	}
	u.ID = "id-" + u.Name
	u.Email = strings.ToLower(u.Email)
	s.users[u.ID] = u
	return nil
}

func (s *memUsers) find(match func(*models.User) bool, key string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, models.NotFound("user", key)
}

func (s *memUsers) UserByName(_ context.Context, name string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Name == name }, name)
}

func (s *memUsers) UserByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	return s.find(func(u *models.User) bool { return u.Email == email }, email)
}

func TestServiceSignupLoginLogout(t *testing.T) {
	tokens := newTestTokens(t, time.Hour)
	svc, err := NewService(&memUsers{users: map[string]*models.User{}}, tokens, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &models.SignupRequest{Name: "ana", Email: "Ana@Example.com", Password: "s3cret-pass"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if signup.Username != "ana" || signup.Token == "" {
		t.Errorf("signup = %+v", signup)
	}

	if _, err := svc.Signup(ctx, &models.SignupRequest{Name: "ana", Email: "other@example.com", Password: "s3cret-pass"}, ""); !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate Signup = %v, want ErrConflict", err)
	}

	for _, login := range []string{"ana", "ana@example.com"} {
		resp, err := svc.Login(ctx, &models.LoginRequest{Login: login, Password: "s3cret-pass"}, "")
		if err != nil {
			t.Fatalf("Login(%s): %v", login, err)
		}
		if resp.UserID != signup.UserID {
			t.Errorf("Login(%s) user = %s, want %s", login, resp.UserID, signup.UserID)
		}
	}

	for _, bad := range []models.LoginRequest{
		{Login: "ana", Password: "wrong"},
		{Login: "nobody", Password: "s3cret-pass"},
	} {
		if _, err := svc.Login(ctx, &bad, ""); !errors.Is(err, models.ErrUnauthorized) {
			t.Errorf("Login(%s/%s) = %v, want ErrUnauthorized", bad.Login, bad.Password, err)
		}
	}

	subject, err := tokens.Verify(ctx, signup.Token)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, subject, ""); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := tokens.Verify(ctx, signup.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("token after logout = %v, want ErrTokenRevoked", err)
	}
}
