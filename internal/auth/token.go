// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/logging"
)

const tokenIssuer = "allscreen"

var (
	// ErrInvalidToken covers malformed, tampered and wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for tokens past their exp claim.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked is returned for tokens invalidated by logout.
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims are the JWT claims issued at login. Subject carries the user id and
// ID the token id used for revocation.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
}

// NewTokenManager builds a manager from the security config. An empty
// secret is replaced with a random one, which invalidates every token on
// restart; config validation refuses that in production.
func NewTokenManager(cfg *config.SecurityConfig, revoked RevocationStore) (*TokenManager, error) {
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate signing secret: %w", err)
		}
		logging.Warn().Msg("JWT_SECRET not set; using an ephemeral secret, sessions end on restart")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token TTL must be positive")
	}
	return &TokenManager{secret: secret, ttl: cfg.TokenTTL, revoked: revoked}, nil
}

// TTL returns the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for s and returns it with its expiry.
func (m *TokenManager) Issue(s Subject) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(m.ttl)
	claims := &Claims{
		Username: s.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   s.UserID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify checks signature, algorithm, issuer, expiry and revocation, and
// returns the subject the token was issued for.
func (m *TokenManager) Verify(ctx context.Context, token string) (Subject, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Subject{}, ErrTokenExpired
		}
		return Subject{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return Subject{}, ErrInvalidToken
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Subject{}, err
		}
		if revoked {
			return Subject{}, ErrTokenRevoked
		}
	}

	return Subject{
		UserID:    claims.Subject,
		Username:  claims.Username,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates the token s was verified from. Without a revocation
// store logout only clears the cookie.
func (m *TokenManager) Revoke(ctx context.Context, s Subject) error {
	if m.revoked == nil || s.TokenID == "" {
		return nil
	}
	return m.revoked.Revoke(ctx, &RevokedToken{
		TokenID:   s.TokenID,
		UserID:    s.UserID,
		ExpiresAt: s.ExpiresAt,
	})
}
