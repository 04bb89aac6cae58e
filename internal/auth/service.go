// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/models"
)

// UserStore is the account storage the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByName(ctx context.Context, name string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// errBadCredentials is deliberately vague about which half was wrong.
var errBadCredentials = fmt.Errorf("%w: invalid username or password", models.ErrUnauthorized)

// Service implements signup, login and logout.
type Service struct {
	users      UserStore
	tokens     *TokenManager
	bcryptCost int
	audit      *logging.AuthLogger

	// Compared against when the login names no account, so unknown users
	// take as long as wrong passwords.
	dummyHash string
}

// NewService builds the account service.
func NewService(users UserStore, tokens *TokenManager, bcryptCost int) (*Service, error) {
	dummy, err := HashPassword("allscreen-dummy-password", bcryptCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		audit:      logging.NewAuthLogger(),
		dummyHash:  dummy,
	}, nil
}

// Tokens exposes the token manager for the middleware.
func (s *Service) Tokens() *TokenManager { return s.tokens }

// Signup creates an account and logs it in.
func (s *Service) Signup(ctx context.Context, req *models.SignupRequest, ip string) (*models.LoginResponse, error) {
	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		s.audit.Failure(ctx, logging.EventRegister, req.Email, ip, err.Error())
		return nil, err
	}
	s.audit.Success(ctx, logging.EventRegister, u.ID, u.Email, ip)
	return s.issue(u)
}

// Login authenticates by username, or by email when login contains '@'.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, ip string) (*models.LoginResponse, error) {
	var (
		u   *models.User
		err error
	)
	if strings.Contains(req.Login, "@") {
		u, err = s.users.UserByEmail(ctx, req.Login)
	} else {
		u, err = s.users.UserByName(ctx, strings.TrimSpace(req.Login))
	}
	switch {
	case errors.Is(err, models.ErrNotFound):
		_, _ = CheckPassword(s.dummyHash, req.Password)
		s.audit.Failure(ctx, logging.EventLogin, req.Login, ip, "unknown account")
		return nil, errBadCredentials
	case err != nil:
		return nil, err
	}

	ok, err := CheckPassword(u.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.audit.Failure(ctx, logging.EventLogin, u.Email, ip, "wrong password")
		return nil, errBadCredentials
	}

	s.audit.Success(ctx, logging.EventLogin, u.ID, u.Email, ip)
	return s.issue(u)
}

// Logout revokes the token the caller authenticated with.
func (s *Service) Logout(ctx context.Context, subject Subject, ip string) error {
	if err := s.tokens.Revoke(ctx, subject); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.audit.Success(ctx, logging.EventLogout, subject.UserID, "", ip)
	return nil
}

func (s *Service) issue(u *models.User) (*models.LoginResponse, error) {
	token, expires, err := s.tokens.Issue(Subject{UserID: u.ID, Username: u.Name})
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expires,
		UserID:    u.ID,
		Username:  u.Name,
	}, nil
}
