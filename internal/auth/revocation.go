// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/allscreen/internal/logging"
)

// ErrRevocationStoreClosed is returned after Close.
var ErrRevocationStoreClosed = errors.New("revocation store is closed")

// RevocationStore remembers logged-out token IDs until the tokens would
// have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, entry *RevokedToken) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Close() error
}

// RevokedToken is one stored revocation.
type RevokedToken struct {
	TokenID   string    `json:"jti"`
	UserID    string    `json:"sub"`
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

const revokedKeyPrefix = "revoked:"

// BadgerRevocationStore keeps revocations in BadgerDB with a TTL matching
// the token's remaining lifetime, so expired entries disappear on their own.
type BadgerRevocationStore struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

// OpenBadgerRevocationStore opens a store at path. An empty path keeps the
// store in memory, which loses revocations on restart.
func OpenBadgerRevocationStore(path string) (*BadgerRevocationStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for revocations: %w", err)
	}
	return &BadgerRevocationStore{db: db}, nil
}

func (s *BadgerRevocationStore) key(tokenID string) []byte {
	return []byte(revokedKeyPrefix + tokenID)
}

// Revoke stores entry. Tokens already past ExpiresAt are ignored.
func (s *BadgerRevocationStore) Revoke(ctx context.Context, entry *RevokedToken) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrRevocationStoreClosed
	}

	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if entry.RevokedAt.IsZero() {
		entry.RevokedAt = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal revocation: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(s.key(entry.TokenID), data).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("store revocation: %w", err)
	}
	logging.Ctx(ctx).Debug().Str("jti", entry.TokenID).Dur("ttl", ttl).Msg("token revoked")
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not yet expired.
func (s *BadgerRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrRevocationStoreClosed
	}

	var revoked bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(tokenID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var entry RevokedToken
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entry); err != nil {
				return err
			}
			revoked = time.Now().Before(entry.ExpiresAt)
			return nil
		})
	})
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return revoked, nil
}

// Close releases the database. It is safe to call more than once.
func (s *BadgerRevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
