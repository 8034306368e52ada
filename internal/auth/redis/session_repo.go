// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

// Package redis stores browser sessions in Redis, one key per token hash
// expiring with the session.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/liftlog/liftlog/internal/auth"
)

// KeyPrefix namespaces session keys.
const KeyPrefix = "liftlog:session:"

// Key returns the Redis key for a token hash.
func Key(tokenHash string) string {
	return KeyPrefix + tokenHash
}

// record is the JSON value stored under a session key.
type record struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserAgent  string    `json:"user_agent,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

func encode(s *auth.Session) ([]byte, error) {
	data, err := json.Marshal(record{
		ID:         s.ID.String(),
		UserID:     s.UserID.String(),
		UserAgent:  s.UserAgent,
		IPAddress:  s.IPAddress,
		ExpiresAt:  s.ExpiresAt,
		CreatedAt:  s.CreatedAt,
		LastSeenAt: s.LastSeenAt,
	})
	if err != nil {
		return nil, oops.Code("SESSION_ENCODE_FAILED").Wrap(err)
	}
	return data, nil
}

func decode(tokenHash string, data []byte) (*auth.Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, oops.Code("SESSION_DECODE_FAILED").Wrap(err)
	}
	id, err := ulid.Parse(rec.ID)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_ID").With("id", rec.ID).Wrap(err)
	}
	userID, err := ulid.Parse(rec.UserID)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_USER_ID").With("user_id", rec.UserID).Wrap(err)
	}
	return &auth.Session{
		ID:         id,
		UserID:     userID,
		TokenHash:  tokenHash,
		UserAgent:  rec.UserAgent,
		IPAddress:  rec.IPAddress,
		ExpiresAt:  rec.ExpiresAt,
		CreatedAt:  rec.CreatedAt,
		LastSeenAt: rec.LastSeenAt,
	}, nil
}

// SessionRepository implements auth.SessionRepository on Redis.
type SessionRepository struct {
	client goredis.Cmdable
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(client goredis.Cmdable) *SessionRepository {
	return &SessionRepository{client: client}
}

// NewClient opens a Redis client and checks it answers.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.Code("REDIS_CONNECT_FAILED").With("addr", addr).Wrap(err)
	}
	return client, nil
}

// Create stores the session with an expiry at session.ExpiresAt.
func (r *SessionRepository) Create(ctx context.Context, session *auth.Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}
	err = r.client.SetArgs(ctx, Key(session.TokenHash), data, goredis.SetArgs{
		Mode:     "NX",
		ExpireAt: session.ExpiresAt,
	}).Err()
	if errors.Is(err, goredis.Nil) {
		return oops.Code("SESSION_CREATE_FAILED").Errorf("session token already exists")
	}
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "set session key").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetByTokenHash loads a session. Keys Redis has already expired are
// reported as auth.ErrNotFound.
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*auth.Session, error) {
	data, err := r.client.Get(ctx, Key(tokenHash)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_BY_TOKEN_FAILED").
			With("operation", "get session key").
			Wrap(err)
	}
	return decode(tokenHash, data)
}

// Touch rewrites last_seen_at, keeping the key's TTL.
func (r *SessionRepository) Touch(ctx context.Context, tokenHash string, lastSeen time.Time) error {
	session, err := r.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	session.LastSeenAt = lastSeen

	data, err := encode(session)
	if err != nil {
		return err
	}
	err = r.client.SetArgs(ctx, Key(tokenHash), data, goredis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if errors.Is(err, goredis.Nil) {
		return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return oops.Code("SESSION_TOUCH_FAILED").With("operation", "set session key").Wrap(err)
	}
	return nil
}

// DeleteByTokenHash removes the session key. Absent keys are not an error.
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if err := r.client.Del(ctx, Key(tokenHash)).Err(); err != nil {
		return oops.Code("SESSION_DELETE_FAILED").With("operation", "delete session key").Wrap(err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis expires keys itself.
func (r *SessionRepository) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// Compile-time interface check.
var _ auth.SessionRepository = (*SessionRepository)(nil)
