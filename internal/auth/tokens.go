package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// TokenStore issues and resolves opaque bearer tokens backed by Redis.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenStore{client: client, ttl: ttl}
}

// Issue creates a fresh token bound to the principal.
func (s *TokenStore) Issue(ctx context.Context, p *shared.Principal) (string, error) {
	if p == nil {
		return "", errors.New("auth: principal required")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the principal bound to token, or ErrUnauthorized when the
// token is unknown, expired or revoked.
func (s *TokenStore) Resolve(ctx context.Context, token string) (*shared.Principal, error) {
	if token == "" {
		return nil, shared.ErrUnauthorized
	}
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	var p shared.Principal
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, shared.ErrUnauthorized
	}
	return &p, nil
}

// Revoke deletes the token. Unknown tokens are not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// RevokeUser removes every live token issued to the given user. Called when
// an account is deactivated or deleted so the change takes effect at once.
func (s *TokenStore) RevokeUser(ctx context.Context, userID int64) error {
	iter := s.client.Scan(ctx, 0, "token:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		payload, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var p shared.Principal
		if json.Unmarshal(payload, &p) == nil && p.ID == userID {
			_ = s.client.Del(ctx, key).Err()
		}
	}
	return iter.Err()
}

// TTL exposes the configured token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

func (s *TokenStore) key(token string) string {
	return "token:" + token
}
