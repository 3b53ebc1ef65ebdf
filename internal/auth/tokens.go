package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dokon-erp/dokon/internal/shared"
)

// TokenStore keeps opaque bearer tokens in Redis, keyed by an HMAC of the token.
type TokenStore struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, secret string, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, secret: []byte(secret), ttl: ttl}
}

// TTL exposes the configured token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

// Issue creates a token for userID and revokes every token issued before it.
func (s *TokenStore) Issue(ctx context.Context, userID int64) (string, error) {
	previous, err := s.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return s.store(ctx, userID, previous)
}

// Rotate replaces current with a fresh token for the same user.
func (s *TokenStore) Rotate(ctx context.Context, userID int64, current string) (string, error) {
	return s.store(ctx, userID, []string{s.digest(current)})
}

func (s *TokenStore) store(ctx context.Context, userID int64, revoke []string) (string, error) {
	token := generateToken()
	digest := s.digest(token)
	setKey := userTokensKey(userID)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, d := range revoke {
			p.Del(ctx, tokenKey(d))
			p.SRem(ctx, setKey, d)
		}
		p.Set(ctx, tokenKey(digest), userID, s.ttl)
		p.SAdd(ctx, setKey, digest)
		p.Expire(ctx, setKey, s.ttl)
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Lookup resolves token to its owner. Unknown or expired tokens yield ErrUnauthorized.
func (s *TokenStore) Lookup(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, shared.ErrUnauthorized
	}
	raw, err := s.client.Get(ctx, tokenKey(s.digest(token))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, shared.ErrUnauthorized
		}
		return 0, err
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, shared.ErrUnauthorized
	}
	return userID, nil
}

// Revoke deletes token; revoking an unknown token is a no-op.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	digest := s.digest(token)
	userID, err := s.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			return nil
		}
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, tokenKey(digest))
		p.SRem(ctx, userTokensKey(userID), digest)
		return nil
	})
	return err
}

// RevokeAll deletes every token of userID.
func (s *TokenStore) RevokeAll(ctx context.Context, userID int64) error {
	digests, err := s.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, d := range digests {
			p.Del(ctx, tokenKey(d))
		}
		p.Del(ctx, userTokensKey(userID))
		return nil
	})
	return err
}

func (s *TokenStore) digest(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func tokenKey(digest string) string {
	return "token:" + digest
}

func userTokensKey(userID int64) string {
	return "user_tokens:" + strconv.FormatInt(userID, 10)
}

func generateToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
