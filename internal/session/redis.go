package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkmeuns06/ministore/internal/domain"
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:     client,
		cartTTL:    7 * 24 * time.Hour,
		sessionTTL: 24 * time.Hour,
	}
}

type RedisStore struct {
	client     *redis.Client
	cartTTL    time.Duration
	sessionTTL time.Duration
}

func (s *RedisStore) GetCart(ctx context.Context, token string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if e2 := json.Unmarshal(data, &cart); e2 != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", e2)
	}
	if cart.Lines == nil {
		cart.Lines = make(map[int64]int)
	}

	return &cart, nil
}

func (s *RedisStore) SaveCart(ctx context.Context, token string, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// TTL is refreshed on every write, so active carts never expire mid-session
	if e2 := s.client.Set(ctx, cartKey(token), data, s.cartTTL).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

func (s *RedisStore) DeleteCart(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, cartKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *RedisStore) GetClient(ctx context.Context, token string) (*domain.Client, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var client domain.Client
	if e2 := json.Unmarshal(data, &client); e2 != nil {
		return nil, fmt.Errorf("unmarshal client failed: %w", e2)
	}

	return &client, nil
}

func (s *RedisStore) SaveClient(ctx context.Context, token string, client *domain.Client) error {
	data, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("marshal client failed: %w", err)
	}

	if e2 := s.client.Set(ctx, sessionKey(token), data, s.sessionTTL).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

// DeleteSession drops both the client snapshot and the cart, mirroring a
// full session teardown on logout.
func (s *RedisStore) DeleteSession(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token), cartKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(token string) string {
	return fmt.Sprintf("cart:%s", token)
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
