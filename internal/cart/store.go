package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sajpos/counter-backend/pkg/redis"
)

// kvStore is the slice of the redis client the cart store needs.
type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Store persists one cart blob per terminal so an open cart survives
// process restarts. Terminals never share a key, so there is no
// cross-terminal write contention.
type Store struct {
	kv  kvStore
	ttl time.Duration
}

// NewStore builds a cart store over the provided redis client.
func NewStore(kv kvStore, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &Store{kv: kv, ttl: ttl}, nil
}

// Load returns the terminal's cart, or a fresh empty cart when none is
// stored.
func (s *Store) Load(ctx context.Context, terminalID string) (*Cart, error) {
	raw, found, err := s.kv.Get(ctx, redis.CartKey(terminalID))
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	if !found {
		return NewCart(), nil
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

// Save writes the terminal's cart back with the configured TTL.
func (s *Store) Save(ctx context.Context, terminalID string, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.kv.Set(ctx, redis.CartKey(terminalID), string(raw), s.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// Clear drops the terminal's stored cart.
func (s *Store) Clear(ctx context.Context, terminalID string) error {
	if err := s.kv.Del(ctx, redis.CartKey(terminalID)); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
