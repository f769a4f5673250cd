package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisGateway stores each slot as a plain string key under a shared prefix.
type RedisGateway struct {
	client *redis.Client
	prefix string
}

func NewRedisGateway(client *redis.Client, prefix string) *RedisGateway {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "carwash"
	}
	return &RedisGateway{client: client, prefix: prefix}
}

func (g *RedisGateway) key(slot string) string {
	return g.prefix + ":" + slot
}

func (g *RedisGateway) Load(ctx context.Context, key string, dest any) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrInvalidSlot
	}

	raw, err := g.client.Get(ctx, g.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("load slot %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("decode slot %s: %w", key, err)
	}
	return true, nil
}

func (g *RedisGateway) Save(ctx context.Context, key string, value any) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidSlot
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", key, err)
	}
	if err := g.client.Set(ctx, g.key(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("save slot %s: %w", key, err)
	}
	return nil
}

func (g *RedisGateway) Clear(ctx context.Context) error {
	keys := []string{g.key(SlotServices), g.key(SlotCustomers), g.key(SlotConversations)}
	return g.client.Del(ctx, keys...).Err()
}
