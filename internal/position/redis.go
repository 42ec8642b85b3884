package position

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "geohunt:position:"

// Redis stores fixes as JSON strings with a TTL, so several server
// instances share the same view of each player.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Put(ctx context.Context, player string, fix Fix) error {
	if err := fix.Coordinate.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(fix)
	if err != nil {
		return fmt.Errorf("encoding fix: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+player, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing position for %s: %w", player, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, player string) (Fix, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+player).Bytes()
	if errors.Is(err, redis.Nil) {
		return Fix{}, false, nil
	}
	if err != nil {
		return Fix{}, false, fmt.Errorf("loading position for %s: %w", player, err)
	}
	var fix Fix
	if err := json.Unmarshal(data, &fix); err != nil {
		return Fix{}, false, fmt.Errorf("decoding fix: %w", err)
	}
	return fix, true, nil
}

// Check implements health.Checker.
func (r *Redis) Check(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
