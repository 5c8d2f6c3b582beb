package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps go-redis for the application.
type Client struct {
	rdb *redis.Client
}

// Connect creates a Redis client and verifies connectivity.
func Connect(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// Raw returns the underlying redis.Client for advanced usage.
func (c *Client) Raw() *redis.Client { return c.rdb }

// Ping reports whether the server answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// WindowState is the content of a sliding window after pruning.
type WindowState struct {
	Count  int64
	Oldest time.Time
}

// WindowPrune drops members of the sorted set key older than now-window and
// returns what remains. Scores are unix milliseconds.
func (c *Client) WindowPrune(ctx context.Context, key string, now time.Time, window time.Duration) (WindowState, error) {
	cutoff := now.Add(-window).UnixMilli()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
	card := pipe.ZCard(ctx, key)
	oldest := pipe.ZRangeWithScores(ctx, key, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return WindowState{}, err
	}

	st := WindowState{Count: card.Val()}
	if zs := oldest.Val(); len(zs) > 0 {
		st.Oldest = time.UnixMilli(int64(zs[0].Score))
	}
	return st, nil
}

// WindowAdd records member at now and keeps the key alive for one window.
func (c *Client) WindowAdd(ctx context.Context, key, member string, now time.Time, window time.Duration) error {
	pipe := c.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	pipe.PExpire(ctx, key, window)
	_, err := pipe.Exec(ctx)
	return err
}
