package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Carrier token cache. Shiprocket tokens are valid for 10 days; the TTL
// here keeps us re-authenticating well before expiry.
func (c *Client) SetCarrierToken(token string, ttl time.Duration) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "shiprocket:token", token, ttl).Err()
}

func (c *Client) GetCarrierToken() (string, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "shiprocket:token").Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to get carrier token: %w", err)
	}
	return val, nil
}

func (c *Client) DeleteCarrierToken() error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "shiprocket:token").Err()
}

// Usage counters back the admin quota dashboard. Counters are bucketed
// by month so third-party quota cycles line up.
func (c *Client) IncrUsage(service string) error {
	ctx := context.Background()
	key := usageKey(service, time.Now())
	if err := c.rdb.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to increment usage counter: %w", err)
	}
	// Keep a couple of cycles around for the dashboard's month-over-month view.
	return c.rdb.Expire(ctx, key, 62*24*time.Hour).Err()
}

func (c *Client) GetUsage(service string, month time.Time) (int64, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, usageKey(service, month)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get usage counter: %w", err)
	}
	return val, nil
}

func usageKey(service string, t time.Time) string {
	return fmt.Sprintf("usage:%s:%s", service, t.Format("2006-01"))
}

// Product detail cache, keyed by slug.
func (c *Client) SetCachedProduct(slug string, data []byte, ttl time.Duration) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "product:"+slug, data, ttl).Err()
}

func (c *Client) GetCachedProduct(slug string) ([]byte, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "product:"+slug).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached product: %w", err)
	}
	return val, nil
}

func (c *Client) InvalidateProduct(slug string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "product:"+slug).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
