package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	processedKeyPrefix = "processed_message:"
	DefaultTTL         = 24 * time.Hour
)

// Client records which inbound message ids have already been handled,
// so a webhook redelivered by Meta does not produce a second reply.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewClient(addr, password string, db int, ttl time.Duration) Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := Client{
		rdb: rdb,
		ttl: ttl,
	}

	if err := client.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connection failed")
	} else {
		log.Info().
			Str("addr", addr).
			Int("db", db).
			Dur("ttl", ttl).
			Msg("Redis connected successfully")
	}

	return client
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// MarkProcessed records messageID and reports whether this is the first time it was seen.
// SET NX keeps the check and the write atomic across concurrent deliveries.
func (c *Client) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	key := processedKey(messageID)

	firstSeen, err := c.rdb.SetNX(ctx, key, time.Now().Unix(), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message %s as processed: %w", messageID, err)
	}

	if !firstSeen {
		log.Debug().
			Str("message_id", messageID).
			Msg("Message id already recorded")
	}

	return firstSeen, nil
}

func processedKey(messageID string) string {
	return processedKeyPrefix + messageID
}
