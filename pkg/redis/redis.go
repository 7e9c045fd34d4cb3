package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const messageKeyPrefix = "wa:msg:"

// IRedis remembers inbound message ids so platform redeliveries are answered
// only once.
type IRedis interface {
	MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	Address  string
	Password string
	DB       int
}

type redisClient struct {
	client *redis.Client
}

func New(opts Options) IRedis {
	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", opts.Address))

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

// MarkMessageProcessed returns true the first time an id is seen within ttl.
func (r *redisClient) MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := messageKeyPrefix + messageID
	logrus.Debug(fmt.Sprintf("Marking message %s as processed", key))

	first, err := r.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error marking message %s: %v", key, err))
		return false, err
	}

	if !first {
		logrus.Debug(fmt.Sprintf("Message %s already processed", key))
	}
	return first, nil
}

func (r *redisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
