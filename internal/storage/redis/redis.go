package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"retifica/internal/config"
)

type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

// New подключается к Redis и проверяет соединение.
func New(cfg config.Redis) (*Storage, error) {
	const op = "storage.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to connect to Redis: %w", op, err)
	}

	return &Storage{client: client, ttl: cfg.TimerTTL}, nil
}

// NewWithClient: для тестов и для уже настроенного клиента.
func NewWithClient(client *redis.Client, ttl time.Duration) *Storage {
	return &Storage{client: client, ttl: ttl}
}

func (s *Storage) Close() error {
	return s.client.Close()
}
