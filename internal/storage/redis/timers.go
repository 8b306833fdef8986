package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"retifica/internal/storage"
)

// Load возвращает (nil, nil), если ключа нет или в нём мусор.
func (s *Storage) Load(ctx context.Context, key string) (*storage.TimerState, error) {
	const op = "storage.redis.Load"

	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: ошибка чтения таймера %s: %w", op, key, err)
	}

	var st storage.TimerState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, nil
	}

	return &st, nil
}

func (s *Storage) Save(ctx context.Context, key string, st storage.TimerState) error {
	const op = "storage.redis.Save"

	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: ошибка записи таймера %s: %w", op, key, err)
	}

	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.redis.Delete"

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Keys перечисляет таймеры заказа, нужен для отчёта по активным таймерам.
func (s *Storage) Keys(ctx context.Context, orderID string) ([]string, error) {
	const op = "storage.redis.Keys"

	var keys []string
	iter := s.client.Scan(ctx, 0, "timer_"+orderID+"_*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return keys, nil
}
