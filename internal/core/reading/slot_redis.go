// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reading

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dendyaziz/quran-reader/internal/platform/constants"
)

// RedisSlotStore implements [SlotStore] using Redis. Slots never expire.
type RedisSlotStore struct {
	client *redis.Client
}

// NewRedisSlotStore creates a new Redis-backed [SlotStore].
func NewRedisSlotStore(client *redis.Client) *RedisSlotStore {
	return &RedisSlotStore{client: client}
}

/*
Get retrieves a slot value.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - string: Stored value
  - bool: False when the slot is empty
  - error: Connectivity errors
*/
func (repository *RedisSlotStore) Get(context context.Context, key string) (string, bool, error) {
	value, err := repository.client.Get(context, constants.RedisPrefixSlot+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_slot_get_failed: %w", err)
	}

	return value, true, nil
}

// Set implements [SlotStore].
func (repository *RedisSlotStore) Set(context context.Context, key, value string) error {
	if err := repository.client.Set(context, constants.RedisPrefixSlot+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis_slot_set_failed: %w", err)
	}
	return nil
}

// Delete implements [SlotStore].
func (repository *RedisSlotStore) Delete(context context.Context, key string) error {
	if err := repository.client.Del(context, constants.RedisPrefixSlot+key).Err(); err != nil {
		return fmt.Errorf("redis_slot_delete_failed: %w", err)
	}
	return nil
}
