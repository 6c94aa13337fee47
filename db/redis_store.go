package db

import (
	"context"
	"errors"
	"fmt"

	"olilab/inventory"
	"olilab/models"

	"github.com/redis/go-redis/v9"
)

const defaultStateKey = "olilab:state"

// RedisStore 把聚合存成一个 redis 字符串键，适合无 postgres 的部署
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultStateKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (models.State, error) {
	b, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.State{}, inventory.ErrNoState
	}
	if err != nil {
		return models.State{}, err
	}
	return DecodeState(b)
}

func (r *RedisStore) Save(ctx context.Context, s models.State) error {
	b, err := EncodeState(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return r.rdb.Set(ctx, r.key, b, 0).Err()
}
