package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "blobstats:usage:"

// RedisStore keeps one hash per guild, field = emoji ID, value = count.
type RedisStore struct {
	client *redis.Client
}

func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, guildID string) (Record, error) {
	vals, err := s.client.HGetAll(ctx, redisKeyPrefix+guildID).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", guildID, err)
	}
	return parseHash(guildID, vals)
}

func (s *RedisStore) Put(ctx context.Context, guildID string, rec Record) error {
	key := redisKeyPrefix + guildID
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if len(rec) == 0 {
			return nil
		}
		fields := make(map[string]any, len(rec))
		for id, n := range rec {
			fields[id] = n
		}
		p.HSet(ctx, key, fields)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put %s: %w", guildID, err)
	}
	return nil
}

func (s *RedisStore) All(ctx context.Context) (map[string]Record, error) {
	all := make(map[string]Record)

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		guildID := strings.TrimPrefix(iter.Val(), redisKeyPrefix)
		rec, err := s.Get(ctx, guildID)
		if err != nil {
			return nil, err
		}
		all[guildID] = rec
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return all, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func parseHash(guildID string, vals map[string]string) (Record, error) {
	rec := make(Record, len(vals))
	for id, v := range vals {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("corrupt count for %s/%s: %w", guildID, id, err)
		}
		rec[id] = n
	}
	return rec, nil
}
