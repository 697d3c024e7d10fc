package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
	"github.com/mauriantolin/tu-carrera/internal/platform/cache"
)

// RedisStore keeps each completion set as a Redis set.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed completion store.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &RedisStore{client: client}, nil
}

func completedKey(key Key) string {
	return cache.Key("completed", key.CurriculumID, key.StudentID)
}

func (s *RedisStore) Load(ctx context.Context, key Key) (curriculum.CompletionSet, error) {
	if err := key.Validate(); err != nil {
		return curriculum.CompletionSet{}, err
	}
	members, err := s.client.SMembers(ctx, completedKey(key)).Result()
	if err != nil {
		return curriculum.CompletionSet{}, fmt.Errorf("load completion set %s: %w", key, err)
	}
	ids := make([]curriculum.CourseID, len(members))
	for i, m := range members {
		ids[i] = curriculum.CourseID(m)
	}
	return curriculum.NewCompletionSet(ids...), nil
}

// Save replaces the set in a MULTI/EXEC block.
func (s *RedisStore) Save(ctx context.Context, key Key, set curriculum.CompletionSet) error {
	if err := key.Validate(); err != nil {
		return err
	}
	k := completedKey(key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		if set.Len() > 0 {
			members := make([]any, 0, set.Len())
			for _, id := range set.Strings() {
				members = append(members, id)
			}
			pipe.SAdd(ctx, k, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save completion set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := s.client.Del(ctx, completedKey(key)).Err(); err != nil {
		return fmt.Errorf("reset completion set %s: %w", key, err)
	}
	return nil
}
