package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

const quizKeyPrefix = "hifdh:quiz"

// RedisQuizStorage keeps pending quizzes in Redis so they survive bot restarts.
type RedisQuizStorage struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisQuizStorage creates a new RedisQuizStorage. A zero ttl stores quizzes without expiry.
func NewRedisQuizStorage(client redis.Cmdable, ttl time.Duration) *RedisQuizStorage {
	return &RedisQuizStorage{client: client, ttl: ttl}
}

func redisQuizKey(userID int64, surah int) string {
	return fmt.Sprintf("%s:%d:%d", quizKeyPrefix, userID, surah)
}

func (s *RedisQuizStorage) Save(ctx context.Context, q *entities.QuizQuestion) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}

	if err := s.client.Set(ctx, redisQuizKey(q.UserID, q.Surah), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set quiz: %w", err)
	}
	return nil
}

func (s *RedisQuizStorage) Get(ctx context.Context, userID int64, surah int) (*entities.QuizQuestion, error) {
	data, err := s.client.Get(ctx, redisQuizKey(userID, surah)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	var q entities.QuizQuestion
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return &q, nil
}

func (s *RedisQuizStorage) Delete(ctx context.Context, userID int64, surah int) error {
	if err := s.client.Del(ctx, redisQuizKey(userID, surah)).Err(); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}
