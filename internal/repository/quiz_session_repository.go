package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/breadlab/breadquiz/internal/config"
	"github.com/breadlab/breadquiz/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session key is missing or expired.
var ErrSessionNotFound = errors.New("quiz session not found")

// releaseLockScript deletes the lock only if it still holds the caller's token.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// QuizSessionRepository stores quiz sessions as JSON blobs in Redis.
type QuizSessionRepository struct {
	rdb     *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewQuizSessionRepository creates a new QuizSessionRepository.
func NewQuizSessionRepository(rdb *redis.Client, ttl, lockTTL time.Duration) *QuizSessionRepository {
	return &QuizSessionRepository{rdb: rdb, ttl: ttl, lockTTL: lockTTL}
}

// Save writes the session and refreshes its TTL.
func (r *QuizSessionRepository) Save(ctx context.Context, s *model.QuizSession) error {
	s.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.rdb.Set(ctx, config.CacheKey.QuizSessionKey(s.ID.String()), data, r.ttl).Err()
}

func (r *QuizSessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.QuizSession, error) {
	data, err := r.rdb.Get(ctx, config.CacheKey.QuizSessionKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var s model.QuizSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *QuizSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.rdb.Del(ctx,
		config.CacheKey.QuizSessionKey(id.String()),
		config.CacheKey.QuizStreamLockKey(id.String()),
	).Err()
}

// AcquireStreamLock marks a result generation as in flight. It returns the
// lock token, or ok=false when another generation already holds the lock.
func (r *QuizSessionRepository) AcquireStreamLock(ctx context.Context, id uuid.UUID) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = r.rdb.SetNX(ctx, config.CacheKey.QuizStreamLockKey(id.String()), token, r.lockTTL).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseStreamLock frees the lock taken with token. A lock that expired and
// was taken by someone else is left alone.
func (r *QuizSessionRepository) ReleaseStreamLock(ctx context.Context, id uuid.UUID, token string) error {
	return releaseLockScript.Run(ctx, r.rdb, []string{config.CacheKey.QuizStreamLockKey(id.String())}, token).Err()
}

func (r *QuizSessionRepository) IsStreaming(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := r.rdb.Exists(ctx, config.CacheKey.QuizStreamLockKey(id.String())).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
