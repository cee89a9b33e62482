package session

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	redisdb "github.com/octabyte/bm-health-portal/db/redis"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/redis/go-redis/v9"
)

const (
	fieldToken = "authToken"
	fieldUser  = "user"
)

// RedisStore keeps the session in one redis hash. Several processes sharing
// the key share the session.
type RedisStore struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisStore returns a store for key. A ttl of zero keeps the session
// until it is cleared.
func NewRedisStore(client redis.Cmdable, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, s models.Session) error {
	if !s.Valid() {
		return ErrIncompleteSession
	}
	if !s.Authenticated() {
		_, err := r.Clear(ctx)
		return err
	}

	user, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	err = redisdb.HSetAll(ctx, r.client, r.key, map[string]interface{}{
		fieldToken: s.Token,
		fieldUser:  string(user),
	}, r.ttl)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context) (models.Session, error) {
	fields, err := redisdb.HGetAll(ctx, r.client, r.key)
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return models.Session{}, nil
	}

	token, user := fields[fieldToken], fields[fieldUser]
	if token == "" || user == "" {
		return models.Session{}, ErrIncompleteSession
	}

	var summary models.UserSummary
	if err := json.Unmarshal([]byte(user), &summary); err != nil {
		return models.Session{}, fmt.Errorf("decode session user: %w", err)
	}
	return models.Session{Token: token, User: &summary}, nil
}

func (r *RedisStore) Clear(ctx context.Context) (bool, error) {
	n, err := redisdb.Del(ctx, r.client, r.key)
	if err != nil {
		return false, fmt.Errorf("clear session: %w", err)
	}
	return n > 0, nil
}
