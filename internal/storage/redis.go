package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	redis "github.com/redis/go-redis/v9"
)

// Redis — слоты в redis: ключ "<name>:<profile>", опционально с TTL.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

// DialRedis подключается с несколькими попытками и backoff
func DialRedis(ctx context.Context, addr string, db int, retries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	var err error
	for i := 0; i < retries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return rdb, nil
		}

		backoff := time.Duration(1<<i) * time.Second
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	_ = rdb.Close()
	return nil, errors.Wrapf(err, "redis %s: no connection after %d retries", addr, retries)
}

func (r *Redis) Slot(profile, name string) Slot {
	return &redisSlot{r: r, key: fmt.Sprintf("%s:%s", name, profile)}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

type redisSlot struct {
	r   *Redis
	key string
}

func (s *redisSlot) Load(ctx context.Context) ([]byte, error) {
	b, err := s.r.rdb.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, errors.Wrapf(err, "redis GET %s", s.key)
	}
	return b, nil
}

func (s *redisSlot) Save(ctx context.Context, data []byte) error {
	return errors.Wrapf(s.r.rdb.Set(ctx, s.key, data, s.r.ttl).Err(), "redis SET %s", s.key)
}

func (s *redisSlot) Erase(ctx context.Context) error {
	return errors.Wrapf(s.r.rdb.Del(ctx, s.key).Err(), "redis DEL %s", s.key)
}
