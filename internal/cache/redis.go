package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const heartbeatKey = "crm:heartbeat"

var ErrLockNotHeld = errors.New("lock is not held")

// снимаем блокировку, только если значение — наш токен
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisClient struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	return &RedisClient{
		client: rdb,
		log:    log,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Lock — распределённая блокировка задачи, чтобы она шла на одной реплике.
type Lock struct {
	Key   string
	token string
}

// AcquireLock возвращает nil, nil если блокировку держит кто-то другой.
func (r *RedisClient) AcquireLock(ctx context.Context, name string, ttl time.Duration) (*Lock, error) {
	key := fmt.Sprintf("lock:%s", name)
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &Lock{Key: key, token: token}, nil
}

func (r *RedisClient) ReleaseLock(ctx context.Context, l *Lock) error {
	if l == nil {
		return nil
	}
	n, err := releaseScript.Run(ctx, r.client, []string{l.Key}, l.token).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Heartbeat
func (r *RedisClient) SetHeartbeat(ctx context.Context, at time.Time, ttl time.Duration) error {
	return r.client.Set(ctx, heartbeatKey, at.UTC().Format(time.RFC3339), ttl).Err()
}

// LastHeartbeat — нулевое время, если отметки нет.
func (r *RedisClient) LastHeartbeat(ctx context.Context) (time.Time, error) {
	s, err := r.client.Get(ctx, heartbeatKey).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}
