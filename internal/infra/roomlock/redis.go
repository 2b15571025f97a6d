package roomlock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker блокировки комнат между несколькими экземплярами сервиса.
// Ключ живёт не дольше ttl, поэтому упавший процесс не держит комнату вечно.
type RedisLocker struct {
	client        *redis.Client
	prefix        string
	ttl           time.Duration
	timeout       time.Duration
	retryInterval time.Duration
	logger        Logger
}

// RedisOptions параметры RedisLocker
type RedisOptions struct {
	Prefix        string
	TTL           time.Duration
	Timeout       time.Duration
	RetryInterval time.Duration
}

// NewRedisLocker создает locker поверх Redis
func NewRedisLocker(client *redis.Client, opts RedisOptions, logger Logger) *RedisLocker {
	if opts.Prefix == "" {
		opts.Prefix = "room-booking"
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 20 * time.Millisecond
	}
	return &RedisLocker{
		client:        client,
		prefix:        opts.Prefix,
		ttl:           opts.TTL,
		timeout:       opts.Timeout,
		retryInterval: opts.RetryInterval,
		logger:        logger,
	}
}

// Acquire выполняет SET key token NX PX ttl, повторяя попытки до timeout
func (l *RedisLocker) Acquire(ctx context.Context, roomID int64) (func(), error) {
	key := l.key(roomID)
	token := uuid.NewString()

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: room=%d: %v", ErrLockTimeout, roomID, ctx.Err())
			}
			return nil, fmt.Errorf("%w: room=%d: %v", ErrLockBackend, roomID, err)
		}
		if ok {
			return l.releaseFunc(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: room=%d: %v", ErrLockTimeout, roomID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaseFunc(key, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			// Ключ всё равно истечёт по ttl
			l.logger.Warn("RedisLocker: failed to release %s: %v", key, err)
		}
	}
}

func (l *RedisLocker) key(roomID int64) string {
	return fmt.Sprintf("%s:room-lock:%d", l.prefix, roomID)
}
