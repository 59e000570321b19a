// Package redis implements the per-order lock on Redis. A lock is a key set
// with NX and a TTL; the holder's token guards release so an expired lock
// taken over by someone else is never deleted by the old holder.
package redis

import (
	"context"
	"errors"
	"time"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/pkg/errs"

	goredis "github.com/redis/go-redis/v9"
)

const (
	// DefaultLockTTL bounds how long a crashed holder blocks an order.
	DefaultLockTTL = 5 * time.Second

	lockKeyPrefix = "servicedesk:order-lock:"
)

var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// OrderLocker implements ports.OrderLocker.
type OrderLocker struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewOrderLocker creates a locker. A non-positive ttl selects DefaultLockTTL.
func NewOrderLocker(client goredis.UniversalClient, ttl time.Duration) *OrderLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &OrderLocker{client: client, ttl: ttl}
}

// TryLock takes the order's lock or fails at once with
// errs.ConcurrentModificationError when someone else holds it.
func (l *OrderLocker) TryLock(ctx context.Context, orderID kernel.UUID) (ports.ReleaseFunc, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	key := lockKey(orderID)
	token := kernel.NewUUID().String()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NewConcurrentModificationError("order", orderID, "free lock", "locked")
	}

	return func(ctx context.Context) error {
		err := releaseScript.Run(ctx, l.client, []string{key}, token).Err()
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return err
	}, nil
}

func lockKey(orderID kernel.UUID) string {
	return lockKeyPrefix + orderID.String()
}
