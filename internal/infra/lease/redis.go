package lease

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLeaseKey = "medremind:tick:lease"

// releaseScript deletes the lease only when this instance still holds it,
// so a takeover by another instance is never released by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a shared lease for horizontally scaled deployments. Staleness
// is handled by the key TTL: an abandoned run's lease simply expires
// after the maximum run duration.
type Redis struct {
	client         *redis.Client
	key            string
	holder         string
	maxRunDuration time.Duration
}

func NewRedis(client *redis.Client, maxRunDuration time.Duration) *Redis {
	return &Redis{
		client:         client,
		key:            defaultLeaseKey,
		holder:         uuid.NewString(),
		maxRunDuration: maxRunDuration,
	}
}

func (r *Redis) Acquire(ctx context.Context, _ time.Time) (bool, error) {
	return r.client.SetNX(ctx, r.key, r.holder, r.maxRunDuration).Result()
}

func (r *Redis) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, r.client, []string{r.key}, r.holder).Err()
}
