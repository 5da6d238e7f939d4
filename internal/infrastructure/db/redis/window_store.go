package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const windowKeyPrefix = "ratelimit:"

// hitScript increments the window counter and starts its expiry on the first
// hit, returning the count and the remaining TTL in milliseconds.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// WindowStore is a fixed-window counter shared by every replica.
// Key format: ratelimit:<limiter>:<client>
type WindowStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewWindowStore creates a WindowStore wrapping the given Redis client.
func NewWindowStore(client *redis.Client) *WindowStore {
	return &WindowStore{client: client, now: time.Now}
}

// Hit implements ratelimit.Store.
func (s *WindowStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	res, err := hitScript.Run(ctx, s.client, []string{windowKeyPrefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate window hit: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate window hit: unexpected reply %v", res)
	}
	return res[0], s.now().Add(time.Duration(res[1]) * time.Millisecond), nil
}
