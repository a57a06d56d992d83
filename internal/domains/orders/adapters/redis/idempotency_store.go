// Package redis keeps placement idempotency keys in Redis with a TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
)

var _ ports.IdempotencyClaimer = (*IdempotencyStore)(nil)

const (
	// KeyIdemOrderCreate maps a client idempotency key to the order it created.
	KeyIdemOrderCreate = "idem:order:create:%s"
	// DefaultTTL bounds how long a key can be replayed.
	DefaultTTL = 24 * time.Hour
)

// IdempotencyStore stores records as JSON values written with SET NX. Expiry
// is left to Redis, so it needs no purger.
type IdempotencyStore struct {
	client goredis.Cmdable
	ttl    time.Duration
	now    func() time.Time
}

// NewIdempotencyStore wires a store on client. A non-positive ttl uses DefaultTTL.
func NewIdempotencyStore(client goredis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl, now: time.Now}
}

type storedRecord struct {
	RequestHash string    `json:"request_hash"`
	OrderID     int64     `json:"order_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Get returns the stored record for key, or nil when absent or expired.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis idempotency store not configured")
	}
	raw, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var stored storedRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode idempotency record %q: %w", key, err)
	}
	return &ports.IdempotencyRecord{
		Key:         key,
		RequestHash: stored.RequestHash,
		OrderID:     stored.OrderID,
		CreatedAt:   stored.CreatedAt,
		UpdatedAt:   stored.CreatedAt,
	}, nil
}

// Save writes the record unless the key exists. An existing key with the same
// hash and order is returned as is; anything else is ErrIdempotencyConflict.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis idempotency store not configured")
	}
	now := s.now().UTC()
	payload, err := json.Marshal(storedRecord{RequestHash: record.RequestHash, OrderID: record.OrderID, CreatedAt: now})
	if err != nil {
		return nil, err
	}
	created, err := s.client.SetNX(ctx, redisKey(record.Key), payload, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if created {
		record.CreatedAt = now
		record.UpdatedAt = now
		return &record, nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("idempotency key expired during save")
	}
	if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

// Claim writes a pending record (order id 0) with SET NX and the store TTL, so
// an abandoned claim frees itself.
func (s *IdempotencyStore) Claim(ctx context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	if s == nil || s.client == nil {
		return nil, false, errors.New("redis idempotency store not configured")
	}
	for attempt := 0; attempt < 2; attempt++ {
		now := s.now().UTC()
		payload, err := json.Marshal(storedRecord{RequestHash: requestHash, CreatedAt: now})
		if err != nil {
			return nil, false, err
		}
		created, err := s.client.SetNX(ctx, redisKey(key), payload, s.ttl).Result()
		if err != nil {
			return nil, false, err
		}
		if created {
			return &ports.IdempotencyRecord{Key: key, RequestHash: requestHash, CreatedAt: now, UpdatedAt: now}, true, nil
		}
		existing, err := s.Get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
		// expired between SET NX and GET
	}
	return nil, false, errors.New("idempotency key kept expiring while claiming")
}

// completeScript swaps a pending record for the completed payload in ARGV[3],
// keeping the TTL. A missing key is written again with ARGV[4] milliseconds to live.
var completeScript = goredis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	redis.call('SET', KEYS[1], ARGV[3], 'PX', ARGV[4])
	return 1
end
local rec = cjson.decode(raw)
if rec.request_hash ~= ARGV[1] then
	return 0
end
if rec.order_id ~= 0 and rec.order_id ~= tonumber(ARGV[2]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[3], 'KEEPTTL')
return 1
`)

// releaseScript deletes the key only while it is still the caller's pending claim.
var releaseScript = goredis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 0
end
local rec = cjson.decode(raw)
if rec.request_hash == ARGV[1] and rec.order_id == 0 then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

func (s *IdempotencyStore) Complete(ctx context.Context, key, requestHash string, orderID int64) error {
	if s == nil || s.client == nil {
		return errors.New("redis idempotency store not configured")
	}
	payload, err := json.Marshal(storedRecord{RequestHash: requestHash, OrderID: orderID, CreatedAt: s.now().UTC()})
	if err != nil {
		return err
	}
	ok, err := completeScript.Run(ctx, s.client, []string{redisKey(key)},
		requestHash, orderID, string(payload), s.ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if ok != 1 {
		return ports.ErrIdempotencyConflict
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key, requestHash string) error {
	if s == nil || s.client == nil {
		return errors.New("redis idempotency store not configured")
	}
	return releaseScript.Run(ctx, s.client, []string{redisKey(key)}, requestHash).Err()
}

func redisKey(key string) string {
	return fmt.Sprintf(KeyIdemOrderCreate, key)
}
