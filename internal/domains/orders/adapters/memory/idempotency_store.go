package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
)

var (
	_ ports.IdempotencyClaimer = (*IdempotencyStore)(nil)
	_ ports.IdempotencyPurger  = (*IdempotencyStore)(nil)
)

// IdempotencyStore keeps placement keys in process. Keys older than the TTL
// behave as if they were never stored, matching the redis adapter.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]ports.IdempotencyRecord
	ttl  time.Duration
	now  func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: map[string]ports.IdempotencyRecord{}, now: time.Now}
}

// Expire sets the retention window. Zero keeps keys until PurgeBefore.
func (s *IdempotencyStore) Expire(ttl time.Duration) *IdempotencyStore {
	s.mu.Lock()
	s.ttl = ttl
	s.mu.Unlock()
	return s
}

func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.live(key)
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Save records key -> order. A live key with another fingerprint or order
// yields ErrIdempotencyConflict together with the stored record.
func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.live(record.Key); ok {
		if stored.RequestHash != record.RequestHash || stored.OrderID != record.OrderID {
			return &stored, ports.ErrIdempotencyConflict
		}
		return &stored, nil
	}
	record.CreatedAt = s.now()
	record.UpdatedAt = record.CreatedAt
	s.keys[record.Key] = record
	return &record, nil
}

func (s *IdempotencyStore) Claim(_ context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.live(key); ok {
		return &stored, false, nil
	}
	now := s.now()
	record := ports.IdempotencyRecord{Key: key, RequestHash: requestHash, CreatedAt: now, UpdatedAt: now}
	s.keys[key] = record
	return &record, true, nil
}

// Complete re-creates the record when the claim expired in the meantime.
func (s *IdempotencyStore) Complete(_ context.Context, key, requestHash string, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	record, ok := s.live(key)
	if !ok {
		record = ports.IdempotencyRecord{Key: key, RequestHash: requestHash, CreatedAt: now}
	}
	if record.RequestHash != requestHash || (!record.Pending() && record.OrderID != orderID) {
		return ports.ErrIdempotencyConflict
	}
	record.OrderID = orderID
	record.UpdatedAt = now
	s.keys[key] = record
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key, requestHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.live(key); ok && record.Pending() && record.RequestHash == requestHash {
		delete(s.keys, key)
	}
	return nil
}

func (s *IdempotencyStore) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for key, record := range s.keys {
		if record.CreatedAt.Before(cutoff) {
			delete(s.keys, key)
			purged++
		}
	}
	return purged, nil
}

// live must be called with mu held.
func (s *IdempotencyStore) live(key string) (ports.IdempotencyRecord, bool) {
	record, ok := s.keys[key]
	if !ok {
		return ports.IdempotencyRecord{}, false
	}
	if s.ttl > 0 && !s.now().Before(record.CreatedAt.Add(s.ttl)) {
		delete(s.keys, key)
		return ports.IdempotencyRecord{}, false
	}
	return record, true
}
