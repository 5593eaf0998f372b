package repository

import (
	"context"
	"sync"
	"time"

	"frontdesk/internal/models"
)

// MemoryRoomCache is the in-process fallback used when Redis is down.
// Entries never expire; the failover wrapper invalidates on every save
// so staleness is bounded by the outage itself.
type MemoryRoomCache struct {
	rooms sync.Map
	ttl   time.Duration

	rlMu       sync.Mutex
	rateLimits map[string]rateLimitEntry
}

func NewMemoryRoomCache(ttl time.Duration) *MemoryRoomCache {
	return &MemoryRoomCache{
		ttl:        ttl,
		rateLimits: make(map[string]rateLimitEntry),
	}
}

func (r *MemoryRoomCache) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	val, ok := r.rooms.Load(id)
	if !ok {
		return nil, nil
	}
	return val.(*models.Room), nil
}

func (r *MemoryRoomCache) SetRoom(ctx context.Context, room *models.Room) error {
	r.rooms.Store(room.ID, room)
	return nil
}

func (r *MemoryRoomCache) Invalidate(ctx context.Context, id int64) error {
	r.rooms.Delete(id)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryRoomCache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	r.rlMu.Lock()
	defer r.rlMu.Unlock()

	entry, ok := r.rateLimits[key]
	if !ok || now.After(entry.expiresAt) {
		entry = rateLimitEntry{count: 1, expiresAt: now.Add(window)}
	} else {
		entry.count++
	}
	r.rateLimits[key] = entry

	return entry.count <= limit, nil
}
