package application

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/conference-manager/internal/registry"
)

// suggestionCache stores recently computed room suggestions to avoid
// re-scanning every room's reservations for identical queries while the
// schedule remains unchanged. Every schedule mutation invalidates it.
type suggestionCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]suggestionCacheEntry
}

type suggestionCacheEntry struct {
	rooms     []registry.Room
	expiresAt time.Time
}

func newSuggestionCache(ttl time.Duration, maxEntries int, now func() time.Time) *suggestionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &suggestionCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]suggestionCacheEntry),
	}
}

func (c *suggestionCache) Get(key string) ([]registry.Room, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneRooms(entry.rooms), true
}

func (c *suggestionCache) Store(key string, rooms []registry.Room) {
	if c == nil {
		return
	}
	cloned := cloneRooms(rooms)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = suggestionCacheEntry{rooms: cloned, expiresAt: expiry}
}

func (c *suggestionCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]suggestionCacheEntry)
	c.mu.Unlock()
}

func (c *suggestionCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *suggestionCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneRooms(rooms []registry.Room) []registry.Room {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]registry.Room, len(rooms))
	for i, room := range rooms {
		out[i] = room.Clone()
	}
	return out
}

func buildSuggestionCacheKey(params SuggestRoomsParams) string {
	tags := normalizeTags(params.Constraints)

	builder := strings.Builder{}
	builder.WriteString(params.Start.UTC().Format(time.RFC3339Nano))
	builder.WriteString("|")
	builder.WriteString(params.Duration.String())
	builder.WriteString("|")
	builder.WriteString(strconv.Itoa(params.Capacity))
	builder.WriteString("|")
	builder.WriteString(strings.Join(tags, ","))
	return builder.String()
}
