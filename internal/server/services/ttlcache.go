package services

import (
	"sync"
	"time"
)

// PendingUploads is an advisory, TTL-based mutual-exclusion cache that
// collapses concurrent duplicate-content upload initiations into a single
// in-flight mint. It gives best-effort, same-process exclusion only: two
// server instances never see each other's locks. A deployment that needs
// cross-instance exclusion should back this interface with a durable store
// using an atomic acquire-if-absent write, keeping the same
// release-on-every-exit-path contract.
type PendingUploads interface {
	// TryAcquire takes the lock for key if no unexpired lock exists,
	// reporting whether it was taken.
	TryAcquire(key string, ttl time.Duration) bool

	// IsHeld reports whether an unexpired lock for key exists. An expired
	// entry counts as absent and is purged.
	IsHeld(key string) bool

	// Release removes the lock for key unconditionally.
	Release(key string)
}

// CachedDownloadURL is one previously minted signed download URL together
// with the object metadata resolved when it was minted.
type CachedDownloadURL struct {
	URL       string
	ExpiresAt time.Time
	Size      int64
	ObjectKey string
	BucketURI string
}

// DownloadURLCache caches signed download URLs keyed by content identity
// within a zone, with the same lazy-expiry semantics as PendingUploads.
type DownloadURLCache interface {
	// Get returns the live entry for key, if any. An expired entry counts
	// as absent and is purged.
	Get(key string) (CachedDownloadURL, bool)

	// Put stores entry under key for the given ttl, overwriting any
	// previous entry.
	Put(key string, entry CachedDownloadURL, ttl time.Duration)
}

type memoryPendingUploads struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryPendingUploads constructs the in-process coordinator.
func NewMemoryPendingUploads() PendingUploads {
	return &memoryPendingUploads{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (p *memoryPendingUploads) TryAcquire(key string, ttl time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	expires, ok := p.entries[key]
	if ok && expires.After(p.now()) {
		return false
	}
	p.entries[key] = p.now().Add(ttl)
	return true
}

func (p *memoryPendingUploads) IsHeld(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	expires, ok := p.entries[key]
	if !ok {
		return false
	}
	if !expires.After(p.now()) {
		delete(p.entries, key)
		return false
	}
	return true
}

func (p *memoryPendingUploads) Release(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, key)
}

type memoryDownloadURLCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
	now     func() time.Time
}

type memoryCacheEntry struct {
	value   CachedDownloadURL
	expires time.Time
}

// NewMemoryDownloadURLCache constructs the in-process URL cache.
func NewMemoryDownloadURLCache() DownloadURLCache {
	return &memoryDownloadURLCache{
		entries: make(map[string]memoryCacheEntry),
		now:     time.Now,
	}
}

func (c *memoryDownloadURLCache) Get(key string) (CachedDownloadURL, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return CachedDownloadURL{}, false
	}
	if !e.expires.After(c.now()) {
		delete(c.entries, key)
		return CachedDownloadURL{}, false
	}
	return e.value, true
}

func (c *memoryDownloadURLCache) Put(key string, entry CachedDownloadURL, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryCacheEntry{value: entry, expires: c.now().Add(ttl)}
}
