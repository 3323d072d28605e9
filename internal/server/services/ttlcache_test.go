package services

import (
	"testing"
	"time"
)

func TestPendingUploads_AcquireAndRelease(t *testing.T) {
	p := NewMemoryPendingUploads()

	if !p.TryAcquire("k", time.Minute) {
		t.Fatalf("first acquire must succeed")
	}
	if p.TryAcquire("k", time.Minute) {
		t.Fatalf("second acquire must fail while lock is held")
	}
	if !p.IsHeld("k") {
		t.Fatalf("IsHeld must report a live lock")
	}

	p.Release("k")

	if p.IsHeld("k") {
		t.Fatalf("IsHeld must report false after release")
	}
	if !p.TryAcquire("k", time.Minute) {
		t.Fatalf("acquire must succeed after release")
	}
}

func TestPendingUploads_ExpiredEntryCountsAsAbsent(t *testing.T) {
	p := NewMemoryPendingUploads().(*memoryPendingUploads)

	now := time.Now()
	p.now = func() time.Time { return now }

	if !p.TryAcquire("k", 30*time.Minute) {
		t.Fatalf("acquire failed")
	}

	// just before expiry the lock is still held
	p.now = func() time.Time { return now.Add(30*time.Minute - time.Second) }
	if !p.IsHeld("k") {
		t.Fatalf("lock must still be held before ttl")
	}

	// at expiry the entry is treated as absent and purged
	p.now = func() time.Time { return now.Add(30 * time.Minute) }
	if p.IsHeld("k") {
		t.Fatalf("expired lock must count as absent")
	}
	if !p.TryAcquire("k", time.Minute) {
		t.Fatalf("acquire must succeed over an expired lock")
	}
}

func TestPendingUploads_IndependentKeys(t *testing.T) {
	p := NewMemoryPendingUploads()

	if !p.TryAcquire("zone-a:sha1:h", time.Minute) {
		t.Fatalf("acquire a failed")
	}
	if !p.TryAcquire("zone-b:sha1:h", time.Minute) {
		t.Fatalf("distinct keys must not block each other")
	}
}

func TestDownloadURLCache_PutGet(t *testing.T) {
	c := NewMemoryDownloadURLCache()

	entry := CachedDownloadURL{URL: "https://signed.example/get", Size: 42, ObjectKey: "k", BucketURI: "s3://b"}
	c.Put("k", entry, 10*time.Minute)

	got, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.URL != entry.URL || got.Size != 42 {
		t.Fatalf("unexpected entry: %+v", got)
	}

	if _, ok := c.Get("other"); ok {
		t.Fatalf("unexpected hit for unknown key")
	}
}

func TestDownloadURLCache_LazyExpiry(t *testing.T) {
	c := NewMemoryDownloadURLCache().(*memoryDownloadURLCache)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put("k", CachedDownloadURL{URL: "u"}, 10*time.Minute)

	c.now = func() time.Time { return now.Add(10*time.Minute - time.Second) }
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("entry must be live before ttl")
	}

	c.now = func() time.Time { return now.Add(10 * time.Minute) }
	if _, ok := c.Get("k"); ok {
		t.Fatalf("entry must expire at ttl")
	}

	// purged on read: stays absent even if time moves back (fresh map state)
	if len(c.entries) != 0 {
		t.Fatalf("expired entry was not purged")
	}
}

func TestDownloadURLCache_Overwrite(t *testing.T) {
	c := NewMemoryDownloadURLCache()

	c.Put("k", CachedDownloadURL{URL: "old"}, time.Minute)
	c.Put("k", CachedDownloadURL{URL: "new"}, time.Minute)

	got, ok := c.Get("k")
	if !ok || got.URL != "new" {
		t.Fatalf("expected overwritten entry, got %+v ok=%v", got, ok)
	}
}
