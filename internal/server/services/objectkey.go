// Package services implements the transfer core: upload/download
// orchestration, deduplication by content hash, and zone/user
// administration.
package services

import (
	"regexp"

	"github.com/dmitrijs2005/hashzone/internal/common"
)

// HashAlgSha1 is the only content hash algorithm currently accepted.
const HashAlgSha1 = "sha1"

const (
	defaultZoneMaxSize int64 = 1000 * 1000 * 200
	zoneMaxSize        int64 = 1000 * 1000 * 1000
)

var sha1Pattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsValidSha1 reports whether hash is a 40-character lowercase hex string.
func IsValidSha1(hash string) bool {
	return sha1Pattern.MatchString(hash)
}

// MaxSizeForZone returns the per-zone upload quota in bytes. The shared
// "default" zone gets a tighter quota than dedicated zones.
func MaxSizeForZone(zoneName string) int64 {
	if zoneName == common.DefaultZoneName {
		return defaultZoneMaxSize
	}
	return zoneMaxSize
}

// ObjectKey derives the deterministic object-store key for a piece of
// content: the zone directory prefix, the hash algorithm, a three-level
// shard prefix taken from the first six hex characters of the hash, and the
// full hash. Identical content in the same zone always resolves to the same
// key, which is the basis of deduplication; the shard prefix bounds the
// number of objects per logical directory without a lookup table.
func ObjectKey(directory, hashAlg, hash string) string {
	key := joinKeys(hashAlg, hash[0:2])
	key = joinKeys(key, hash[2:4])
	key = joinKeys(key, hash[4:6])
	key = joinKeys(key, hash)
	return joinKeys(directory, key)
}

// joinKeys joins two key fragments with a single separator; an empty
// fragment is identity.
func joinKeys(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a[len(a)-1] == '/' {
		return a + b
	}
	return a + "/" + b
}
