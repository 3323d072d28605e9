// Package models defines client-side data models persisted in the local
// SQLite index.
package models

// StoredFile is one content-addressed file known to this client, either
// stored locally, uploaded to a zone, or both.
type StoredFile struct {
	// Hash is the lowercase hex sha1 digest identifying the content.
	Hash string
	// Size in bytes.
	Size int64
	// Label is an optional human-readable name, usually the base filename.
	Label string
	// ZoneName is the zone the file was uploaded to, empty for local-only.
	ZoneName string
	// Uploaded is set once the remote upload has been finalized.
	Uploaded bool
	// Timestamp is the record time in unix milliseconds.
	Timestamp int64
}
