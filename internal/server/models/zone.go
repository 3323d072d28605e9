// Package models defines server-side data models persisted in the database.
package models

import "time"

// Zone is a tenant-scoped storage namespace mapping to one object-store
// bucket, with its own access-control list and quota.
type Zone struct {
	// ZoneName is the globally unique identifier of the zone.
	ZoneName string
	// OwnerUserID is the implicit full-rights principal.
	OwnerUserID string
	// Users holds the per-zone access grants.
	Users []ZoneUser
	// PublicDownload permits unauthenticated download resolution.
	PublicDownload bool

	// BucketURI locates the backing object store (e.g. "s3://my-bucket").
	// Empty means the zone can be read but not used for transfer.
	BucketURI string
	// Directory is an optional key prefix isolating zones that share a bucket.
	Directory string
	// Credentials is an opaque secret document enabling presigned operations
	// on the bucket. Empty means the zone cannot mint signed URLs.
	Credentials string

	CreatedAt time.Time
}

// ZoneUser is a per-zone access grant. Absence of a grant means no rights.
type ZoneUser struct {
	UserID        string `json:"userId"`
	Admin         bool   `json:"admin"`
	UploadFiles   bool   `json:"uploadFiles"`
	DownloadFiles bool   `json:"downloadFiles"`
}

// Grant returns the access grant for userID, or nil if none exists.
func (z *Zone) Grant(userID string) *ZoneUser {
	for i := range z.Users {
		if z.Users[i].UserID == userID {
			return &z.Users[i]
		}
	}
	return nil
}
