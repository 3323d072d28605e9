package models

// Transfer lifecycle stages recorded in the audit trail.
const (
	StageInitiate = "initiate"
	StageFinalize = "finalize"
)

// TransferRecord is one append-only audit entry for an upload or download
// lifecycle event. Records are never mutated or deleted.
type TransferRecord struct {
	ID        string
	Stage     string
	Timestamp int64
	ZoneName  string
	UserID    string
	Size      int64
	Hash      string
	HashAlg   string
	ObjectKey string
	BucketURI string
}
