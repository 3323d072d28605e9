package transfers

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hashzone/internal/dbx"
	"github.com/dmitrijs2005/hashzone/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository appends transfer records to the upload_records or
// download_records table depending on the channel.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func tableForChannel(channel Channel) (string, error) {
	switch channel {
	case ChannelUpload:
		return "upload_records", nil
	case ChannelDownload:
		return "download_records", nil
	default:
		return "", fmt.Errorf("unknown transfer channel: %q", channel)
	}
}

// Append inserts one audit record. The record ID is assigned here if unset.
func (r *PostgresRepository) Append(ctx context.Context, channel Channel, record *models.TransferRecord) error {
	table, err := tableForChannel(channel)
	if err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, stage, ts, zone_name, user_id, size, hash, hash_alg, object_key, bucket_uri)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, table)
	_, err = r.db.ExecContext(ctx, query,
		record.ID, record.Stage, record.Timestamp, record.ZoneName, record.UserID,
		record.Size, record.Hash, record.HashAlg, record.ObjectKey, record.BucketURI)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
