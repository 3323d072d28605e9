package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hashzone/internal/client/models"
	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, f *models.StoredFile) error {

	query := `INSERT INTO stored_files (hash, size, label, zone_name, uploaded, timestamp)
			values (?, ?, ?, ?, ?, ?)
			ON CONFLICT(hash) DO UPDATE SET size = excluded.size,
				label = excluded.label,
				zone_name = excluded.zone_name,
				uploaded = excluded.uploaded,
				timestamp = excluded.timestamp
	`
	_, err := r.db.ExecContext(ctx, query, f.Hash, f.Size, f.Label, f.ZoneName, f.Uploaded, f.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to upsert stored file: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetByHash(ctx context.Context, hash string) (*models.StoredFile, error) {

	query := `select hash, size, label, zone_name, uploaded, timestamp from stored_files where hash=?`
	row := r.db.QueryRowContext(ctx, query, hash)

	f := &models.StoredFile{}
	err := row.Scan(&f.Hash, &f.Size, &f.Label, &f.ZoneName, &f.Uploaded, &f.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stored file %s: %w", hash, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stored file: %w", err)
	}

	return f, nil
}

func (r *SQLiteRepository) SelectAll(ctx context.Context) ([]*models.StoredFile, error) {

	query := `select hash, size, label, zone_name, uploaded, timestamp from stored_files order by timestamp desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error selecting stored files: %w", err)
	}
	defer rows.Close()

	var result []*models.StoredFile

	for rows.Next() {
		var item = &models.StoredFile{}
		err := rows.Scan(&item.Hash, &item.Size, &item.Label, &item.ZoneName, &item.Uploaded, &item.Timestamp)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) MarkUploaded(ctx context.Context, hash string, zoneName string) error {

	query := `update stored_files set uploaded=1, zone_name=? where hash=?`
	result, err := r.db.ExecContext(ctx, query, zoneName, hash)
	if err != nil {
		return fmt.Errorf("failed to mark uploaded: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("stored file %s: %w", hash, common.ErrorNotFound)
	}

	return nil
}

func (r *SQLiteRepository) DeleteByHash(ctx context.Context, hash string) error {

	query := `delete from stored_files where hash=?`
	result, err := r.db.ExecContext(ctx, query, hash)
	if err != nil {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("stored file %s: %w", hash, common.ErrorNotFound)
	}

	return nil
}
