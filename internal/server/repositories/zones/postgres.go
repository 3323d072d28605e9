package zones

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/dbx"
	"github.com/dmitrijs2005/hashzone/internal/server/models"
)

// PostgresRepository implements the zone directory over a dbx.DBTX
// (*sql.DB or *sql.Tx). The per-zone ACL is stored as a JSONB column.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const zoneColumns = `zone_name, owner_user_id, users, public_download, bucket_uri, directory, credentials, created_at`

func scanZone(row interface{ Scan(...any) error }) (*models.Zone, error) {
	zone := &models.Zone{}
	var usersJSON []byte
	err := row.Scan(&zone.ZoneName, &zone.OwnerUserID, &usersJSON, &zone.PublicDownload,
		&zone.BucketURI, &zone.Directory, &zone.Credentials, &zone.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(usersJSON, &zone.Users); err != nil {
		return nil, fmt.Errorf("decode zone users: %w", err)
	}
	return zone, nil
}

func (r *PostgresRepository) Create(ctx context.Context, zone *models.Zone) error {
	usersJSON, err := json.Marshal(zone.Users)
	if err != nil {
		return fmt.Errorf("encode zone users: %w", err)
	}
	query := `
		INSERT INTO zones (zone_name, owner_user_id, users, public_download, bucket_uri, directory, credentials)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (zone_name) DO NOTHING;
	`
	res, err := r.db.ExecContext(ctx, query,
		zone.ZoneName, zone.OwnerUserID, usersJSON, zone.PublicDownload,
		zone.BucketURI, zone.Directory, zone.Credentials)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("zone %q: %w", zone.ZoneName, ErrZoneExists)
	}
	return nil
}

// ErrZoneExists is returned by Create when the zone name is already taken.
var ErrZoneExists = errors.New("zone already exists")

func (r *PostgresRepository) GetByName(ctx context.Context, zoneName string) (*models.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE zone_name = $1`

	zone, err := scanZone(r.db.QueryRowContext(ctx, query, zoneName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return zone, nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones ORDER BY zone_name`
	return r.selectZones(ctx, query)
}

func (r *PostgresRepository) SelectByOwner(ctx context.Context, ownerUserID string) ([]*models.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE owner_user_id = $1 ORDER BY zone_name`
	return r.selectZones(ctx, query, ownerUserID)
}

func (r *PostgresRepository) selectZones(ctx context.Context, query string, args ...any) ([]*models.Zone, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select zones: %w", err)
	}
	defer rows.Close()

	var result []*models.Zone
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, zone *models.Zone) error {
	usersJSON, err := json.Marshal(zone.Users)
	if err != nil {
		return fmt.Errorf("encode zone users: %w", err)
	}
	query := `
		UPDATE zones
		SET users = $2, public_download = $3, bucket_uri = $4, directory = $5, credentials = $6
		WHERE zone_name = $1;
	`
	res, err := r.db.ExecContext(ctx, query,
		zone.ZoneName, usersJSON, zone.PublicDownload, zone.BucketURI, zone.Directory, zone.Credentials)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, zoneName string) error {
	query := `DELETE FROM zones WHERE zone_name = $1`
	res, err := r.db.ExecContext(ctx, query, zoneName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
