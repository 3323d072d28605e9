package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/dbx"
	"github.com/dmitrijs2005/hashzone/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateIfAbsent inserts the user unless the user id is already registered.
// Inserting an existing user is not an error.
func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_id, name, email, api_key)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (user_id) DO NOTHING;
	`
	_, err := r.db.ExecContext(ctx, query, user.UserID, user.Name, user.Email, user.APIKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT user_id, name, email, COALESCE(api_key, ''), created_at FROM users WHERE user_id = $1`
	return r.getOne(ctx, query, userID)
}

// GetByAPIKey resolves the principal owning apiKey. An empty key never
// matches.
func (r *PostgresRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	if apiKey == "" {
		return nil, common.ErrorNotFound
	}
	query := `SELECT user_id, name, email, COALESCE(api_key, ''), created_at FROM users WHERE api_key = $1`
	return r.getOne(ctx, query, apiKey)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.UserID, &user.Name, &user.Email, &user.APIKey, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) UpdateInfo(ctx context.Context, userID string, name, email string) error {
	query := `UPDATE users SET name = $2, email = $3 WHERE user_id = $1`
	return r.execOne(ctx, query, userID, name, email)
}

func (r *PostgresRepository) UpdateAPIKey(ctx context.Context, userID string, apiKey string) error {
	query := `UPDATE users SET api_key = NULLIF($2, '') WHERE user_id = $1`
	return r.execOne(ctx, query, userID, apiKey)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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
