// Package files stores the client's index of content-addressed files in
// the local SQLite database.
package files

import (
	"context"

	"github.com/dmitrijs2005/hashzone/internal/client/models"
)

// Repository describes operations on the stored-file index.
type Repository interface {
	// CreateOrUpdate inserts or refreshes the record for a hash.
	CreateOrUpdate(ctx context.Context, file *models.StoredFile) error

	// GetByHash returns the record for a hash, or common.ErrorNotFound.
	GetByHash(ctx context.Context, hash string) (*models.StoredFile, error)

	// SelectAll returns every indexed file, newest first.
	SelectAll(ctx context.Context) ([]*models.StoredFile, error)

	// MarkUploaded marks the record for a hash as uploaded to a zone.
	MarkUploaded(ctx context.Context, hash string, zoneName string) error

	// DeleteByHash removes the record for a hash.
	DeleteByHash(ctx context.Context, hash string) error
}
