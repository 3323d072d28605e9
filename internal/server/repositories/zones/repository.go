package zones

import (
	"context"

	"github.com/dmitrijs2005/hashzone/internal/server/models"
)

// Repository is the zone directory: tenant configuration keyed by zone name.
type Repository interface {
	Create(ctx context.Context, zone *models.Zone) error
	GetByName(ctx context.Context, zoneName string) (*models.Zone, error)
	SelectAll(ctx context.Context) ([]*models.Zone, error)
	SelectByOwner(ctx context.Context, ownerUserID string) ([]*models.Zone, error)
	Update(ctx context.Context, zone *models.Zone) error
	Delete(ctx context.Context, zoneName string) error
}
