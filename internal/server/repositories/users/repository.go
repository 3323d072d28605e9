package users

import (
	"context"

	"github.com/dmitrijs2005/hashzone/internal/server/models"
)

// Repository stores registered principals and their API keys.
type Repository interface {
	CreateIfAbsent(ctx context.Context, user *models.User) error
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	UpdateInfo(ctx context.Context, userID string, name, email string) error
	UpdateAPIKey(ctx context.Context, userID string, apiKey string) error
}
