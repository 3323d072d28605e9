package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/logging"
	"github.com/dmitrijs2005/hashzone/internal/server/models"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/repomanager"
)

// apiKeyLength is the length of generated user API keys.
const apiKeyLength = 32

// UserService manages the user registry and API keys.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "user_service"),
	}
}

// AddUser registers userID. Registering an existing user is not an error.
func (s *UserService) AddUser(ctx context.Context, userID string) error {
	user := &models.User{UserID: userID}
	if err := s.repomanager.Users(s.db).CreateIfAbsent(ctx, user); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// ResetAPIKey issues a fresh API key for userID, registering the user first
// if needed, and returns the new key. The previous key stops working.
func (s *UserService) ResetAPIKey(ctx context.Context, userID string) (string, error) {
	repo := s.repomanager.Users(s.db)

	if err := repo.CreateIfAbsent(ctx, &models.User{UserID: userID}); err != nil {
		return "", fmt.Errorf("error creating user: %w", err)
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return "", err
	}

	if err := repo.UpdateAPIKey(ctx, userID, apiKey); err != nil {
		return "", fmt.Errorf("error updating api key: %w", err)
	}

	s.logger.Info(ctx, "api key reset", "user", userID)
	return apiKey, nil
}

// SetUserInfo updates the display attributes of userID.
func (s *UserService) SetUserInfo(ctx context.Context, userID, name, email string) error {
	if err := s.repomanager.Users(s.db).UpdateInfo(ctx, userID, name, email); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

func generateAPIKey() (string, error) {
	return common.MakeRandAlphanumString(apiKeyLength)
}

// UserIDForAPIKey resolves an API key to its owning principal. Unknown keys
// return common.ErrorNotFound.
func (s *UserService) UserIDForAPIKey(ctx context.Context, apiKey string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByAPIKey(ctx, apiKey)
	if err != nil {
		return "", err
	}
	return user.UserID, nil
}
