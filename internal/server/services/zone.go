package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/hashzone/internal/logging"
	"github.com/dmitrijs2005/hashzone/internal/server/models"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/repomanager"
)

// RedactedCredentials replaces a zone's credential document on reads that
// must not leak it.
const RedactedCredentials = "********"

// ZoneService manages the zone directory: tenant configuration and the
// access rules the API layer enforces before invoking the transfer core.
type ZoneService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewZoneService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ZoneService {
	return &ZoneService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "zone_service"),
	}
}

// AddZone registers a new, empty zone owned by ownerUserID. New zones allow
// public download until configured otherwise.
func (s *ZoneService) AddZone(ctx context.Context, zoneName, ownerUserID string) error {
	zone := &models.Zone{
		ZoneName:       zoneName,
		OwnerUserID:    ownerUserID,
		Users:          []models.ZoneUser{},
		PublicDownload: true,
	}
	if err := s.repomanager.Zones(s.db).Create(ctx, zone); err != nil {
		return fmt.Errorf("error creating zone: %w", err)
	}
	return nil
}

// GetZone fetches one zone. Unless includeCredentials is set, the
// credential document is redacted.
func (s *ZoneService) GetZone(ctx context.Context, zoneName string, includeCredentials bool) (*models.Zone, error) {
	zone, err := s.repomanager.Zones(s.db).GetByName(ctx, zoneName)
	if err != nil {
		return nil, err
	}
	if !includeCredentials {
		redactZone(zone)
	}
	return zone, nil
}

// GetZones lists zones, all of them or only those owned by ownerUserID.
// Credentials are always redacted in listings.
func (s *ZoneService) GetZones(ctx context.Context, ownerUserID string) ([]*models.Zone, error) {
	repo := s.repomanager.Zones(s.db)

	var zoneList []*models.Zone
	var err error
	if ownerUserID == "" {
		zoneList, err = repo.SelectAll(ctx)
	} else {
		zoneList, err = repo.SelectByOwner(ctx, ownerUserID)
	}
	if err != nil {
		return nil, err
	}
	for _, zone := range zoneList {
		redactZone(zone)
	}
	return zoneList, nil
}

func redactZone(zone *models.Zone) {
	if zone.Credentials != "" {
		zone.Credentials = RedactedCredentials
	}
}

// ZoneUpdate carries a partial zone configuration update. Nil fields are
// left untouched.
type ZoneUpdate struct {
	Users          *[]models.ZoneUser
	PublicDownload *bool
	BucketURI      *string
	Directory      *string
	Credentials    *string
}

// SetZoneInfo applies a partial update to a zone's configuration.
func (s *ZoneService) SetZoneInfo(ctx context.Context, zoneName string, update ZoneUpdate) error {
	repo := s.repomanager.Zones(s.db)

	zone, err := repo.GetByName(ctx, zoneName)
	if err != nil {
		return err
	}
	if update.Users != nil {
		zone.Users = *update.Users
	}
	if update.PublicDownload != nil {
		zone.PublicDownload = *update.PublicDownload
	}
	if update.BucketURI != nil {
		zone.BucketURI = *update.BucketURI
	}
	if update.Directory != nil {
		zone.Directory = *update.Directory
	}
	if update.Credentials != nil {
		zone.Credentials = *update.Credentials
	}

	if err := repo.Update(ctx, zone); err != nil {
		return fmt.Errorf("error updating zone: %w", err)
	}

	s.logger.Info(ctx, "zone updated", "zone", zoneName)
	return nil
}

// DeleteZone removes a zone from the directory. Stored objects are not
// touched.
func (s *ZoneService) DeleteZone(ctx context.Context, zoneName string) error {
	return s.repomanager.Zones(s.db).Delete(ctx, zoneName)
}

// UserCanUpload reports whether userID may upload into the zone. Upload is
// never public: it requires ownership or an explicit grant.
func UserCanUpload(zone *models.Zone, userID string) bool {
	if userID != "" && zone.OwnerUserID == userID {
		return true
	}
	grant := zone.Grant(userID)
	if grant == nil {
		return false
	}
	return grant.UploadFiles
}

// UserCanDownload reports whether userID may resolve downloads from the
// zone. A zone with public download open admits anyone, including an empty
// (unauthenticated) principal.
func UserCanDownload(zone *models.Zone, userID string) bool {
	if userID != "" && zone.OwnerUserID == userID {
		return true
	}
	if zone.PublicDownload {
		return true
	}
	grant := zone.Grant(userID)
	if grant == nil {
		return false
	}
	return grant.DownloadFiles
}

// UserIsAdmin reports whether userID may modify the zone's configuration.
func UserIsAdmin(zone *models.Zone, userID string) bool {
	if userID != "" && zone.OwnerUserID == userID {
		return true
	}
	grant := zone.Grant(userID)
	if grant == nil {
		return false
	}
	return grant.Admin
}
