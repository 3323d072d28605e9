package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/logging"
	sc "github.com/dmitrijs2005/hashzone/internal/server/config"
	"github.com/dmitrijs2005/hashzone/internal/server/models"
	"github.com/dmitrijs2005/hashzone/internal/server/objectstore"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/transfers"
)

// FileService orchestrates the three transfer operations: initiate upload,
// finalize upload and find file. It owns the only mutable shared state in
// the core (the pending-upload coordinator and the download-URL cache),
// constructed once per process so tests can build fresh instances.
//
// Authorization is the caller's job: every request passed in here must
// already be validated and authorized against the zone's ACL.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
	pending     PendingUploads
	urlCache    DownloadURLCache
	logger      logging.Logger

	pendingTTL  time.Duration
	urlCacheTTL time.Duration
	urlValidity time.Duration

	nowMillis func() int64
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store objectstore.Store,
	logger logging.Logger, cfg *sc.Config) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		store:       store,
		pending:     NewMemoryPendingUploads(),
		urlCache:    NewMemoryDownloadURLCache(),
		logger:      logger.With("module", "file_service"),
		pendingTTL:  cfg.PendingUploadTTL,
		urlCacheTTL: cfg.DownloadURLCacheTTL,
		urlValidity: cfg.DownloadURLValidity,
		nowMillis:   func() int64 { return time.Now().UnixMilli() },
	}
}

// InitiateUploadResult reports the outcome of an upload initiation.
// Exactly one of the three shapes occurs: the content already exists, an
// upload of it is already pending, or a signed upload URL was minted.
type InitiateUploadResult struct {
	AlreadyExists   bool
	AlreadyPending  bool
	SignedUploadURL string
	ObjectKey       string
}

// FindFileResult resolves a piece of content to a signed download URL.
// CacheHit is set only when the URL was served from the cache.
type FindFileResult struct {
	Found     bool
	URL       string
	Size      int64
	BucketURI string
	ObjectKey string
	CacheHit  bool
}

// transferKey is the coordinator/cache key for one piece of content within
// one zone.
func transferKey(zoneName, hashAlg, hash string) string {
	return zoneName + ":" + hashAlg + ":" + hash
}

// InitiateUpload decides whether content must be uploaded at all and, if
// so, mints a presigned upload URL. Preconditions fail fast with no side
// effects. The pending lock only covers the mint, not the data transfer
// itself, and is released on every exit path.
func (s *FileService) InitiateUpload(ctx context.Context, zone *models.Zone, userID string,
	size int64, hash, hashAlg string) (*InitiateUploadResult, error) {

	if zone.BucketURI == "" {
		return nil, fmt.Errorf("%w: bucket uri not set for zone %q", common.ErrConfiguration, zone.ZoneName)
	}
	if max := MaxSizeForZone(zone.ZoneName); size > max {
		return nil, fmt.Errorf("%w: file size exceeds maximum for zone: %d > %d", common.ErrValidation, size, max)
	}
	if hashAlg != HashAlgSha1 {
		return nil, fmt.Errorf("%w: unsupported hash algorithm: %q", common.ErrValidation, hashAlg)
	}
	if !IsValidSha1(hash) {
		return nil, fmt.Errorf("%w: invalid hash: %q", common.ErrValidation, hash)
	}

	found, err := s.FindFile(ctx, zone, userID, hash, hashAlg)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	if err == nil && found.Found {
		return &InitiateUploadResult{AlreadyExists: true}, nil
	}

	key := transferKey(zone.ZoneName, hashAlg, hash)
	if !s.pending.TryAcquire(key, s.pendingTTL) {
		return &InitiateUploadResult{AlreadyPending: true}, nil
	}
	defer s.pending.Release(key)

	objectKey := ObjectKey(zone.Directory, hashAlg, hash)
	bucket := objectstore.Bucket{URI: zone.BucketURI, Credentials: zone.Credentials}

	signedUploadURL, err := s.store.PresignUpload(ctx, bucket, objectKey)
	if err != nil {
		return nil, err
	}

	record := &models.TransferRecord{
		Stage:     models.StageInitiate,
		Timestamp: s.nowMillis(),
		ZoneName:  zone.ZoneName,
		UserID:    userID,
		Size:      size,
		Hash:      hash,
		HashAlg:   hashAlg,
		ObjectKey: objectKey,
		BucketURI: zone.BucketURI,
	}
	if err := s.repomanager.Transfers(s.db).Append(ctx, transfers.ChannelUpload, record); err != nil {
		return nil, fmt.Errorf("append upload record: %w", err)
	}

	s.logger.Info(ctx, "upload initiated", "zone", zone.ZoneName, "hash", hash, "size", size)

	return &InitiateUploadResult{
		SignedUploadURL: signedUploadURL,
		ObjectKey:       objectKey,
	}, nil
}

// FinalizeUpload is bookkeeping only: the caller reports that it finished
// writing bytes through a previously issued upload URL, and one audit
// record is appended to the given channel. No verification against the
// object store happens here; the orchestrator trusts the caller.
func (s *FileService) FinalizeUpload(ctx context.Context, zone *models.Zone, userID string,
	size int64, hash, hashAlg, objectKey string, channel transfers.Channel) (bool, error) {

	if zone.BucketURI == "" {
		return false, fmt.Errorf("%w: bucket uri not set for zone %q", common.ErrConfiguration, zone.ZoneName)
	}

	record := &models.TransferRecord{
		Stage:     models.StageFinalize,
		Timestamp: s.nowMillis(),
		ZoneName:  zone.ZoneName,
		UserID:    userID,
		Size:      size,
		Hash:      hash,
		HashAlg:   hashAlg,
		ObjectKey: objectKey,
		BucketURI: zone.BucketURI,
	}
	if err := s.repomanager.Transfers(s.db).Append(ctx, channel, record); err != nil {
		return false, fmt.Errorf("append finalize record: %w", err)
	}

	s.logger.Info(ctx, "upload finalized", "zone", zone.ZoneName, "hash", hash)

	return true, nil
}

// FindFile resolves content to a signed download URL, serving from the
// cache when a live entry exists and otherwise consulting the object store
// and minting a fresh URL. It doubles as the existence check inside
// InitiateUpload. Absent content returns common.ErrorNotFound without
// touching the cache.
func (s *FileService) FindFile(ctx context.Context, zone *models.Zone, userID string,
	hash, hashAlg string) (*FindFileResult, error) {

	if zone.BucketURI == "" {
		return nil, fmt.Errorf("%w: bucket uri not set for zone %q", common.ErrConfiguration, zone.ZoneName)
	}
	if hashAlg != HashAlgSha1 {
		return nil, fmt.Errorf("%w: unsupported hash algorithm: %q", common.ErrValidation, hashAlg)
	}
	if !IsValidSha1(hash) {
		return nil, fmt.Errorf("%w: invalid hash: %q", common.ErrValidation, hash)
	}

	key := transferKey(zone.ZoneName, hashAlg, hash)
	if cached, ok := s.urlCache.Get(key); ok {
		return &FindFileResult{
			Found:     true,
			URL:       cached.URL,
			Size:      cached.Size,
			BucketURI: cached.BucketURI,
			ObjectKey: cached.ObjectKey,
			CacheHit:  true,
		}, nil
	}

	objectKey := ObjectKey(zone.Directory, hashAlg, hash)
	bucket := objectstore.Bucket{URI: zone.BucketURI, Credentials: zone.Credentials}

	exists, size, err := s.store.Exists(ctx, bucket, objectKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("object does not exist: %s: %w", objectKey, common.ErrorNotFound)
	}

	url, err := s.store.PresignDownload(ctx, bucket, objectKey, s.urlValidity)
	if err != nil {
		return nil, err
	}

	s.urlCache.Put(key, CachedDownloadURL{
		URL:       url,
		ExpiresAt: time.Now().Add(s.urlCacheTTL),
		Size:      size,
		ObjectKey: objectKey,
		BucketURI: zone.BucketURI,
	}, s.urlCacheTTL)

	return &FindFileResult{
		Found:     true,
		URL:       url,
		Size:      size,
		BucketURI: zone.BucketURI,
		ObjectKey: objectKey,
	}, nil
}
