// Package service implements the client-side workflows: storing a file
// into a zone and loading one back by its content URI.
package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/hashzone/internal/client/api"
	"github.com/dmitrijs2005/hashzone/internal/client/models"
	"github.com/dmitrijs2005/hashzone/internal/client/repositories/files"
	"github.com/dmitrijs2005/hashzone/internal/client/store"
	"github.com/dmitrijs2005/hashzone/internal/common"
	"github.com/dmitrijs2005/hashzone/internal/filex"
	"github.com/dmitrijs2005/hashzone/internal/netx"
)

const hashAlg = "sha1"

// pendingRetryInterval and pendingTimeout bound the wait when another
// client is already uploading the same content.
const (
	pendingRetryInterval = 5 * time.Second
	pendingTimeout       = 60 * time.Second
)

var sha1URIPattern = regexp.MustCompile(`^sha1://([0-9a-f]{40})(\?.*)?$`)

// APIClient is the server surface the workflows need.
type APIClient interface {
	InitiateFileUpload(ctx context.Context, size int64, hashAlg, hash, zoneName string) (*api.InitiateFileUploadResponse, error)
	FinalizeFileUpload(ctx context.Context, objectKey string, size int64, hashAlg, hash, zoneName string) (*api.FinalizeFileUploadResponse, error)
	FindFile(ctx context.Context, hashAlg, hash, zoneName string) (*api.FindFileResponse, error)
}

type FileService struct {
	api      APIClient
	store    *store.FileStore
	files    files.Repository
	zoneName string

	upload   func(url, path string) error
	download func(url string, w io.Writer) (int64, error)
	sleep    func(d time.Duration)
	now      func() time.Time
}

func NewFileService(a APIClient, s *store.FileStore, f files.Repository, zoneName string) *FileService {
	return &FileService{
		api:      a,
		store:    s,
		files:    f,
		zoneName: zoneName,
		upload:   netx.UploadFileToS3PresignedURL,
		download: netx.DownloadFromURL,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// FormatURI builds the content URI for a hash, with an optional label
// query parameter.
func FormatURI(hash, label string) string {
	uri := "sha1://" + hash
	if label != "" {
		uri = uri + "?label=" + url.QueryEscape(label)
	}
	return uri
}

// ParseURI extracts the hash from a sha1:// content URI.
func ParseURI(uri string) (string, error) {
	m := sha1URIPattern.FindStringSubmatch(uri)
	if m == nil {
		return "", fmt.Errorf("%w: invalid or unsupported URI: %s", common.ErrValidation, uri)
	}
	return m[1], nil
}

// StoreFile uploads the file at path into the configured zone and returns
// its content URI. When another client is already uploading the same
// content, the initiation is retried until it resolves or the wait times
// out. Content the zone already has is not uploaded again.
func (s *FileService) StoreFile(ctx context.Context, path, label string) (string, error) {
	hash, size, err := filex.FileSHA1(path)
	if err != nil {
		return "", err
	}
	uri := FormatURI(hash, label)

	deadline := s.now().Add(pendingTimeout)
	var resp *api.InitiateFileUploadResponse
	for {
		resp, err = s.api.InitiateFileUpload(ctx, size, hashAlg, hash, s.zoneName)
		if err != nil {
			return "", err
		}
		if resp.AlreadyExists {
			s.index(ctx, hash, size, label, true)
			return uri, nil
		}
		if !resp.AlreadyPending {
			break
		}
		if s.now().After(deadline) {
			return "", fmt.Errorf("upload is already pending, timed out waiting: %s", uri)
		}
		s.sleep(pendingRetryInterval)
	}

	if err := s.upload(resp.SignedUploadURL, path); err != nil {
		return "", fmt.Errorf("uploading file to bucket: %w", err)
	}

	fin, err := s.api.FinalizeFileUpload(ctx, resp.ObjectKey, size, hashAlg, hash, s.zoneName)
	if err != nil {
		return "", err
	}
	if !fin.Success {
		return "", fmt.Errorf("error finalizing file upload: %s", uri)
	}

	s.index(ctx, hash, size, label, true)
	return uri, nil
}

// StoreFileLocal copies the file into the local store only and returns
// its content URI.
func (s *FileService) StoreFileLocal(ctx context.Context, path, label string) (string, error) {
	hash, size, err := filex.FileSHA1(path)
	if err != nil {
		return "", err
	}
	if _, err := s.store.Put(path, hash); err != nil {
		return "", err
	}
	s.index(ctx, hash, size, label, false)
	return FormatURI(hash, label), nil
}

// LoadFile resolves a content URI to a local path, downloading from the
// zone when the content is not in the local store. With a non-empty dest
// the content is copied there and dest is returned.
func (s *FileService) LoadFile(ctx context.Context, uri, dest string) (string, error) {
	hash, err := ParseURI(uri)
	if err != nil {
		return "", err
	}

	path, ok := s.store.Has(hash)
	if !ok {
		resp, err := s.api.FindFile(ctx, hashAlg, hash, s.zoneName)
		if err != nil {
			return "", err
		}
		if !resp.Found {
			return "", fmt.Errorf("file not found: %s: %w", uri, common.ErrorNotFound)
		}

		path, err = s.fetchToStore(resp.URL, hash)
		if err != nil {
			return "", err
		}
	}

	if dest != "" {
		if err := filex.CopyAtomic(path, dest); err != nil {
			return "", err
		}
		return dest, nil
	}
	return path, nil
}

// FileInfo resolves a content URI to its remote metadata without
// downloading the content. The signed URL is withheld.
func (s *FileService) FileInfo(ctx context.Context, uri string) (*api.FindFileResponse, error) {
	hash, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	resp, err := s.api.FindFile(ctx, hashAlg, hash, s.zoneName)
	if err != nil {
		return nil, err
	}
	if !resp.Found {
		return nil, fmt.Errorf("file not found: %s: %w", uri, common.ErrorNotFound)
	}
	resp.URL = ""
	return resp, nil
}

// ListFiles returns the local stored-file index, newest first.
func (s *FileService) ListFiles(ctx context.Context) ([]*models.StoredFile, error) {
	return s.files.SelectAll(ctx)
}

// PushLocal uploads every indexed file that was stored locally but never
// uploaded to a zone. It returns the number of files uploaded.
func (s *FileService) PushLocal(ctx context.Context) (int, error) {
	all, err := s.files.SelectAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, f := range all {
		if f.Uploaded {
			continue
		}
		path, ok := s.store.Has(f.Hash)
		if !ok {
			continue
		}
		if _, err := s.StoreFile(ctx, path, f.Label); err != nil {
			return n, err
		}
		if err := s.files.MarkUploaded(ctx, f.Hash, s.zoneName); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Forget removes a file from the local index. The stored content itself
// is left in place.
func (s *FileService) Forget(ctx context.Context, uri string) error {
	hash, err := ParseURI(uri)
	if err != nil {
		return err
	}
	return s.files.DeleteByHash(ctx, hash)
}

func (s *FileService) fetchToStore(downloadURL, hash string) (string, error) {
	tmp, err := os.CreateTemp("", "hashzone-dl-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := s.download(downloadURL, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	return s.store.Put(tmp.Name(), hash)
}

// index records the file in the local index. Index failures do not fail
// the transfer itself.
func (s *FileService) index(ctx context.Context, hash string, size int64, label string, uploaded bool) {
	zone := ""
	if uploaded {
		zone = s.zoneName
	}
	_ = s.files.CreateOrUpdate(ctx, &models.StoredFile{
		Hash:      hash,
		Size:      size,
		Label:     strings.TrimSpace(label),
		ZoneName:  zone,
		Uploaded:  uploaded,
		Timestamp: s.now().UnixMilli(),
	})
}
