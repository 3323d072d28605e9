// Package store keeps a content-addressed cache of files on local disk,
// sharded by hash prefix the same way objects are laid out in a bucket.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/hashzone/internal/filex"
)

// FileStore is rooted at a data directory, usually ~/.hashzone.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns where content with the given sha1 hash lives, whether or
// not it is present.
func (s *FileStore) Path(hash string) string {
	return filepath.Join(s.dir, "sha1", hash[0:2], hash[2:4], hash[4:6], hash)
}

// Has reports whether content with the given hash is present, returning
// its path when it is.
func (s *FileStore) Has(hash string) (string, bool) {
	p := s.Path(hash)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

// Put copies the file at src into the store under hash. Content already
// present is left untouched.
func (s *FileStore) Put(src, hash string) (string, error) {
	if p, ok := s.Has(hash); ok {
		return p, nil
	}
	dst := s.Path(hash)
	if err := filex.CopyAtomic(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// PutReader streams content into the store under hash via a temporary file
// and a rename, so a partially written download is never visible.
func (s *FileStore) PutReader(r io.Reader, hash string) (string, error) {
	dst := s.Path(hash)
	if p, ok := s.Has(hash); ok {
		return p, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", filepath.Dir(dst), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		if _, statErr := os.Stat(dst); statErr == nil {
			return dst, nil
		}
		return "", fmt.Errorf("rename %s: %w", dst, err)
	}

	return dst, nil
}
