// Package store persists the license token file. It is a thin facade over
// the filesystem; the engine is the only writer.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// TokenStore manages the token file at a fixed path. The zero value is not
// usable; construct with New or NewWithFs.
type TokenStore struct {
	fs   afero.Fs
	path string
}

// New returns a TokenStore over the OS filesystem.
func New(path string) *TokenStore {
	return NewWithFs(afero.NewOsFs(), path)
}

// NewWithFs returns a TokenStore over the given filesystem. Tests pass an
// afero.MemMapFs.
func NewWithFs(fs afero.Fs, path string) *TokenStore {
	return &TokenStore{fs: fs, path: path}
}

// Path returns the managed token file path.
func (s *TokenStore) Path() string {
	return s.path
}

// EnsureDir creates the token file's parent directory when missing.
func (s *TokenStore) EnsureDir() error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create license directory: %w", err)
	}
	return nil
}

// Exists reports whether a token file is present.
func (s *TokenStore) Exists() bool {
	ok, err := afero.Exists(s.fs, s.path)
	return err == nil && ok
}

// Load returns the token file contents, or nil with no error when the file
// is absent.
func (s *TokenStore) Load() ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read license token: %w", err)
	}
	return data, nil
}

// Save truncate-writes the token file.
func (s *TokenStore) Save(contents []byte) error {
	if err := afero.WriteFile(s.fs, s.path, contents, 0o600); err != nil {
		return fmt.Errorf("failed to write license token: %w", err)
	}
	return nil
}

// Remove deletes the token file if present.
func (s *TokenStore) Remove() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove license token: %w", err)
	}
	return nil
}

// CopyIn copies an external token file into the managed location.
func (s *TokenStore) CopyIn(src string) error {
	data, err := afero.ReadFile(s.fs, src)
	if err != nil {
		return fmt.Errorf("failed to read token at %s: %w", src, err)
	}
	return s.Save(data)
}
