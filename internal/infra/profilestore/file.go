// Package profilestore persists the productivity profile and publishes it
// to concurrent readers.
package profilestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/infra/fsutil"
)

// Ensure FileStore implements domain.ProfileStore.
var _ domain.ProfileStore = (*FileStore)(nil)

// FileStore keeps the profile in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the profile file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the profile. A missing file yields the empty profile.
// A file that cannot be decoded yields the empty profile together with an
// error wrapping domain.ErrMalformedProfile.
func (s *FileStore) Load() (*domain.Profile, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.EmptyProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p domain.Profile
	if err := json.Unmarshal(content, &p); err != nil {
		return domain.EmptyProfile(), fmt.Errorf("%w: %s: %w", domain.ErrMalformedProfile, s.path, err)
	}
	return p.Normalized(), nil
}

// Save writes the profile atomically.
func (s *FileStore) Save(p *domain.Profile) error {
	if p == nil {
		p = domain.EmptyProfile()
	}
	content, err := json.MarshalIndent(p.Normalized(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}
	return fsutil.WriteFileAtomic(s.path, content, 0o600)
}
