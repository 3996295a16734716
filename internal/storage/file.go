package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const keyFileName = "api_key"

// FileStore persists settings as plain files under a data directory.
type FileStore struct {
	dir string
}

// Ensure FileStore implements Interface
var _ Interface = (*FileStore)(nil)

// NewFileStore creates a file-backed settings store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// SaveAPIKey stores the user-supplied API key. The key is not validated at
// save time; outbound calls read it lazily.
func (s *FileStore) SaveAPIKey(key string) error {
	path := filepath.Join(s.dir, keyFileName)
	if err := os.WriteFile(path, []byte(key), 0o600); err != nil {
		return fmt.Errorf("failed to write API key: %w", err)
	}
	logrus.Debug("API key saved")
	return nil
}

// LoadAPIKey returns the stored API key, or an empty string when none has
// been saved yet.
func (s *FileStore) LoadAPIKey() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, keyFileName))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
