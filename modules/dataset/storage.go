package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage keeps the backing bytes of uploaded files under one root
// directory, one file per dataset named "<id>_<sanitized name>".
type DiskStorage struct {
	root string
}

// NewDiskStorage creates a disk storage rooted at the given directory,
// creating it if needed.
func NewDiskStorage(root string) (*DiskStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &DiskStorage{root: root}, nil
}

// sanitizeFilename removes path separators and dangerous characters from
// a client-supplied filename.
func sanitizeFilename(filename string) string {
	clean := filepath.Base(filepath.Clean(filename))
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	if clean == "." || clean == ".." || clean == "" {
		return "unnamed"
	}
	return clean
}

// Save writes the file data and returns its storage path.
func (s *DiskStorage) Save(id, filename string, data []byte) (string, error) {
	path := filepath.Join(s.root, fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// Read returns the full contents of a stored file.
func (s *DiskStorage) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Open returns a reader over a stored file for streaming downloads.
func (s *DiskStorage) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *DiskStorage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
