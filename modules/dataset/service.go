package dataset

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// MaxUploadSize is the largest accepted upload, 10 MiB.
const MaxUploadSize = 10 * 1024 * 1024

// Service manages dataset records and their backing files as one unit.
type Service struct {
	repo    *Repository
	storage *DiskStorage
	logger  types.Logger
}

// NewService creates a new dataset service.
func NewService(repo *Repository, storage *DiskStorage, logger types.Logger) *Service {
	return &Service{repo: repo, storage: storage, logger: logger}
}

func validateDatasetID(id string) error {
	if id == "" {
		return ErrInvalidDatasetID
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDatasetID, id)
	}
	return nil
}

// validateUpload checks extension and size before anything is persisted.
func validateUpload(filename string, size int64) error {
	if strings.ToLower(filepath.Ext(filename)) != ".csv" {
		return ErrInvalidExtension
	}
	if size == 0 {
		return ErrEmptyFile
	}
	if size > MaxUploadSize {
		return ErrFileTooLarge
	}
	return nil
}

// Upload validates and stores a new CSV file, creating its record. Nothing
// is persisted when validation fails, and a failed record write removes the
// already-stored file.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (*Dataset, error) {
	if err := validateUpload(filename, int64(len(data))); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	path, err := s.storage.Save(id, filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	ds := &Dataset{
		ID:               id,
		OriginalFilename: sanitizeFilename(filename),
		StoragePath:      path,
		UploadedAt:       time.Now(),
		FileSize:         int64(len(data)),
	}
	if err := s.repo.Create(ds); err != nil {
		if rmErr := s.storage.Remove(path); rmErr != nil {
			s.logger.Error("Failed to remove orphaned upload", "path", path, "error", rmErr)
		}
		return nil, err
	}

	s.logger.Info("Dataset uploaded", "id", id, "filename", ds.OriginalFilename, "size", ds.FileSize)
	return ds, nil
}

// SetDimensions records the row and column counts after a successful parse.
func (s *Service) SetDimensions(ctx context.Context, id string, rows, cols int) error {
	if err := validateDatasetID(id); err != nil {
		return err
	}
	return s.repo.UpdateDimensions(id, rows, cols)
}

// Get retrieves a dataset record by ID.
func (s *Service) Get(ctx context.Context, id string) (*Dataset, error) {
	if err := validateDatasetID(id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(id)
}

// List returns all dataset records, newest first.
func (s *Service) List(ctx context.Context) ([]*Dataset, error) {
	return s.repo.FindAll()
}

// ReadData returns the backing CSV bytes of a dataset.
func (s *Service) ReadData(ctx context.Context, id string) ([]byte, *Dataset, error) {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.storage.Read(ds.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return data, ds, nil
}

// Open returns a reader over the backing file for streaming.
func (s *Service) Open(ctx context.Context, id string) (io.ReadCloser, *Dataset, error) {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.storage.Open(ds.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return r, ds, nil
}

// Delete removes the dataset record and its backing file as one logical
// unit. A file that cannot be removed after the record is gone is logged
// rather than surfaced.
func (s *Service) Delete(ctx context.Context, id string) error {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if err := s.storage.Remove(ds.StoragePath); err != nil {
		s.logger.Error("Failed to remove backing file", "id", id, "path", ds.StoragePath, "error", err)
	}
	s.logger.Info("Dataset deleted", "id", id)
	return nil
}
