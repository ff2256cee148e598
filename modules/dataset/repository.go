package dataset

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository provides access to dataset records.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new dataset repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new dataset record.
func (r *Repository) Create(ds *Dataset) error {
	if err := r.db.Create(ds).Error; err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}
	return nil
}

// FindByID retrieves a dataset record by its ID.
func (r *Repository) FindByID(id string) (*Dataset, error) {
	var ds Dataset
	if err := r.db.First(&ds, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find dataset: %w", err)
	}
	return &ds, nil
}

// FindAll retrieves all dataset records, newest upload first.
func (r *Repository) FindAll() ([]*Dataset, error) {
	var datasets []*Dataset
	if err := r.db.Order("uploaded_at DESC").Find(&datasets).Error; err != nil {
		return nil, fmt.Errorf("failed to find datasets: %w", err)
	}
	return datasets, nil
}

// UpdateDimensions fills in the row and column counts for a dataset.
func (r *Repository) UpdateDimensions(id string, rows, cols int) error {
	result := r.db.Model(&Dataset{}).Where("id = ?", id).
		Updates(map[string]any{"row_count": rows, "column_count": cols})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update dataset dimensions: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a dataset record permanently.
func (r *Repository) Delete(id string) error {
	result := r.db.Unscoped().Delete(&Dataset{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
