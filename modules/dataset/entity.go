package dataset

import "time"

// Dataset tracks one uploaded CSV file and its metadata. Row and column
// counts are nil until the file has been parsed successfully once.
type Dataset struct {
	ID               string    `gorm:"primarykey;size:36" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"`
	StoragePath      string    `gorm:"size:512;not null" json:"-"`
	UploadedAt       time.Time `gorm:"index" json:"uploaded_at"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	RowCount         *int      `json:"row_count,omitempty"`
	ColumnCount      *int      `json:"column_count,omitempty"`
}

// TableName returns the table name for the Dataset model.
func (Dataset) TableName() string {
	return "datasets"
}
