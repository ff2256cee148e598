package dataset

import "errors"

// Sentinel errors for dataset operations.
var (
	// ErrNotFound is returned when no dataset exists for the given ID.
	ErrNotFound = errors.New("dataset not found")

	// ErrInvalidDatasetID is returned when the dataset ID is not a UUID.
	ErrInvalidDatasetID = errors.New("invalid dataset ID format")

	// ErrInvalidExtension is returned when the uploaded file is not a .csv.
	ErrInvalidExtension = errors.New("only CSV files are allowed")

	// ErrFileTooLarge is returned when the upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file size must not exceed 10MB")

	// ErrEmptyFile is returned when the uploaded file has no content.
	ErrEmptyFile = errors.New("file data is empty")
)
