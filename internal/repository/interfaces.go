package repository

import (
	"puckscore/internal/model"
)

// BatchRepository defines the interface for batch history operations.
type BatchRepository interface {
	// Create operations
	Insert(batch *model.Batch) (int64, error)
	InsertMany(batches []model.Batch) error

	// Read operations
	GetByID(id int64) (*model.Batch, error)
	GetAll(filter *model.BatchFilter) ([]model.Batch, error)
	GetTotalCount(filter *model.BatchFilter) (int, error)
	GetStats() (*model.BatchStats, error)

	// Delete operations
	Delete(id int64) error
	DeleteAll() error
}

// DetectionRepository defines the interface for detection data operations.
type DetectionRepository interface {
	// Read operations
	GetByBatchID(batchID int64) ([]model.Detection, error)
	GetAllObjectNames() ([]string, error)
}
