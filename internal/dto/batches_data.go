// BatchesData is a paginated response payload for the batch history.
package dto

import "puckscore/internal/model"

type BatchesData struct {
	Batches     []model.Batch `json:"batches"`
	Length      int           `json:"length"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Limit       int           `json:"pageSize"`
}
