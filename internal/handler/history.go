package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"puckscore/internal/dto"
	"puckscore/internal/logger"
	"puckscore/internal/model"
	"puckscore/internal/repository"
	"puckscore/internal/repository/sqlite"
)

// GetBatchesHandler returns a filtered, paginated list of recorded batches.
func GetBatchesHandler(batchRepo repository.BatchRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 20)

		filter := &model.BatchFilter{
			Source:   q.Get("source"),
			Object:   q.Get("object"),
			MinScore: atoiDefault(q.Get("minScore"), 0),
			Since:    parseTimestamp(q.Get("since")),
			Until:    parseTimestamp(q.Get("until")),
			Limit:    limit,
			Offset:   (page - 1) * limit,
		}

		batches, err := batchRepo.GetAll(filter)
		if err != nil {
			logger.Error("Error querying batches from database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		totalCount, err := batchRepo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting batches: %v", err)
			totalCount = len(batches)
		}

		if batches == nil {
			batches = []model.Batch{}
		}

		data := dto.BatchesData{
			Batches:     batches,
			Length:      totalCount,
			TotalPages:  (totalCount + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		}

		writeJSON(w, logger, http.StatusOK, data)
	}
}

// GetBatchHandler returns one batch with its detections.
func GetBatchHandler(batchRepo repository.BatchRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid batch id", http.StatusBadRequest)
			return
		}

		batch, err := batchRepo.GetByID(id)
		if errors.Is(err, sqlite.ErrNotFound) {
			http.Error(w, "Batch not found", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.Error("Error getting batch %d: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, batch)
	}
}

// GetBatchDetectionsHandler returns the detections of one batch in arrival
// order. An unknown batch yields an empty list.
func GetBatchDetectionsHandler(detectionRepo repository.DetectionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid batch id", http.StatusBadRequest)
			return
		}

		detections, err := detectionRepo.GetByBatchID(id)
		if err != nil {
			logger.Error("Error getting detections for batch %d: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if detections == nil {
			detections = []model.Detection{}
		}

		writeJSON(w, logger, http.StatusOK, detections)
	}
}

// DeleteBatchHandler removes one batch and its detections.
func DeleteBatchHandler(batchRepo repository.BatchRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid batch id", http.StatusBadRequest)
			return
		}

		err = batchRepo.Delete(id)
		if errors.Is(err, sqlite.ErrNotFound) {
			http.Error(w, "Batch not found", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.Error("Error deleting batch %d: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		logger.Info("Batch %d deleted", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetObjectsHandler lists every object name seen in the history.
func GetObjectsHandler(detectionRepo repository.DetectionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objects, err := detectionRepo.GetAllObjectNames()
		if err != nil {
			logger.Error("Error listing objects: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if objects == nil {
			objects = []string{}
		}

		writeJSON(w, logger, http.StatusOK, map[string][]string{"objects": objects})
	}
}

// GetStatsHandler returns aggregate statistics over the batch history.
func GetStatsHandler(batchRepo repository.BatchRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := batchRepo.GetStats()
		if err != nil {
			logger.Error("Error getting batch stats: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, stats)
	}
}

// ClearBatchesHandler removes the whole batch history.
func ClearBatchesHandler(batchRepo repository.BatchRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := batchRepo.DeleteAll(); err != nil {
			logger.Error("Error clearing batch history: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		logger.Info("Batch history cleared")
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// parseTimestamp accepts RFC 3339 or a plain "2006-01-02" date.
func parseTimestamp(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}
	}
	return t
}
