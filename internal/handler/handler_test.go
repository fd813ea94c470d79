package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"puckscore/internal/config"
	"puckscore/internal/dto"
	"puckscore/internal/logger"
	"puckscore/internal/model"
	"puckscore/internal/repository/sqlite"
	"puckscore/internal/service"
	"puckscore/internal/service/websocket"
)

func newTestRepo(t *testing.T) *sqlite.BatchRepository {
	t.Helper()
	return sqlite.NewBatchRepository(newTestDB(t))
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "handler_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := sqlite.New(filepath.Join(tempDir, "history.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, repo *sqlite.BatchRepository, scores ...int) {
	t.Helper()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, score := range scores {
		_, err := repo.Insert(&model.Batch{
			Source:     "test",
			RenderedAt: base.Add(time.Duration(i) * time.Minute),
			Score:      score,
			Detections: []model.Detection{{Name: "puck", Confidence: 0.9, X: 1, Y: 1, Width: 2, Height: 2}},
		})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
}

func TestAtoiDefault(t *testing.T) {
	tests := []struct {
		input    string
		def      int
		expected int
	}{
		{"10", 5, 10},
		{"1", 0, 1},
		{"", 5, 5},
		{"abc", 10, 10},
		{"-1", 5, 5},
		{"0", 5, 5},
		{"12.5", 5, 5},
	}

	for _, tt := range tests {
		result := atoiDefault(tt.input, tt.def)
		if result != tt.expected {
			t.Errorf("atoiDefault(%q, %d) = %d, expected %d", tt.input, tt.def, result, tt.expected)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"", time.Time{}},
		{"garbage", time.Time{}},
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-03-01T10:30:00Z", time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		result := parseTimestamp(tt.input)
		if !result.Equal(tt.expected) {
			t.Errorf("parseTimestamp(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestGetBatchesHandler(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, 1, 4, 9)
	h := GetBatchesHandler(repo, logger.New(io.Discard))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches?limit=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var data dto.BatchesData
	if err := json.NewDecoder(rec.Body).Decode(&data); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if data.Length != 3 || data.TotalPages != 2 || len(data.Batches) != 2 {
		t.Errorf("Unexpected page: length=%d pages=%d batches=%d", data.Length, data.TotalPages, len(data.Batches))
	}
	if data.Batches[0].Score != 9 {
		t.Errorf("Expected newest batch first, got score %d", data.Batches[0].Score)
	}
}

func TestGetBatchesHandler_Empty(t *testing.T) {
	h := GetBatchesHandler(newTestRepo(t), logger.New(io.Discard))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches", nil))

	var data map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&data); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(data["batches"]) != "[]" {
		t.Errorf("Expected empty array, got %s", data["batches"])
	}
}

func TestGetBatchHandler(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, 5)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/batches/{id}", GetBatchHandler(repo, logger.New(io.Discard)))

	tests := []struct {
		target   string
		expected int
	}{
		{"/api/batches/1", http.StatusOK},
		{"/api/batches/99", http.StatusNotFound},
		{"/api/batches/abc", http.StatusBadRequest},
		{"/api/batches/0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		if rec.Code != tt.expected {
			t.Errorf("GET %s = %d, expected %d", tt.target, rec.Code, tt.expected)
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches/1", nil))
	var batch model.Batch
	if err := json.NewDecoder(rec.Body).Decode(&batch); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if batch.Score != 5 || len(batch.Detections) != 1 {
		t.Errorf("Unexpected batch: %+v", batch)
	}
}

func TestGetBatchDetectionsHandler(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewBatchRepository(db)
	seed(t, repo, 5)
	detRepo := sqlite.NewDetectionRepository(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/batches/{id}/detections", GetBatchDetectionsHandler(detRepo, logger.New(io.Discard)))

	tests := []struct {
		target   string
		code     int
		expected int
	}{
		{"/api/batches/1/detections", http.StatusOK, 1},
		{"/api/batches/99/detections", http.StatusOK, 0},
		{"/api/batches/abc/detections", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		if rec.Code != tt.code {
			t.Errorf("GET %s = %d, expected %d", tt.target, rec.Code, tt.code)
			continue
		}
		if rec.Code != http.StatusOK {
			continue
		}

		var detections []model.Detection
		if err := json.NewDecoder(rec.Body).Decode(&detections); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(detections) != tt.expected {
			t.Errorf("GET %s returned %d detections, expected %d", tt.target, len(detections), tt.expected)
		}
		if tt.expected > 0 && (detections[0].Name != "puck" || detections[0].BatchID != 1) {
			t.Errorf("Unexpected detection: %+v", detections[0])
		}
	}
}

func TestGetStatsHandler(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, 2, 6)
	h := GetStatsHandler(repo, logger.New(io.Discard))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	var stats model.BatchStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if stats.TotalBatches != 2 || stats.BestScore != 6 || stats.ObjectCounts["puck"] != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestClearBatchesHandler(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, 1, 2)
	h := ClearBatchesHandler(repo, logger.New(io.Discard))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/batches", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if n, _ := repo.GetTotalCount(nil); n != 0 {
		t.Errorf("Expected empty history, got %d", n)
	}
}

func TestSnapshotHandler(t *testing.T) {
	log := logger.New(io.Discard)
	hub := websocket.NewHubService(log)
	manager := service.NewManager(nil, hub, nil, nil)
	h := SnapshotHandler(manager)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 before first frame, got %d", rec.Code)
	}

	manager.Publish(model.Scoreboard{Image: []byte{0xFF, 0xD8, 0xFF}})

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, expected image/jpeg", ct)
	}
	if rec.Body.Len() != 3 {
		t.Errorf("Expected 3 bytes, got %d", rec.Body.Len())
	}
}

func TestShowLogsHandler(t *testing.T) {
	tempDir := t.TempDir()
	log, err := logger.NewLogger(&config.Config{LogDirectory: tempDir})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer log.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /logs/{level}", ShowLogsHandler(log))

	tests := []struct {
		target   string
		expected int
	}{
		{"/logs/info", http.StatusOK},
		{"/logs/debug", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		if rec.Code != tt.expected {
			t.Errorf("GET %s = %d, expected %d", tt.target, rec.Code, tt.expected)
		}
	}
}

func TestDeleteBatchHandler(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/batches/{id}", DeleteBatchHandler(repo, logger.New(io.Discard)))

	tests := []struct {
		target   string
		expected int
	}{
		{"/api/batches/1", http.StatusNoContent},
		{"/api/batches/1", http.StatusNotFound},
		{"/api/batches/x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.target, nil))
		if rec.Code != tt.expected {
			t.Errorf("DELETE %s = %d, expected %d", tt.target, rec.Code, tt.expected)
		}
	}
}

func TestGetObjectsHandler(t *testing.T) {
	tempDir := t.TempDir()
	db, err := sqlite.New(filepath.Join(tempDir, "history.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	seed(t, sqlite.NewBatchRepository(db), 1, 2)
	h := GetObjectsHandler(sqlite.NewDetectionRepository(db), logger.New(io.Discard))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/objects", nil))

	var body map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(body["objects"]) != 1 || body["objects"][0] != "puck" {
		t.Errorf("Unexpected objects: %v", body)
	}
}
