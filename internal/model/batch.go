package model

import "time"

// Batch represents a rendered batch of detections.
type Batch struct {
	ID         int64       `json:"id"`
	Source     string      `json:"source"`
	StartedAt  time.Time   `json:"started_at"`
	RenderedAt time.Time   `json:"rendered_at"`
	Area1      int         `json:"area1"`
	Area2      int         `json:"area2"`
	Area3      int         `json:"area3"`
	Area4      int         `json:"area4"`
	Score      int         `json:"score"`
	Detections []Detection `json:"detections,omitempty"`
}

// BatchStats contains statistics about recorded batches.
type BatchStats struct {
	TotalBatches    int            `json:"total_batches"`
	TotalDetections int            `json:"total_detections"`
	BestScore       int            `json:"best_score"`
	AverageScore    float64        `json:"average_score"`
	ObjectCounts    map[string]int `json:"object_counts"`
}

// Scoreboard is the live view of the latest rendered batch.
type Scoreboard struct {
	Score      int            `json:"score"`
	Text       string         `json:"text"`
	Areas      map[string]int `json:"areas"`
	Detections int            `json:"detections"`
	Image      []byte         `json:"image,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// BatchFilter contains filtering options for querying batches.
type BatchFilter struct {
	Source   string
	Object   string
	MinScore int
	Since    time.Time
	Until    time.Time
	Limit    int
	Offset   int
}
