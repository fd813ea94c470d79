package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"puckscore/internal/model"
)

// BatchRepository implements repository.BatchRepository for SQLite.
type BatchRepository struct {
	db *DB
}

// NewBatchRepository creates a new SQLite batch repository.
func NewBatchRepository(db *DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Insert adds a batch and its detections in a single transaction.
func (r *BatchRepository) Insert(batch *model.Batch) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := insertBatch(tx, batch)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	batch.ID = id
	return id, nil
}

// InsertMany adds several batches in a single transaction.
func (r *BatchRepository) InsertMany(batches []model.Batch) error {
	if len(batches) == 0 {
		return nil
	}

	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range batches {
		id, err := insertBatch(tx, &batches[i])
		if err != nil {
			return err
		}
		batches[i].ID = id
	}

	return tx.Commit()
}

func insertBatch(tx *sql.Tx, batch *model.Batch) (int64, error) {
	result, err := tx.Exec(`
		INSERT INTO batches (source, started_at, rendered_at, area1, area2, area3, area4, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, batch.Source, batch.StartedAt.UTC(), batch.RenderedAt.UTC(),
		batch.Area1, batch.Area2, batch.Area3, batch.Area4, batch.Score)
	if err != nil {
		return 0, fmt.Errorf("failed to insert batch: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get batch id: %w", err)
	}

	if len(batch.Detections) == 0 {
		return id, nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO detections (batch_id, object_name, confidence, x, y, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, det := range batch.Detections {
		res, err := stmt.Exec(id, det.Name, det.Confidence, det.X, det.Y, det.Width, det.Height)
		if err != nil {
			return 0, fmt.Errorf("failed to insert detection: %w", err)
		}
		if detID, err := res.LastInsertId(); err == nil {
			batch.Detections[i].ID = detID
		}
		batch.Detections[i].BatchID = id
	}

	return id, nil
}

// GetByID retrieves a batch and its detections by ID.
func (r *BatchRepository) GetByID(id int64) (*model.Batch, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var b model.Batch
	err := r.db.Conn().QueryRow(`
		SELECT id, source, started_at, rendered_at, area1, area2, area3, area4, score
		FROM batches WHERE id = ?
	`, id).Scan(&b.ID, &b.Source, &b.StartedAt, &b.RenderedAt, &b.Area1, &b.Area2, &b.Area3, &b.Area4, &b.Score)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	detections, err := queryDetections(r.db.Conn(), id)
	if err != nil {
		return nil, err
	}
	b.Detections = detections
	return &b, nil
}

// GetAll retrieves batches based on filter criteria, newest first.
// Detections are not loaded.
func (r *BatchRepository) GetAll(filter *model.BatchFilter) ([]model.Batch, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := filterClause(filter)
	query := `
		SELECT DISTINCT b.id, b.source, b.started_at, b.rendered_at, b.area1, b.area2, b.area3, b.area4, b.score
		FROM batches b
		LEFT JOIN detections d ON b.id = d.batch_id
		WHERE 1=1` + where + `
		ORDER BY b.rendered_at DESC, b.id DESC`

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []model.Batch
	for rows.Next() {
		var b model.Batch
		if err := rows.Scan(&b.ID, &b.Source, &b.StartedAt, &b.RenderedAt, &b.Area1, &b.Area2, &b.Area3, &b.Area4, &b.Score); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}

	return batches, rows.Err()
}

// GetTotalCount returns the number of batches matching the filter.
func (r *BatchRepository) GetTotalCount(filter *model.BatchFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := filterClause(filter)
	query := `
		SELECT COUNT(DISTINCT b.id)
		FROM batches b
		LEFT JOIN detections d ON b.id = d.batch_id
		WHERE 1=1` + where

	var count int
	if err := r.db.Conn().QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count batches: %w", err)
	}
	return count, nil
}

func filterClause(filter *model.BatchFilter) (string, []interface{}) {
	if filter == nil {
		return "", nil
	}

	clause := ""
	args := []interface{}{}

	if filter.Source != "" {
		clause += " AND b.source = ?"
		args = append(args, filter.Source)
	}

	if filter.Object != "" {
		clause += " AND d.object_name = ?"
		args = append(args, filter.Object)
	}

	if filter.MinScore > 0 {
		clause += " AND b.score >= ?"
		args = append(args, filter.MinScore)
	}

	if !filter.Since.IsZero() {
		clause += " AND b.rendered_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	if !filter.Until.IsZero() {
		clause += " AND b.rendered_at <= ?"
		args = append(args, filter.Until.UTC())
	}

	return clause, args
}

// GetStats returns aggregate statistics about recorded batches.
func (r *BatchRepository) GetStats() (*model.BatchStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &model.BatchStats{
		ObjectCounts: make(map[string]int),
	}

	err := r.db.Conn().QueryRow(`
		SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0)
		FROM batches
	`).Scan(&stats.TotalBatches, &stats.BestScore, &stats.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate batches: %w", err)
	}

	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM detections`).Scan(&stats.TotalDetections); err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}

	// Most detected objects
	rows, err := r.db.Conn().Query(`
		SELECT object_name, COUNT(*) as cnt
		FROM detections
		GROUP BY object_name
		ORDER BY cnt DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query object counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var obj string
		var count int
		if err := rows.Scan(&obj, &count); err != nil {
			return nil, fmt.Errorf("failed to scan object count: %w", err)
		}
		stats.ObjectCounts[obj] = count
	}

	return stats, rows.Err()
}

// Delete removes a batch and its detections.
func (r *BatchRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM detections WHERE batch_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}

	result, err := r.db.Conn().Exec(`DELETE FROM batches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes all batches and their detections.
func (r *BatchRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM detections`); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}

	if _, err := r.db.Conn().Exec(`DELETE FROM batches`); err != nil {
		return fmt.Errorf("failed to delete batches: %w", err)
	}

	return nil
}
