package storage

import (
	"context"
	"sync"
	"time"

	"puckscore/internal/config"
	"puckscore/internal/logger"
	"puckscore/internal/model"
	"puckscore/internal/repository"
)

const (
	// DefaultBufferLimit is used when the configured limit is not positive.
	DefaultBufferLimit = 50
	// DefaultFlushInterval is used when the configured interval is not positive.
	DefaultFlushInterval = 10 * time.Second
)

// BufferService buffers rendered batches in memory and periodically
// writes them to the history repository.
type BufferService struct {
	batches       []model.Batch
	limit         int
	flushInterval time.Duration
	full          chan struct{}
	mu            sync.Mutex
	logger        *logger.Logger
	batchRepo     repository.BatchRepository
}

// NewBufferService creates a new BufferService backed by the given repository.
func NewBufferService(config *config.Config, logger *logger.Logger, batchRepo repository.BatchRepository) *BufferService {
	limit := config.HistoryBufferLimit
	if limit <= 0 {
		limit = DefaultBufferLimit
	}
	interval := config.HistoryFlushInterval
	if interval <= 0 {
		interval = DefaultFlushInterval
	}

	return &BufferService{
		batches:       make([]model.Batch, 0, limit),
		limit:         limit,
		flushInterval: interval,
		full:          make(chan struct{}, 1),
		logger:        logger,
		batchRepo:     batchRepo,
	}
}

// Run flushes the buffer on every tick, whenever it fills up, and once more
// when ctx is done.
func (s *BufferService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return
		case <-ticker.C:
			s.Flush()
		case <-s.full:
			s.Flush()
		}
	}
}

// Record appends a batch to the in-memory buffer. It never blocks on the
// database.
func (s *BufferService) Record(batch model.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batches = append(s.batches, batch)
	s.logger.Info("History buffer: %d/%d", len(s.batches), s.limit)

	if len(s.batches) >= s.limit {
		select {
		case s.full <- struct{}{}:
		default:
		}
	}
}

// Pending returns the number of batches waiting to be flushed.
func (s *BufferService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

// Flush writes buffered batches to the repository and resets the buffer.
// If the combined write fails, each batch is retried on its own and the ones
// that still fail are dropped.
func (s *BufferService) Flush() {
	s.mu.Lock()
	if len(s.batches) == 0 {
		s.mu.Unlock()
		return
	}
	pending := s.batches
	s.batches = make([]model.Batch, 0, s.limit)
	s.mu.Unlock()

	if err := s.batchRepo.InsertMany(pending); err != nil {
		s.logger.Warning("Error saving %d batches to history, retrying one by one: %v", len(pending), err)
		s.insertEach(pending)
		return
	}

	s.logger.Info("Flushed %d batches to history", len(pending))
}

func (s *BufferService) insertEach(batches []model.Batch) {
	saved := 0
	for i := range batches {
		if _, err := s.batchRepo.Insert(&batches[i]); err != nil {
			s.logger.Error("Error saving batch from %s to history: %v", batches[i].Source, err)
			continue
		}
		saved++
	}
	s.logger.Info("Flushed %d/%d batches to history", saved, len(batches))
}
