package service

import (
	"puckscore/internal/model"
	"puckscore/internal/repository"
	"puckscore/internal/service/storage"
	"puckscore/internal/service/websocket"
)

// Manager ties the supplementary services of a run together. Any of them
// may be nil when the matching feature is disabled.
type Manager struct {
	bufferService    *storage.BufferService
	websocketService *websocket.HubService
	batchRepo        repository.BatchRepository
	detectionRepo    repository.DetectionRepository
}

func NewManager(bufferService *storage.BufferService, websocketService *websocket.HubService,
	batchRepo repository.BatchRepository, detectionRepo repository.DetectionRepository) *Manager {
	return &Manager{
		bufferService:    bufferService,
		websocketService: websocketService,
		batchRepo:        batchRepo,
		detectionRepo:    detectionRepo,
	}
}

// Publish forwards a rendered scoreboard to the viewers.
func (m *Manager) Publish(board model.Scoreboard) {
	if m.websocketService == nil {
		return
	}
	m.websocketService.Publish(board)
}

// Record forwards a rendered batch to the history buffer.
func (m *Manager) Record(batch model.Batch) {
	if m.bufferService == nil {
		return
	}
	m.bufferService.Record(batch)
}

// Snapshot returns the JPEG of the latest rendered frame, or nil.
func (m *Manager) Snapshot() []byte {
	if m.websocketService == nil {
		return nil
	}
	return m.websocketService.LatestImage()
}

func (m *Manager) GetWebsocketService() *websocket.HubService {
	return m.websocketService
}

func (m *Manager) GetBatchRepository() repository.BatchRepository {
	return m.batchRepo
}

func (m *Manager) GetDetectionRepository() repository.DetectionRepository {
	return m.detectionRepo
}
