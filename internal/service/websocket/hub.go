package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"puckscore/internal/logger"
	"puckscore/internal/model"

	"github.com/gorilla/websocket"
)

const (
	// broadcastQueueSize bounds the frames waiting for delivery.
	broadcastQueueSize = 16
	writeWait          = 2 * time.Second
)

// HubService fans scoreboard frames out to connected viewers.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger

	latestMu    sync.RWMutex
	latest      []byte
	latestImage []byte
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, broadcastQueueSize),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run delivers queued frames until ctx is done, then closes every client.
func (h *HubService) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				client.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				client.Close()
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer connected. Total: %d", total)

			if latest := h.Latest(); latest != nil {
				if err := h.write(client, latest); err != nil {
					h.drop(client)
				}
			}

		case client := <-h.unregister:
			h.drop(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			var failed []*websocket.Conn
			for client := range h.clients {
				if err := h.write(client, message); err != nil {
					h.logger.Error("Error sending frame: %v", err)
					failed = append(failed, client)
				}
			}
			h.mutex.RUnlock()

			for _, client := range failed {
				h.drop(client)
			}
		}
	}
}

func (h *HubService) write(client *websocket.Conn, message []byte) error {
	client.SetWriteDeadline(time.Now().Add(writeWait))
	return client.WriteMessage(websocket.TextMessage, message)
}

func (h *HubService) drop(client *websocket.Conn) {
	h.mutex.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		client.Close()
	}
	total := len(h.clients)
	h.mutex.Unlock()

	if ok {
		h.logger.Info("Viewer disconnected. Total: %d", total)
	}
}

// Register adds a viewer. If the hub has stopped the connection is closed.
func (h *HubService) Register(client *websocket.Conn) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *HubService) Unregister(client *websocket.Conn) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a frame for every viewer without blocking. It reports
// false when the frame was dropped because the queue is full.
func (h *HubService) Broadcast(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	default:
		return false
	}
}

// Publish encodes a scoreboard, remembers it as the latest frame and
// broadcasts it.
func (h *HubService) Publish(board model.Scoreboard) {
	message, err := json.Marshal(board)
	if err != nil {
		h.logger.Error("Error encoding scoreboard: %v", err)
		return
	}

	h.latestMu.Lock()
	h.latest = message
	if board.Image != nil {
		h.latestImage = board.Image
	}
	h.latestMu.Unlock()

	if !h.Broadcast(message) {
		h.logger.Warning("Broadcast queue full, dropping frame for score %d", board.Score)
	}
}

// Latest returns the most recently published message, or nil.
func (h *HubService) Latest() []byte {
	h.latestMu.RLock()
	defer h.latestMu.RUnlock()
	return h.latest
}

// LatestImage returns the JPEG of the most recently published frame, or nil.
func (h *HubService) LatestImage() []byte {
	h.latestMu.RLock()
	defer h.latestMu.RUnlock()
	return h.latestImage
}

func (h *HubService) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
