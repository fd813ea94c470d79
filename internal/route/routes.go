package route

import (
	"net/http"

	"puckscore/internal/config"
	"puckscore/internal/handler"
	"puckscore/internal/logger"
	"puckscore/internal/middleware"
	"puckscore/internal/service"
)

// historyDisabled answers history routes when no database is configured.
func historyDisabled(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "History disabled", http.StatusServiceUnavailable)
}

// SetupRoutes registers the viewer feed, history API and log endpoints,
// and wraps the mux with the token middleware.
func SetupRoutes(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Live feed
	mux.HandleFunc("GET /api/view", handler.ViewWebsocketHandler(manager, logger))
	mux.HandleFunc("GET /api/snapshot", handler.SnapshotHandler(manager))

	// History
	if batchRepo := manager.GetBatchRepository(); batchRepo != nil {
		mux.HandleFunc("GET /api/batches", handler.GetBatchesHandler(batchRepo, logger))
		mux.HandleFunc("GET /api/batches/{id}", handler.GetBatchHandler(batchRepo, logger))
		mux.HandleFunc("GET /api/batches/{id}/detections", handler.GetBatchDetectionsHandler(manager.GetDetectionRepository(), logger))
		mux.HandleFunc("DELETE /api/batches", handler.ClearBatchesHandler(batchRepo, logger))
		mux.HandleFunc("DELETE /api/batches/{id}", handler.DeleteBatchHandler(batchRepo, logger))
		mux.HandleFunc("GET /api/stats", handler.GetStatsHandler(batchRepo, logger))
		mux.HandleFunc("GET /api/objects", handler.GetObjectsHandler(manager.GetDetectionRepository(), logger))
	} else {
		mux.HandleFunc("/api/batches", historyDisabled)
		mux.HandleFunc("/api/batches/{id}", historyDisabled)
		mux.HandleFunc("/api/batches/{id}/detections", historyDisabled)
		mux.HandleFunc("/api/stats", historyDisabled)
		mux.HandleFunc("/api/objects", historyDisabled)
	}

	// Log endpoints
	mux.HandleFunc("GET /logs/{level}", handler.ShowLogsHandler(logger))
	mux.HandleFunc("POST /logs/{level}/clear", handler.ClearLogsHandler(logger))

	return middleware.AuthMiddleware(cfg.ViewerToken, mux)
}
