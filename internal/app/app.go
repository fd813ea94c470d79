package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"puckscore/internal/config"
	"puckscore/internal/logger"
	"puckscore/internal/render"
	"puckscore/internal/repository"
	"puckscore/internal/repository/sqlite"
	"puckscore/internal/route"
	"puckscore/internal/service"
	"puckscore/internal/service/session"
	"puckscore/internal/service/storage"
	"puckscore/internal/service/websocket"
	"puckscore/internal/telemetry"
	"puckscore/internal/zone"
)

const shutdownTimeout = 2 * time.Second

// RunOptions describes the line source of one run.
type RunOptions struct {
	SourceName string
	// HoldOnEOF keeps the window open after a finite source ends.
	HoldOnEOF bool
	OnLine    func(kind telemetry.Kind)
	// CloseMessage is printed once the source has been closed.
	CloseMessage string
}

// App owns every component of a single run and releases them when the run
// ends.
type App struct {
	config        *config.Config
	logger        *logger.Logger
	layout        zone.Layout
	canvas        *render.Canvas
	display       session.Display
	db            *sqlite.DB
	batchRepo     repository.BatchRepository
	detectionRepo repository.DetectionRepository
	bufferService *storage.BufferService
	hubService    *websocket.HubService
	manager       *service.Manager
	listener      net.Listener
	server        *http.Server
	console       io.Writer
	closeOnce     sync.Once
}

// NewApp builds the canvas, the display and whichever of history and viewer
// feed the configuration enables.
func NewApp(cfg *config.Config, logger *logger.Logger) (*App, error) {
	a := &App{
		config:  cfg,
		logger:  logger,
		layout:  zone.NewLayout(cfg.CanvasWidth, cfg.CanvasHeight, cfg.SourceWidth, cfg.DividerX),
		console: os.Stdout,
	}

	palette, err := render.NewPalette(cfg)
	if err != nil {
		return nil, err
	}

	a.canvas, err = render.NewCanvas(a.layout, palette)
	if err != nil {
		return nil, err
	}

	if cfg.DisplayEnabled {
		a.display = render.NewWindow(cfg.WindowTitle, a.canvas)
	} else {
		a.display = render.Headless{}
	}

	if cfg.HistoryDB != "" {
		a.db, err = sqlite.New(cfg.HistoryDB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		a.batchRepo = sqlite.NewBatchRepository(a.db)
		a.detectionRepo = sqlite.NewDetectionRepository(a.db)
		a.bufferService = storage.NewBufferService(cfg, logger, a.batchRepo)
		logger.Info("Recording batch history to %s", cfg.HistoryDB)
	}

	if cfg.HTTPAddr != "" {
		a.hubService = websocket.NewHubService(logger)
	}

	a.manager = service.NewManager(a.bufferService, a.hubService, a.batchRepo, a.detectionRepo)

	if cfg.HTTPAddr != "" {
		a.listener, err = net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to listen on %s: %w", cfg.HTTPAddr, err)
		}
		a.server = &http.Server{
			Handler:           route.SetupRoutes(a.manager, cfg, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

// SetConsole redirects the user-facing console messages.
func (a *App) SetConsole(w io.Writer) {
	a.console = w
}

// Addr returns the address the viewer feed listens on, or "" when disabled.
func (a *App) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Run drives the session loop over source until the quit key, cancellation
// of ctx, the end of the source or a fatal error. Cleanup happens on every
// exit path.
func (a *App) Run(ctx context.Context, source session.LineSource, opts RunOptions) error {
	bgCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	if a.bufferService != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.bufferService.Run(bgCtx)
		}()
	}

	if a.hubService != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.hubService.Run(bgCtx)
		}()
	}

	if a.server != nil {
		go func() {
			if err := a.server.Serve(a.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("Viewer feed stopped: %v", err)
			}
		}()
		a.logger.Info("Viewer feed on http://%s/api/view", a.Addr())
	}

	defer func() {
		if err := source.Close(); err != nil {
			a.logger.Warning("Error closing %s: %v", opts.SourceName, err)
		}
		if opts.CloseMessage != "" {
			fmt.Fprintln(a.console, opts.CloseMessage)
		}

		if a.server != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				a.logger.Warning("Viewer feed shutdown: %v", err)
			}
			done()
		}

		// stops the hub and makes the buffer flush one last time
		cancel()
		wg.Wait()

		a.Close()
	}()

	var publisher session.Publisher
	if a.hubService != nil {
		publisher = a.manager
	}
	var recorder session.Recorder
	if a.bufferService != nil {
		recorder = a.manager
	}

	runner := session.NewRunner(session.Options{
		Session:    session.New(a.layout, a.config.IndicatorDuration),
		Source:     source,
		SourceName: opts.SourceName,
		Canvas:     a.canvas,
		Display:    a.display,
		Publisher:  publisher,
		Recorder:   recorder,
		Logger:     a.logger,
		QuitKey:    a.config.QuitKeyCode(),
		HoldOnEOF:  opts.HoldOnEOF,
		OnLine:     opts.OnLine,
		Console:    a.console,
	})

	fmt.Fprintf(a.console, "Press '%c' to stop the program.\n", a.config.QuitKeyCode())
	a.logger.Info("Reading telemetry from %s", opts.SourceName)

	return runner.Run(ctx)
}

// Close releases the display, the canvas and the history database. It is
// safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.display != nil {
			if err := a.display.Close(); err != nil {
				a.logger.Warning("Error closing window: %v", err)
			}
		}
		if a.canvas != nil {
			a.canvas.Close()
		}
		if a.listener != nil {
			// already closed by Shutdown when the feed was served
			a.listener.Close()
		}
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				a.logger.Warning("Error closing history: %v", err)
			}
		}
	})
}
