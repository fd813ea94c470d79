package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"puckscore/internal/logger"
	"puckscore/internal/model"
	"puckscore/internal/service/serial"
	"puckscore/internal/telemetry"
)

// LineSource yields telemetry lines. ReadLine returns serial.ErrTimeout when
// no line arrived in time and io.EOF when the source is exhausted.
type LineSource interface {
	ReadLine() (string, error)
	Close() error
}

// Canvas is the drawing surface of the session.
type Canvas interface {
	DrawScreen() error
	DrawDetection(d model.Detection) error
	DrawScore(text string) error
	SetIndicator(on bool) error
	Encode() ([]byte, error)
}

// Display shows the canvas and reports key presses.
type Display interface {
	Show() error
	PollKey() int
	Close() error
}

// Publisher receives the scoreboard of each rendered batch.
type Publisher interface {
	Publish(board model.Scoreboard)
}

// Recorder receives each rendered batch.
type Recorder interface {
	Record(batch model.Batch)
}

// Options configures a Runner. Publisher and Recorder are optional.
type Options struct {
	Session    *Session
	Source     LineSource
	SourceName string
	Canvas     Canvas
	Display    Display
	Publisher  Publisher
	Recorder   Recorder
	Logger     *logger.Logger
	QuitKey    int
	// HoldOnEOF keeps the last frame on screen after the source is exhausted
	// until the quit key is pressed or the context is cancelled.
	HoldOnEOF bool
	// OnLine is called after every line read, for progress reporting.
	OnLine  func(kind telemetry.Kind)
	Console io.Writer
	Now     func() time.Time
}

// Runner drives the read, parse, accumulate and draw loop.
type Runner struct {
	Options
	exhausted bool
}

// NewRunner creates a Runner with defaults for the optional fields.
func NewRunner(opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Console == nil {
		opts.Console = io.Discard
	}
	if opts.QuitKey == 0 {
		opts.QuitKey = 'q'
	}
	return &Runner{Options: opts}
}

// Run iterates until the quit key is pressed, ctx is cancelled, the source
// ends (unless HoldOnEOF is set) or a read, draw or display call fails.
// Each iteration reads at most one line, so the stop conditions are checked
// at least once per read timeout.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Canvas.DrawScreen(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.Console, "Program stopped by user.")
			return nil
		default:
		}

		if !r.exhausted {
			done, err := r.readOnce()
			if err != nil {
				return err
			}
			if done && !r.HoldOnEOF {
				return r.show()
			}
		}

		if r.Session.ReadyToRender() {
			if err := r.render(); err != nil {
				return err
			}
		}

		if err := r.updateIndicator(); err != nil {
			return err
		}

		if err := r.show(); err != nil {
			return err
		}

		if key := r.Display.PollKey(); key == r.QuitKey {
			fmt.Fprintln(r.Console, "Program stopped by user.")
			return nil
		}

		if r.exhausted {
			r.idle(ctx)
		}
	}
}

// readOnce reads and dispatches one line. done is true once the source is
// exhausted.
func (r *Runner) readOnce() (done bool, err error) {
	line, err := r.Source.ReadLine()
	switch {
	case err == nil:
		kind := r.Session.HandleLine(line, r.Now())
		if kind == telemetry.KindStart {
			r.Logger.Info("Batch started")
		}
		if kind == telemetry.KindEnd && len(r.Session.Detections()) == 0 {
			r.Logger.Info("Batch ended without detections")
		}
		if r.OnLine != nil {
			r.OnLine(kind)
		}
		return false, nil

	case errors.Is(err, serial.ErrTimeout):
		return false, nil

	case errors.Is(err, io.EOF):
		r.exhausted = true
		r.Logger.Info("Telemetry source %s exhausted", r.SourceName)
		return true, nil

	default:
		return false, fmt.Errorf("failed to read telemetry: %w", err)
	}
}

// render redraws the whole canvas for the pending batch and hands the result
// to the publisher and recorder.
func (r *Runner) render() error {
	if err := r.Canvas.DrawScreen(); err != nil {
		return err
	}

	detections := r.Session.Detections()
	for _, d := range detections {
		if err := r.Canvas.DrawDetection(d); err != nil {
			return err
		}
	}

	for _, p := range r.Session.Tally() {
		r.Logger.Warning("Detection %s at %v lies on a divider, counted in %s", p.Detection.Name, p.Center, p.Area)
	}

	counters := r.Session.Counters()
	if err := r.Canvas.DrawScore(counters.Text()); err != nil {
		return err
	}
	r.Session.MarkRendered()

	now := r.Now()
	r.Logger.Info("Rendered %d detection(s), %s", len(detections), counters.Text())

	if r.Publisher != nil {
		frame, err := r.Canvas.Encode()
		if err != nil {
			r.Logger.Error("Failed to encode frame for viewers: %v", err)
		}
		r.Publisher.Publish(model.Scoreboard{
			Score:      counters.Score(),
			Text:       counters.Text(),
			Areas:      counters.Map(),
			Detections: len(detections),
			Image:      frame,
			Timestamp:  now,
		})
	}

	if r.Recorder != nil {
		r.Recorder.Record(model.Batch{
			Source:     r.SourceName,
			StartedAt:  r.Session.StartedAt(),
			RenderedAt: now,
			Area1:      counters.Area1,
			Area2:      counters.Area2,
			Area3:      counters.Area3,
			Area4:      counters.Area4,
			Score:      counters.Score(),
			Detections: append([]model.Detection(nil), detections...),
		})
	}
	return nil
}

func (r *Runner) updateIndicator() error {
	if !r.Session.IndicatorVisible() {
		return nil
	}
	if r.Session.IndicatorExpired(r.Now()) {
		return r.Canvas.SetIndicator(false)
	}
	return r.Canvas.SetIndicator(true)
}

func (r *Runner) idle(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(50 * time.Millisecond):
	}
}

func (r *Runner) show() error {
	if err := r.Display.Show(); err != nil {
		return fmt.Errorf("failed to show frame: %w", err)
	}
	return nil
}
