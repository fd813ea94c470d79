package session

import (
	"image"
	"time"

	"puckscore/internal/model"
	"puckscore/internal/telemetry"
	"puckscore/internal/zone"
)

// State of the batch protocol.
type State int

const (
	StateIdle State = iota
	StateCollecting
	StateReady
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// Placement records where a detection landed on the canvas.
type Placement struct {
	Detection model.Detection
	Center    image.Point
	Area      zone.Area
}

// Session holds everything the loop mutates between iterations: the pending
// detections of the current batch, the area counters and the indicator timer.
type Session struct {
	layout            zone.Layout
	indicatorDuration time.Duration

	detections []model.Detection
	tallied    int
	counters   zone.Counters
	allSent    bool
	collecting bool
	startedAt  time.Time

	indicatorOn    bool
	indicatorSince time.Time
}

// New creates an idle session.
func New(layout zone.Layout, indicatorDuration time.Duration) *Session {
	return &Session{
		layout:            layout,
		indicatorDuration: indicatorDuration,
	}
}

// HandleLine applies one telemetry line and returns its kind.
func (s *Session) HandleLine(line string, now time.Time) telemetry.Kind {
	kind := telemetry.Classify(line)

	switch kind {
	case telemetry.KindStart:
		s.Reset()
		s.collecting = true
		s.startedAt = now

	case telemetry.KindEnd:
		s.allSent = true
		s.collecting = false
		s.indicatorOn = true
		s.indicatorSince = now

	case telemetry.KindDetection:
		det, _ := telemetry.ParseLine(line)
		s.detections = append(s.detections, det)
	}

	return kind
}

// Reset clears pending detections and zeroes the counters.
func (s *Session) Reset() {
	s.detections = s.detections[:0]
	s.tallied = 0
	s.counters.Reset()
	s.allSent = false
}

// State reports where the session is in the batch protocol.
func (s *Session) State() State {
	switch {
	case s.ReadyToRender():
		return StateReady
	case s.collecting:
		return StateCollecting
	default:
		return StateIdle
	}
}

// ReadyToRender is true after the end sentinel while at least one detection
// has not been tallied yet. A repeated end sentinel with nothing new leaves
// the rendered batch alone.
func (s *Session) ReadyToRender() bool {
	return s.allSent && len(s.detections) > s.tallied
}

// MarkRendered returns the session to idle after a redraw.
func (s *Session) MarkRendered() {
	s.allSent = false
}

// Detections returns the pending detections.
func (s *Session) Detections() []model.Detection {
	return s.detections
}

// Tally adds every detection not yet counted to its area counter. A repeated
// end sentinel without a new start sentinel therefore never counts a
// detection twice. It returns the detections whose center lies on a divider.
func (s *Session) Tally() []Placement {
	var boundary []Placement
	for _, d := range s.detections[s.tallied:] {
		center := s.layout.Center(d)
		area := s.layout.Classify(center)
		s.counters.Add(area)

		if s.layout.OnBoundary(center) {
			boundary = append(boundary, Placement{Detection: d, Center: center, Area: area})
		}
	}
	s.tallied = len(s.detections)
	return boundary
}

// Counters returns the current area counters.
func (s *Session) Counters() zone.Counters {
	return s.counters
}

// StartedAt is when the current batch began.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// IndicatorVisible reports whether the indicator is showing.
func (s *Session) IndicatorVisible() bool {
	return s.indicatorOn
}

// IndicatorExpired turns the indicator off once its duration has elapsed and
// reports whether that happened on this call.
func (s *Session) IndicatorExpired(now time.Time) bool {
	if !s.indicatorOn || now.Sub(s.indicatorSince) < s.indicatorDuration {
		return false
	}
	s.indicatorOn = false
	return true
}
