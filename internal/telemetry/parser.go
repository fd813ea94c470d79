package telemetry

import (
	"regexp"
	"strconv"
	"strings"

	"puckscore/internal/model"
)

const (
	// StartSentinel is sent by the device before the first box of a batch.
	StartSentinel = "Starting inferencing..."
	// EndSentinel is sent by the device after the last box of a batch.
	EndSentinel = "All boxes were sent"
)

// Kind tells the session loop what a telemetry line means.
type Kind int

const (
	KindEmpty Kind = iota
	KindNoise
	KindStart
	KindEnd
	KindDetection
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindDetection:
		return "detection"
	default:
		return "noise"
	}
}

// The name accepts any Unicode letter or digit, not only ASCII word
// characters, so labels such as "café" match.
var detectionPattern = regexp.MustCompile(
	`([\p{L}\p{N}_]+) \((\d+\.\d+)\) \[ x: (\d+), y: (\d+), width: (\d+), height: (\d+) \]`)

// Classify reports which of the message shapes the line has.
func Classify(line string) Kind {
	line = strings.TrimSpace(line)

	switch {
	case line == "":
		return KindEmpty
	case line == StartSentinel:
		return KindStart
	case line == EndSentinel:
		return KindEnd
	}

	if _, ok := ParseLine(line); ok {
		return KindDetection
	}
	return KindNoise
}

// ParseLine extracts a detection from a line shaped like
// "name (confidence) [ x: N, y: N, width: N, height: N ]".
// The pattern may appear anywhere in the line. ok is false when it does not.
func ParseLine(line string) (det model.Detection, ok bool) {
	m := detectionPattern.FindStringSubmatch(line)
	if m == nil {
		return model.Detection{}, false
	}

	confidence, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return model.Detection{}, false
	}

	var nums [4]int
	for i := range nums {
		n, err := strconv.Atoi(m[3+i])
		if err != nil {
			// digits only, so this is an overflow
			return model.Detection{}, false
		}
		nums[i] = n
	}

	return model.Detection{
		Name:       m[1],
		Confidence: confidence,
		X:          nums[0],
		Y:          nums[1],
		Width:      nums[2],
		Height:     nums[3],
	}, true
}
