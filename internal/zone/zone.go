// Package zone maps detections onto the canvas and scores them by area.
//
// The canvas is cut by three horizontal dividers at a quarter, half and three
// quarters of its height, and by one vertical divider. Left of the vertical
// divider the four horizontal bands are, from top to bottom, Area 1, Area 4,
// Area 3 and Area 2. Right of it nothing scores.
package zone

import (
	"fmt"
	"image"
	"math"

	"puckscore/internal/model"
)

// Area identifies one of the scoring regions of the canvas.
type Area int

const (
	AreaNone Area = iota
	Area1
	Area2
	Area3
	Area4
)

// Areas lists the scoring areas in counter order.
var Areas = [4]Area{Area1, Area2, Area3, Area4}

func (a Area) String() string {
	if a == AreaNone {
		return "None"
	}
	return fmt.Sprintf("Area %d", int(a))
}

// Weight is the score contributed by one detection in the area.
func (a Area) Weight() int {
	if a < Area1 || a > Area4 {
		return 0
	}
	return int(a)
}

// Layout holds the canvas geometry and the source-to-canvas scale.
type Layout struct {
	Width    int
	Height   int
	DividerX int
	Scale    float64
}

// NewLayout builds a layout for a canvas of width x height fed by a device
// whose coordinate space is sourceWidth wide.
func NewLayout(width, height, sourceWidth, dividerX int) Layout {
	scale := 1.0
	if sourceWidth > 0 {
		scale = float64(width) / float64(sourceWidth)
	}
	return Layout{
		Width:    width,
		Height:   height,
		DividerX: dividerX,
		Scale:    scale,
	}
}

// Dividers returns the y positions of the horizontal dividers, top to bottom.
func (l Layout) Dividers() [3]int {
	return [3]int{l.Height / 4, l.Height / 2, 3 * l.Height / 4}
}

// maxCoord bounds projected values so that a corner plus a size still fits
// in the 32-bit ints OpenCV draws with.
const maxCoord = math.MaxInt32 / 2

// Project converts the detection box into canvas coordinates. Values beyond
// maxCoord are clamped; they lie far outside the canvas either way.
func (l Layout) Project(d model.Detection) image.Rectangle {
	x := l.scale(d.X)
	y := l.scale(d.Y)
	w := l.scale(d.Width)
	h := l.scale(d.Height)
	return image.Rect(x, y, x+w, y+h)
}

func (l Layout) scale(v int) int {
	f := float64(v) * l.Scale
	switch {
	case f > maxCoord:
		return maxCoord
	case f < -maxCoord:
		return -maxCoord
	}
	return int(f)
}

// Center returns the canvas position of the center of the detection box.
func (l Layout) Center(d model.Detection) image.Point {
	r := l.Project(d)
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}

// Classify assigns a canvas point to exactly one area. The conditions are
// tested top band first, so a point lying on a horizontal divider belongs to
// the band below it, and a point on the vertical divider belongs to no area.
func (l Layout) Classify(p image.Point) Area {
	d := l.Dividers()

	switch {
	case p.Y < d[0] && p.X < l.DividerX:
		return Area1
	case p.Y < d[1] && p.X < l.DividerX:
		return Area4
	case p.Y < d[2] && p.X < l.DividerX:
		return Area3
	case p.X < l.DividerX:
		return Area2
	default:
		return AreaNone
	}
}

// OnBoundary reports whether p lies exactly on a divider, where the area
// returned by Classify depends on the order of its conditions.
func (l Layout) OnBoundary(p image.Point) bool {
	if p.X == l.DividerX {
		return true
	}
	for _, y := range l.Dividers() {
		if p.Y == y && p.X < l.DividerX {
			return true
		}
	}
	return false
}
