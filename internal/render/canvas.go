package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"puckscore/internal/model"
	"puckscore/internal/zone"
)

const (
	dividerThickness = 2
	boxThickness     = 2
	markerRadius     = 15
	indicatorRadius  = 5
)

// Canvas is the fixed-size frame the session draws on. It is not safe for
// concurrent use; only the session loop touches it.
type Canvas struct {
	mat          gocv.Mat
	layout       zone.Layout
	palette      Palette
	font         Font
	indicatorPos image.Point
}

// NewCanvas allocates a black canvas of the layout's size.
func NewCanvas(layout zone.Layout, palette Palette) (*Canvas, error) {
	if layout.Width <= 0 || layout.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", layout.Width, layout.Height)
	}

	c := &Canvas{
		mat:          gocv.NewMatWithSize(layout.Height, layout.Width, gocv.MatTypeCV8UC3),
		layout:       layout,
		palette:      palette,
		font:         ScoreFont(),
		indicatorPos: image.Pt(layout.Width-10, 10),
	}
	if err := c.fill(Black); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Mat exposes the pixel buffer for display.
func (c *Canvas) Mat() gocv.Mat {
	return c.mat
}

// DrawScreen clears the canvas and draws the area dividers.
func (c *Canvas) DrawScreen() error {
	if err := c.fill(Black); err != nil {
		return err
	}

	for _, y := range c.layout.Dividers() {
		if err := gocv.Line(&c.mat, image.Pt(0, y), image.Pt(c.layout.Width, y), c.palette.Divider, dividerThickness); err != nil {
			return fmt.Errorf("failed to draw divider: %w", err)
		}
	}

	x := c.layout.DividerX
	if err := gocv.Line(&c.mat, image.Pt(x, 0), image.Pt(x, c.layout.Height), c.palette.Divider, dividerThickness); err != nil {
		return fmt.Errorf("failed to draw divider: %w", err)
	}
	return nil
}

// DrawDetection draws the scaled bounding box and a filled marker at its center.
func (c *Canvas) DrawDetection(d model.Detection) error {
	rect := c.layout.Project(d)
	if err := gocv.Rectangle(&c.mat, rect, c.palette.Box, boxThickness); err != nil {
		return fmt.Errorf("failed to draw rectangle: %w", err)
	}

	if err := gocv.Circle(&c.mat, c.layout.Center(d), markerRadius, c.palette.Marker, -1); err != nil {
		return fmt.Errorf("failed to draw marker: %w", err)
	}
	return nil
}

// DrawScore writes the score text in the top-left corner.
func (c *Canvas) DrawScore(text string) error {
	err := gocv.PutText(&c.mat, text, c.font.Origin, c.font.Face, c.font.Scale, c.palette.Text, c.font.Thickness)
	if err != nil {
		return fmt.Errorf("failed to draw text: %w", err)
	}
	return nil
}

// SetIndicator draws or erases the batch-received indicator.
func (c *Canvas) SetIndicator(on bool) error {
	clr := Black
	if on {
		clr = c.palette.Indicator
	}
	if err := gocv.Circle(&c.mat, c.indicatorPos, indicatorRadius, clr, -1); err != nil {
		return fmt.Errorf("failed to draw indicator: %w", err)
	}
	return nil
}

// Encode returns the canvas as JPEG bytes.
func (c *Canvas) Encode() ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", c.mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode canvas: %w", err)
	}
	defer buf.Close()

	frame := make([]byte, len(buf.GetBytes()))
	copy(frame, buf.GetBytes())
	return frame, nil
}

// Close releases the pixel buffer.
func (c *Canvas) Close() error {
	return c.mat.Close()
}

func (c *Canvas) fill(clr color.RGBA) error {
	rect := image.Rect(0, 0, c.layout.Width, c.layout.Height)
	if err := gocv.Rectangle(&c.mat, rect, clr, -1); err != nil {
		return fmt.Errorf("failed to clear canvas: %w", err)
	}
	return nil
}
