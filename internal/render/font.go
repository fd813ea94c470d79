package render

import (
	"image"

	"gocv.io/x/gocv"
)

// Font defines the parameters for rendering text on the canvas
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Thickness int
	// Origin is the bottom-left corner of the text
	Origin image.Point
}

// ScoreFont returns the font used for the score line
func ScoreFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Thickness: 1,
		Origin:    image.Pt(5, 15),
	}
}
