package render

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"puckscore/internal/config"
)

var Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// Palette holds the colors used to draw a frame.
type Palette struct {
	Box       color.RGBA
	Marker    color.RGBA
	Divider   color.RGBA
	Text      color.RGBA
	Indicator color.RGBA
}

// NewPalette parses the hex colors from the configuration.
func NewPalette(cfg *config.Config) (Palette, error) {
	var p Palette
	fields := []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"box", cfg.BoxColor, &p.Box},
		{"marker", cfg.MarkerColor, &p.Marker},
		{"divider", cfg.DividerColor, &p.Divider},
		{"text", cfg.TextColor, &p.Text},
		{"indicator", cfg.IndicatorColor, &p.Indicator},
	}

	for _, f := range fields {
		c, err := ParseColor(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("invalid %s color: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// ParseColor converts "#RRGGBB" (or "#RGB") into an opaque color.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
