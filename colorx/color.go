// Package colorx resolves user-supplied color values into normalized RGBA.
//
// Colors may be given as a well-known name ("red", "green"), as a hex string
// ("#2ecc71", "2ecc71", "#2ecc71cc" with alpha), or assembled from individual
// components. All channels are float64 in [0, 1]; alpha is always clamped.
package colorx

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a normalized RGBA color. Each channel is in [0, 1].
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// names maps well-known color names to their hex values.
// The palette follows common platform indicator colors.
var names = map[string]string{
	"red":    "#ff3b30",
	"green":  "#34c759",
	"blue":   "#007aff",
	"yellow": "#ffcc00",
	"orange": "#ff9500",
	"purple": "#af52de",
	"gray":   "#8e8e93",
	"grey":   "#8e8e93",
	"white":  "#ffffff",
	"black":  "#000000",
}

// Parse resolves a color from a name or hex string.
//
// Accepted forms:
//   - named: "red", "green", ... (case-insensitive)
//   - hex: "#rgb", "#rrggbb", "#rrggbbaa" (leading "#" optional)
//
// The 8-digit form carries alpha in the last byte; all other forms are fully
// opaque. Returns an error for anything else.
func Parse(s string) (Color, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return Color{}, fmt.Errorf("empty color value")
	}

	if hex, ok := names[in]; ok {
		in = hex
	}

	if !strings.HasPrefix(in, "#") {
		in = "#" + in
	}

	alpha := 1.0
	if len(in) == 9 { // #rrggbbaa
		var a uint8
		if _, err := fmt.Sscanf(in[7:9], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		in = in[:7]
	}

	c, err := colorful.Hex(in)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return Color{R: c.R, G: c.G, B: c.B, A: clamp01(alpha)}, nil
}

// FromComponents builds a Color from individual channels.
// Every channel is clamped to [0, 1].
func FromComponents(r, g, b, a float64) Color {
	return Color{R: clamp01(r), G: clamp01(g), B: clamp01(b), A: clamp01(a)}
}

// WithAlpha returns a copy of the color with the alpha channel replaced.
// The alpha is clamped to [0, 1].
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// Hex returns the color as a "#rrggbb" string. Alpha is not encoded.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Hex()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
