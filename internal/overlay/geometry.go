package overlay

import "github.com/avernet/linkbar/display"

// Geometry holds the bar placement parameters shared by every overlay.
type Geometry struct {
	// BarHeight is the bar thickness in points.
	BarHeight float64

	// BarYOffset shifts the bar down from the display's top edge.
	BarYOffset float64

	// HorizontalPadding insets the bar symmetrically from both side edges.
	HorizontalPadding float64
}

// BarFrame computes the overlay rectangle for a display frame.
//
// The result is always fully contained in the display frame: padding that
// would produce a negative width collapses to zero width, and a bar pushed
// past the bottom edge is clipped rather than overflowing.
func (g Geometry) BarFrame(frame display.Rect) display.Rect {
	pad := g.HorizontalPadding
	if pad < 0 {
		pad = 0
	}

	width := frame.Width - 2*pad
	if width < 0 {
		width = 0
		pad = frame.Width / 2
	}

	offset := g.BarYOffset
	if offset < 0 {
		offset = 0
	}
	if offset > frame.Height {
		offset = frame.Height
	}

	height := g.BarHeight
	if height < 0 {
		height = 0
	}
	if remaining := frame.Height - offset; height > remaining {
		height = remaining
	}

	return display.Rect{
		X:      frame.X + pad,
		Y:      frame.Y + offset,
		Width:  width,
		Height: height,
	}
}
