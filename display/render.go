package display

import (
	"log/slog"
	"sync/atomic"

	"github.com/avernet/linkbar/colorx"
)

// Shadow describes the drop shadow drawn beneath an overlay bar.
type Shadow struct {
	// Size is the blur radius in points. Zero disables the shadow.
	Size float64

	// OffsetY shifts the shadow vertically, positive values move it down.
	OffsetY float64

	// Alpha is the shadow opacity in [0, 1].
	Alpha float64
}

// Style is the visual appearance of a painted rectangle.
type Style struct {
	Color  colorx.Color
	Shadow Shadow
}

// Canvas is one painted rectangle on a display surface.
//
// A Canvas is created fully transparent; callers drive its opacity via
// [Canvas.SetAlpha]. Close destroys the underlying platform resource and
// must be safe to call on a display that has since been disconnected.
type Canvas interface {
	// SetAlpha sets the canvas opacity. Values outside [0, 1] are clamped
	// by the implementation.
	SetAlpha(alpha float64)

	// Close destroys the canvas. Further SetAlpha calls are no-ops.
	Close() error
}

// Renderer paints rectangles on display surfaces.
//
// Implementations wrap the platform's window or layer primitive. The
// renderer must not retain the Display beyond the call; the frame is given
// in the same global coordinate space as [Display.Frame].
type Renderer interface {
	CreateCanvas(d Display, frame Rect, style Style) (Canvas, error)
}

// LogRenderer is a headless [Renderer] that records draw operations to a
// logger instead of painting. It is the default renderer, keeping sessions
// usable on hosts without a display server and in tests.
type LogRenderer struct {
	logger *slog.Logger
}

// NewLogRenderer creates a [LogRenderer]. A nil logger falls back to
// [slog.Default].
func NewLogRenderer(logger *slog.Logger) *LogRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRenderer{logger: logger}
}

// CreateCanvas logs the creation and returns a canvas that logs alpha
// changes at debug level.
func (r *LogRenderer) CreateCanvas(d Display, frame Rect, style Style) (Canvas, error) {
	r.logger.Debug("canvas created",
		"display", d.ID,
		"x", frame.X,
		"y", frame.Y,
		"width", frame.Width,
		"height", frame.Height,
		"color", style.Color.Hex(),
	)
	return &logCanvas{logger: r.logger, displayID: d.ID}, nil
}

type logCanvas struct {
	logger    *slog.Logger
	displayID string
	closed    atomic.Bool
}

func (c *logCanvas) SetAlpha(alpha float64) {
	if c.closed.Load() {
		return
	}
	c.logger.Debug("canvas alpha", "display", c.displayID, "alpha", alpha)
}

func (c *logCanvas) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.logger.Debug("canvas closed", "display", c.displayID)
	return nil
}
