package display

// Rect is a rectangle in display coordinates. The origin is the top-left
// corner of the coordinate space; width and height are never negative.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Display identifies one physical display and its geometry.
//
// Displays are owned by the platform; this library only references them.
// The ID must be stable for the lifetime of the display; the Name is the
// human-readable model or connection name reported by the platform.
type Display struct {
	// ID is the platform's stable identifier for the display.
	ID string

	// Name is the display's human-readable name (e.g. "Dell U2723QE").
	Name string

	// Primary marks the platform's designated main display.
	Primary bool

	// Frame is the display's bounds in global coordinates.
	Frame Rect
}

// Provider enumerates displays and reports topology changes.
//
// Implementations wrap a platform display service. [StaticProvider] is an
// in-memory implementation suitable for tests, headless use, and embedding
// hosts that manage topology themselves.
type Provider interface {
	// Displays returns the current display topology. The returned slice is
	// a snapshot; the provider's own state is not aliased.
	Displays() ([]Display, error)

	// Subscribe registers for topology-change notifications. The channel
	// receives one (possibly coalesced) signal per change. The returned
	// function cancels the subscription and closes the channel; it is safe
	// to call more than once.
	Subscribe() (<-chan struct{}, func())
}
