package overlay

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/avernet/linkbar/colorx"
	"github.com/avernet/linkbar/display"
)

// Appearance is what a single Present paints: the bar color, how long the
// bar stays before fading out, and an optional alert sound name.
//
// A zero HideAfter means the bar remains visible until replaced or retired.
type Appearance struct {
	Color     colorx.Color
	HideAfter time.Duration
	Sound     string
}

// Alerter plays a named alert sound. The manager treats it as fire-and-
// forget; implementations decide whether the alert is currently permitted.
type Alerter interface {
	Alert(name string)
}

// Overlay is the per-display visual resource tracked by the manager.
type Overlay struct {
	display display.Display
	canvas  display.Canvas
	visible bool

	alpha    float64
	velocity float64
	anim     CancelFunc
}

// Visible reports whether the overlay is currently shown (it may still be
// mid-fade).
func (o *Overlay) Visible() bool {
	return o.visible
}

// stopAnimation cancels any in-flight opacity animation.
func (o *Overlay) stopAnimation() {
	if o.anim != nil {
		o.anim()
		o.anim = nil
	}
}

type fadeTimer struct {
	cancel CancelFunc
}

// Manager owns at most one overlay and at most one fade timer per display.
//
// All methods must be called from a single goroutine; the session's event
// loop provides that serialization. Deferred work (fade timers, animation
// frames) re-enters through the injected [Scheduler], so it executes on the
// same loop and never races a Present or Retire in progress.
type Manager struct {
	renderer display.Renderer
	sched    Scheduler
	alerter  Alerter
	logger   *slog.Logger

	geom   Geometry
	shadow display.Shadow
	fade   time.Duration

	overlays map[string]*Overlay
	timers   map[string]*fadeTimer
}

// NewManager creates a [Manager]. The alerter may be nil, in which case
// alert sounds are silently skipped.
func NewManager(renderer display.Renderer, sched Scheduler, alerter Alerter, geom Geometry, shadow display.Shadow, fade time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		renderer: renderer,
		sched:    sched,
		alerter:  alerter,
		logger:   logger,
		geom:     geom,
		shadow:   shadow,
		fade:     fade,
		overlays: make(map[string]*Overlay),
		timers:   make(map[string]*fadeTimer),
	}
}

// Present draws (or redraws) the overlay for one display.
//
// The sequence is fixed: any pending fade timer for the display is
// cancelled, any existing overlay is destroyed, the bar geometry is
// computed and clipped, a fresh canvas is created and faded in, the alert
// sound (if any) is dispatched, and finally a new fade timer is scheduled
// when HideAfter is positive.
//
// Failure to create the canvas is returned to the caller; the manager's
// state for the display is left empty in that case.
func (m *Manager) Present(d display.Display, ap Appearance) error {
	m.cancelTimer(d.ID)

	if old, ok := m.overlays[d.ID]; ok {
		m.destroy(d.ID, old)
	}

	frame := m.geom.BarFrame(d.Frame)
	canvas, err := m.renderer.CreateCanvas(d, frame, display.Style{Color: ap.Color, Shadow: m.shadow})
	if err != nil {
		return fmt.Errorf("create canvas on display %s: %w", d.ID, err)
	}

	o := &Overlay{display: d, canvas: canvas, visible: true}
	m.overlays[d.ID] = o

	canvas.SetAlpha(0)
	m.animate(o, 1, nil)

	if ap.Sound != "" && m.alerter != nil {
		m.alerter.Alert(ap.Sound)
	}

	if ap.HideAfter > 0 {
		m.scheduleHide(d.ID, o, ap.HideAfter)
	}

	return nil
}

// scheduleHide arms the fade timer that hides (not destroys) the overlay.
// The identity check on fire makes a stale timer that slipped past its
// cancellation a no-op.
func (m *Manager) scheduleHide(displayID string, o *Overlay, after time.Duration) {
	t := &fadeTimer{}
	t.cancel = m.sched.After(after, func() {
		if m.timers[displayID] == t {
			delete(m.timers, displayID)
		}
		cur, ok := m.overlays[displayID]
		if !ok || cur != o || !cur.visible {
			return
		}
		cur.visible = false
		m.animate(cur, 0, nil)
	})
	m.timers[displayID] = t
}

// Retire fades the overlay for a display out and destroys it once the fade
// settles. Any pending fade timer is cancelled first. Unknown displays are
// ignored.
func (m *Manager) Retire(displayID string) {
	m.cancelTimer(displayID)

	o, ok := m.overlays[displayID]
	if !ok {
		return
	}

	o.visible = false
	m.animate(o, 0, func() {
		if m.overlays[displayID] == o {
			delete(m.overlays, displayID)
		}
		if err := o.canvas.Close(); err != nil {
			m.logger.Error("destroy overlay failed", "display", displayID, "error", err)
		}
	})
}

// RetireAll retires every tracked display.
func (m *Manager) RetireAll() {
	for id := range m.overlays {
		m.Retire(id)
	}
}

// Close tears everything down synchronously: all timers cancelled, all
// animations stopped, all canvases destroyed, maps cleared. Used on session
// stop, where no callback may outlive the session.
func (m *Manager) Close() {
	for id, t := range m.timers {
		t.cancel()
		delete(m.timers, id)
	}
	for id, o := range m.overlays {
		m.destroy(id, o)
	}
}

// destroy immediately releases one overlay's resources.
func (m *Manager) destroy(displayID string, o *Overlay) {
	o.stopAnimation()
	delete(m.overlays, displayID)
	if err := o.canvas.Close(); err != nil {
		m.logger.Error("destroy overlay failed", "display", displayID, "error", err)
	}
}

// cancelTimer discards the pending fade timer for a display, if any.
func (m *Manager) cancelTimer(displayID string) {
	if t, ok := m.timers[displayID]; ok {
		t.cancel()
		delete(m.timers, displayID)
	}
}

// Tracked returns the sorted IDs of displays currently carrying an overlay.
func (m *Manager) Tracked() []string {
	ids := make([]string, 0, len(m.overlays))
	for id := range m.overlays {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether a display currently carries an overlay.
func (m *Manager) Has(displayID string) bool {
	_, ok := m.overlays[displayID]
	return ok
}

// HasTimer reports whether a display has a pending fade timer.
func (m *Manager) HasTimer(displayID string) bool {
	_, ok := m.timers[displayID]
	return ok
}

// Len returns the number of tracked overlays.
func (m *Manager) Len() int {
	return len(m.overlays)
}

// TimerCount returns the number of pending fade timers.
func (m *Manager) TimerCount() int {
	return len(m.timers)
}
