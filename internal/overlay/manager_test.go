package overlay

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/avernet/linkbar/colorx"
	"github.com/avernet/linkbar/display"
)

// fakeScheduler drives deferred work with manual time advancement, so tests
// control exactly when fade timers and animation frames fire.
type fakeScheduler struct {
	now     time.Duration
	nextID  int
	pending map[int]*fakeEntry
}

type fakeEntry struct {
	due       time.Duration
	fn        func()
	cancelled bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{pending: make(map[int]*fakeEntry)}
}

func (s *fakeScheduler) After(d time.Duration, fn func()) CancelFunc {
	s.nextID++
	id := s.nextID
	e := &fakeEntry{due: s.now + d, fn: fn}
	s.pending[id] = e
	return func() {
		e.cancelled = true
		delete(s.pending, id)
	}
}

// advance moves fake time forward, firing due entries in order. Entries
// scheduled by fired callbacks run too if they fall within the window.
func (s *fakeScheduler) advance(d time.Duration) {
	target := s.now + d
	for {
		var (
			bestID int
			best   *fakeEntry
		)
		for id, e := range s.pending {
			if e.due <= target && (best == nil || e.due < best.due) {
				bestID, best = id, e
			}
		}
		if best == nil {
			break
		}
		s.now = best.due
		delete(s.pending, bestID)
		if !best.cancelled {
			best.fn()
		}
	}
	s.now = target
}

func (s *fakeScheduler) pendingCount() int {
	return len(s.pending)
}

// fakeRenderer records every canvas it creates and can be told to fail for
// specific displays.
type fakeRenderer struct {
	canvases []*fakeCanvas
	failFor  map[string]bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{failFor: make(map[string]bool)}
}

func (r *fakeRenderer) CreateCanvas(d display.Display, frame display.Rect, style display.Style) (display.Canvas, error) {
	if r.failFor[d.ID] {
		return nil, errors.New("no surface")
	}
	c := &fakeCanvas{displayID: d.ID, frame: frame, style: style, alpha: -1}
	r.canvases = append(r.canvases, c)
	return c, nil
}

func (r *fakeRenderer) open(displayID string) []*fakeCanvas {
	var out []*fakeCanvas
	for _, c := range r.canvases {
		if c.displayID == displayID && !c.closed {
			out = append(out, c)
		}
	}
	return out
}

func (r *fakeRenderer) created(displayID string) int {
	n := 0
	for _, c := range r.canvases {
		if c.displayID == displayID {
			n++
		}
	}
	return n
}

type fakeCanvas struct {
	displayID string
	frame     display.Rect
	style     display.Style
	alpha     float64
	closed    bool
}

func (c *fakeCanvas) SetAlpha(alpha float64) {
	if c.closed {
		return
	}
	c.alpha = alpha
}

func (c *fakeCanvas) Close() error {
	c.closed = true
	return nil
}

type recordingAlerter struct {
	names []string
}

func (a *recordingAlerter) Alert(name string) {
	a.names = append(a.names, name)
}

func testDisplay(id string) display.Display {
	return display.Display{
		ID:      id,
		Name:    id,
		Primary: id == "main",
		Frame:   display.Rect{Width: 1920, Height: 1080},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestManager builds a manager with instant fades unless a fade duration
// is given.
func newTestManager(r *fakeRenderer, s Scheduler, a Alerter, fade time.Duration) *Manager {
	geom := Geometry{BarHeight: 6}
	return NewManager(r, s, a, geom, display.Shadow{}, fade, discardLogger())
}

func TestManager_PresentCreatesOneOverlay(t *testing.T) {
	renderer := newFakeRenderer()
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 0)

	d := testDisplay("main")
	if err := m.Present(d, Appearance{Color: colorx.Color{R: 1, A: 1}}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	if got := m.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if !m.Has("main") {
		t.Error("Has(main) = false, want true")
	}

	open := renderer.open("main")
	if len(open) != 1 {
		t.Fatalf("open canvases = %d, want 1", len(open))
	}
	if got := open[0].alpha; got != 1 {
		t.Errorf("canvas alpha = %v, want 1 (instant fade)", got)
	}
}

func TestManager_RepresentReplacesOverlay(t *testing.T) {
	renderer := newFakeRenderer()
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 0)

	d := testDisplay("main")
	for i := 0; i < 3; i++ {
		if err := m.Present(d, Appearance{}); err != nil {
			t.Fatalf("Present() #%d error = %v", i, err)
		}
	}

	if got := m.Len(); got != 1 {
		t.Errorf("Len() after re-present = %d, want 1", got)
	}
	if got := renderer.created("main"); got != 3 {
		t.Errorf("canvases created = %d, want 3", got)
	}
	if got := len(renderer.open("main")); got != 1 {
		t.Errorf("open canvases = %d, want 1 (old ones destroyed)", got)
	}
}

func TestManager_HideTimerHidesButKeepsOverlay(t *testing.T) {
	renderer := newFakeRenderer()
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 0)

	d := testDisplay("main")
	if err := m.Present(d, Appearance{HideAfter: 3 * time.Second}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if !m.HasTimer("main") {
		t.Fatal("HasTimer(main) = false, want true")
	}
	if !m.overlays["main"].Visible() {
		t.Error("Visible() = false before hide, want true")
	}

	sched.advance(3 * time.Second)

	if m.HasTimer("main") {
		t.Error("HasTimer(main) = true after fire, want false")
	}
	if !m.Has("main") {
		t.Error("Has(main) = false after hide, want true (hide keeps the overlay)")
	}
	if m.overlays["main"].Visible() {
		t.Error("Visible() = true after hide, want false")
	}

	open := renderer.open("main")
	if len(open) != 1 {
		t.Fatalf("open canvases = %d, want 1", len(open))
	}
	if got := open[0].alpha; got != 0 {
		t.Errorf("canvas alpha after hide = %v, want 0", got)
	}
}

func TestManager_ZeroHideDelayIsPersistent(t *testing.T) {
	renderer := newFakeRenderer()
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 0)

	d := testDisplay("main")
	if err := m.Present(d, Appearance{HideAfter: 0}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	if m.HasTimer("main") {
		t.Error("HasTimer(main) = true, want false (no timer for persistent overlay)")
	}

	sched.advance(time.Hour)

	open := renderer.open("main")
	if len(open) != 1 {
		t.Fatalf("open canvases = %d, want 1", len(open))
	}
	if got := open[0].alpha; got != 1 {
		t.Errorf("canvas alpha after an hour = %v, want 1 (stays visible)", got)
	}
}

func TestManager_RepresentReplacesPendingTimer(t *testing.T) {
	renderer := newFakeRenderer()
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 0)

	d := testDisplay("main")
	if err := m.Present(d, Appearance{HideAfter: 3 * time.Second}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	sched.advance(2 * time.Second)

	// the new presentation restarts the clock; the old timer must never
	// hide the replacement
	if err := m.Present(d, Appearance{HideAfter: 3 * time.Second}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if got := m.TimerCount(); got != 1 {
		t.Fatalf("TimerCount() = %d, want 1", got)
	}

	sched.advance(2 * time.Second) // old timer would have fired here

	open := renderer.open("main")
	if len(open) != 1 {
		t.Fatalf("open canvases = %d, want 1", len(open))
	}
	if got := open[0].alpha; got != 1 {
		t.Errorf("canvas alpha = %v, want 1 (old timer cancelled)", got)
	}

	sched.advance(time.Second) // replacement timer fires at its own deadline
	if got := open[0].alpha; got != 0 {
		t.Errorf("canvas alpha = %v, want 0 (new timer fired)", got)
	}
}

// uncancellableScheduler simulates a timer whose callback was already queued
// when the cancellation happened, exercising the identity check on fire.
type uncancellableScheduler struct {
	fakeScheduler
}

func (s *uncancellableScheduler) After(d time.Duration, fn func()) CancelFunc {
	s.nextID++
	s.pending[s.nextID] = &fakeEntry{due: s.now + d, fn: fn}
	return func() {}
}

func TestManager_StaleTimerFireIsNoOp(t *testing.T) {
	renderer := newFakeRenderer()
	sched := &uncancellableScheduler{fakeScheduler{pending: make(map[int]*fakeEntry)}}
	m := newTestManager(renderer, sched, nil, 0)

	d := testDisplay("main")
	if err := m.Present(d, Appearance{HideAfter: time.Second}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if err := m.Present(d, Appearance{HideAfter: 5 * time.Second}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	// first timer fires even though the manager cancelled it
	sched.advance(time.Second)

	open := renderer.open("main")
	if len(open) != 1 {
		t.Fatalf("open canvases = %d, want 1", len(open))
	}
	if got := open[0].alpha; got != 1 {
		t.Errorf("canvas alpha = %v, want 1 (stale timer ignored)", got)
	}
}

func TestManager_RetireFadesThenDestroys(t *testing.T) {
	renderer := newFakeRenderer()
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 300*time.Millisecond)

	d := testDisplay("main")
	if err := m.Present(d, Appearance{HideAfter: 5 * time.Second}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	sched.advance(time.Second) // let the entrance fade settle

	m.Retire("main")

	if m.HasTimer("main") {
		t.Error("HasTimer(main) = true after Retire, want false")
	}
	if !m.Has("main") {
		t.Fatal("Has(main) = false right after Retire, want true while fading")
	}

	sched.advance(2 * time.Second)

	if m.Has("main") {
		t.Error("Has(main) = true after fade settled, want false")
	}
	if got := len(renderer.open("main")); got != 0 {
		t.Errorf("open canvases = %d, want 0", got)
	}
}

func TestManager_RetireUnknownDisplayIsNoOp(t *testing.T) {
	m := newTestManager(newFakeRenderer(), newFakeScheduler(), nil, 0)
	m.Retire("ghost") // must not panic
	if got := m.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestManager_RetireAll(t *testing.T) {
	renderer := newFakeRenderer()
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 0)

	for _, id := range []string{"main", "ext-1", "ext-2"} {
		if err := m.Present(testDisplay(id), Appearance{HideAfter: time.Minute}); err != nil {
			t.Fatalf("Present(%s) error = %v", id, err)
		}
	}

	m.RetireAll()

	if got := m.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
	if got := m.TimerCount(); got != 0 {
		t.Errorf("TimerCount() = %d, want 0", got)
	}
	for _, c := range renderer.canvases {
		if !c.closed {
			t.Errorf("canvas on %s left open after RetireAll", c.displayID)
		}
	}
}

func TestManager_CloseIsSynchronous(t *testing.T) {
	renderer := newFakeRenderer()
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 300*time.Millisecond)

	for _, id := range []string{"main", "ext-1"} {
		if err := m.Present(testDisplay(id), Appearance{HideAfter: time.Minute}); err != nil {
			t.Fatalf("Present(%s) error = %v", id, err)
		}
	}

	m.Close()

	// no pending scheduler advance: destruction happens inside Close
	if got := m.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
	if got := m.TimerCount(); got != 0 {
		t.Errorf("TimerCount() = %d, want 0", got)
	}
	for _, c := range renderer.canvases {
		if !c.closed {
			t.Errorf("canvas on %s left open after Close", c.displayID)
		}
	}

	// nothing scheduled may act after Close
	sched.advance(time.Hour)
	if got := m.Len(); got != 0 {
		t.Errorf("Len() after advancing time = %d, want 0", got)
	}
}

func TestManager_PresentFailureLeavesNoState(t *testing.T) {
	renderer := newFakeRenderer()
	renderer.failFor["bad"] = true
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 0)

	err := m.Present(testDisplay("bad"), Appearance{HideAfter: time.Second})
	if err == nil {
		t.Fatal("Present() on failing display expected error")
	}
	if m.Has("bad") {
		t.Error("Has(bad) = true after failed Present, want false")
	}
	if m.HasTimer("bad") {
		t.Error("HasTimer(bad) = true after failed Present, want false")
	}
}

func TestManager_AlertDispatch(t *testing.T) {
	alerter := &recordingAlerter{}
	m := newTestManager(newFakeRenderer(), newFakeScheduler(), alerter, 0)

	if err := m.Present(testDisplay("main"), Appearance{Sound: "ping"}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if err := m.Present(testDisplay("main"), Appearance{}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	if len(alerter.names) != 1 || alerter.names[0] != "ping" {
		t.Errorf("alerts = %v, want [ping]", alerter.names)
	}
}

func TestManager_SpringFadeSettlesAtTarget(t *testing.T) {
	renderer := newFakeRenderer()
	sched := newFakeScheduler()
	m := newTestManager(renderer, sched, nil, 300*time.Millisecond)

	if err := m.Present(testDisplay("main"), Appearance{}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	open := renderer.open("main")
	if len(open) != 1 {
		t.Fatalf("open canvases = %d, want 1", len(open))
	}
	if got := open[0].alpha; got != 0 {
		t.Fatalf("canvas alpha before frames = %v, want 0", got)
	}

	sched.advance(2 * time.Second)

	if got := open[0].alpha; got != 1 {
		t.Errorf("canvas alpha after fade = %v, want exactly 1 (snapped on settle)", got)
	}
	if got := sched.pendingCount(); got != 0 {
		t.Errorf("pending scheduler entries after settle = %d, want 0", got)
	}
}

func TestManager_Tracked(t *testing.T) {
	m := newTestManager(newFakeRenderer(), newFakeScheduler(), nil, 0)

	for _, id := range []string{"zeta", "alpha", "main"} {
		if err := m.Present(testDisplay(id), Appearance{}); err != nil {
			t.Fatalf("Present(%s) error = %v", id, err)
		}
	}

	got := m.Tracked()
	want := []string{"alpha", "main", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Tracked() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tracked() = %v, want %v", got, want)
		}
	}
}
