package linkbar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/avernet/linkbar/display"
	"github.com/avernet/linkbar/focus"
	"github.com/avernet/linkbar/internal/monitor"
	"github.com/avernet/linkbar/internal/overlay"
	"github.com/avernet/linkbar/probe"
	"github.com/avernet/linkbar/sound"
)

// Session is the top-level orchestrator: it monitors reachability of one
// target host and reflects debounced status transitions as bar overlays on
// the targeted displays.
//
// A Session is created with [New] and driven with [Session.Start],
// [Session.Stop], and [Session.Status]. Internally all state transitions
// (probe signals, topology changes, fade timers, animation frames) execute
// on a single event loop, one at a time and in arrival order, so a
// transition pipeline never observes another one half-applied.
//
// The typical lifecycle:
//
//	s, err := linkbar.New(linkbar.WithTargetHost("1.1.1.1"))
//	if err != nil {
//	    slog.Error("failed to create session", "error", err)
//	    os.Exit(1)
//	}
//	if err := s.Start(); err != nil {
//	    slog.Error("failed to start session", "error", err)
//	    os.Exit(1)
//	}
//	defer s.Stop()
type Session struct {
	targetHost string
	policy     Policy
	geom       overlay.Geometry
	shadow     display.Shadow
	fade       time.Duration

	styles       map[Status]StatusStyle
	soundEnabled bool
	soundVolume  float64

	probeInterval     time.Duration
	probeTimeout      time.Duration
	initialCheckDelay time.Duration
	settleDelay       time.Duration

	logger    *slog.Logger
	displays  display.Provider
	renderer  display.Renderer
	player    sound.Player
	focus     focus.Source
	checker   probe.Checker
	callbacks []func(StatusEvent)

	// lifecycle state, guarded by mu; lastStatus and lastEvent are written
	// only from the event loop.
	mu           sync.Mutex
	running      bool
	lastStatus   Status
	lastEvent    *StatusEvent
	watcherAlive bool

	// loop-owned state; touched only from the event loop goroutine.
	manager       *overlay.Manager
	resolver      *statusResolver
	mon           *monitor.Monitor
	unsubscribe   func()
	settleCancel  overlay.CancelFunc
	initialCancel overlay.CancelFunc
	loopExit      bool

	calls chan func()
	done  chan struct{}
	wg    sync.WaitGroup
}

// Snapshot is the read-only view returned by [Session.Status].
type Snapshot struct {
	// Running reports whether the session is between Start and Stop.
	Running bool

	// LastStatus is the most recently displayed status.
	LastStatus Status

	// TargetHost is the monitored host.
	TargetHost string

	// WatcherAlive reports whether the topology watcher is still
	// delivering notifications.
	WatcherAlive bool

	// RawSignal is a best-effort live reading of the raw reachability
	// signal; RawValid is false if the reading failed or the session is
	// stopped.
	RawSignal probe.Signal
	RawValid  bool

	// OverlayDisplays are the IDs of displays currently carrying an
	// overlay, sorted.
	OverlayDisplays []string
}

// New creates a [Session] from the given options.
//
// A target host ([WithTargetHost]) is required unless a custom checker is
// supplied with [WithChecker]. Everything else has defaults; see the
// individual options.
func New(opts ...Option) (*Session, error) {
	cfg := &sessionConfig{
		policy:            AllDisplays(),
		barHeight:         defaultBarHeight,
		barYOffset:        defaultBarYOffset,
		padding:           defaultPadding,
		shadow:            display.Shadow{Size: 4, OffsetY: 2, Alpha: 0.3},
		fade:              defaultFadeDuration,
		styles:            defaultStyles(),
		soundVolume:       defaultSoundVolume,
		probeInterval:     defaultProbeInterval,
		probeTimeout:      defaultProbeTimeout,
		initialCheckDelay: defaultInitialCheckDelay,
		settleDelay:       defaultSettleDelay,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.targetHost == "" && cfg.checker == nil {
		return nil, errors.New("a target host is required")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	displays := cfg.displays
	if displays == nil {
		displays = display.NewStaticProvider(display.Display{
			ID:      "main",
			Name:    "Main Display",
			Primary: true,
			Frame:   display.Rect{Width: 1920, Height: 1080},
		})
	}

	renderer := cfg.renderer
	if renderer == nil {
		renderer = display.NewLogRenderer(logger)
	}

	player := cfg.player
	if player == nil {
		player = sound.NopPlayer{}
	}

	focusSource := cfg.focus
	if focusSource == nil {
		focusSource = focus.Nop{}
	}

	return &Session{
		targetHost: cfg.targetHost,
		policy:     cfg.policy,
		geom: overlay.Geometry{
			BarHeight:         cfg.barHeight,
			BarYOffset:        cfg.barYOffset,
			HorizontalPadding: cfg.padding,
		},
		shadow:            cfg.shadow,
		fade:              cfg.fade,
		styles:            cfg.styles,
		soundEnabled:      cfg.soundEnabled,
		soundVolume:       cfg.soundVolume,
		probeInterval:     cfg.probeInterval,
		probeTimeout:      cfg.probeTimeout,
		initialCheckDelay: cfg.initialCheckDelay,
		settleDelay:       cfg.settleDelay,
		logger:            logger,
		displays:          displays,
		renderer:          renderer,
		player:            player,
		focus:             focusSource,
		checker:           cfg.checker,
		callbacks:         cfg.callbacks,
		lastStatus:        StatusUnknown,
	}, nil
}

// Start establishes the reachability probe, presents the initial "unknown"
// overlay on the targeted displays, starts the topology watcher, and
// schedules the delayed initial reachability check.
//
// Start fails fast if the session is already running, if the target host
// is invalid, or if the probe cannot be established. A stopped session can
// be started again.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("session already running")
	}

	checker := s.checker
	if checker == nil {
		nc, err := probe.NewNetChecker(s.targetHost, s.probeTimeout)
		if err != nil {
			return fmt.Errorf("establish probe: %w", err)
		}
		checker = nc
	}

	mon := monitor.New(checker, s.probeInterval, s.logger)
	if err := mon.Start(context.Background()); err != nil {
		return fmt.Errorf("establish probe: %w", err)
	}

	changes, unsubscribe := s.displays.Subscribe()

	s.mon = mon
	s.unsubscribe = unsubscribe
	s.calls = make(chan func(), 128)
	s.done = make(chan struct{})
	s.loopExit = false
	s.settleCancel = nil
	s.initialCancel = nil
	s.resolver = newStatusResolver()
	s.manager = overlay.NewManager(
		s.renderer,
		loopScheduler{s},
		sessionAlerter{s},
		s.geom,
		s.shadow,
		s.fade,
		s.logger,
	)
	s.running = true
	s.lastStatus = StatusUnknown
	s.lastEvent = nil
	s.watcherAlive = true

	s.wg.Add(3)
	go s.loop()
	go s.pumpSignals(mon.Signals())
	go s.pumpTopology(changes)

	s.post(func() {
		s.presentStatus(StatusEvent{Status: StatusUnknown, ObservedAt: time.Now()})
		s.initialCancel = s.after(s.initialCheckDelay, s.initialCheck)
	})

	s.logger.Info("session started",
		"target_host", s.targetHost,
		"policy", s.policy.String(),
		"probe_interval", s.probeInterval.String(),
	)
	return nil
}

// Stop tears the session down: the reachability probe and topology watcher
// stop, every fade timer is cancelled, and every overlay is destroyed
// before Stop returns. Status memory resets to unknown.
//
// Stopping a session that is not running logs a warning and does nothing.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.logger.Warn("stop called on a stopped session")
		return
	}
	s.running = false
	s.watcherAlive = false
	mon := s.mon
	unsubscribe := s.unsubscribe
	s.mu.Unlock()

	// teardown runs on the loop so it cannot interleave with a pipeline
	// run; the ack guarantees zero overlays and zero timers remain before
	// Stop returns. The status-memory reset happens here, after any
	// already-queued observation has drained, so it is the final write.
	ack := make(chan struct{})
	s.post(func() {
		if s.settleCancel != nil {
			s.settleCancel()
			s.settleCancel = nil
		}
		if s.initialCancel != nil {
			s.initialCancel()
			s.initialCancel = nil
		}
		s.manager.Close()
		s.mu.Lock()
		s.lastStatus = StatusUnknown
		s.lastEvent = nil
		s.mu.Unlock()
		s.loopExit = true
		close(ack)
	})
	<-ack

	mon.Stop()
	unsubscribe()
	s.wg.Wait()

	s.logger.Info("session stopped")
}

// Status returns a point-in-time view of the session.
//
// The raw signal is a live best-effort reading; taking it may block for up
// to the probe timeout. All failures are tolerated and reported through
// the RawValid flag.
func (s *Session) Status() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Running:      s.running,
		LastStatus:   s.lastStatus,
		TargetHost:   s.targetHost,
		WatcherAlive: s.watcherAlive,
	}
	mon := s.mon
	running := s.running
	s.mu.Unlock()

	if !running {
		return snap
	}

	reply := make(chan []string, 1)
	s.post(func() { reply <- s.manager.Tracked() })
	select {
	case ids := <-reply:
		snap.OverlayDisplays = ids
	case <-s.done:
	}

	if mon != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.probeTimeout+time.Second)
		defer cancel()
		if sig, err := mon.Status(ctx); err == nil {
			snap.RawSignal = sig
			snap.RawValid = true
		} else {
			s.logger.Debug("raw signal query failed", "error", err)
		}
	}

	return snap
}

// loop is the session's event loop: every callback in the system funnels
// through here as a closure, executing strictly one at a time.
func (s *Session) loop() {
	defer s.wg.Done()
	defer close(s.done)

	for fn := range s.calls {
		fn()
		if s.loopExit {
			return
		}
	}
}

// post queues a closure onto the event loop. Posts racing a stopped loop
// are discarded.
func (s *Session) post(fn func()) {
	select {
	case s.calls <- fn:
	case <-s.done:
	}
}

// after schedules fn to run on the event loop once d elapses. The returned
// cancel makes a timer that already fired but has not yet executed a
// no-op, so a cancelled callback never runs.
func (s *Session) after(d time.Duration, fn func()) overlay.CancelFunc {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		s.post(func() {
			if cancelled.Load() {
				return
			}
			fn()
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// pumpSignals forwards raw signal changes from the monitor onto the loop.
func (s *Session) pumpSignals(signals <-chan monitor.Observation) {
	defer s.wg.Done()
	for obs := range signals {
		obs := obs
		s.post(func() { s.handleObservation(obs) })
	}
}

// pumpTopology forwards topology-change notifications onto the loop.
func (s *Session) pumpTopology(changes <-chan struct{}) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		s.watcherAlive = false
		s.mu.Unlock()
	}()
	for range changes {
		s.post(s.handleTopologyChange)
	}
}

// handleObservation resolves a raw reading and, on an actual transition,
// runs the present pipeline. Runs on the loop.
func (s *Session) handleObservation(obs monitor.Observation) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		// an observation queued before Stop flipped running must not
		// present or fire callbacks mid-teardown
		return
	}

	ev, changed := s.resolver.resolve(obs.Signal, obs.Valid, obs.At)
	if !changed {
		return
	}

	s.mu.Lock()
	s.lastStatus = ev.Status
	evCopy := ev
	s.lastEvent = &evCopy
	s.mu.Unlock()

	s.logger.Info("status changed", "status", ev.Status.String(), "signal", ev.Raw.String())

	s.presentStatus(ev)
	s.notifyCallbacks(ev)
}

// presentStatus renders one status across the resolved target displays and
// retires overlays on displays that left the target set. Runs on the loop.
func (s *Session) presentStatus(ev StatusEvent) {
	targets := s.resolveTargets()

	style := s.styles[ev.Status]
	ap := overlay.Appearance{Color: style.Color, HideAfter: style.HideAfter}
	if s.soundEnabled {
		ap.Sound = style.Sound
	}

	targeted := make(map[string]bool, len(targets))
	for _, d := range targets {
		targeted[d.ID] = true
		if err := s.manager.Present(d, ap); err != nil {
			// one bad display never aborts the rest
			s.logger.Error("present overlay failed", "display", d.ID, "error", err)
		}
	}

	for _, id := range s.manager.Tracked() {
		if !targeted[id] {
			s.manager.Retire(id)
		}
	}
}

// resolveTargets applies the display policy to the current topology.
func (s *Session) resolveTargets() []display.Display {
	all, err := s.displays.Displays()
	if err != nil {
		s.logger.Error("display enumeration failed", "error", err)
		return nil
	}

	targets := s.policy.Resolve(all)
	if len(targets) == 0 {
		s.logger.Warn("display policy resolved no displays", "policy", s.policy.String())
	}
	return targets
}

// handleTopologyChange retires everything and schedules the rebuild after
// the settle delay. Runs on the loop.
func (s *Session) handleTopologyChange() {
	s.logger.Info("display topology changed")

	if s.settleCancel != nil {
		s.settleCancel()
	}

	s.manager.RetireAll()

	s.settleCancel = s.after(s.settleDelay, func() {
		s.settleCancel = nil

		s.mu.Lock()
		ev := s.lastEvent
		s.mu.Unlock()
		if ev == nil {
			return
		}
		s.presentStatus(*ev)
	})
}

// initialCheck takes the one-shot reading scheduled at start. The network
// round trip happens off-loop; only the result re-enters the loop.
func (s *Session) initialCheck() {
	s.initialCancel = nil

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.probeTimeout+time.Second)
		defer cancel()

		sig, err := s.mon.Status(ctx)
		if err != nil {
			s.logger.Warn("initial reachability check failed", "error", err)
			return
		}

		at := time.Now()
		s.post(func() {
			s.handleObservation(monitor.Observation{Signal: sig, Valid: true, At: at})
		})
	}()
}

// notifyCallbacks invokes registered status callbacks with panic recovery.
func (s *Session) notifyCallbacks(ev StatusEvent) {
	for _, cb := range s.callbacks {
		s.invokeCallbackSafe(cb, ev)
	}
}

// invokeCallbackSafe calls a status callback, converting a panic into a
// log entry with a correlation ID.
func (s *Session) invokeCallbackSafe(cb func(StatusEvent), ev StatusEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("status callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(ev)
}

// loopScheduler adapts the session's loop timers to the overlay manager's
// scheduler interface.
type loopScheduler struct {
	s *Session
}

func (ls loopScheduler) After(d time.Duration, fn func()) overlay.CancelFunc {
	return ls.s.after(d, fn)
}

// sessionAlerter gates alert sounds on the focus signal and plays them
// through the configured player. Playback failures are logged, never fatal.
type sessionAlerter struct {
	s *Session
}

func (a sessionAlerter) Alert(name string) {
	s := a.s

	if s.focus.Focused() {
		s.logger.Debug("alert suppressed by focus", "sound", name)
		return
	}

	chime, ok := sound.Resolve(name)
	if !ok {
		s.logger.Warn("unknown alert sound", "sound", name)
		return
	}

	if err := s.player.Play(chime, s.soundVolume); err != nil {
		s.logger.Warn("alert playback failed", "sound", name, "error", err)
	}
}
