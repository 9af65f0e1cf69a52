package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/avernet/linkbar/probe"
)

// Observation is one raw reachability reading.
//
// Valid is false when the underlying check could not run; in that case
// Signal is zero and Err carries the cause. Consumers are expected to treat
// an invalid reading pessimistically.
type Observation struct {
	// Signal is the raw flag set reported by the checker.
	Signal probe.Signal

	// Valid is false if the check itself failed to run.
	Valid bool

	// At is when the reading was taken.
	At time.Time

	// Err is the check failure when Valid is false, nil otherwise.
	Err error
}

// Monitor polls a [probe.Checker] at a fixed interval and emits an
// [Observation] whenever the raw reading changes.
//
// Identical consecutive readings are suppressed at the raw-signal level so
// the emission stream carries changes only; a chatty or steady probe
// produces no traffic. Lifecycle methods are safe for concurrent use.
type Monitor struct {
	checker  probe.Checker
	interval time.Duration
	logger   *slog.Logger

	signals chan Observation
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once

	last    probe.Signal
	lastOK  bool
	hasLast bool
}

// New creates a [Monitor]. The checker must be non-nil and the interval
// positive; violations surface from [Monitor.Start].
func New(checker probe.Checker, interval time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
		logger:   logger,
		signals:  make(chan Observation, 8),
	}
}

// Signals returns the channel of raw signal changes. The channel is closed
// when the monitor stops.
func (m *Monitor) Signals() <-chan Observation {
	return m.signals
}

// Start begins the polling loop in a background goroutine.
//
// The first check runs immediately so a change from the initial state is
// observed without waiting a full interval. Start fails if the monitor is
// misconfigured or was already started or stopped.
func (m *Monitor) Start(ctx context.Context) error {
	if m.checker == nil {
		return errors.New("monitor: checker is required")
	}
	if m.interval <= 0 {
		return errors.New("monitor: interval must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return errors.New("monitor: already started")
	}
	if m.stopped {
		return errors.New("monitor: already stopped")
	}
	m.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	runCtx := m.ctx

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.closeOnce.Do(func() { close(m.signals) })

		m.observe(runCtx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				m.observe(runCtx)
			}
		}
	}()

	return nil
}

// Stop halts the polling loop and waits for it to exit.
// Stop is idempotent and safe to call before Start.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.stopped {
		m.stopped = true
		if m.cancel != nil {
			m.cancel()
		}
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.closeOnce.Do(func() { close(m.signals) })
}

// Status performs one on-demand check, bypassing the change suppression.
// It does not feed the signal stream.
func (m *Monitor) Status(ctx context.Context) (probe.Signal, error) {
	return m.checker.Check(ctx)
}

// observe takes one reading and emits it if it differs from the previous one.
func (m *Monitor) observe(ctx context.Context) {
	sig, err := m.checker.Check(ctx)
	if ctx.Err() != nil {
		return
	}

	obs := Observation{Signal: sig, Valid: err == nil, At: time.Now(), Err: err}
	if err != nil {
		obs.Signal = 0
		m.logger.Warn("reachability check failed", "error", err)
	}

	m.mu.Lock()
	changed := !m.hasLast || obs.Signal != m.last || obs.Valid != m.lastOK
	m.last, m.lastOK, m.hasLast = obs.Signal, obs.Valid, true
	m.mu.Unlock()

	if !changed {
		return
	}

	select {
	case m.signals <- obs:
	case <-ctx.Done():
	}
}
