package overlay

import "time"

// CancelFunc revokes a scheduled callback. Calling it after the callback
// ran, or more than once, is a no-op.
type CancelFunc func()

// Scheduler schedules a callback after a delay.
//
// The manager relies on the scheduler for every deferred action it takes:
// fade timers and animation frames alike. The session supplies a scheduler
// that routes callbacks onto its event loop, which is what serializes all
// overlay mutation; the manager itself takes no locks.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
}
