package linkbar

import (
	"time"

	"github.com/avernet/linkbar/probe"
)

// Status is the debounced reachability state of the target host.
//
// Status is a string type that holds one of three predefined values:
// [StatusReachable], [StatusUnreachable], or [StatusUnknown]. Using a
// string type gives human-readable logging and easy serialization while
// keeping type safety through the defined constants.
type Status string

const (
	// StatusReachable indicates the target host answered the probe.
	StatusReachable Status = "reachable"

	// StatusUnreachable indicates the target host did not answer, or the
	// raw reading could not be taken (assume-the-worst policy).
	StatusUnreachable Status = "unreachable"

	// StatusUnknown is the state before the first resolved reading of a
	// session. It never recurs once a reading has been resolved.
	StatusUnknown Status = "unknown"
)

// String returns the string representation of the status.
// This implements the fmt.Stringer interface.
func (s Status) String() string {
	return string(s)
}

// StatusEvent is one debounced status transition.
//
// Events are produced by the session's resolver only when the resolved
// status differs from the previously emitted one; repeated identical raw
// readings never become events. Only the most recent event is retained.
type StatusEvent struct {
	// Status is the resolved reachability state.
	Status Status

	// ObservedAt is when the underlying raw reading was taken.
	ObservedAt time.Time

	// Raw is the raw signal flag set behind the transition.
	Raw probe.Signal

	// RawValid is false when the raw reading could not be taken and the
	// status was degraded to unreachable.
	RawValid bool
}
