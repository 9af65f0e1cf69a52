package linkbar

import (
	"time"

	"github.com/avernet/linkbar/probe"
)

// statusResolver turns raw reachability readings into debounced status
// transitions.
//
// The decision rule is deliberately blunt: reachable if and only if the
// reachable flag is set on a valid reading. An invalid or malformed
// reading resolves to unreachable rather than producing an error; the
// resolver degrades, it never fails. Finer flag combinations
// (connection-required, transient, intervention-required) are carried on
// the event for observers but do not influence the decision.
type statusResolver struct {
	last Status
}

// newStatusResolver starts with [StatusUnknown] as the last emitted status,
// independent of any previous session.
func newStatusResolver() *statusResolver {
	return &statusResolver{last: StatusUnknown}
}

// resolve maps one raw reading to a status and applies the debounce rule:
// the second return is true only when the resolved status differs from the
// previously emitted one. Readings that resolve to the same status are
// discarded silently.
func (r *statusResolver) resolve(raw probe.Signal, valid bool, at time.Time) (StatusEvent, bool) {
	status := StatusUnreachable
	if valid && raw.Reachable() {
		status = StatusReachable
	}

	if status == r.last {
		return StatusEvent{}, false
	}
	r.last = status

	return StatusEvent{
		Status:     status,
		ObservedAt: at,
		Raw:        raw,
		RawValid:   valid,
	}, true
}

// lastEmitted returns the most recently emitted status.
func (r *statusResolver) lastEmitted() Status {
	return r.last
}
