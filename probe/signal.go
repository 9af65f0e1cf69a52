package probe

import "strings"

// Signal is the raw reachability flag set reported by a [Checker].
//
// The zero value carries no flags and reads as "not reachable". Auxiliary
// flags qualify the reading but do not affect the reachable/unreachable
// decision made downstream.
type Signal uint32

const (
	// FlagReachable is set when the target host answered the probe.
	FlagReachable Signal = 1 << iota

	// FlagConnectionRequired indicates a connection (VPN, dial-up, captive
	// portal) must be established before the target becomes reachable.
	FlagConnectionRequired

	// FlagTransient marks a reading taken during a state the checker
	// believes is momentary, such as a dial timeout on a congested link.
	FlagTransient

	// FlagInterventionRequired indicates user action is needed before the
	// target can be reached.
	FlagInterventionRequired
)

// Has reports whether every flag in mask is set.
func (s Signal) Has(mask Signal) bool {
	return s&mask == mask
}

// Reachable reports whether the reachable flag is set.
func (s Signal) Reachable() bool {
	return s.Has(FlagReachable)
}

// String renders the flag set as a pipe-separated list, or "none".
func (s Signal) String() string {
	if s == 0 {
		return "none"
	}

	var parts []string
	for _, f := range []struct {
		flag Signal
		name string
	}{
		{FlagReachable, "reachable"},
		{FlagConnectionRequired, "connection-required"},
		{FlagTransient, "transient"},
		{FlagInterventionRequired, "intervention-required"},
	} {
		if s.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}
