// Package monitor runs the continuous reachability polling loop.
//
// A [Monitor] wraps a probe.Checker, polls it at a fixed interval, and
// emits raw signal changes on a channel. Deduplication here is purely at
// the raw-signal level; status-level debouncing happens in the session's
// resolver.
//
// This package is internal; library users configure probing through the
// main linkbar package.
package monitor
