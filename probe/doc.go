// Package probe defines the reachability measurement boundary: the raw
// [Signal] flag set, the [Checker] interface that produces one reading, and
// the default TCP-dial [NetChecker].
//
// The continuous monitoring loop that turns single readings into a stream
// of raw signal changes lives in internal/monitor; hosts only ever supply a
// Checker.
package probe
