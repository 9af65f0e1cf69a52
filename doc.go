// Package linkbar reflects the reachability of a network endpoint as a
// transient colored bar across one or more displays.
//
// A [Session] continuously probes one target host, debounces the raw
// reachability signal into a three-valued status (reachable, unreachable,
// unknown), and on each transition presents a bar overlay on every display
// selected by the configured [Policy]. Overlays fade in, optionally hide
// after a per-status delay, and survive display-topology changes: when the
// topology shifts, everything is retired and rebuilt once the platform has
// settled.
//
// # Quick Start
//
//	s, err := linkbar.New(linkbar.WithTargetHost("1.1.1.1"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
//
// # Configuration
//
// Sessions use the functional options pattern:
//
//	s, err := linkbar.New(
//	    linkbar.WithTargetHost("vpn.example.com:443"),
//	    linkbar.WithDisplayPolicy(linkbar.MatchDisplays("Dell")),
//	    linkbar.WithBarHeight(8),
//	    linkbar.WithSoundEnabled(true),
//	)
//
// Per-status colors, hide delays, and alert sounds are set with
// [WithStatusStyle]; the probed port rides on the target host ("host:port").
//
// # Collaborators
//
// Platform-specific concerns sit behind small interfaces with working
// defaults, so the library runs headless out of the box:
//
//   - display.Provider / display.Renderer: topology enumeration and the
//     rectangle-painting primitive (defaults: a static single display and a
//     logging renderer)
//   - probe.Checker: one reachability measurement (default: TCP dial)
//   - sound.Player: alert chime playback (default: silent)
//   - focus.Source: focus / do-not-disturb gating (default: unfocused)
//
// # Concurrency
//
// All session state is owned by a single event loop. Probe signals,
// topology notifications, fade timers, and animation frames are queued
// onto that loop and processed strictly in order; a status transition and
// a topology rebuild never interleave. [Session.Stop] synchronously
// cancels every timer and destroys every overlay before returning.
package linkbar
