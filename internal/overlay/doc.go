// Package overlay owns the per-display overlay lifecycle: creation,
// fade-in, delayed hiding, retirement, and teardown.
//
// The central invariant is one overlay and at most one fade timer per
// display ID. Presenting a display always replaces both atomically from
// the caller's point of view: cancel timer, destroy old overlay, create
// new, re-arm. Opacity transitions run as critically damped spring
// animations stepped on the caller-supplied [Scheduler], so everything the
// manager does happens on one event loop.
//
// This package is internal; library users drive it through the session in
// the main linkbar package.
package overlay
