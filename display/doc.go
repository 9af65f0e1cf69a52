// Package display models the display topology boundary: display handles
// with geometry, topology enumeration and change subscription, and the
// rectangle-painting primitive overlays are drawn with.
//
// The package deliberately contains no platform bindings. Embedding hosts
// supply a [Provider] and [Renderer] for their windowing system; the
// in-memory [StaticProvider] and logging [LogRenderer] cover tests and
// headless use.
package display
