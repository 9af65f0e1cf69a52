// Package focus models the optional focus / do-not-disturb capability.
//
// Hosts that can read the user's focus state supply a [Source]; everyone
// else gets [Nop], which reports unfocused so that alert sounds proceed.
// Absence of the capability is never an error.
package focus

// Source reports whether the user is currently in a focus / do-not-disturb
// state. Implementations must be safe for concurrent use.
type Source interface {
	Focused() bool
}

// SourceFunc adapts a function to the [Source] interface.
type SourceFunc func() bool

// Focused calls f.
func (f SourceFunc) Focused() bool { return f() }

// Nop is the default [Source]; it always reports unfocused.
type Nop struct{}

// Focused returns false.
func (Nop) Focused() bool { return false }
