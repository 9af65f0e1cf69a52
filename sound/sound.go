// Package sound resolves named alert sounds and plays them.
//
// Alerts are short synthesized chimes rather than sound files, which keeps
// the library free of asset loading. [Resolve] maps a configured name to a
// [Chime]; a [Player] turns the chime into audio. [TonePlayer] synthesizes
// through the system audio device, [NopPlayer] discards everything.
package sound

import "time"

// Chime is a resolved alert sound: a pure tone with a fixed pitch and
// length, shaped by a decay envelope at playback time.
type Chime struct {
	Name      string
	Frequency float64
	Duration  time.Duration
}

// chimes is the built-in alert registry.
var chimes = map[string]Chime{
	"ping": {Name: "ping", Frequency: 880, Duration: 180 * time.Millisecond},
	"pop":  {Name: "pop", Frequency: 523.25, Duration: 120 * time.Millisecond},
	"blip": {Name: "blip", Frequency: 1318.5, Duration: 90 * time.Millisecond},
	"buzz": {Name: "buzz", Frequency: 220, Duration: 350 * time.Millisecond},
}

// Resolve looks up a named chime. The second return is false for unknown
// names; callers are expected to log and continue rather than fail.
func Resolve(name string) (Chime, bool) {
	c, ok := chimes[name]
	return c, ok
}

// Names returns the registered chime names, unordered.
func Names() []string {
	out := make([]string, 0, len(chimes))
	for name := range chimes {
		out = append(out, name)
	}
	return out
}

// Player plays chimes. Play must not block on audio completion; a failure
// to play is reported as an error and is never fatal to the caller.
type Player interface {
	Play(chime Chime, volume float64) error
	Close() error
}

// NopPlayer is a [Player] that discards everything. It is the default
// player, used when sound alerts are disabled or no audio device exists.
type NopPlayer struct{}

// Play does nothing.
func (NopPlayer) Play(Chime, float64) error { return nil }

// Close does nothing.
func (NopPlayer) Close() error { return nil }
