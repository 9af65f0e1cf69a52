package sound

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const toneSampleRate = 44100

// TonePlayer synthesizes chimes through the system audio device.
//
// One oto context is shared for the player's lifetime; each Play creates a
// short-lived stream player for the synthesized tone and releases it after
// the tone finishes. Play returns as soon as playback has started.
type TonePlayer struct {
	ctx *oto.Context

	mu     sync.Mutex
	closed bool
}

// NewTonePlayer opens the system audio device.
//
// Returns an error when no audio device is available; callers are expected
// to fall back to [NopPlayer] in that case.
func NewTonePlayer() (*TonePlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   toneSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &TonePlayer{ctx: ctx}, nil
}

// Play starts the chime asynchronously at the given volume (clamped to
// [0, 1]).
func (t *TonePlayer) Play(chime Chime, volume float64) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return fmt.Errorf("play %q: player closed", chime.Name)
	}
	t.mu.Unlock()

	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	p := t.ctx.NewPlayer(newToneReader(chime, volume))
	p.Play()

	// release the stream player once the tone has drained
	go func() {
		time.Sleep(chime.Duration + 100*time.Millisecond)
		_ = p.Close()
	}()

	return nil
}

// Close marks the player closed. The underlying audio context is process
// wide and stays open; subsequent Play calls fail.
func (t *TonePlayer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// toneReader streams a sine tone with an exponential decay envelope as
// little-endian float32 samples.
type toneReader struct {
	freq   float64
	volume float64
	total  int
	pos    int
}

func newToneReader(chime Chime, volume float64) *toneReader {
	return &toneReader{
		freq:   chime.Frequency,
		volume: volume,
		total:  int(float64(toneSampleRate) * chime.Duration.Seconds()),
	}
}

func (r *toneReader) Read(p []byte) (int, error) {
	if r.pos >= r.total {
		return 0, io.EOF
	}

	n := len(p) / 4
	if remaining := r.total - r.pos; n > remaining {
		n = remaining
	}

	for i := 0; i < n; i++ {
		t := float64(r.pos+i) / toneSampleRate
		envelope := math.Exp(-5 * float64(r.pos+i) / float64(r.total))
		sample := float32(r.volume * envelope * math.Sin(2*math.Pi*r.freq*t))
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(sample))
	}

	r.pos += n
	return n * 4, nil
}
