package overlay

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	// animFPS is the animation step rate. Opacity fades are coarse enough
	// that 60 steps per second is indistinguishable from continuous.
	animFPS = 60

	// animEpsilon is the position/velocity threshold below which a spring
	// is considered settled.
	animEpsilon = 0.005
)

var animFrame = time.Second / animFPS

// springFrequency maps a desired fade duration onto the angular frequency
// of a critically damped spring that settles within roughly that time.
func springFrequency(fade time.Duration) float64 {
	// a critically damped spring reaches ~1% of its travel at ω·t ≈ 6.6
	return 6.6 / fade.Seconds()
}

// animate drives the overlay's opacity toward target using a critically
// damped spring, stepping on the scheduler. Any animation already running
// on the overlay is replaced. onDone, if non-nil, runs once the spring
// settles; it never runs for a superseded animation.
//
// A zero fade duration snaps to the target immediately.
func (m *Manager) animate(o *Overlay, target float64, onDone func()) {
	o.stopAnimation()

	if m.fade <= 0 {
		o.alpha, o.velocity = target, 0
		o.canvas.SetAlpha(target)
		if onDone != nil {
			onDone()
		}
		return
	}

	spring := harmonica.NewSpring(harmonica.FPS(animFPS), springFrequency(m.fade), 1.0)

	var step func()
	step = func() {
		o.alpha, o.velocity = spring.Update(o.alpha, o.velocity, target)

		if math.Abs(o.alpha-target) < animEpsilon && math.Abs(o.velocity) < animEpsilon {
			o.alpha, o.velocity = target, 0
			o.canvas.SetAlpha(target)
			o.anim = nil
			if onDone != nil {
				onDone()
			}
			return
		}

		o.canvas.SetAlpha(clampAlpha(o.alpha))
		o.anim = m.sched.After(animFrame, step)
	}

	o.anim = m.sched.After(animFrame, step)
}

func clampAlpha(a float64) float64 {
	switch {
	case a < 0:
		return 0
	case a > 1:
		return 1
	default:
		return a
	}
}
