package linkbar

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avernet/linkbar/colorx"
	"github.com/avernet/linkbar/display"
	"github.com/avernet/linkbar/focus"
	"github.com/avernet/linkbar/probe"
	"github.com/avernet/linkbar/sound"
)

const (
	defaultProbeInterval     = 5 * time.Second
	defaultProbeTimeout      = 2 * time.Second
	defaultInitialCheckDelay = 1 * time.Second
	defaultSettleDelay       = 2 * time.Second
	defaultFadeDuration      = 300 * time.Millisecond
	defaultBarHeight         = 6.0
	defaultBarYOffset        = 0.0
	defaultPadding           = 0.0
	defaultSoundVolume       = 0.7
)

// StatusStyle is the per-status overlay appearance.
type StatusStyle struct {
	// Color is the bar color for this status.
	Color colorx.Color

	// HideAfter is how long the bar stays before fading out. Zero keeps
	// the bar visible until the next transition.
	HideAfter time.Duration

	// Sound is the alert chime name played on transition into this
	// status. Empty means silent.
	Sound string
}

// defaultStyles returns the built-in per-status appearance.
func defaultStyles() map[Status]StatusStyle {
	return map[Status]StatusStyle{
		StatusReachable:   {Color: mustColor("green"), HideAfter: 3 * time.Second, Sound: "ping"},
		StatusUnreachable: {Color: mustColor("red"), HideAfter: 0, Sound: "buzz"},
		StatusUnknown:     {Color: mustColor("yellow"), HideAfter: 2 * time.Second},
	}
}

// DefaultStatusStyle returns the built-in appearance for a status. The
// zero value is returned for unknown statuses.
func DefaultStatusStyle(status Status) StatusStyle {
	return defaultStyles()[status]
}

func mustColor(name string) colorx.Color {
	c, err := colorx.Parse(name)
	if err != nil {
		panic("linkbar: bad built-in color " + name + ": " + err.Error())
	}
	return c
}

// sessionConfig holds mutable state during Session construction.
type sessionConfig struct {
	targetHost string
	policy     Policy

	barHeight  float64
	barYOffset float64
	padding    float64
	shadow     display.Shadow
	fade       time.Duration

	styles       map[Status]StatusStyle
	soundEnabled bool
	soundVolume  float64

	probeInterval     time.Duration
	probeTimeout      time.Duration
	initialCheckDelay time.Duration
	settleDelay       time.Duration

	logger    *slog.Logger
	displays  display.Provider
	renderer  display.Renderer
	player    sound.Player
	focus     focus.Source
	checker   probe.Checker
	callbacks []func(StatusEvent)
}

// Option configures a [Session] during construction.
//
// Option implements the functional options pattern; options return an
// error when validation fails, surfaced from [New].
type Option func(*sessionConfig) error

// WithTargetHost sets the host whose reachability is monitored. Required
// unless a custom checker is supplied with [WithChecker]. The host may
// carry an explicit ":port"; without one, port 443 is probed.
func WithTargetHost(host string) Option {
	return func(cfg *sessionConfig) error {
		if host == "" {
			return errors.New("target host cannot be empty")
		}
		cfg.targetHost = host
		return nil
	}
}

// WithDisplayPolicy sets which displays receive overlays.
// Defaults to [AllDisplays].
func WithDisplayPolicy(p Policy) Option {
	return func(cfg *sessionConfig) error {
		switch p.Kind {
		case PolicyAll, PolicyMain:
		case PolicyMatch:
			if p.Substring == "" {
				return errors.New("match policy requires a substring")
			}
		default:
			return fmt.Errorf("unknown policy kind %q", p.Kind)
		}
		cfg.policy = p
		return nil
	}
}

// WithBarHeight sets the bar thickness in points. Defaults to 6.
func WithBarHeight(h float64) Option {
	return func(cfg *sessionConfig) error {
		if h < 0 {
			return errors.New("bar height cannot be negative")
		}
		cfg.barHeight = h
		return nil
	}
}

// WithBarYOffset shifts the bar down from each display's top edge.
// Defaults to 0.
func WithBarYOffset(y float64) Option {
	return func(cfg *sessionConfig) error {
		if y < 0 {
			return errors.New("bar y offset cannot be negative")
		}
		cfg.barYOffset = y
		return nil
	}
}

// WithHorizontalPadding insets the bar symmetrically from both side edges.
// Defaults to 0.
func WithHorizontalPadding(p float64) Option {
	return func(cfg *sessionConfig) error {
		if p < 0 {
			return errors.New("horizontal padding cannot be negative")
		}
		cfg.padding = p
		return nil
	}
}

// WithShadow configures the drop shadow under the bar. A zero size
// disables it. The alpha is clamped to [0, 1].
func WithShadow(size, offsetY, alpha float64) Option {
	return func(cfg *sessionConfig) error {
		if size < 0 {
			return errors.New("shadow size cannot be negative")
		}
		if alpha < 0 {
			alpha = 0
		}
		if alpha > 1 {
			alpha = 1
		}
		cfg.shadow = display.Shadow{Size: size, OffsetY: offsetY, Alpha: alpha}
		return nil
	}
}

// WithFadeDuration sets the length of entrance and exit opacity fades.
// Zero makes overlays appear and disappear instantly. Defaults to 300ms.
func WithFadeDuration(d time.Duration) Option {
	return func(cfg *sessionConfig) error {
		if d < 0 {
			return errors.New("fade duration cannot be negative")
		}
		cfg.fade = d
		return nil
	}
}

// WithStatusStyle overrides the appearance for one status.
func WithStatusStyle(status Status, style StatusStyle) Option {
	return func(cfg *sessionConfig) error {
		switch status {
		case StatusReachable, StatusUnreachable, StatusUnknown:
		default:
			return fmt.Errorf("unknown status %q", status)
		}
		if style.HideAfter < 0 {
			return errors.New("hide delay cannot be negative")
		}
		if style.Sound != "" {
			if _, ok := sound.Resolve(style.Sound); !ok {
				return fmt.Errorf("unknown sound %q", style.Sound)
			}
		}
		cfg.styles[status] = style
		return nil
	}
}

// WithSoundEnabled enables or disables alert sounds. Disabled by default.
func WithSoundEnabled(enabled bool) Option {
	return func(cfg *sessionConfig) error {
		cfg.soundEnabled = enabled
		return nil
	}
}

// WithSoundVolume sets the alert volume in [0, 1]. Defaults to 0.7.
func WithSoundVolume(v float64) Option {
	return func(cfg *sessionConfig) error {
		if v < 0 || v > 1 {
			return errors.New("sound volume must be between 0 and 1")
		}
		cfg.soundVolume = v
		return nil
	}
}

// WithProbeInterval sets how often reachability is measured.
// Defaults to 5 seconds.
func WithProbeInterval(d time.Duration) Option {
	return func(cfg *sessionConfig) error {
		if d <= 0 {
			return errors.New("probe interval must be positive")
		}
		cfg.probeInterval = d
		return nil
	}
}

// WithProbeTimeout sets the per-measurement timeout. Defaults to 2 seconds.
func WithProbeTimeout(d time.Duration) Option {
	return func(cfg *sessionConfig) error {
		if d <= 0 {
			return errors.New("probe timeout must be positive")
		}
		cfg.probeTimeout = d
		return nil
	}
}

// WithInitialCheckDelay sets the one-shot delay between session start and
// the first on-demand reachability check, giving the probe time to settle.
// Defaults to 1 second.
func WithInitialCheckDelay(d time.Duration) Option {
	return func(cfg *sessionConfig) error {
		if d < 0 {
			return errors.New("initial check delay cannot be negative")
		}
		cfg.initialCheckDelay = d
		return nil
	}
}

// WithSettleDelay sets the pause between a topology change and the overlay
// rebuild, letting the platform finish reporting the new topology.
// Defaults to 2 seconds.
func WithSettleDelay(d time.Duration) Option {
	return func(cfg *sessionConfig) error {
		if d < 0 {
			return errors.New("settle delay cannot be negative")
		}
		cfg.settleDelay = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *sessionConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithDisplayProvider sets the display topology source. Defaults to a
// [display.StaticProvider] holding a single 1920x1080 primary display.
func WithDisplayProvider(p display.Provider) Option {
	return func(cfg *sessionConfig) error {
		if p == nil {
			return errors.New("display provider cannot be nil")
		}
		cfg.displays = p
		return nil
	}
}

// WithRenderer sets the overlay painting backend. Defaults to the headless
// [display.LogRenderer].
func WithRenderer(r display.Renderer) Option {
	return func(cfg *sessionConfig) error {
		if r == nil {
			return errors.New("renderer cannot be nil")
		}
		cfg.renderer = r
		return nil
	}
}

// WithSoundPlayer sets the audio backend used for alert chimes. Defaults
// to [sound.NopPlayer]; the CLI wires [sound.TonePlayer] when sound is
// enabled.
func WithSoundPlayer(p sound.Player) Option {
	return func(cfg *sessionConfig) error {
		if p == nil {
			return errors.New("sound player cannot be nil")
		}
		cfg.player = p
		return nil
	}
}

// WithFocusSource sets the focus / do-not-disturb capability. Defaults to
// [focus.Nop], which reports unfocused so alerts proceed.
func WithFocusSource(s focus.Source) Option {
	return func(cfg *sessionConfig) error {
		if s == nil {
			return errors.New("focus source cannot be nil")
		}
		cfg.focus = s
		return nil
	}
}

// WithChecker replaces the default TCP-dial checker with a custom
// reachability measurement. When set, [WithTargetHost] is optional and
// only informational.
func WithChecker(c probe.Checker) Option {
	return func(cfg *sessionConfig) error {
		if c == nil {
			return errors.New("checker cannot be nil")
		}
		cfg.checker = c
		return nil
	}
}

// WithStatusCallback registers a function invoked on every debounced
// status transition, after overlays have been updated.
//
// Callbacks run on the session's event loop and must not block; panics are
// recovered and logged with a correlation ID. Multiple callbacks run in
// registration order. Nil callbacks are ignored.
func WithStatusCallback(cb func(StatusEvent)) Option {
	return func(cfg *sessionConfig) error {
		if cb == nil {
			return nil
		}
		cfg.callbacks = append(cfg.callbacks, cb)
		return nil
	}
}
