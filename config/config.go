// Package config provides YAML configuration parsing for linkbar.
//
// This package enables running linkbar as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	target_host: vpn.example.com:443
//	display_policy: match:Dell
//	log_level: info
//
//	probe:
//	  interval: 5s
//	  timeout: 2s
//
//	bar:
//	  height: 6
//	  fade_duration: 300ms
//
//	statuses:
//	  reachable:
//	    color: green
//	    hide_after: 3s
//	    sound: ping
//	  unreachable:
//	    color: "#ff3b30"
//	    hide_after: 0s
//	    sound: buzz
//
//	sound:
//	  enabled: true
//	  volume: 0.7
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avernet/linkbar/colorx"
	"github.com/avernet/linkbar/sound"
)

// Config is the root configuration structure for linkbar.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// TargetHost is the monitored host, optionally with ":port".
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}.
	TargetHost string `yaml:"target_host"`

	// DisplayPolicy selects the decorated displays: "all", "main", or
	// "match:<substring>". An unparseable value falls back to "main" with
	// a warning at build time. Defaults to "all".
	DisplayPolicy string `yaml:"display_policy"`

	// LogLevel is the slog level: debug, info, warn, or error.
	// Defaults to info.
	LogLevel string `yaml:"log_level"`

	// Probe configures the reachability measurements.
	Probe ProbeConfig `yaml:"probe"`

	// Bar configures the overlay geometry and fades.
	Bar BarConfig `yaml:"bar"`

	// SettleDelay is the pause between a topology change and the overlay
	// rebuild. Defaults to 2s.
	SettleDelay Duration `yaml:"settle_delay"`

	// Statuses overrides per-status appearance.
	Statuses StatusesConfig `yaml:"statuses"`

	// Sound configures alert playback.
	Sound SoundConfig `yaml:"sound"`
}

// ProbeConfig tunes the reachability probe.
type ProbeConfig struct {
	// Interval between measurements. Defaults to 5s.
	Interval Duration `yaml:"interval"`

	// Timeout for one measurement. Defaults to 2s.
	Timeout Duration `yaml:"timeout"`

	// InitialCheckDelay before the first on-demand reading after start.
	// Defaults to 1s.
	InitialCheckDelay Duration `yaml:"initial_check_delay"`
}

// BarConfig places the overlay bar on each display.
type BarConfig struct {
	// Height is the bar thickness in points. Defaults to 6.
	Height *float64 `yaml:"height"`

	// YOffset shifts the bar down from the display's top edge.
	YOffset float64 `yaml:"y_offset"`

	// HorizontalPadding insets the bar symmetrically from both sides.
	HorizontalPadding float64 `yaml:"horizontal_padding"`

	// FadeDuration is the entrance/exit fade length. Defaults to 300ms.
	FadeDuration *Duration `yaml:"fade_duration"`

	// Shadow under the bar.
	Shadow ShadowConfig `yaml:"shadow"`
}

// ShadowConfig describes the drop shadow under the bar.
type ShadowConfig struct {
	Size    *float64 `yaml:"size"`
	OffsetY *float64 `yaml:"offset_y"`
	Alpha   *float64 `yaml:"alpha"`
}

// StatusesConfig holds the per-status appearance overrides.
type StatusesConfig struct {
	Reachable   *StatusStyleConfig `yaml:"reachable"`
	Unreachable *StatusStyleConfig `yaml:"unreachable"`
	Unknown     *StatusStyleConfig `yaml:"unknown"`
}

// StatusStyleConfig overrides the appearance for one status. Absent fields
// keep their built-in defaults.
type StatusStyleConfig struct {
	// Color is the bar color: a name, hex string, or {r, g, b, a} mapping.
	Color *Color `yaml:"color"`

	// HideAfter is how long the bar stays before fading out; "0s" keeps
	// it until the next transition.
	HideAfter *Duration `yaml:"hide_after"`

	// Sound is the alert chime name, or empty for silence.
	Sound *string `yaml:"sound"`
}

// SoundConfig controls alert playback.
type SoundConfig struct {
	// Enabled turns alert sounds on. Defaults to false.
	Enabled bool `yaml:"enabled"`

	// Volume in [0, 1]. Defaults to 0.7.
	Volume *float64 `yaml:"volume"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Color wraps colorx.Color for YAML unmarshalling.
//
// It supports two formats:
//
// Scalar (name or hex):
//
//	color: green
//	color: "#2ecc71"
//
// Structured components, each in [0, 1]:
//
//	color: {r: 0.18, g: 0.8, b: 0.44, a: 1.0}
type Color colorx.Color

// UnmarshalYAML implements yaml.Unmarshaler for Color.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		parsed, err := colorx.Parse(s)
		if err != nil {
			return err
		}
		*c = Color(parsed)
		return nil
	}

	if node.Kind == yaml.MappingNode {
		var raw struct {
			R float64  `yaml:"r"`
			G float64  `yaml:"g"`
			B float64  `yaml:"b"`
			A *float64 `yaml:"a"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		alpha := 1.0
		if raw.A != nil {
			alpha = *raw.A
		}
		*c = Color(colorx.FromComponents(raw.R, raw.G, raw.B, alpha))
		return nil
	}

	return fmt.Errorf("color must be a string or {r, g, b, a} mapping, got %v", node.Kind)
}

// Color returns the underlying colorx.Color value.
func (c Color) Color() colorx.Color {
	return colorx.Color(c)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the target host are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if strings.TrimSpace(c.TargetHost) == "" {
		return fmt.Errorf("target_host is required")
	}
	expanded, err := expandEnvVars(c.TargetHost)
	if err != nil {
		return fmt.Errorf("target_host: %w", err)
	}
	c.TargetHost = expanded

	if c.LogLevel != "" {
		switch strings.ToLower(c.LogLevel) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
		}
	}

	if c.Probe.Interval.Duration() < 0 {
		return fmt.Errorf("probe.interval cannot be negative, got %s", c.Probe.Interval.Duration())
	}
	if c.Probe.Timeout.Duration() < 0 {
		return fmt.Errorf("probe.timeout cannot be negative, got %s", c.Probe.Timeout.Duration())
	}
	if c.Probe.InitialCheckDelay.Duration() < 0 {
		return fmt.Errorf("probe.initial_check_delay cannot be negative, got %s", c.Probe.InitialCheckDelay.Duration())
	}
	if c.SettleDelay.Duration() < 0 {
		return fmt.Errorf("settle_delay cannot be negative, got %s", c.SettleDelay.Duration())
	}

	if c.Bar.Height != nil && *c.Bar.Height < 0 {
		return fmt.Errorf("bar.height cannot be negative, got %v", *c.Bar.Height)
	}
	if c.Bar.YOffset < 0 {
		return fmt.Errorf("bar.y_offset cannot be negative, got %v", c.Bar.YOffset)
	}
	if c.Bar.HorizontalPadding < 0 {
		return fmt.Errorf("bar.horizontal_padding cannot be negative, got %v", c.Bar.HorizontalPadding)
	}
	if c.Bar.FadeDuration != nil && c.Bar.FadeDuration.Duration() < 0 {
		return fmt.Errorf("bar.fade_duration cannot be negative, got %s", c.Bar.FadeDuration.Duration())
	}
	if c.Bar.Shadow.Size != nil && *c.Bar.Shadow.Size < 0 {
		return fmt.Errorf("bar.shadow.size cannot be negative, got %v", *c.Bar.Shadow.Size)
	}

	if c.Sound.Volume != nil && (*c.Sound.Volume < 0 || *c.Sound.Volume > 1) {
		return fmt.Errorf("sound.volume must be between 0 and 1, got %v", *c.Sound.Volume)
	}

	for name, st := range map[string]*StatusStyleConfig{
		"reachable":   c.Statuses.Reachable,
		"unreachable": c.Statuses.Unreachable,
		"unknown":     c.Statuses.Unknown,
	} {
		if st == nil {
			continue
		}
		if st.HideAfter != nil && st.HideAfter.Duration() < 0 {
			return fmt.Errorf("statuses.%s.hide_after cannot be negative, got %s", name, st.HideAfter.Duration())
		}
		if st.Sound != nil && *st.Sound != "" {
			if _, ok := sound.Resolve(*st.Sound); !ok {
				return fmt.Errorf("statuses.%s.sound: unknown sound %q (known: %s)",
					name, *st.Sound, strings.Join(sound.Names(), ", "))
			}
		}
	}

	return nil
}
