package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_FullConfig(t *testing.T) {
	data := []byte(`
target_host: vpn.example.com:443
display_policy: match:Dell
log_level: debug

probe:
  interval: 10s
  timeout: 3s
  initial_check_delay: 500ms

bar:
  height: 8
  y_offset: 2
  horizontal_padding: 12
  fade_duration: 250ms
  shadow:
    size: 6
    offset_y: 3
    alpha: 0.4

settle_delay: 1s

statuses:
  reachable:
    color: green
    hide_after: 5s
    sound: ping
  unreachable:
    color: "#ff3b30"
    hide_after: 0s
    sound: buzz
  unknown:
    color: {r: 1.0, g: 0.8, b: 0.0}
    hide_after: 2s

sound:
  enabled: true
  volume: 0.5
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.TargetHost != "vpn.example.com:443" {
		t.Errorf("TargetHost = %q", cfg.TargetHost)
	}
	if cfg.DisplayPolicy != "match:Dell" {
		t.Errorf("DisplayPolicy = %q", cfg.DisplayPolicy)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}

	if got := cfg.Probe.Interval.Duration(); got != 10*time.Second {
		t.Errorf("Probe.Interval = %v", got)
	}
	if got := cfg.Probe.Timeout.Duration(); got != 3*time.Second {
		t.Errorf("Probe.Timeout = %v", got)
	}
	if got := cfg.Probe.InitialCheckDelay.Duration(); got != 500*time.Millisecond {
		t.Errorf("Probe.InitialCheckDelay = %v", got)
	}
	if got := cfg.SettleDelay.Duration(); got != time.Second {
		t.Errorf("SettleDelay = %v", got)
	}

	if cfg.Bar.Height == nil || *cfg.Bar.Height != 8 {
		t.Errorf("Bar.Height = %v", cfg.Bar.Height)
	}
	if cfg.Bar.YOffset != 2 {
		t.Errorf("Bar.YOffset = %v", cfg.Bar.YOffset)
	}
	if cfg.Bar.FadeDuration == nil || cfg.Bar.FadeDuration.Duration() != 250*time.Millisecond {
		t.Errorf("Bar.FadeDuration = %v", cfg.Bar.FadeDuration)
	}
	if cfg.Bar.Shadow.Alpha == nil || *cfg.Bar.Shadow.Alpha != 0.4 {
		t.Errorf("Bar.Shadow.Alpha = %v", cfg.Bar.Shadow.Alpha)
	}

	reachable := cfg.Statuses.Reachable
	if reachable == nil {
		t.Fatal("Statuses.Reachable = nil")
	}
	if reachable.Color == nil {
		t.Fatal("Statuses.Reachable.Color = nil")
	}
	if reachable.HideAfter == nil || reachable.HideAfter.Duration() != 5*time.Second {
		t.Errorf("Statuses.Reachable.HideAfter = %v", reachable.HideAfter)
	}
	if reachable.Sound == nil || *reachable.Sound != "ping" {
		t.Errorf("Statuses.Reachable.Sound = %v", reachable.Sound)
	}

	unreachable := cfg.Statuses.Unreachable
	if unreachable == nil || unreachable.HideAfter == nil {
		t.Fatal("Statuses.Unreachable incomplete")
	}
	if got := unreachable.HideAfter.Duration(); got != 0 {
		t.Errorf("Statuses.Unreachable.HideAfter = %v, want 0", got)
	}

	unknown := cfg.Statuses.Unknown
	if unknown == nil || unknown.Color == nil {
		t.Fatal("Statuses.Unknown incomplete")
	}
	c := unknown.Color.Color()
	if math.Abs(c.R-1) > 0.001 || math.Abs(c.G-0.8) > 0.001 || c.B != 0 || c.A != 1 {
		t.Errorf("Statuses.Unknown.Color = %+v", c)
	}

	if !cfg.Sound.Enabled {
		t.Error("Sound.Enabled = false")
	}
	if cfg.Sound.Volume == nil || *cfg.Sound.Volume != 0.5 {
		t.Errorf("Sound.Volume = %v", cfg.Sound.Volume)
	}
}

func TestParse_MinimalConfig(t *testing.T) {
	cfg, err := Parse([]byte("target_host: example.com\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.TargetHost != "example.com" {
		t.Errorf("TargetHost = %q", cfg.TargetHost)
	}
	if cfg.Bar.Height != nil {
		t.Errorf("Bar.Height = %v, want nil (unset)", cfg.Bar.Height)
	}
	if cfg.Sound.Enabled {
		t.Error("Sound.Enabled = true, want false")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantSub string
	}{
		{
			name:    "missing target host",
			yaml:    "log_level: info\n",
			wantSub: "target_host",
		},
		{
			name:    "bad log level",
			yaml:    "target_host: example.com\nlog_level: verbose\n",
			wantSub: "log_level",
		},
		{
			name:    "bad duration",
			yaml:    "target_host: example.com\nprobe:\n  interval: often\n",
			wantSub: "invalid duration",
		},
		{
			name:    "negative duration",
			yaml:    "target_host: example.com\nsettle_delay: -1s\n",
			wantSub: "settle_delay",
		},
		{
			name:    "negative bar height",
			yaml:    "target_host: example.com\nbar:\n  height: -1\n",
			wantSub: "bar.height",
		},
		{
			name:    "volume out of range",
			yaml:    "target_host: example.com\nsound:\n  volume: 1.5\n",
			wantSub: "sound.volume",
		},
		{
			name:    "unknown sound",
			yaml:    "target_host: example.com\nstatuses:\n  reachable:\n    sound: klaxon\n",
			wantSub: "unknown sound",
		},
		{
			name:    "bad color",
			yaml:    "target_host: example.com\nstatuses:\n  reachable:\n    color: blurple\n",
			wantSub: "color",
		},
		{
			name:    "color as sequence",
			yaml:    "target_host: example.com\nstatuses:\n  reachable:\n    color: [1, 0, 0]\n",
			wantSub: "color",
		},
		{
			name:    "not yaml",
			yaml:    "{{{{",
			wantSub: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Parse() error = %q, want it to mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("LINKBAR_TEST_HOST", "gateway.internal")

	cfg, err := Parse([]byte("target_host: ${LINKBAR_TEST_HOST}:443\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.TargetHost != "gateway.internal:443" {
		t.Errorf("TargetHost = %q, want %q", cfg.TargetHost, "gateway.internal:443")
	}
}

func TestParse_EnvExpansionDefault(t *testing.T) {
	os.Unsetenv("LINKBAR_TEST_UNSET")

	cfg, err := Parse([]byte("target_host: ${LINKBAR_TEST_UNSET:-fallback.example.com}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.TargetHost != "fallback.example.com" {
		t.Errorf("TargetHost = %q, want %q", cfg.TargetHost, "fallback.example.com")
	}
}

func TestParse_EnvExpansionMissing(t *testing.T) {
	os.Unsetenv("LINKBAR_TEST_UNSET")

	_, err := Parse([]byte("target_host: ${LINKBAR_TEST_UNSET}\n"))
	if err == nil {
		t.Fatal("Parse() expected error for unset variable without default")
	}
	if !strings.Contains(err.Error(), "LINKBAR_TEST_UNSET") {
		t.Errorf("Parse() error = %q, want it to name the variable", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkbar.yaml")
	if err := os.WriteFile(path, []byte("target_host: example.com\n"), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TargetHost != "example.com" {
		t.Errorf("TargetHost = %q", cfg.TargetHost)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() on missing file expected error")
	}
}
