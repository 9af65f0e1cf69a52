package config

import (
	"log/slog"

	"github.com/avernet/linkbar"
)

// BuildOptions converts a parsed configuration into SDK options.
//
// Only fields that are present in the config produce options; everything
// else keeps the SDK defaults. An unparseable display policy falls back to
// the main display with a warning on the given logger (nil falls back to
// [slog.Default]).
func BuildOptions(cfg *Config, logger *slog.Logger) []linkbar.Option {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []linkbar.Option{
		linkbar.WithTargetHost(cfg.TargetHost),
	}

	if cfg.DisplayPolicy != "" {
		policy, ok := linkbar.ParsePolicy(cfg.DisplayPolicy)
		if !ok {
			logger.Warn("invalid display policy, falling back to main display",
				"display_policy", cfg.DisplayPolicy,
			)
		}
		opts = append(opts, linkbar.WithDisplayPolicy(policy))
	}

	if cfg.Probe.Interval != 0 {
		opts = append(opts, linkbar.WithProbeInterval(cfg.Probe.Interval.Duration()))
	}
	if cfg.Probe.Timeout != 0 {
		opts = append(opts, linkbar.WithProbeTimeout(cfg.Probe.Timeout.Duration()))
	}
	if cfg.Probe.InitialCheckDelay != 0 {
		opts = append(opts, linkbar.WithInitialCheckDelay(cfg.Probe.InitialCheckDelay.Duration()))
	}
	if cfg.SettleDelay != 0 {
		opts = append(opts, linkbar.WithSettleDelay(cfg.SettleDelay.Duration()))
	}

	if cfg.Bar.Height != nil {
		opts = append(opts, linkbar.WithBarHeight(*cfg.Bar.Height))
	}
	if cfg.Bar.YOffset != 0 {
		opts = append(opts, linkbar.WithBarYOffset(cfg.Bar.YOffset))
	}
	if cfg.Bar.HorizontalPadding != 0 {
		opts = append(opts, linkbar.WithHorizontalPadding(cfg.Bar.HorizontalPadding))
	}
	if cfg.Bar.FadeDuration != nil {
		opts = append(opts, linkbar.WithFadeDuration(cfg.Bar.FadeDuration.Duration()))
	}
	if sh := cfg.Bar.Shadow; sh.Size != nil || sh.OffsetY != nil || sh.Alpha != nil {
		size, offsetY, alpha := 4.0, 2.0, 0.3
		if sh.Size != nil {
			size = *sh.Size
		}
		if sh.OffsetY != nil {
			offsetY = *sh.OffsetY
		}
		if sh.Alpha != nil {
			alpha = *sh.Alpha
		}
		opts = append(opts, linkbar.WithShadow(size, offsetY, alpha))
	}

	opts = append(opts, buildStyleOptions(cfg)...)

	opts = append(opts, linkbar.WithSoundEnabled(cfg.Sound.Enabled))
	if cfg.Sound.Volume != nil {
		opts = append(opts, linkbar.WithSoundVolume(*cfg.Sound.Volume))
	}

	return opts
}

// buildStyleOptions merges per-status overrides onto the SDK defaults.
func buildStyleOptions(cfg *Config) []linkbar.Option {
	defaults := map[linkbar.Status]linkbar.StatusStyle{
		linkbar.StatusReachable:   linkbar.DefaultStatusStyle(linkbar.StatusReachable),
		linkbar.StatusUnreachable: linkbar.DefaultStatusStyle(linkbar.StatusUnreachable),
		linkbar.StatusUnknown:     linkbar.DefaultStatusStyle(linkbar.StatusUnknown),
	}

	overrides := map[linkbar.Status]*StatusStyleConfig{
		linkbar.StatusReachable:   cfg.Statuses.Reachable,
		linkbar.StatusUnreachable: cfg.Statuses.Unreachable,
		linkbar.StatusUnknown:     cfg.Statuses.Unknown,
	}

	var opts []linkbar.Option
	for status, override := range overrides {
		if override == nil {
			continue
		}

		style := defaults[status]
		if override.Color != nil {
			style.Color = override.Color.Color()
		}
		if override.HideAfter != nil {
			style.HideAfter = override.HideAfter.Duration()
		}
		if override.Sound != nil {
			style.Sound = *override.Sound
		}

		opts = append(opts, linkbar.WithStatusStyle(status, style))
	}

	return opts
}
