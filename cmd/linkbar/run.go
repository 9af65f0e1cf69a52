package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avernet/linkbar"
	"github.com/avernet/linkbar/config"
	"github.com/avernet/linkbar/sound"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}

// runCmd starts a monitoring session.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start monitoring",
	Long: `Start a linkbar monitoring session.

The session will:
  - Load configuration from the specified YAML file
  - Probe the configured target host continuously
  - Show a status bar overlay on the configured displays

The session runs until interrupted (Ctrl+C) or it receives SIGTERM.

Example:
  linkbar run -c config.yaml
  linkbar run --config /etc/linkbar/config.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("config loaded",
		"target_host", cfg.TargetHost,
		"display_policy", cfg.DisplayPolicy,
	)

	opts := config.BuildOptions(cfg, logger)
	opts = append(opts, linkbar.WithLogger(logger))

	// sound only costs an audio device when it is actually enabled
	if cfg.Sound.Enabled {
		player, err := sound.NewTonePlayer()
		if err != nil {
			logger.Warn("audio unavailable, alerts disabled", "error", err)
		} else {
			defer func() { _ = player.Close() }()
			opts = append(opts, linkbar.WithSoundPlayer(player))
		}
	}

	session, err := linkbar.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if err := session.Start(); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	// wait for SIGINT/SIGTERM, then shut down
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	session.Stop()
	logger.Info("shutdown complete")
	return nil
}
