package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avernet/linkbar/config"
)

// validateCmd validates a config file without starting a session.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a linkbar configuration file without starting a session.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  linkbar validate -c config.yaml
  linkbar validate --config /etc/linkbar/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	policy := cfg.DisplayPolicy
	if policy == "" {
		policy = "all"
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Target host:    %s\n", cfg.TargetHost)
	fmt.Printf("  Display policy: %s\n", policy)
	if cfg.Probe.Interval != 0 {
		fmt.Printf("  Probe interval: %s\n", cfg.Probe.Interval.Duration())
	}
	fmt.Printf("  Sound alerts:   %t\n", cfg.Sound.Enabled)

	return nil
}
