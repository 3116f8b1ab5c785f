package main

import (
	"github.com/spf13/cobra"

	"github.com/electronjoe/exifmap/internal/config"
)

// loadConfig reads the config file and environment, then applies the flags
// that were set explicitly. Flags take precedence over everything else.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Read(cmd.Context(), path)
	if err != nil {
		return config.Config{}, err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Formats, _ = flags.GetStringSlice("format")
	}
	if flags.Changed("risk") {
		cfg.Risk, _ = flags.GetBool("risk")
	}
	if flags.Changed("recursive") {
		cfg.Recursive, _ = flags.GetBool("recursive")
	}
	if flags.Changed("thumbnails") {
		cfg.Thumbnails, _ = flags.GetBool("thumbnails")
	}
	if flags.Changed("zoom") {
		cfg.Zoom, _ = flags.GetInt("zoom")
	}
	if flags.Changed("dedup") {
		cfg.Dedup, _ = flags.GetString("dedup")
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
}
