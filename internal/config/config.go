package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

const (
	DefaultConfigPath = ".exifmap/config.json"
)

// Config represents the JSON config structure. Every field can also be set
// from an EXIFMAP_* environment variable, which wins over the file.
type Config struct {
	ReportName    string   `json:"reportName"    env:"EXIFMAP_REPORT_NAME, overwrite, default=metadata_report"       validate:"required,excludesall=/"`
	MapName       string   `json:"mapName"       env:"EXIFMAP_MAP_NAME, overwrite, default=locations_map.html"       validate:"required,excludesall=/"`
	RiskName      string   `json:"riskName"      env:"EXIFMAP_RISK_NAME, overwrite, default=security_analysis.json"  validate:"required,excludesall=/"`
	Formats       []string `json:"formats"       env:"EXIFMAP_FORMATS, overwrite, default=csv"                       validate:"min=1,dive,oneof=csv json txt all"`
	Zoom          int      `json:"zoom"          env:"EXIFMAP_ZOOM, overwrite, default=12"                           validate:"min=1,max=19"`
	MarkerColor   string   `json:"markerColor"   env:"EXIFMAP_MARKER_COLOR, overwrite, default=red"                  validate:"required"`
	Dedup         string   `json:"dedup"         env:"EXIFMAP_DEDUP, overwrite, default=latitude"                    validate:"oneof=latitude pair"`
	Recursive     bool     `json:"recursive"     env:"EXIFMAP_RECURSIVE, overwrite"`
	Risk          bool     `json:"risk"          env:"EXIFMAP_RISK, overwrite"`
	Thumbnails    bool     `json:"thumbnails"    env:"EXIFMAP_THUMBNAILS, overwrite"`
	ThumbnailSize int      `json:"thumbnailSize" env:"EXIFMAP_THUMBNAIL_SIZE, overwrite, default=160"                validate:"min=16,max=1024"`
	MetricsFile   string   `json:"metricsFile"   env:"EXIFMAP_METRICS_FILE, overwrite"`
	LogLevel      string   `json:"logLevel"      env:"EXIFMAP_LOG_LEVEL, overwrite, default=info"                    validate:"oneof=trace debug info warn warning error"`
	LogJSON       bool     `json:"logJSON"       env:"EXIFMAP_LOG_JSON, overwrite"`
}

var validate = validator.New()

// Read loads the config file at path, or ~/.exifmap/config.json when path is
// empty, then applies environment overrides and defaults. The default file
// is optional; an explicitly named file must exist.
func Read(ctx context.Context, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, DefaultConfigPath)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config JSON %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file, environment and defaults only
	default:
		return Config{}, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
