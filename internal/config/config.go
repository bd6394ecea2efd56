package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/couchcryptid/cherry-blossom-eda/internal/adapter/spreadsheet"
	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	InputPath string   `envconfig:"INPUT_PATH" default:"KyotoFullFlower7.xls" validate:"required"`
	SheetName string   `envconfig:"SHEET_NAME"`
	SkipRows  int      `envconfig:"SKIP_ROWS" default:"25" validate:"gte=0"`
	NAValues  []string `envconfig:"NA_VALUES" default:"-"`

	RollingWindow     int    `envconfig:"ROLLING_WINDOW" default:"20" validate:"gte=1"`
	RollingMinPeriods int    `envconfig:"ROLLING_MIN_PERIODS" default:"5" validate:"gte=1"`
	RollingAnchor     string `envconfig:"ROLLING_ANCHOR" default:"years" validate:"oneof=years rows"`
	PreviewWindow     int    `envconfig:"ROLLING_PREVIEW_WINDOW" default:"10" validate:"gte=0"`
	EraSplitYear      int    `envconfig:"ERA_SPLIT_YEAR" default:"1900"`
	PoetryCode        int    `envconfig:"POETRY_CODE" default:"4"`

	HistBins      []int  `envconfig:"HIST_BINS" default:"10,39" validate:"dive,gte=1"`
	HeadRows      int    `envconfig:"HEAD_ROWS" default:"5" validate:"gte=0"`
	OutputDir     string `envconfig:"OUTPUT_DIR" default:"charts"`
	ChartFormat   string `envconfig:"CHART_FORMAT" default:"png" validate:"oneof=png svg pdf"`
	ChartsEnabled bool   `envconfig:"CHARTS_ENABLED" default:"true"`
	MetricsFile   string `envconfig:"METRICS_FILE"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.RollingAnchor = strings.ToLower(cfg.RollingAnchor)
	cfg.ChartFormat = strings.ToLower(cfg.ChartFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and the cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: %q fails %s", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}
	if c.RollingMinPeriods > c.RollingWindow {
		return fmt.Errorf("ROLLING_MIN_PERIODS (%d) must not exceed ROLLING_WINDOW (%d)",
			c.RollingMinPeriods, c.RollingWindow)
	}
	if c.PreviewWindow != 0 && c.PreviewWindow < c.RollingMinPeriods {
		return fmt.Errorf("ROLLING_PREVIEW_WINDOW (%d) must be 0 or at least ROLLING_MIN_PERIODS (%d)",
			c.PreviewWindow, c.RollingMinPeriods)
	}
	if c.ChartsEnabled && c.OutputDir == "" {
		return errors.New("OUTPUT_DIR is required when CHARTS_ENABLED is true")
	}
	return nil
}

// Spreadsheet returns the loader options.
func (c *Config) Spreadsheet() spreadsheet.Options {
	return spreadsheet.Options{
		SkipRows:  c.SkipRows,
		SheetName: c.SheetName,
		NAValues:  c.NAValues,
	}
}

// Analysis returns the domain analysis options.
func (c *Config) Analysis() domain.AnalysisOptions {
	// RollingAnchor has already passed the oneof check.
	anchor, _ := domain.ParseAnchor(c.RollingAnchor)
	return domain.AnalysisOptions{
		Rolling: domain.RollingOptions{
			Window:     c.RollingWindow,
			MinPeriods: c.RollingMinPeriods,
			Anchor:     anchor,
		},
		PreviewWindow: c.PreviewWindow,
		EraSplitYear:  c.EraSplitYear,
		PoetryCode:    c.PoetryCode,
	}
}
