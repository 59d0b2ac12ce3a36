// Package config loads planviz settings from YAML or TOML files with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/planviz/pkg/application/services/overlay"
	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
)

// Environment variables that override file settings
const (
	EnvAddr       = "PLANVIZ_ADDR"
	EnvWebhookURL = "PLANVIZ_WEBHOOK_URL"
	EnvLogLevel   = "PLANVIZ_LOG_LEVEL"
)

// Config is the complete planviz configuration
type Config struct {
	Layout  LayoutConfig  `yaml:"layout" toml:"layout"`
	Overlay OverlayConfig `yaml:"overlay" toml:"overlay"`
	Style   StyleConfig   `yaml:"style" toml:"style"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Host    HostConfig    `yaml:"host" toml:"host"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// LayoutConfig sizes the chart canvas
type LayoutConfig struct {
	Width        float64 `yaml:"width" toml:"width"`
	Height       float64 `yaml:"height" toml:"height"`
	MarginLeft   float64 `yaml:"margin_left" toml:"margin_left"`
	MarginRight  float64 `yaml:"margin_right" toml:"margin_right"`
	MarginTop    float64 `yaml:"margin_top" toml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom" toml:"margin_bottom"`
	YTicks       int     `yaml:"y_ticks" toml:"y_ticks"`
	MaxXLabels   int     `yaml:"max_x_labels" toml:"max_x_labels"`
	HorizonDays  int     `yaml:"horizon_days" toml:"horizon_days"`
}

// OverlayConfig controls the coverage and tracking overlays
type OverlayConfig struct {
	ShowCoverage bool    `yaml:"show_coverage" toml:"show_coverage"`
	ShowTracking bool    `yaml:"show_tracking" toml:"show_tracking"`
	BarHeight    float64 `yaml:"bar_height" toml:"bar_height"`
	OrderHeight  float64 `yaml:"order_height" toml:"order_height"`
	RowGap       float64 `yaml:"row_gap" toml:"row_gap"`
	FontSize     float64 `yaml:"font_size" toml:"font_size"`
}

// StyleConfig overrides palette entries with hex colours. Empty keeps the default.
type StyleConfig struct {
	Background string `yaml:"background" toml:"background"`
	Before     string `yaml:"before" toml:"before"`
	After      string `yaml:"after" toml:"after"`
	Forecasted string `yaml:"forecasted" toml:"forecasted"`
	Highlight  string `yaml:"highlight" toml:"highlight"`
}

// ServerConfig configures planviz serve
type ServerConfig struct {
	Addr            string        `yaml:"addr" toml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	SessionTTL      time.Duration `yaml:"session_ttl" toml:"session_ttl"`
}

// HostConfig points at the host application that receives callbacks
type HostConfig struct {
	WebhookURL string        `yaml:"webhook_url" toml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout" toml:"timeout"`
}

// LoggingConfig selects the log handler
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the built-in configuration
func Default() Config {
	vc := visualizer.DefaultConfig()
	return Config{
		Layout: LayoutConfig{
			Width:        vc.Width,
			Height:       vc.Height,
			MarginLeft:   vc.MarginLeft,
			MarginRight:  vc.MarginRight,
			MarginTop:    vc.MarginTop,
			MarginBottom: vc.MarginBottom,
			YTicks:       vc.YTicks,
			MaxXLabels:   vc.MaxXLabels,
			HorizonDays:  visualizer.DefaultHorizonDays,
		},
		Overlay: OverlayConfig{
			ShowCoverage: true,
			BarHeight:    vc.Coverage.BarHeight,
			OrderHeight:  vc.Coverage.OrderHeight,
			RowGap:       vc.Coverage.RowGap,
			FontSize:     vc.Coverage.FontSize,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			SessionTTL:      30 * time.Minute,
		},
		Host: HostConfig{
			Timeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults, choosing the decoder by extension, then
// applies .env and environment overrides. An empty path loads defaults only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := decode(path, data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	// a missing .env file is normal
	_ = godotenv.Load()
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// ApplyEnv overrides settings from the environment lookup function
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvWebhookURL); v != "" {
		c.Host.WebhookURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the settings a run cannot start without
func (c Config) Validate() error {
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		return fmt.Errorf("layout width and height must be positive")
	}
	if c.Layout.MarginLeft+c.Layout.MarginRight >= c.Layout.Width {
		return fmt.Errorf("horizontal margins leave no plot area")
	}
	if c.Layout.MarginTop+c.Layout.MarginBottom >= c.Layout.Height {
		return fmt.Errorf("vertical margins leave no plot area")
	}
	if c.Layout.HorizonDays <= 0 {
		return fmt.Errorf("horizon days must be positive")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Logging.Format)
	}
	for name, hex := range c.Style.entries() {
		if hex != "" && !validHex(hex) {
			return fmt.Errorf("style %s: invalid colour %q", name, hex)
		}
	}
	return nil
}

// Visualizer maps the layout and overlay sections onto the controller's config
func (c Config) Visualizer() visualizer.Config {
	vc := visualizer.Config{
		Width:        c.Layout.Width,
		Height:       c.Layout.Height,
		MarginLeft:   c.Layout.MarginLeft,
		MarginRight:  c.Layout.MarginRight,
		MarginTop:    c.Layout.MarginTop,
		MarginBottom: c.Layout.MarginBottom,
		YTicks:       c.Layout.YTicks,
		MaxXLabels:   c.Layout.MaxXLabels,
		Coverage:     overlay.DefaultLayout(0),
	}
	if c.Overlay.BarHeight > 0 {
		vc.Coverage.BarHeight = c.Overlay.BarHeight
	}
	if c.Overlay.OrderHeight > 0 {
		vc.Coverage.OrderHeight = c.Overlay.OrderHeight
	}
	if c.Overlay.RowGap > 0 {
		vc.Coverage.RowGap = c.Overlay.RowGap
	}
	if c.Overlay.FontSize > 0 {
		vc.Coverage.FontSize = c.Overlay.FontSize
	}
	return vc
}

// ApplyStyle returns base with the configured colour overrides
func (c Config) ApplyStyle(base visualizer.Style) visualizer.Style {
	if c.Style.Background != "" {
		base.Background = drawing.ColorFromHex(trimHash(c.Style.Background))
	}
	if c.Style.Highlight != "" {
		base.Highlight.Color = drawing.ColorFromHex(trimHash(c.Style.Highlight))
	}
	variants := map[entities.Variant]string{
		entities.VariantBefore:     c.Style.Before,
		entities.VariantAfter:      c.Style.After,
		entities.VariantForecasted: c.Style.Forecasted,
	}
	series := make(map[entities.Variant]visualizer.SeriesStyle, len(base.Series))
	for v, s := range base.Series {
		if hex := variants[v]; hex != "" {
			s.Stroke.Color = drawing.ColorFromHex(trimHash(hex))
		}
		series[v] = s
	}
	base.Series = series
	return base
}

func (s StyleConfig) entries() map[string]string {
	return map[string]string{
		"background": s.Background,
		"before":     s.Before,
		"after":      s.After,
		"forecasted": s.Forecasted,
		"highlight":  s.Highlight,
	}
}

func trimHash(hex string) string {
	return strings.TrimPrefix(hex, "#")
}

func validHex(hex string) bool {
	hex = trimHash(hex)
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
