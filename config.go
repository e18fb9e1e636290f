package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"
)

const defaultConfigName = ".mindcanvas.yaml"

// Config is loaded from ~/.mindcanvas.yaml unless --config points elsewhere.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Gesture GestureConfig `yaml:"gesture"`
	Canvas  CanvasConfig  `yaml:"canvas"`
}

func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Gesture.Validate(); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}
	if err := c.Canvas.Validate(); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	return nil
}

type AppConfig struct {
	LogLevel      slog.Level `yaml:"log_level"`
	LogFile       string     `yaml:"log_file"`
	SaveDirectory string     `yaml:"save_directory"`
}

func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFile, validation.Required),
	)
}

type GestureConfig struct {
	DoubleTapMS int     `yaml:"double_tap_ms"`
	LongPressMS int     `yaml:"long_press_ms"`
	TouchSlop   float64 `yaml:"touch_slop"`
}

func (c *GestureConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DoubleTapMS, validation.Required, validation.Min(50), validation.Max(5000)),
		validation.Field(&c.LongPressMS, validation.Required, validation.Min(50), validation.Max(5000)),
		validation.Field(&c.TouchSlop, validation.Min(0.0)),
	)
}

func (c *GestureConfig) DoubleTapWindow() time.Duration {
	return time.Duration(c.DoubleTapMS) * time.Millisecond
}

func (c *GestureConfig) LongPress() time.Duration {
	return time.Duration(c.LongPressMS) * time.Millisecond
}

type CanvasConfig struct {
	MinScale        float64 `yaml:"min_scale"`
	MaxScale        float64 `yaml:"max_scale"`
	NodeRadius      float64 `yaml:"node_radius"`
	EdgeStrokeWidth float64 `yaml:"edge_stroke_width"`
	CellWidth       float64 `yaml:"cell_width"`
	CellHeight      float64 `yaml:"cell_height"`
	NodeColor       string  `yaml:"node_color"`
	EdgeColor       string  `yaml:"edge_color"`
}

func (c *CanvasConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MinScale, validation.Required, validation.Min(0.01)),
		validation.Field(&c.MaxScale, validation.Required, validation.Min(c.MinScale)),
		validation.Field(&c.NodeRadius, validation.Required, validation.Min(1.0)),
		validation.Field(&c.EdgeStrokeWidth, validation.Required, validation.Min(0.5)),
		validation.Field(&c.CellWidth, validation.Required, validation.Min(1.0)),
		validation.Field(&c.CellHeight, validation.Required, validation.Min(1.0)),
		validation.Field(&c.NodeColor, validation.Required, is.HexColor),
		validation.Field(&c.EdgeColor, validation.Required, is.HexColor),
	)
}

func (c *CanvasConfig) Grid() CellGrid {
	return CellGrid{CellWidth: c.CellWidth, CellHeight: c.CellHeight}
}

func (c *CanvasConfig) Colors() (node, edge uint32) {
	return parseHexColor(c.NodeColor), parseHexColor(c.EdgeColor)
}

// parseHexColor turns #RGB or #RRGGBB into an opaque 0xAARRGGBB value.
func parseHexColor(s string) uint32 {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return 0xFF000000
	}
	return 0xFF000000 | uint32(v)
}

func NewDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			LogLevel: slog.LevelInfo,
			LogFile:  filepath.Join(os.TempDir(), "mindcanvas.log"),
		},
		Gesture: GestureConfig{
			DoubleTapMS: int(defaultDoubleTapWindow / time.Millisecond),
			LongPressMS: int(defaultLongPress / time.Millisecond),
			TouchSlop:   defaultTouchSlop,
		},
		Canvas: CanvasConfig{
			MinScale:        defaultMinScale,
			MaxScale:        defaultMaxScale,
			NodeRadius:      defaultNodeRadius,
			EdgeStrokeWidth: defaultStrokeWidth,
			CellWidth:       defaultCellWidth,
			CellHeight:      defaultCellHeight,
			NodeColor:       hexColor(defaultNodeColor),
			EdgeColor:       hexColor(defaultEdgeColor),
		},
	}
}

// DefaultConfigPath is ~/.mindcanvas.yaml, or empty without a home directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultConfigName)
}

// LoadConfig reads a YAML config with ${VAR} expansion on top of the
// defaults. A missing file is only an error when required is set.
func LoadConfig(filename string, required bool) (*Config, error) {
	cfg := NewDefaultConfig()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	cfg.App.SaveDirectory = expandPath(cfg.App.SaveDirectory)
	cfg.App.LogFile = expandPath(cfg.App.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// expandPath resolves ~ and makes the path absolute.
func expandPath(value string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// SavePath places a bare file name in the save directory, if one is set,
// creating the directory on first use.
func (c *Config) SavePath(filename string) (string, error) {
	if c.App.SaveDirectory == "" || filepath.IsAbs(filename) || strings.ContainsRune(filename, filepath.Separator) {
		return filename, nil
	}
	if err := os.MkdirAll(c.App.SaveDirectory, 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}
	return filepath.Join(c.App.SaveDirectory, filename), nil
}
