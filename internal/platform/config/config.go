package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "folio/internal/platform/errors"
)

type Config struct {
	LibraryPath string
	DBPath      string
	ExportDir   string
	Log         LogConfig
	Reader      ReaderConfig
	Narration   NarrationConfig
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ReaderConfig struct {
	IdleThreshold  time.Duration `yaml:"idle_threshold"`
	FlushInterval  time.Duration `yaml:"flush_interval"`
	EdgeZoneRatio  float64       `yaml:"edge_zone_ratio"`
	CommitRatio    float64       `yaml:"commit_ratio"`
	ThumbnailWidth int           `yaml:"thumbnail_width"`
	DefaultZoom    float64       `yaml:"default_zoom"`
}

type NarrationConfig struct {
	Voice   string  `yaml:"voice"`
	Rate    float64 `yaml:"rate"`
	Command string  `yaml:"command"`
}

type fileConfig struct {
	Log       LogConfig       `yaml:"log"`
	Reader    ReaderConfig    `yaml:"reader"`
	Narration NarrationConfig `yaml:"narration"`
}

func Defaults() ReaderConfig {
	return ReaderConfig{
		IdleThreshold:  4 * time.Second,
		FlushInterval:  15 * time.Second,
		EdgeZoneRatio:  0.12,
		CommitRatio:    0.25,
		ThumbnailWidth: 160,
		DefaultZoom:    1.0,
	}
}

// New builds the configuration for a library directory, layering the optional
// .folio/config.yaml on top of the defaults.
func New(libraryPath string) (Config, error) {
	if libraryPath == "" {
		return Config{}, fmt.Errorf("library path is required")
	}
	cfg := Config{
		LibraryPath: libraryPath,
		DBPath:      filepath.Join(libraryPath, ".folio", "folio.db"),
		ExportDir:   filepath.Join(libraryPath, "exports"),
		Log:         LogConfig{Level: "info", Format: "text"},
		Reader:      Defaults(),
		Narration:   NarrationConfig{Voice: "en", Rate: 1.0, Command: "espeak-ng"},
	}
	if err := cfg.loadFile(filepath.Join(libraryPath, ".folio", "config.yaml")); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	file := fileConfig{Log: c.Log, Reader: c.Reader, Narration: c.Narration}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	c.Log = file.Log
	c.Reader = file.Reader
	c.Narration = file.Narration
	return nil
}

func (c Config) Validate() error {
	r := c.Reader
	if r.IdleThreshold <= 0 || r.FlushInterval <= 0 {
		return fmt.Errorf("%w: reader durations must be positive", apperrors.ErrInvalidInput)
	}
	if r.EdgeZoneRatio <= 0 || r.EdgeZoneRatio >= 0.5 {
		return fmt.Errorf("%w: edge_zone_ratio must be in (0, 0.5)", apperrors.ErrInvalidInput)
	}
	if r.CommitRatio <= 0 || r.CommitRatio >= 1 {
		return fmt.Errorf("%w: commit_ratio must be in (0, 1)", apperrors.ErrInvalidInput)
	}
	if r.ThumbnailWidth <= 0 || r.DefaultZoom <= 0 {
		return fmt.Errorf("%w: thumbnail_width and default_zoom must be positive", apperrors.ErrInvalidInput)
	}
	if c.Narration.Rate <= 0 {
		return fmt.Errorf("%w: narration rate must be positive", apperrors.ErrInvalidInput)
	}
	return nil
}
