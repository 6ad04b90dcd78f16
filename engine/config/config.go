package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/math"
)

type ApplicationConfig struct {
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
	// TargetFPS paces the loop; 0 runs unpaced.
	TargetFPS int `toml:"target_fps"`
	// MaxTicks stops the loop after that many updates; 0 runs until cancelled.
	MaxTicks int `toml:"max_ticks"`
}

type ModelConfig struct {
	Mesh      string `toml:"mesh"`
	Animation string `toml:"animation"`
	// Instances is how many actors share the loaded model.
	Instances int `toml:"instances"`
	// Spacing is the distance between neighbouring actors along x.
	Spacing          float32 `toml:"spacing"`
	NormalizeNormals bool    `toml:"normalize_normals"`
	HotReload        bool    `toml:"hot_reload"`
}

type SyncConfig struct {
	Enabled bool `toml:"enabled"`
	// Interval between two published states, in seconds.
	Interval        float64 `toml:"interval"`
	MailboxCapacity int     `toml:"mailbox_capacity"`
}

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Model       ModelConfig       `toml:"model"`
	Sync        SyncConfig        `toml:"sync"`
}

func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:      "Marionette",
			LogLevel:  "info",
			TargetFPS: 60,
		},
		Model: ModelConfig{
			Mesh:             "assets/models/bob.md5mesh",
			Animation:        "assets/models/bob.md5anim",
			Instances:        1,
			Spacing:          2,
			NormalizeNormals: true,
		},
		Sync: SyncConfig{
			Enabled:         true,
			Interval:        1,
			MailboxCapacity: 64,
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys the file leaves out
// keep their default value; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.FileError{Path: path, Err: err}
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("config %d:%d: %w", row, col, err)
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := core.ParseLogLevel(c.Application.LogLevel); err != nil {
		return fmt.Errorf("config: application.log_level: %w", err)
	}
	if c.Application.TargetFPS < 0 {
		return fmt.Errorf("config: application.target_fps must not be negative, got %d", c.Application.TargetFPS)
	}
	if c.Application.MaxTicks < 0 {
		return fmt.Errorf("config: application.max_ticks must not be negative, got %d", c.Application.MaxTicks)
	}
	if c.Model.Mesh == "" || c.Model.Animation == "" {
		return errors.New("config: model.mesh and model.animation are required")
	}
	if c.Model.Instances < 1 {
		return fmt.Errorf("config: model.instances must be at least 1, got %d", c.Model.Instances)
	}
	if c.Sync.Enabled {
		if c.Sync.Interval <= 0 {
			return fmt.Errorf("config: sync.interval must be positive, got %g", c.Sync.Interval)
		}
		if c.Sync.MailboxCapacity < 1 {
			return fmt.Errorf("config: sync.mailbox_capacity must be at least 1, got %d", c.Sync.MailboxCapacity)
		}
	}
	return nil
}

// FrameBudget returns the time one tick may take at the target frame rate,
// in seconds, or 0 when the loop is unpaced.
func (c *Config) FrameBudget() float64 {
	if c.Application.TargetFPS == 0 {
		return 0
	}
	return 1 / float64(math.Clamp(c.Application.TargetFPS, 1, 1000))
}
