// Package config provides YAML-based configuration loading for Dream Story,
// with environment overrides applied on top.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dreamstory/internal/sim"
)

// Config is the full application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	SSH     SSHConfig     `yaml:"ssh"`
}

// GameConfig controls how the simulation is driven.
type GameConfig struct {
	TickInterval     time.Duration `yaml:"tick_interval" env:"DREAMSTORY_TICK_INTERVAL"`
	Speed            float64       `yaml:"speed" env:"DREAMSTORY_SPEED"`
	Pace             Pace          `yaml:"pace" env:"DREAMSTORY_PACE"` // overrides Speed when set
	AutosaveInterval time.Duration `yaml:"autosave_interval" env:"DREAMSTORY_AUTOSAVE_INTERVAL"`
}

// StorageConfig locates the save database.
type StorageConfig struct {
	DBPath string `yaml:"db_path" env:"DREAMSTORY_DB"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" env:"DREAMSTORY_LOG_LEVEL"`
	File  string `yaml:"file" env:"DREAMSTORY_LOG_FILE"`
}

// SSHConfig configures `dreamstory serve`.
type SSHConfig struct {
	Addr        string        `yaml:"addr" env:"DREAMSTORY_SSH_ADDR"`
	HostKey     string        `yaml:"host_key" env:"DREAMSTORY_SSH_HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"DREAMSTORY_SSH_IDLE_TIMEOUT"`
}

// Default returns the built-in configuration, matching defaults/dreamstory.yaml.
func Default() Config {
	return Config{
		Game: GameConfig{
			TickInterval: time.Second,
			Speed:        sim.DefaultSpeed,
		},
		Storage: StorageConfig{
			DBPath: "~/.dreamstory/dreamstory.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		SSH: SSHConfig{
			Addr:        ":23235",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// EffectiveSpeed is the speed multiplier after applying the pace preset.
func (g GameConfig) EffectiveSpeed() float64 {
	if g.Pace != "" {
		return g.Pace.Speed()
	}
	return g.Speed
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.Game.TickInterval <= 0 {
		return fmt.Errorf("config: tick_interval must be positive, got %v", c.Game.TickInterval)
	}
	if c.Game.Pace != "" && !c.Game.Pace.Valid() {
		return fmt.Errorf("config: unknown pace %q (want one of %v)", c.Game.Pace, Paces)
	}
	if s := c.Game.EffectiveSpeed(); s <= 0 || s > sim.MaxSpeed {
		return fmt.Errorf("config: speed must be in (0, %v], got %v", sim.MaxSpeed, s)
	}
	if c.Game.AutosaveInterval < 0 {
		return fmt.Errorf("config: autosave_interval cannot be negative")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("config: db_path is required")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
