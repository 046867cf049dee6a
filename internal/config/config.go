package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the user configuration read from config.yaml and DAYLINE_* env.
type Config struct {
	Theme           string `mapstructure:"theme"`
	StartHour       int    `mapstructure:"start_hour"`
	LongPressMS     int    `mapstructure:"long_press_ms"`
	FineHoldMS      int    `mapstructure:"fine_hold_ms"`
	MoveThresholdPx int    `mapstructure:"move_threshold_px"`
	HistoryDepth    int    `mapstructure:"history_depth"`
	DataDir         string `mapstructure:"data_dir"`
	LogLevel        string `mapstructure:"log_level"`
	Timezone        string `mapstructure:"timezone"` // e.g. "Asia/Kolkata" (optional)
}

func Default() Config {
	return Config{
		Theme:           "default",
		StartHour:       0,
		LongPressMS:     450,
		FineHoldMS:      450,
		MoveThresholdPx: 6,
		HistoryDepth:    100,
		DataDir:         "",
		LogLevel:        "info",
		Timezone:        "",
	}
}

func xdgConfigPath() (string, error) {
	if p := os.Getenv("DAYLINE_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "dayline")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file (missing is fine) and environment overrides.
func Load() (Config, error) {
	path, err := xdgConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads config from path.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("DAYLINE")
	v.AutomaticEnv()

	// defaults
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("start_hour", cfg.StartHour)
	v.SetDefault("long_press_ms", cfg.LongPressMS)
	v.SetDefault("fine_hold_ms", cfg.FineHoldMS)
	v.SetDefault("move_threshold_px", cfg.MoveThresholdPx)
	v.SetDefault("history_depth", cfg.HistoryDepth)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("timezone", cfg.Timezone)

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("config read: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}
	return cfg.normalize(), nil
}

func (c Config) normalize() Config {
	d := Default()
	c.StartHour = ((c.StartHour % 24) + 24) % 24
	if c.LongPressMS <= 0 {
		c.LongPressMS = d.LongPressMS
	}
	if c.FineHoldMS <= 0 {
		c.FineHoldMS = d.FineHoldMS
	}
	if c.MoveThresholdPx <= 0 {
		c.MoveThresholdPx = d.MoveThresholdPx
	}
	if c.HistoryDepth <= 0 {
		c.HistoryDepth = d.HistoryDepth
	}
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if strings.HasPrefix(c.DataDir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, c.DataDir[2:])
		}
	}
	return c
}

func (c Config) LongPress() time.Duration { return time.Duration(c.LongPressMS) * time.Millisecond }
func (c Config) FineHold() time.Duration  { return time.Duration(c.FineHoldMS) * time.Millisecond }

func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}
