// Package config handles spawntool configuration loading and
// management.
package config

import "time"

// Config holds all spawntool settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds world data file settings.
type DataConfig struct {
	SpawnDir    string        `yaml:"spawn_dir"`    // Directory holding spawn files
	ScanTimeout time.Duration `yaml:"scan_timeout"` // Upper bound for directory scans
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			SpawnDir:    ".",
			ScanTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
