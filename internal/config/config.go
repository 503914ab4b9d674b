// Package config handles sprtool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Extract  ExtractConfig  `yaml:"extract"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig locates the auxiliary name database.
type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to the SQLite name database
}

// ExtractConfig holds defaults for the extract command.
type ExtractConfig struct {
	OutputDir    string `yaml:"output_dir"`
	WriteDDS     bool   `yaml:"write_dds"`
	WriteSprites bool   `yaml:"write_sprites"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "",
		},
		Extract: ExtractConfig{
			OutputDir:    ".",
			WriteDDS:     false,
			WriteSprites: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
