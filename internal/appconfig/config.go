package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/vcsnoop/internal/console"
	"pkt.systems/vcsnoop/internal/relay"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int    `mapstructure:"config_version" yaml:"config_version"`
	TTYPath       string `mapstructure:"tty_path" yaml:"tty_path"`
	ChunkSize     int    `mapstructure:"chunk_size" yaml:"chunk_size"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// EnvPrefix prefixes environment overrides (VCSNOOP_TTY_PATH, ...).
const EnvPrefix = "VCSNOOP"

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		TTYPath:       console.DefaultPath,
		ChunkSize:     relay.DefaultChunkSize,
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vcsnoop", "config.yaml"), nil
}
