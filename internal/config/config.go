// Package config loads the settings of appinventory from flags, environment
// variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. APPINVENTORY_STORAGE_BACKEND.
const EnvPrefix = "APPINVENTORY"

// Storage backends.
const (
	StorageFile = "file"
	StorageSFTP = "sftp"
)

// Output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// LogLevels lists the accepted log levels.
var LogLevels = []string{"trace", "debug", "info", "warn", "error"}

// Config holds all settings.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Device    DeviceConfig    `mapstructure:"device"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Output    OutputConfig    `mapstructure:"output"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DeviceConfig holds device settings.
type DeviceConfig struct {
	ID           string `mapstructure:"id"`            // ID selects a device; empty picks the first USB device.
	AgentProcess string `mapstructure:"agent_process"` // AgentProcess is the process the agent is loaded into.
}

// StorageConfig holds pin storage settings.
type StorageConfig struct {
	Backend string     `mapstructure:"backend"` // Backend is "file" or "sftp".
	Dir     string     `mapstructure:"dir"`     // Dir is the local directory of the file backend.
	SFTP    SFTPConfig `mapstructure:"sftp"`
}

// SFTPConfig holds the settings of the SFTP storage backend.
type SFTPConfig struct {
	Addr     string        `mapstructure:"addr"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	Dir      string        `mapstructure:"dir"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// InventoryConfig holds inventory settings.
type InventoryConfig struct {
	IncludeSystem bool `mapstructure:"include_system"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment bindings in place.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("device.id", "")
	v.SetDefault("device.agent_process", "system_server")
	v.SetDefault("storage.backend", StorageFile)
	v.SetDefault("storage.dir", defaultStorageDir())
	v.SetDefault("storage.sftp.addr", "localhost:2222")
	v.SetDefault("storage.sftp.user", "shell")
	v.SetDefault("storage.sftp.password", "")
	v.SetDefault("storage.sftp.dir", "/data/local/tmp/appinventory")
	v.SetDefault("storage.sftp.timeout", 30*time.Second)
	v.SetDefault("inventory.include_system", false)
	v.SetDefault("output.format", FormatTable)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// ReadFile reads the configuration file at path. With an empty path it looks for
// "appinventory.yaml" in the user configuration directory and the working
// directory, and a missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("appinventory")
		v.SetConfigType("yaml")

		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "appinventory"))
		}

		v.AddConfigPath(".")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("read config file: %w", err)
	}

	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config

	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)))

	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enumerated settings.
func (cfg *Config) Validate() error {
	if !slices.Contains(LogLevels, cfg.Log.Level) {
		return fmt.Errorf("invalid log level [%s]", cfg.Log.Level)
	}

	switch cfg.Storage.Backend {
	case StorageFile:
		if cfg.Storage.Dir == "" {
			return fmt.Errorf("storage directory required")
		}

	case StorageSFTP:
		if cfg.Storage.SFTP.Addr == "" || cfg.Storage.SFTP.Dir == "" {
			return fmt.Errorf("sftp address and directory required")
		}

	default:
		return fmt.Errorf("invalid storage backend [%s]", cfg.Storage.Backend)
	}

	switch cfg.Output.Format {
	case FormatTable, FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("invalid output format [%s]", cfg.Output.Format)
	}

	if cfg.Device.AgentProcess == "" {
		return fmt.Errorf("agent process required")
	}

	return nil
}

// defaultStorageDir returns the directory the file backend uses by default.
func defaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".appinventory"
	}

	return filepath.Join(dir, "appinventory")
}
