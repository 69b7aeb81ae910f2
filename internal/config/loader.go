package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrLoadConfig indicates a failure to read or parse the YAML configuration.
var ErrLoadConfig = errors.New("config load failed")

// ErrValidateConfig indicates that the loaded configuration is invalid.
var ErrValidateConfig = errors.New("configuration validation failed")

// DefaultDateFormat is the Go reference layout used to stamp archive names
// when backup.date_format is not configured.
const DefaultDateFormat = "20060102"

// Config represents the top-level YAML configuration file.
type Config struct {
	Backup  BackupConfig `mapstructure:"backup"  yaml:"backup"`
	Limits  LimitsConfig `mapstructure:"limits"  yaml:"limits"`
	Folders []FolderSpec `mapstructure:"folders" yaml:"folders"`
}

// BackupConfig contains the staging and destination settings for a run.
type BackupConfig struct {
	StagingDir     string `mapstructure:"staging_dir"      yaml:"staging_dir"`
	DestinationDir string `mapstructure:"destination_dir"  yaml:"destination_dir"`
	DateFormat     string `mapstructure:"date_format"      yaml:"date_format,omitempty"`
	CheckFreeSpace *bool  `mapstructure:"check_free_space" yaml:"check_free_space,omitempty"`
}

// LimitsConfig holds the optional size ceilings. A zero value means the
// corresponding ceiling is not enforced.
type LimitsConfig struct {
	MaxFolderSizeGB float64 `mapstructure:"max_folder_size_gb" yaml:"max_folder_size_gb,omitempty"`
	MaxTotalSizeGB  float64 `mapstructure:"max_total_size_gb"  yaml:"max_total_size_gb,omitempty"`
}

// FolderSpec identifies one logical backup unit: a display name and the
// directory it points at. Immutable for the duration of a run.
type FolderSpec struct {
	Name string `mapstructure:"name" yaml:"name"`
	Path string `mapstructure:"path" yaml:"path"`
}

// Load reads the configuration from the given YAML file using Viper and
// unmarshals into the Config struct.
func (c *Config) Load(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: read config %s: %v", ErrLoadConfig, path, err)
	}

	if err := v.UnmarshalExact(c); err != nil {
		return fmt.Errorf("%w: unmarshal config: %v", ErrLoadConfig, err)
	}

	return nil
}

// Validate checks the required fields and limit invariants. An empty folders
// list is valid; a run over it simply produces no archives.
func (c *Config) Validate() error {
	if c.Backup.StagingDir == "" {
		return fmt.Errorf("%w: backup.staging_dir is required", ErrValidateConfig)
	}
	if c.Backup.DestinationDir == "" {
		return fmt.Errorf("%w: backup.destination_dir is required", ErrValidateConfig)
	}
	if c.Limits.MaxFolderSizeGB < 0 {
		return fmt.Errorf("%w: limits.max_folder_size_gb must be positive", ErrValidateConfig)
	}
	if c.Limits.MaxTotalSizeGB < 0 {
		return fmt.Errorf("%w: limits.max_total_size_gb must be positive", ErrValidateConfig)
	}

	seen := make(map[string]struct{}, len(c.Folders))
	for i, folder := range c.Folders {
		if folder.Name == "" {
			return fmt.Errorf("%w: folders[%d] has no name", ErrValidateConfig, i)
		}
		if folder.Path == "" {
			return fmt.Errorf("%w: folder %q has no path", ErrValidateConfig, folder.Name)
		}
		if _, dup := seen[folder.Name]; dup {
			return fmt.Errorf("%w: duplicate folder name %q", ErrValidateConfig, folder.Name)
		}
		seen[folder.Name] = struct{}{}
	}

	return nil
}

// DateFormat returns the configured stamp layout, or the default.
func (c *Config) DateFormat() string {
	if c.Backup.DateFormat != "" {
		return c.Backup.DateFormat
	}
	return DefaultDateFormat
}

// FreeSpaceCheckEnabled reports whether the destination free-space preflight
// should run. Enabled unless explicitly turned off.
func (c *Config) FreeSpaceCheckEnabled() bool {
	return c.Backup.CheckFreeSpace == nil || *c.Backup.CheckFreeSpace
}

// DateStamp formats now with the configured layout.
func (c *Config) DateStamp(now time.Time) string {
	return now.Format(c.DateFormat())
}
