package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	Region           string `mapstructure:"region"`
	Endpoint         string `mapstructure:"endpoint"`
	DaemonPort       int    `mapstructure:"daemon_port"`
	DBPath           string `mapstructure:"db_path"`
	LogFile          string `mapstructure:"log_file"`
	TickIntervalSec  int    `mapstructure:"tick_interval_sec"`
	ToleranceMinutes int    `mapstructure:"tolerance_minutes"`
	HistoryLimit     int    `mapstructure:"history_limit"`
	DefaultSyncDir   string `mapstructure:"default_sync_dir"`
}

var Default = Config{
	Region:           "us-east-1",
	DaemonPort:       9400,
	DBPath:           "s3sync.db",
	TickIntervalSec:  60,
	ToleranceMinutes: 5,
	HistoryLimit:     5,
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home dir: %w", err)
	}

	configDir := filepath.Join(home, ".s3sync")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	// Keys without a default are invisible to Unmarshal when they are
	// only set through the environment, so register every key.
	viper.SetDefault("access_key", "")
	viper.SetDefault("secret_key", "")
	viper.SetDefault("endpoint", "")
	viper.SetDefault("region", Default.Region)
	viper.SetDefault("daemon_port", Default.DaemonPort)
	viper.SetDefault("db_path", filepath.Join(configDir, Default.DBPath))
	viper.SetDefault("log_file", filepath.Join(configDir, "s3sync.log"))
	viper.SetDefault("tick_interval_sec", Default.TickIntervalSec)
	viper.SetDefault("tolerance_minutes", Default.ToleranceMinutes)
	viper.SetDefault("history_limit", Default.HistoryLimit)
	viper.SetDefault("default_sync_dir", filepath.Join(home, "Documents"))

	viper.SetEnvPrefix("S3SYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if ok := errors.As(err, &notFound); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
