package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const appDirName = "bili-ticket-cli"

// Settings are the tunables read from config.yaml and BTB_* environment
// variables. Everything has a working default; the file is optional.
type Settings struct {
	OutputDir string        `mapstructure:"output_dir"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Load reads settings from the user config directory. While the process
// runs, edits to the file are noticed and logged; commands read settings
// once at startup.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetDefault("output_dir", filepath.Join(os.TempDir(), appDirName))
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("user_agent", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appDirName))
	}
	v.SetEnvPrefix("BTB")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	} else {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			slog.Debug("config file changed", "file", e.Name)
		})
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
