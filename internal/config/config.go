package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig  `mapstructure:"server"`
	Storage  StorageConfig `mapstructure:"storage"`
	Timezone string        `mapstructure:"timezone"`
	Backup   BackupConfig  `mapstructure:"backup"`
	Goals    GoalsConfig   `mapstructure:"goals"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type BackupConfig struct {
	Branch          string `mapstructure:"branch"`
	IntervalMinutes int    `mapstructure:"interval_minutes"`
}

// GoalsConfig holds the daily targets rendered on the dashboard. They
// are presentation constants only; nothing in the upsert or aggregation
// contracts reads them.
type GoalsConfig struct {
	Steps   int     `mapstructure:"steps"`
	Kcals   float64 `mapstructure:"kcals"`
	Km      float64 `mapstructure:"km"`
	Flights int     `mapstructure:"flights"`
}

// Load reads configuration from defaults, an optional YAML file, and
// HEALTHDUMP_-prefixed environment variables, in increasing precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("HEALTHDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5009)
	v.SetDefault("storage.db_path", "data/health_dumps.db")
	// Fixed reference timezone for "today" and recorded_at stamps. The
	// host zone is never consulted.
	v.SetDefault("timezone", "Europe/Berlin")
	v.SetDefault("backup.branch", "main")
	v.SetDefault("backup.interval_minutes", 60)
	v.SetDefault("goals.steps", 10000)
	v.SetDefault("goals.kcals", 500.0)
	v.SetDefault("goals.km", 8.0)
	v.SetDefault("goals.flights", 50)
}
