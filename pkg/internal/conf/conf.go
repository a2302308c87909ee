package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Database struct {
	DSN string `mapstructure:"dsn"`
}

type Security struct {
	SigningSecret   string `mapstructure:"signing_secret"`
	TokenValidHours int    `mapstructure:"token_valid_hours"`
}

type Storage struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Folder    string `mapstructure:"folder"`
}

// Config is loaded once at boot and passed into components by reference.
// Nothing reads viper after Load returns.
type Config struct {
	Bind          string   `mapstructure:"bind"`
	AllowedOrigin string   `mapstructure:"allowed_origin"`
	Database      Database `mapstructure:"database"`
	Security      Security `mapstructure:"security"`
	Storage       Storage  `mapstructure:"storage"`
}

func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read settings: %w", err)
	}

	cfg := &Config{
		Bind: "0.0.0.0:8445",
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse settings: %w", err)
	}

	if len(cfg.Security.SigningSecret) == 0 {
		return nil, fmt.Errorf("security.signing_secret is required")
	}

	return cfg, nil
}

func (v *Config) TokenValidDuration() time.Duration {
	if v.Security.TokenValidHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(v.Security.TokenValidHours) * time.Hour
}
