package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey        string `mapstructure:"secret_key"`
		RoleKey          string `mapstructure:"role_key"`
		AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
		RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
		ResetTTLMinutes  int    `mapstructure:"reset_ttl_minutes"`
	} `mapstructure:"jwt"`
	Mail struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
		ResetURL string `mapstructure:"reset_url"`
	} `mapstructure:"mail"`
	Cache struct {
		ReadTTLHours int `mapstructure:"read_ttl_hours"`
	} `mapstructure:"cache"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

// AccessTokenTTL returns the configured access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLDays) * 24 * time.Hour
}

// ResetTokenTTL returns the configured password reset token lifetime.
func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.JWT.ResetTTLMinutes) * time.Minute
}

// ReadCacheTTL returns the TTL applied by every read-through cache.
func (c *Config) ReadCacheTTL() time.Duration {
	if c.Cache.ReadTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Cache.ReadTTLHours) * time.Hour
}
