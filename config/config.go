
package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	ServerPort        string     `mapstructure:"SERVER_PORT"`
	GinMode           string     `mapstructure:"GIN_MODE"`
	Auth              AuthConfig `mapstructure:"AUTH"`
	DefaultGradeScale string     `mapstructure:"DEFAULT_GRADE_SCALE"`
	LeaderboardSize   int        `mapstructure:"LEADERBOARD_SIZE"`
	MaxUploadSizeMB   int64      `mapstructure:"MAX_UPLOAD_SIZE_MB"`
}

// AuthConfig holds JWT-related configuration
type AuthConfig struct {
	JWTSigningKey string `mapstructure:"JWT_SIGNING_KEY"`
	Issuer        string `mapstructure:"ISSUER"`
}

// LoadConfig loads configuration from environment variables and config.yaml.
// The returned value is constructed once at process start and passed into
// every component that needs it; there is no global settings state.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config") // config.yaml
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("GIN_MODE", "debug") // gin.DebugMode, gin.ReleaseMode, gin.TestMode
	viper.SetDefault("AUTH.JWT_SIGNING_KEY", "your-secret-key-change-in-production")
	viper.SetDefault("AUTH.ISSUER", "uniperf.example.com")
	viper.SetDefault("DEFAULT_GRADE_SCALE", "4.0")
	viper.SetDefault("LEADERBOARD_SIZE", 10)
	viper.SetDefault("MAX_UPLOAD_SIZE_MB", 50)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("config.yaml not found, using environment variables and defaults")
		} else {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	// Override with environment variables (e.g., UNIPERF_SERVER_PORT)
	viper.SetEnvPrefix("UNIPERF")
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}
