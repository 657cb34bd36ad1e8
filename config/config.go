
package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	ServerPort   string     `mapstructure:"SERVER_PORT"`
	GinMode      string     `mapstructure:"GIN_MODE"`
	OntologyPath string     `mapstructure:"ONTOLOGY_PATH"`
	DatabaseURL  string     `mapstructure:"DATABASE_URL"` // empty disables the audit log
	AbsTolerance float64    `mapstructure:"ABS_TOLERANCE"`
	RelTolerance float64    `mapstructure:"REL_TOLERANCE"`
	Auth         AuthConfig `mapstructure:"AUTH"`
}

// AuthConfig holds JWT settings for the admin surface.
// An empty signing key leaves the admin routes open.
type AuthConfig struct {
	JWTSigningKey string `mapstructure:"JWT_SIGNING_KEY"`
	Issuer        string `mapstructure:"ISSUER"`
}

// LoadConfig loads configuration from environment variables and config.yaml
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config") // config.yaml
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	// Set defaults
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("ONTOLOGY_PATH", "area_ontology.yaml")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("ABS_TOLERANCE", 0.05)
	viper.SetDefault("REL_TOLERANCE", 0.02)
	viper.SetDefault("AUTH.JWT_SIGNING_KEY", "")
	viper.SetDefault("AUTH.ISSUER", "areaquiz.example.com")
	// Read from config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("config.yaml not found, using environment variables and defaults")
		} else {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}
	// Override with environment variables (e.g., AREAQUIZ_SERVER_PORT)
	viper.SetEnvPrefix("AREAQUIZ")
	viper.AutomaticEnv()
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}
