package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerAddr  string `mapstructure:"SERVER_ADDR"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// The interest quota counts per calendar day in this zone.
	TimeZone string `mapstructure:"TIME_ZONE"`

	PageSize            int `mapstructure:"PAGE_SIZE"`
	FreeInterestsPerDay int `mapstructure:"FREE_INTERESTS_PER_DAY"`
	PremiumDurationDays int `mapstructure:"PREMIUM_DURATION_DAYS"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	CloudinaryURL   string `mapstructure:"CLOUDINARY_URL"`
	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("TIME_ZONE", "UTC")
	viper.SetDefault("PAGE_SIZE", 2)
	viper.SetDefault("FREE_INTERESTS_PER_DAY", 3)
	viper.SetDefault("PREMIUM_DURATION_DAYS", 90)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM", "noreply@vivah.example.com")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

// Location returns the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("Warning: invalid TIME_ZONE %q, falling back to UTC", c.TimeZone)
		return time.UTC
	}
	return loc
}
