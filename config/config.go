package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB (booking receipts).
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis (wizard sessions).
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisWizardDB int           `mapstructure:"REDIS_WIZARD_DB"`
	WizardTTL     time.Duration `mapstructure:"WIZARD_TTL"`
	SubmitTimeout time.Duration `mapstructure:"SUBMIT_TIMEOUT"`

	// Remote marketplace API.
	MarketplaceBaseURL string        `mapstructure:"MARKETPLACE_BASE_URL"`
	MarketplaceTimeout time.Duration `mapstructure:"MARKETPLACE_TIMEOUT"`

	// Evidence storage: "local" or "cloudinary".
	EvidenceBackend     string `mapstructure:"EVIDENCE_BACKEND"`
	EvidenceDir         string `mapstructure:"EVIDENCE_DIR"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`
	// Optional AES-256-GCM key for evidence at rest.
	EvidenceEncryptionKey string `mapstructure:"EVIDENCE_ENCRYPTION_KEY"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "autobid")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_WIZARD_DB", 0)
	viper.SetDefault("WIZARD_TTL", "30m")
	viper.SetDefault("SUBMIT_TIMEOUT", "60s")
	viper.SetDefault("MARKETPLACE_BASE_URL", "http://localhost:9000/api")
	viper.SetDefault("MARKETPLACE_TIMEOUT", "15s")
	viper.SetDefault("EVIDENCE_BACKEND", "local")
	viper.SetDefault("EVIDENCE_DIR", "./data/evidence")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("CLOUDINARY_FOLDER", "booking-evidence")
	viper.SetDefault("EVIDENCE_ENCRYPTION_KEY", "")
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
