package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Mongo configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisOTPDB     int    `mapstructure:"REDIS_OTP_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Gemini API key for the knowledge fallback.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Admin auth.
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`

	// Agent tunables.
	SessionTTLHours       int `mapstructure:"SESSION_TTL_HOURS"`
	OffTopicThreshold     int `mapstructure:"OFF_TOPIC_THRESHOLD"`
	OTPExpiryMinutes      int `mapstructure:"OTP_EXPIRY_MINUTES"`
	MaxOTPAttempts        int `mapstructure:"MAX_OTP_ATTEMPTS"`
	OTPResendCooldownSecs int `mapstructure:"OTP_RESEND_COOLDOWN_SECS"`
	KnowledgeTimeoutSecs  int `mapstructure:"KNOWLEDGE_TIMEOUT_SECS"`
	HistoryRecoveryTurns  int `mapstructure:"HISTORY_RECOVERY_TURNS"`

	// Unverified business defaults for ambiguous signals: which country a
	// bare 10-digit phone or an N-digit postal code falls back to. Kept
	// configurable pending product confirmation.
	DefaultPhoneCountry string `mapstructure:"DEFAULT_PHONE_COUNTRY"`
	Postal6Country      string `mapstructure:"POSTAL_6_COUNTRY"`
	Postal5Country      string `mapstructure:"POSTAL_5_COUNTRY"`
	Postal4Country      string `mapstructure:"POSTAL_4_COUNTRY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 60)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "glowbook")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_OTP_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("SESSION_TTL_HOURS", 2)
	viper.SetDefault("OFF_TOPIC_THRESHOLD", 5)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 5)
	viper.SetDefault("MAX_OTP_ATTEMPTS", 3)
	viper.SetDefault("OTP_RESEND_COOLDOWN_SECS", 30)
	viper.SetDefault("KNOWLEDGE_TIMEOUT_SECS", 10)
	viper.SetDefault("HISTORY_RECOVERY_TURNS", 10)
	viper.SetDefault("DEFAULT_PHONE_COUNTRY", "India")
	viper.SetDefault("POSTAL_6_COUNTRY", "India")
	viper.SetDefault("POSTAL_5_COUNTRY", "Nepal")
	viper.SetDefault("POSTAL_4_COUNTRY", "Bangladesh")

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
