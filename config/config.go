package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	MongoDBName       string `mapstructure:"MONGO_DB_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Availability rules.
	Timezone           string   `mapstructure:"TIMEZONE"`
	AllowedWeekdays    []string `mapstructure:"ALLOWED_WEEKDAYS"`
	DayWindowStart     string   `mapstructure:"DAY_WINDOW_START"`
	DayWindowEnd       string   `mapstructure:"DAY_WINDOW_END"`
	SlotMinutes        int      `mapstructure:"SLOT_MINUTES"`
	BookingWindowWeeks int      `mapstructure:"BOOKING_WINDOW_WEEKS"`
	HoldTTLMinutes     int      `mapstructure:"HOLD_TTL_MINUTES"`

	// CalDAV calendar source.
	CalDAVURL      string `mapstructure:"CALDAV_URL"`
	CalDAVUsername string `mapstructure:"CALDAV_USERNAME"`
	CalDAVPassword string `mapstructure:"CALDAV_PASSWORD"`
	CalDAVPath     string `mapstructure:"CALDAV_PATH"`
	OwnerEmail     string `mapstructure:"OWNER_EMAIL"`

	// Stripe.
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	SessionPrice        int64  `mapstructure:"SESSION_PRICE"` // smallest currency unit
	Currency            string `mapstructure:"CURRENCY"`
	PaymentSuccessURL   string `mapstructure:"PAYMENT_SUCCESS_URL"`
	PaymentCancelURL    string `mapstructure:"PAYMENT_CANCEL_URL"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB_NAME", "bookflow")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("ALLOWED_WEEKDAYS", []string{"Tuesday", "Thursday"})
	viper.SetDefault("DAY_WINDOW_START", "18:00")
	viper.SetDefault("DAY_WINDOW_END", "19:00")
	viper.SetDefault("SLOT_MINUTES", 30)
	viper.SetDefault("BOOKING_WINDOW_WEEKS", 3)
	viper.SetDefault("HOLD_TTL_MINUTES", 10)
	viper.SetDefault("CURRENCY", "usd")
	viper.SetDefault("SESSION_PRICE", 5000)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// GetEnv returns the application environment
func GetEnv() string {
	return AppConfig.Env
}

// IsProduction checks if the environment is production
func IsProduction() bool {
	return GetEnv() == "production"
}
