package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	MigrationsPath    string

	CORSAllowedOrigins []string
	LoginRateLimit     string // ulule limiter formatted rate, e.g. "5-M"

	PosthogAPIKey   string
	PosthogEndpoint string

	// Reminder scheduling
	ReminderAutoCreate         bool
	ReminderInstrumentLeadDays int
	ReminderUpcomingWindowDays int

	DefaultCurrency string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "bookkeeping-app")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("REMINDER_AUTO_CREATE_FOR_INSTRUMENTS", true)
	viper.SetDefault("REMINDER_INSTRUMENT_LEAD_DAYS", 3)
	viper.SetDefault("REMINDER_UPCOMING_WINDOW_DAYS", 7)
	viper.SetDefault("DEFAULT_CURRENCY", "TL")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "12h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 12 * time.Hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "bookkeeping-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	leadDays := viper.GetInt("REMINDER_INSTRUMENT_LEAD_DAYS")
	if leadDays < 0 {
		log.Printf("Warning: Invalid value for REMINDER_INSTRUMENT_LEAD_DAYS (%d). Defaulting to 3.\n", leadDays)
		leadDays = 3
	}
	windowDays := viper.GetInt("REMINDER_UPCOMING_WINDOW_DAYS")
	if windowDays <= 0 {
		log.Printf("Warning: Invalid value for REMINDER_UPCOMING_WINDOW_DAYS (%d). Defaulting to 7.\n", windowDays)
		windowDays = 7
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")
	cfg.ReminderAutoCreate = viper.GetBool("REMINDER_AUTO_CREATE_FOR_INSTRUMENTS")
	cfg.ReminderInstrumentLeadDays = leadDays
	cfg.ReminderUpcomingWindowDays = windowDays
	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
