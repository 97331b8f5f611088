package config

import (
	"os"
	"strings"
)

// Config holds everything the service reads from the environment.
type Config struct {
	HTTPPort    string
	DatabaseURL string
	RedisAddr   string

	KafkaBrokers []string
	ServiceName  string

	JWTSecret    string
	AdminAPIKey  string
	CookieSecret string

	StripeSecretKey      string
	StripeWebhookSecret  string
	StripePublishableKey string

	ResendAPIKey string
	EmailFrom    string

	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	UploadsDir string
}

func Load() Config {
	return Config{
		HTTPPort:    getenv("PORT", "8080"),
		DatabaseURL: getenv("DATABASE_URL", ""),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),

		KafkaBrokers: splitCSV(getenv("KAFKA_BROKERS", "")),
		ServiceName:  getenv("SERVICE_NAME", "proshopp-api"),

		JWTSecret:    getenv("JWT_SECRET", ""),
		AdminAPIKey:  getenv("ADMIN_API_KEY", ""),
		CookieSecret: getenv("COOKIE_SECRET", ""),

		StripeSecretKey:      getenv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:  getenv("STRIPE_WEBHOOK_SECRET", ""),
		StripePublishableKey: getenv("STRIPE_PUBLISHABLE_KEY", ""),

		ResendAPIKey: getenv("RESEND_API_KEY", ""),
		EmailFrom:    getenv("EMAIL_FROM", "orders@proshopp.example"),

		FirebaseProjectID:       getenv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getenv("FIREBASE_CREDENTIALS_JSON", ""),

		UploadsDir: getenv("UPLOADS_DIR", "./uploads"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
