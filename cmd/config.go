package cmd

import "time"

// Config carries every runtime setting the service reads from the
// environment. Values are populated with kelseyhightower/envconfig; a .env
// file, when present, is loaded first.
type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"voiceorder"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// RedisURL switches the session store and notification sink to Redis.
	// When empty, sessions live in process memory and notifications are
	// recorded locally.
	RedisURL string `envconfig:"REDIS_URL"`

	// SessionTTL is the idle deadline applied to every call session.
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	// RefundPreparationFee is deducted from refunds once the kitchen has
	// started preparing the order.
	RefundPreparationFee string `envconfig:"REFUND_PREPARATION_FEE" default:"50.00"`

	// HandoffBound caps how many agent handoffs a single turn may chain.
	HandoffBound int `envconfig:"HANDOFF_BOUND" default:"3"`
}
