package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Port               string
	Env                string
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             string
	DBSSLMode          string
	RedisAddr          string
	KafkaBroker        string
	RBACModelPath      string
	RBACPolicyPath     string
	OutboxPollInterval time.Duration
	LoanSweepInterval  time.Duration
	// RunLockTTL bounds how long a crashed run blocks its period; live runs refresh it.
	RunLockTTL         time.Duration
	ConnectRetries     int
	CORSOrigins        []string
}

// LoadConfig reads the process environment. godotenv has already merged .env by now.
func LoadConfig() Config {
	return Config{
		Port:               envOr("PORT", "3000"),
		Env:                envOr("APP_ENV", "development"),
		DBHost:             os.Getenv("DB_HOST"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             envOr("DB_PORT", "5432"),
		DBSSLMode:          envOr("DB_SSLMODE", "disable"),
		RedisAddr:          envOr("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		RBACModelPath:      envOr("RBAC_MODEL_PATH", "configs/rbac_model.conf"),
		RBACPolicyPath:     envOr("RBAC_POLICY_PATH", "configs/rbac_policy.csv"),
		OutboxPollInterval: durationOr("OUTBOX_POLL_INTERVAL", 3*time.Second),
		LoanSweepInterval:  durationOr("LOAN_SWEEP_INTERVAL", time.Hour),
		RunLockTTL:         durationOr("PAYROLL_LOCK_TTL", 10*time.Minute),
		ConnectRetries:     intOr("CONNECT_RETRIES", 5),
		CORSOrigins:        splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func intOr(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// NewLogger builds the process logger for the configured environment.
func NewLogger(cfg Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
