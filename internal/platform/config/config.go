package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	liststr "memberportal/pkg/platform/strings"
)

// Config is the full process configuration, assembled from the environment so
// main stays lean.
type Config struct {
	Server   Server
	Backend  BackendConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
	Payment  PaymentConfig
	Session  SessionConfig
	Auth     AuthConfig
	Members  MembersConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AdminToken      string
	// DevAssist only takes effect in binaries built with the devassist tag.
	DevAssist bool
	// DisableRateLimit switches off per-IP throttling, for local demos.
	DisableRateLimit bool
}

// BackendConfig points at the membership REST backend.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig holds connection settings. An empty URL means in-memory stores.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds the DSN. An empty DSN means in-memory stores.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig configures event publishing. No brokers means in-memory events.
type KafkaConfig struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

// PaymentConfig bounds verification polling.
type PaymentConfig struct {
	PollInterval time.Duration
	PollDuration time.Duration
}

// SessionConfig controls registration session lifetime.
type SessionConfig struct {
	TTL             time.Duration
	ResolutionCache time.Duration
}

// AuthConfig controls portal login.
type AuthConfig struct {
	JWTSigningKey  string
	JWTIssuer      string
	TokenTTL       time.Duration
	OTPTTL         time.Duration
	OTPMaxAttempts int
}

// MembersConfig controls the local member directory.
type MembersConfig struct {
	NumberPrefix string
}

// FromEnv builds the configuration from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:             envString("MEMBERPORTAL_ADDR", ":8080"),
			RequestTimeout:   envDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout:  envDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			AdminToken:       os.Getenv("ADMIN_API_TOKEN"),
			DevAssist:        os.Getenv("DEV_ASSIST") == "true",
			DisableRateLimit: os.Getenv("DISABLE_RATE_LIMIT") == "true",
		},
		Backend: BackendConfig{
			BaseURL: envString("BACKEND_BASE_URL", "http://localhost:5000/api"),
			Timeout: envDuration("BACKEND_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:           envList("KAFKA_BROKERS"),
			Topic:             envString("KAFKA_TOPIC", "memberportal.events"),
			Partitions:        int32(envInt("KAFKA_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(envInt("KAFKA_TOPIC_REPLICATION", 1)),
		},
		Payment: PaymentConfig{
			PollInterval: envDuration("PAYMENT_POLL_INTERVAL", 2*time.Second),
			PollDuration: envDuration("PAYMENT_POLL_DURATION", 60*time.Second),
		},
		Session: SessionConfig{
			TTL:             envDuration("REGISTRATION_SESSION_TTL", 2*time.Hour),
			ResolutionCache: envDuration("ID_RESOLUTION_CACHE_TTL", 10*time.Minute),
		},
		Auth: AuthConfig{
			// default for development; override in production
			JWTSigningKey:  envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:      envString("JWT_ISSUER", "memberportal"),
			TokenTTL:       envDuration("AUTH_TOKEN_TTL", 12*time.Hour),
			OTPTTL:         envDuration("OTP_TTL", 5*time.Minute),
			OTPMaxAttempts: envInt("OTP_MAX_ATTEMPTS", 5),
		},
		Members: MembersConfig{
			NumberPrefix: envString("MEMBERSHIP_NUMBER_PREFIX", "MBR"),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envList(key string) []string {
	return liststr.SplitList(os.Getenv(key))
}
