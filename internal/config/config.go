package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPAddr string
	GRPCAddr string

	MySQLDSN          string
	MySQLMaxOpenConns int
	MySQLMaxIdleConns int

	// RedisAddr enables idempotent order placement when set.
	RedisAddr      string
	IdempotencyTTL time.Duration

	// KafkaBrokers enables order event publishing when set.
	KafkaBrokers []string
	KafkaTopic   string

	// OTelEndpoint enables trace export when set (host:port, OTLP/HTTP).
	OTelEndpoint string

	StockReserveAttempts    int
	StrictStatusTransitions bool

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr: getEnv("GRPC_ADDR", ":50051"),

		MySQLDSN:          getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/orders?parseTime=true"),
		MySQLMaxOpenConns: getEnvInt("MYSQL_MAX_OPEN_CONNS", 50),
		MySQLMaxIdleConns: getEnvInt("MYSQL_MAX_IDLE_CONNS", 25),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		IdempotencyTTL: getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		KafkaBrokers: getEnvList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "orders"),

		OTelEndpoint: getEnv("OTEL_ENDPOINT", ""),

		StockReserveAttempts:    getEnvInt("STOCK_RESERVE_ATTEMPTS", 3),
		StrictStatusTransitions: getEnvBool("STRICT_STATUS_TRANSITIONS", false),

		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
