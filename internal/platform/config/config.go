package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures all runtime configuration so main stays lean.
type Config struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	Texas       TexasConfig
	Altinn      AltinnConfig
	Kafka       KafkaConfig

	EregBaseURL    string
	TilgangerURL   string
	PublicIngress  string
	LeaderLeaseKey string
	LeaderLeaseTTL time.Duration
	TaskInterval   time.Duration
	DeleteEnabled  bool
}

// RedisConfig holds connection settings for the shared Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TexasConfig points at the token broker sidecar.
type TexasConfig struct {
	TokenEndpoint         string
	ExchangeEndpoint      string
	IntrospectionEndpoint string
	TilgangerTarget       string
}

// AltinnConfig covers the Altinn platform surfaces this service calls.
type AltinnConfig struct {
	BaseURL         string
	DialogportenURL string
	PdpBaseURL      string
	SubscriptionKey string
	DialogIsAPIOnly bool
}

// KafkaConfig describes the document intake topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// FromEnv builds a Config from environment variables with dev-friendly
// defaults so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:        envOr("SERVER_ADDR", ":8080"),
		DatabaseURL: envOr("DATABASE_URL", "postgres://localhost:5432/dokumentporten?sslmode=disable"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Texas: TexasConfig{
			TokenEndpoint:         os.Getenv("TEXAS_TOKEN_ENDPOINT"),
			ExchangeEndpoint:      os.Getenv("TEXAS_TOKEN_EXCHANGE_ENDPOINT"),
			IntrospectionEndpoint: os.Getenv("TEXAS_TOKEN_INTROSPECTION_ENDPOINT"),
			TilgangerTarget:       os.Getenv("TEXAS_EXCHANGE_TARGET_TILGANGER"),
		},
		Altinn: AltinnConfig{
			BaseURL:         os.Getenv("ALTINN_BASE_URL"),
			DialogportenURL: os.Getenv("DIALOGPORTEN_URL"),
			PdpBaseURL:      os.Getenv("ALTINN_PDP_BASE_URL"),
			SubscriptionKey: os.Getenv("ALTINN_SUBSCRIPTION_KEY"),
			DialogIsAPIOnly: envBool("DIALOGPORTEN_IS_API_ONLY", true),
		},
		Kafka: KafkaConfig{
			Brokers: kafkaBrokers(),
			Topic:   envOr("KAFKA_DOCUMENT_TOPIC", "dokumentporten.documents"),
			Group:   envOr("KAFKA_CONSUMER_GROUP", "dokumentporten"),
		},
		EregBaseURL:    os.Getenv("EREG_BASE_URL"),
		TilgangerURL:   os.Getenv("ALTINN_TILGANGER_BASE_URL"),
		PublicIngress:  envOr("PUBLIC_INGRESS_URL", "http://localhost:8080"),
		LeaderLeaseKey: envOr("LEADER_LEASE_KEY", "dokumentporten:leader"),
		LeaderLeaseTTL: envDuration("LEADER_LEASE_TTL", 30*time.Second),
		TaskInterval:   envDuration("TASK_INTERVAL", 5*time.Minute),
		DeleteEnabled:  envBool("DIALOGPORTEN_DELETE_ENABLED", false),
	}
}

// kafkaBrokers distinguishes an unset KAFKA_BROKERS, which gets the dev
// default, from an explicitly empty one, which disables the intake consumer.
func kafkaBrokers() []string {
	v, ok := os.LookupEnv("KAFKA_BROKERS")
	if !ok {
		v = "localhost:9092"
	}
	return splitNonEmpty(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
