package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/postgresql"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/redis"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	return env.Parse(cfg)
}

// Config holds the configuration for the order book service.
type Config struct {
	Pair string `env:"PAIR,required"` // Trading pair, e.g., STX-USDA

	KafkaConfig    `envPrefix:"KAFKA_"`
	EventPublisher EventPublisherConfig `envPrefix:"EVENTS_"`
	Ledger         LedgerConfig         `envPrefix:"LEDGER_"`
	RedisConfig    redis.Config         `envPrefix:"REDIS_"`
	PostgresConfig postgresql.Config    `envPrefix:"POSTGRES_"`
}

// LedgerConfig holds the opening balances seeded into the in-process
// settlement ledger for accounts it has not seen before.
type LedgerConfig struct {
	OpeningBase  uint64 `env:"OPENING_BASE" envDefault:"1000000000000"`
	OpeningQuote uint64 `env:"OPENING_QUOTE" envDefault:"1000000000000"`
}

// KafkaConfig holds the configuration for the order request consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"orderbook"`
	Brokers []string `env:"BROKER,required"`
}

// EventPublisherConfig holds the configuration for the emitted-event writer.
type EventPublisherConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}
