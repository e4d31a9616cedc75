package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrUsage is returned when the positional arguments are wrong
var ErrUsage = errors.New("usage: processor <users.csv> <transactions.csv> <bins.csv> <balances.csv> <events.csv>")

// Paths holds the five positional file arguments
type Paths struct {
	Users        string
	Transactions string
	BinMappings  string
	Balances     string
	Events       string
}

// Config holds the environment configuration of the processor.
// Every result sink is optional and enabled only when its address is set.
type Config struct {
	LogLevel   string
	Postgres   PostgresConfig
	ClickHouse ClickHouseConfig
	RabbitMQ   RabbitMQConfig
	Redis      RedisConfig
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	URL string
}

// ClickHouseConfig holds ClickHouse connection configuration
type ClickHouseConfig struct {
	Host     string
	Database string
	User     string
	Password string
}

// RabbitMQConfig holds RabbitMQ publishing configuration
type RabbitMQConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// RedisConfig holds Redis stream configuration
type RedisConfig struct {
	Addr   string
	Stream string
}

func (c PostgresConfig) Enabled() bool   { return c.URL != "" }
func (c ClickHouseConfig) Enabled() bool { return c.Host != "" }
func (c RabbitMQConfig) Enabled() bool   { return c.URL != "" }
func (c RedisConfig) Enabled() bool      { return c.Addr != "" }

// Load loads configuration from environment variables with default values.
// The variables only enable optional result sinks and set the log level;
// with none set every sink is disabled and a run depends on its arguments alone.
func Load() *Config {
	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Postgres: PostgresConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		ClickHouse: ClickHouseConfig{
			Host:     getEnv("CLICKHOUSE_HOST", ""),
			Database: getEnv("CLICKHOUSE_DB", "analytics"),
			User:     getEnv("CLICKHOUSE_USER", "default"),
			Password: getEnv("CLICKHOUSE_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        getEnv("RABBITMQ_URL", ""),
			Exchange:   getEnv("RABBITMQ_EXCHANGE", "payments.transactions"),
			RoutingKey: getEnv("RABBITMQ_ROUTING_KEY", "payments.transactions.processed"),
		},
		Redis: RedisConfig{
			Addr:   getEnv("REDIS_ADDR", ""),
			Stream: getEnv("REDIS_STREAM", "transaction.events"),
		},
	}
}

// ParseArgs reads the five positional arguments, program name excluded.
func ParseArgs(args []string) (Paths, error) {
	if len(args) != 5 {
		return Paths{}, fmt.Errorf("%w (got %d arguments)", ErrUsage, len(args))
	}
	for i, arg := range args {
		if arg == "" {
			return Paths{}, fmt.Errorf("%w (argument %d is empty)", ErrUsage, i+1)
		}
	}

	return Paths{
		Users:        args[0],
		Transactions: args[1],
		BinMappings:  args[2],
		Balances:     args[3],
		Events:       args[4],
	}, nil
}

// getEnv retrieves an environment variable or returns a default value if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
