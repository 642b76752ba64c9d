package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN renders the database settings as a pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores consumer settings for the delivery-events topic.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// RateLimit stores per-client limits for the mutating settlement routes.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores settings for the optional debug listener.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Config stores service settings.
type Config struct {
	Port      int
	DB        DB
	Kafka     Kafka
	RateLimit RateLimit
	Pprof     Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}
	fs := pflag.NewFlagSet("service-settlement", pflag.ContinueOnError)
	cfg, err := load(fs, os.Args[1:])
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{
		Port:      DefaultPort(),
		DB:        DefaultDB(),
		Kafka:     DefaultKafka(),
		RateLimit: DefaultRateLimit(),
		Pprof:     DefaultPprof(),
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	envString(&cfg.DB.Host, "DB_HOST")
	envString(&cfg.DB.Port, "DB_PORT")
	envString(&cfg.DB.User, "DB_USER")
	envString(&cfg.DB.Pass, "DB_PASS")
	envString(&cfg.DB.Name, "DB_NAME")
	envString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
	envString(&cfg.Kafka.GroupID, "KAFKA_GROUP_ID")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitBrokers(v)
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("RATE_LIMIT_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimit.Rate = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("PPROF_ENABLED"); v != "" {
		cfg.Pprof.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	envString(&cfg.Pprof.Addr, "PPROF_ADDR")
	envString(&cfg.Pprof.User, "PPROF_USER")
	envString(&cfg.Pprof.Pass, "PPROF_PASS")

	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	brokers := fs.String("kafka-brokers", strings.Join(cfg.Kafka.Brokers, ","), "comma-separated kafka brokers")
	fs.StringVar(&cfg.Kafka.Topic, "kafka-topic", cfg.Kafka.Topic, "delivery events topic")
	fs.StringVar(&cfg.Kafka.GroupID, "kafka-group", cfg.Kafka.GroupID, "kafka consumer group id")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Kafka.Brokers = splitBrokers(*brokers)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	return cfg, nil
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
