package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given.
const DefaultFile = "storefront.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Minio    MinioConfig    `yaml:"minio"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Jobs     JobsConfig     `yaml:"jobs"`
	LogLevel string         `yaml:"log_level"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
	MinConns int32  `yaml:"min_conns"`
}

// RedisConfig configures the product cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// MinioConfig configures product image storage. An empty Endpoint disables uploads.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

// KafkaConfig configures order event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
}

type JobsConfig struct {
	CacheRefreshInterval time.Duration `yaml:"cache_refresh_interval"`
	PoolStatsInterval    time.Duration `yaml:"pool_stats_interval"`
}

// Default returns the configuration used when neither file nor environment
// provide a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns: 10,
			MinConns: 2,
		},
		Redis: RedisConfig{
			TTL: 10 * time.Minute,
		},
		Minio: MinioConfig{
			Bucket: "product-images",
		},
		Jobs: JobsConfig{
			CacheRefreshInterval: 15 * time.Minute,
			PoolStatsInterval:    time.Minute,
		},
		LogLevel: "info",
	}
}

// Load reads path on top of the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("DATABASE_URL", &c.Database.URL)
	str("PORT", &c.Server.Port)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("MINIO_ENDPOINT", &c.Minio.Endpoint)
	str("MINIO_ACCESS_KEY", &c.Minio.AccessKey)
	str("MINIO_SECRET_KEY", &c.Minio.SecretKey)
	str("MINIO_BUCKET", &c.Minio.Bucket)
	str("MINIO_PUBLIC_URL", &c.Minio.PublicURL)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup("REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB must be an integer: %w", err)
		}
		c.Redis.DB = db
	}
	if v, ok := lookup("MINIO_USE_SSL"); ok && v != "" {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MINIO_USE_SSL must be a boolean: %w", err)
		}
		c.Minio.UseSSL = useSSL
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = nil
		for _, broker := range strings.Split(v, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				c.Kafka.Brokers = append(c.Kafka.Brokers, broker)
			}
		}
	}
	return nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database url is required (DATABASE_URL)")
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Minio.Endpoint != "" && c.Minio.Bucket == "" {
		return errors.New("minio bucket is required when an endpoint is set")
	}
	return nil
}
