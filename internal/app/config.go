package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/pantry-backend/internal/data/db"
	"github.com/yungbote/pantry-backend/internal/platform/envutil"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
	"github.com/yungbote/pantry-backend/internal/temporalx"
)

type Config struct {
	HTTPAddr    string   `yaml:"http_addr"`
	LogMode     string   `yaml:"log_mode"`
	ServiceName string   `yaml:"service_name"`
	Environment string   `yaml:"environment"`
	Timezone    string   `yaml:"timezone"`
	CORSOrigins []string `yaml:"cors_origins"`

	JWTSecretKey   string        `yaml:"jwt_secret_key"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`

	Database db.Config        `yaml:"database"`
	Redis    RedisConfig      `yaml:"redis"`
	Kafka    KafkaConfig      `yaml:"kafka"`
	Shopping ShoppingConfig   `yaml:"shopping"`
	Temporal temporalx.Config `yaml:"temporal"`
}

type RedisConfig struct {
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type ShoppingConfig struct {
	WriteRetries int           `yaml:"write_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	SlowWrite    time.Duration `yaml:"slow_write"`
	StaleAfter   time.Duration `yaml:"stale_after"`
	SweepLimit   int           `yaml:"sweep_limit"`
	SweepCron    string        `yaml:"sweep_cron"`
}

func defaultConfig() Config {
	return Config{
		HTTPAddr:       ":8080",
		LogMode:        "development",
		ServiceName:    "pantry",
		Timezone:       "UTC",
		AccessTokenTTL: time.Hour,
		Database: db.Config{
			Driver: "postgres",
			Host:   "localhost",
			Port:   "5432",
			User:   "postgres",
			Name:   "pantry",
		},
		Redis: RedisConfig{Channel: "shopping-session-events"},
		Kafka: KafkaConfig{Topic: "shopping-session-events"},
		Shopping: ShoppingConfig{
			WriteRetries: 3,
			RetryBackoff: 25 * time.Millisecond,
			SlowWrite:    500 * time.Millisecond,
			StaleAfter:   12 * time.Hour,
			SweepLimit:   100,
			SweepCron:    "*/15 * * * *",
		},
		Temporal: temporalx.Config{
			Namespace:         "pantry",
			TaskQueue:         "pantry",
			DialTimeout:       5 * time.Second,
			DialMaxWait:       60 * time.Second,
			WorkerConcurrency: 2,
		},
	}
}

// LoadConfig layers the YAML file named by PANTRY_CONFIG (if any) over the
// defaults, then environment variables over both.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("PANTRY_CONFIG", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg)

	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return cfg, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return cfg, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddr = envutil.String("HTTP_ADDR", cfg.HTTPAddr)
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTPAddr = ":" + port
	}
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = envutil.String("APP_ENV", cfg.Environment)
	cfg.Timezone = envutil.String("APP_TIMEZONE", cfg.Timezone)
	cfg.CORSOrigins = envList("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)
	cfg.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)

	cfg.Database.Driver = envutil.String("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = envutil.String("POSTGRES_DSN", cfg.Database.DSN)
	cfg.Database.Host = envutil.String("POSTGRES_HOST", cfg.Database.Host)
	cfg.Database.Port = envutil.String("POSTGRES_PORT", cfg.Database.Port)
	cfg.Database.User = envutil.String("POSTGRES_USER", cfg.Database.User)
	cfg.Database.Password = envutil.String("POSTGRES_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = envutil.String("POSTGRES_NAME", cfg.Database.Name)
	cfg.Database.MaxOpenConns = envutil.Int("POSTGRES_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)
	cfg.Kafka.Brokers = envList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = envutil.String("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.Shopping.WriteRetries = envutil.Int("SHOPPING_WRITE_RETRIES", cfg.Shopping.WriteRetries)
	cfg.Shopping.RetryBackoff = envutil.Duration("SHOPPING_RETRY_BACKOFF", cfg.Shopping.RetryBackoff)
	cfg.Shopping.SlowWrite = envutil.Duration("SHOPPING_SLOW_WRITE", cfg.Shopping.SlowWrite)
	cfg.Shopping.StaleAfter = envutil.Duration("SHOPPING_STALE_AFTER", cfg.Shopping.StaleAfter)
	cfg.Shopping.SweepLimit = envutil.Int("SHOPPING_SWEEP_LIMIT", cfg.Shopping.SweepLimit)
	cfg.Shopping.SweepCron = envutil.String("SHOPPING_SWEEP_CRON", cfg.Shopping.SweepCron)

	t := &cfg.Temporal
	t.Address = envutil.String("TEMPORAL_ADDRESS", t.Address)
	t.Namespace = envutil.String("TEMPORAL_NAMESPACE", t.Namespace)
	t.TaskQueue = envutil.String("TEMPORAL_TASK_QUEUE", t.TaskQueue)
	t.ClientCertPath = envutil.String("TEMPORAL_CLIENT_CERT_PATH", t.ClientCertPath)
	t.ClientKeyPath = envutil.String("TEMPORAL_CLIENT_KEY_PATH", t.ClientKeyPath)
	t.ClientCAPath = envutil.String("TEMPORAL_CLIENT_CA_PATH", t.ClientCAPath)
	t.AutoRegisterNamespace = envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", t.AutoRegisterNamespace)
	t.DialTimeout = envutil.Duration("TEMPORAL_DIAL_TIMEOUT", t.DialTimeout)
	t.DialMaxWait = envutil.Duration("TEMPORAL_DIAL_MAX_WAIT", t.DialMaxWait)
	t.WorkerConcurrency = envutil.Int("TEMPORAL_WORKER_CONCURRENCY", t.WorkerConcurrency)
}

func envList(name string, def []string) []string {
	raw := envutil.String(name, "")
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
