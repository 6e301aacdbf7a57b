package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string        `yaml:"addr"`
	DBDriver    string        `yaml:"db_driver"`
	DBPath      string        `yaml:"db_path"`
	MySQLDSN    string        `yaml:"mysql_dsn"`
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	BcryptCost  int           `yaml:"bcrypt_cost"`
	LogLevel    string        `yaml:"log_level"`
	LogFormat   string        `yaml:"log_format"`
	CORSOrigins []string      `yaml:"cors_origins"`
	RedisAddr   string        `yaml:"redis_addr"`
	RateLimits  RateLimits    `yaml:"rate_limits"`
}

type RateLimits struct {
	AuthPerMinute    int `yaml:"auth_per_minute"`
	CommentPerMinute int `yaml:"comment_per_minute"`
}

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

func Default() Config {
	return Config{
		Addr:        ":8080",
		DBDriver:    DriverSQLite,
		DBPath:      "remarks.db",
		TokenSecret: "dev-token-secret",
		TokenTTL:    24 * time.Hour,
		BcryptCost:  10,
		LogLevel:    "info",
		LogFormat:   "json",
		CORSOrigins: []string{"*"},
		RateLimits: RateLimits{
			AuthPerMinute:    10,
			CommentPerMinute: 30,
		},
	}
}

// Load returns the defaults overridden by REMARKS_* environment variables.
func Load() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

// LoadFile reads a YAML config file on top of the defaults. Environment
// variables still take precedence over the file.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for the sqlite driver")
		}
	case DriverMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("mysql_dsn is required for the mysql driver")
		}
	default:
		return fmt.Errorf("unknown db driver %q", c.DBDriver)
	}
	if c.TokenSecret == "" {
		return fmt.Errorf("token_secret must not be empty")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	cfg.Addr = envString("REMARKS_ADDR", cfg.Addr)
	cfg.DBDriver = envString("REMARKS_DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = envString("REMARKS_DB", cfg.DBPath)
	cfg.MySQLDSN = envString("REMARKS_MYSQL_DSN", cfg.MySQLDSN)
	cfg.TokenSecret = envString("REMARKS_TOKEN_SECRET", cfg.TokenSecret)
	cfg.TokenTTL = envDuration("REMARKS_TOKEN_TTL", cfg.TokenTTL)
	cfg.BcryptCost = envInt("REMARKS_BCRYPT_COST", cfg.BcryptCost)
	cfg.LogLevel = envString("REMARKS_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envString("REMARKS_LOG_FORMAT", cfg.LogFormat)
	cfg.CORSOrigins = envList("REMARKS_CORS_ORIGINS", cfg.CORSOrigins)
	cfg.RedisAddr = envString("REMARKS_REDIS_ADDR", cfg.RedisAddr)
	cfg.RateLimits.AuthPerMinute = envInt("REMARKS_RL_AUTH_PER_MIN", cfg.RateLimits.AuthPerMinute)
	cfg.RateLimits.CommentPerMinute = envInt("REMARKS_RL_COMMENT_PER_MIN", cfg.RateLimits.CommentPerMinute)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
