package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DefaultConfigFile is read for keys missing from the environment.
const DefaultConfigFile = ".env"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// TrustedProxies lists the CIDR ranges allowed to set X-Forwarded-For.
	// Empty means the client IP is always the connection's remote address.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Auth      AuthConfig     `env:",prefix=AUTH_"`
	BookStore MongoConfig    `env:",prefix=BOOKSTORE_"`
	UserStore MongoConfig    `env:",prefix=USERSTORE_"`
	Redis     RedisConfig    `env:",prefix=REDIS_"`
	Throttle  ThrottleConfig `env:",prefix=THROTTLE_"`
	Audit     AuditConfig    `env:",prefix=AUDIT_"`
}

type AuthConfig struct {
	SecretKey string `env:"SECRET_KEY, required"`
	// SeedAdmin is the only username allowed to call the admin bootstrap.
	SeedAdmin          string        `env:"SEED_ADMIN"`
	LockoutMaxAttempts int           `env:"LOCKOUT_MAX_ATTEMPTS, default=5"`
	LockoutDuration    time.Duration `env:"LOCKOUT_DURATION,     default=5m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB"`
}

type RedisConfig struct {
	Enabled bool   `env:"ENABLED, default=true"`
	Addr    string `env:"ADDR,    default=localhost:6379"`
	DB      int    `env:"DB,      default=0"`
}

type ThrottleConfig struct {
	Limit  int           `env:"LIMIT,  default=10"`
	Window time.Duration `env:"WINDOW, default=1m"`
}

type AuditConfig struct {
	Workers int `env:"WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// TrustedProxyRanges parses TrustedProxies.
func (c *Config) TrustedProxyRanges() ([]*net.IPNet, error) {
	ranges := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		_, ipNet, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("config: TRUSTED_PROXIES: %w", err)
		}
		ranges = append(ranges, ipNet)
	}
	return ranges, nil
}

// Load reads configuration from the process environment, falling back to the
// key/value file named by CONFIG_FILE (default .env). A missing file is not
// an error; a missing AUTH_SECRET_KEY is.
func Load(ctx context.Context) (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultConfigFile
	}

	fileValues, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		fileValues = map[string]string{}
	}

	return LoadWith(ctx, envconfig.MultiLookuper(
		envconfig.OsLookuper(),
		envconfig.MapLookuper(fileValues),
	))
}

// LoadWith processes configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	if _, err := cfg.TrustedProxyRanges(); err != nil {
		return nil, err
	}

	if cfg.BookStore.Database == "" {
		cfg.BookStore.Database = "bookstore"
	}
	if cfg.UserStore.Database == "" {
		cfg.UserStore.Database = "identity"
	}
	return &cfg, nil
}
