package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/caarlos0/env/v10"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort        string   `env:"HTTP_PORT" envDefault:"8080"`
	StoreDriver     string   `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL     string   `env:"DATABASE_URL"`
	SQLitePath      string   `env:"SQLITE_PATH" envDefault:"villagers.db"`
	SeedDefaults    bool     `env:"SEED_DEFAULTS" envDefault:"true"`
	RedisAddr       string   `env:"REDIS_ADDR"`
	RedisPassword   string   `env:"REDIS_PASSWORD"`
	RedisDB         int      `env:"REDIS_DB" envDefault:"0"`
	CacheTTLSeconds int      `env:"CACHE_TTL_SECONDS" envDefault:"60"`
	CORSAllowOrigin string   `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`
	WriteRateLimit  int      `env:"WRITE_RATE_LIMIT" envDefault:"0"`
	WriteRateWindow int      `env:"WRITE_RATE_WINDOW_SECONDS" envDefault:"60"`
	// TrustedProxies vacio significa que no se confia en X-Forwarded-For.
	TrustedProxies  []string `env:"TRUSTED_PROXIES" envSeparator:","`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
	CLILogLevel     string   `env:"CLI_LOG_LEVEL" envDefault:"warn"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	proxies := cfg.TrustedProxies[:0]
	for _, p := range cfg.TrustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	cfg.TrustedProxies = proxies
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que los tags de env no pueden expresar.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, DriverPostgres, DriverSQLite)
	}
	if c.WriteRateLimit < 0 || c.WriteRateWindow < 0 {
		return errors.New("WRITE_RATE_LIMIT and WRITE_RATE_WINDOW_SECONDS must not be negative")
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p)
			}
		}
	}
	if c.CacheTTLSeconds < 0 {
		return errors.New("CACHE_TTL_SECONDS must not be negative")
	}
	return nil
}
