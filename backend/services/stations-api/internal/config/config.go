package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	libconfig "evcharging/backend/libs/config"
	libdb "evcharging/backend/libs/db"
)

const (
	defaultPort            = "3001"
	defaultTokenHours      = 7 * 24
	defaultRedisTTL        = 300
	defaultShutdownTimeout = 10 * time.Second
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "evcharging"
	defaultAdminUsername   = "admin"
	defaultAdminEmail      = "admin@example.com"
	defaultAdminPassword   = "password123"
)

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port               string        `yaml:"port" env:"PORT"`
	CORSOrigin         string        `yaml:"corsOrigin" env:"CORS_ORIGIN"`
	ExposeErrorDetails bool          `yaml:"exposeErrorDetails" env:"EXPOSE_ERROR_DETAILS"`
	ShutdownTimeout    time.Duration `yaml:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig selects the store. DSN wins over the discrete postgres fields.
type DatabaseConfig struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"`
	DSN      string `yaml:"dsn" env:"DATABASE_URL"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret         string `yaml:"secret" env:"JWT_SECRET"`
	ExpiresInHours int    `yaml:"expiresInHours" env:"JWT_EXPIRES_HOURS"`
}

// RedisConfig enables the station cache when Addr is set.
type RedisConfig struct {
	Addr       string `yaml:"addr" env:"REDIS_ADDR"`
	Password   string `yaml:"password" env:"REDIS_PASSWORD"`
	DB         int    `yaml:"db" env:"REDIS_DB"`
	TTLSeconds int    `yaml:"ttlSeconds" env:"REDIS_TTL_SECONDS"`
}

// SeedConfig controls first-start sample data.
type SeedConfig struct {
	Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED"`
	AdminUsername string `yaml:"adminUsername" env:"SEED_ADMIN_USERNAME"`
	AdminEmail    string `yaml:"adminEmail" env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `yaml:"adminPassword" env:"SEED_ADMIN_PASSWORD"`
}

// Config represents service configuration loaded from .env/YAML/env.
type Config struct {
	HTTP       HTTPConfig     `yaml:"http"`
	Database   DatabaseConfig `yaml:"database"`
	JWT        JWTConfig      `yaml:"jwt"`
	Redis      RedisConfig    `yaml:"redis"`
	Seed       SeedConfig     `yaml:"seed"`
	BcryptCost int            `yaml:"bcryptCost" env:"BCRYPT_COST"`
}

// Default returns the configuration used before any source is applied.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:               defaultPort,
			CORSOrigin:         "*",
			ExposeErrorDetails: true,
			ShutdownTimeout:    defaultShutdownTimeout,
		},
		Database: DatabaseConfig{
			Driver: libdb.DriverPostgres,
			Host:   defaultDBHost,
			Port:   defaultDBPort,
			User:   defaultDBUser,
			Name:   defaultDBName,
		},
		JWT: JWTConfig{ExpiresInHours: defaultTokenHours},
		Redis: RedisConfig{
			TTLSeconds: defaultRedisTTL,
		},
		Seed: SeedConfig{
			Enabled:       true,
			AdminUsername: defaultAdminUsername,
			AdminEmail:    defaultAdminEmail,
			AdminPassword: defaultAdminPassword,
		},
	}
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = libdb.DriverPostgres
	}

	switch c.Database.Driver {
	case libdb.DriverPostgres:
	case libdb.DriverSQLite:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("config: sqlite requires a database file path in dsn")
		}
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}

	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt secret is required")
	}
	if c.JWT.ExpiresInHours <= 0 {
		c.JWT.ExpiresInHours = defaultTokenHours
	}
	if c.Redis.TTLSeconds <= 0 {
		c.Redis.TTLSeconds = defaultRedisTTL
	}
	if c.Seed.Enabled && (c.Seed.AdminEmail == "" || c.Seed.AdminPassword == "" || c.Seed.AdminUsername == "") {
		return errors.New("config: seed admin username, email and password are required when seeding")
	}
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// DatabaseDSN returns the explicit DSN or one assembled from the postgres fields.
func (c *Config) DatabaseDSN() string {
	if dsn := strings.TrimSpace(c.Database.DSN); dsn != "" {
		return dsn
	}
	if c.Database.Driver == libdb.DriverSQLite {
		return ""
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=disable",
	}
	if c.Database.Password != "" {
		u.User = url.UserPassword(c.Database.User, c.Database.Password)
	} else {
		u.User = url.User(c.Database.User)
	}
	return u.String()
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInHours <= 0 {
		return defaultTokenHours * time.Hour
	}
	return time.Duration(c.JWT.ExpiresInHours) * time.Hour
}

// RedisTTL converts the cache TTL to a duration.
func (c *Config) RedisTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return defaultRedisTTL * time.Second
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}
