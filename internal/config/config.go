package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset outside production.
const DevJWTSecret = "super-secret-key-change-in-production"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port     string `env:"PORT"      envDefault:"3000"`
	Env      string `env:"APP_ENV"   envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreBackend selects persistence: "mongo" (users in PostgreSQL,
	// checklists in MongoDB) or "memory".
	StoreBackend  string        `env:"STORE_BACKEND"  envDefault:"mongo"`
	PostgresDSN   string        `env:"POSTGRES_DSN"`
	MongoURI      string        `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDB       string        `env:"MONGO_DB"       envDefault:"rv-checklist"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	UserCacheTTL  time.Duration `env:"USER_CACHE_TTL" envDefault:"30s"`

	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL"     envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:4200"`

	AutoSeed      bool   `env:"AUTO_SEED"      envDefault:"false"`
	AdminEmail    string `env:"ADMIN_EMAIL"    envDefault:"admin@rvchecklist.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"Admin123!"`
}

// Load parses the environment and applies defaults. The returned config is
// not yet validated.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Validate checks cross-field constraints and fills the development signing
// secret when allowed. It reports whether the development secret is in use.
func (c *Config) Validate() (usingDevSecret bool, err error) {
	switch c.StoreBackend {
	case "mongo":
		if c.PostgresDSN == "" {
			return false, errors.New("POSTGRES_DSN is required with STORE_BACKEND=mongo")
		}
	case "memory":
	default:
		return false, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.JWTTTL <= 0 {
		return false, errors.New("JWT_TTL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return false, fmt.Errorf("BCRYPT_COST %d out of range [4,31]", c.BcryptCost)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return false, errors.New("JWT_SECRET is required in production")
		}
		c.JWTSecret = DevJWTSecret
		return true, nil
	}
	return false, nil
}
