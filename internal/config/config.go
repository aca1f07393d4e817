// Package config loads runtime settings from the environment
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

// Prefix is prepended to every environment variable name
const Prefix = "SPELLCANON_"

// Config holds process settings. Every field can be set through a
// SPELLCANON_ prefixed variable, e.g. SPELLCANON_REDIS_ADDR.
type Config struct {
	RedisAddr         string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisUseTLS       bool          `env:"REDIS_USE_TLS"`
	GRPCPort          int           `env:"GRPC_PORT" envDefault:"50051"`
	AdvisoryMax       float64       `env:"ADVISORY_MAX"`
	ImportConcurrency int           `env:"IMPORT_CONCURRENCY" envDefault:"4"`
	SRDBaseURL        string        `env:"SRD_BASE_URL"`
	SRDCacheTTL       time.Duration `env:"SRD_CACHE_TTL" envDefault:"24h"`
	HTTPTimeout       time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and then parses the environment
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load(envFiles...)

	return Parse()
}

// Parse builds a Config from the current environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	if cfg.AdvisoryMax == 0 {
		cfg.AdvisoryMax = spell.DefaultAdvisoryMax
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges the environment parser cannot express
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		vb.Fieldf("grpc_port", "must be between 1 and 65535, got %d", c.GRPCPort)
	}
	if c.AdvisoryMax < 0 {
		vb.Field("advisory_max", "must not be negative")
	}
	if c.ImportConcurrency < 0 {
		vb.Field("import_concurrency", "must not be negative")
	}
	if c.SRDCacheTTL < 0 {
		vb.Field("srd_cache_ttl", "must not be negative")
	}
	if c.HTTPTimeout < 0 {
		vb.Field("http_timeout", "must not be negative")
	}

	return vb.Build()
}
