// Package config loads the talentboard YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gmllt/talentboard/internal/store/s3store"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type PostgresConfig struct {
	URL string `yaml:"url"`
}

type StoreConfig struct {
	Backend  string         `yaml:"backend"`
	S3       s3store.Config `yaml:"s3"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// User is an account allowed to log in. PasswordHash is a bcrypt hash, as
// printed by `talentboard hash-password`.
type User struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

type AuthConfig struct {
	SigningKey string        `yaml:"signing_key"`
	Issuer     string        `yaml:"issuer"`
	AccessTTL  time.Duration `yaml:"access_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl"`
	Users      []User        `yaml:"users"`
}

type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	Auth   AuthConfig   `yaml:"auth"`
	Events EventsConfig `yaml:"events"`
}

// Default returns the configuration used for anything the file leaves out.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log:   LogConfig{Level: "info"},
		Store: StoreConfig{Backend: BackendMemory},
		Auth: AuthConfig{
			Issuer:     "talentboard",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
	}
}

// Load reads path on top of Default, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TALENTBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TALENTBOARD_JWT_KEY"); v != "" {
		cfg.Auth.SigningKey = v
	}
	if v := os.Getenv("TALENTBOARD_DATABASE_URL"); v != "" {
		cfg.Store.Postgres.URL = v
	}
	if v := os.Getenv("TALENTBOARD_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("TALENTBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendMemory:
	case BackendS3:
		if c.Store.S3.Endpoint == "" || c.Store.S3.Bucket == "" {
			errs = append(errs, errors.New("store.s3: endpoint and bucket are required"))
		}
	case BackendPostgres:
		if c.Store.Postgres.URL == "" {
			errs = append(errs, errors.New("store.postgres: url is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend))
	}
	if c.Auth.SigningKey == "" {
		errs = append(errs, errors.New("auth.signing_key is required (or TALENTBOARD_JWT_KEY)"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("auth: token ttls must be positive"))
	}
	for i, u := range c.Auth.Users {
		if u.Username == "" || u.PasswordHash == "" {
			errs = append(errs, fmt.Errorf("auth.users[%d]: username and password_hash are required", i))
		}
	}
	return errors.Join(errs...)
}
