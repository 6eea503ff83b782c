package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
	SessionStoreMemory   = "memory"
)

// devOrigins are always allowed outside production (local static file server).
var devOrigins = []string{"http://localhost:5500", "http://127.0.0.1:5500"}

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", SESSION_SECRET must be set
	// and the session cookie becomes Secure with SameSite=None.
	Env string

	// DatabaseURL overrides the DB_* fields when set.
	DatabaseURL string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	SessionSecret string
	// SessionSecretGenerated is true when no secret was configured and a
	// per-process one was generated. Sessions do not survive a restart then.
	SessionSecretGenerated bool

	// SessionStore selects where sessions live: postgres (default), redis or memory.
	SessionStore string
	// SessionPurgeCron is the cron spec for purging expired sessions.
	SessionPurgeCron string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PokeAPIURL      string
	DigiAPIURL      string
	UpstreamTimeout time.Duration

	BcryptCost int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins lists exact origins and "*." wildcard-subdomain patterns
	// (e.g. https://*.vercel.app). Set via CORS_ALLOWED_ORIGINS (comma-separated).
	CORSAllowedOrigins []string
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("ENV", EnvDev),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "mashupdb"),
		DBUser:      getEnv("DB_USER", "mashup"),
		DBPass:      getEnv("DB_PASS", "mashup"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		SessionSecret:    getEnv("SESSION_SECRET", ""),
		SessionStore:     getEnv("SESSION_STORE", SessionStorePostgres),
		SessionPurgeCron: getEnv("SESSION_PURGE_CRON", "@every 1h"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		PokeAPIURL:      strings.TrimRight(getEnv("POKEAPI_URL", "https://pokeapi.co/api/v2"), "/"),
		DigiAPIURL:      strings.TrimRight(getEnv("DIGIAPI_URL", "https://digi-api.com/api/v1"), "/"),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 5*time.Second),

		BcryptCost: getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	if cfg.Env != EnvProd {
		cfg.CORSAllowedOrigins = appendMissing(cfg.CORSAllowedOrigins, devOrigins...)
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = randomSecret()
			cfg.SessionSecretGenerated = true
		}
	}

	return cfg
}

// Validate reports configuration that the server must not start with.
func (c Config) Validate() error {
	var errs []error
	if c.Env != EnvDev && c.Env != EnvProd {
		errs = append(errs, fmt.Errorf("ENV must be %q or %q, got %q", EnvDev, EnvProd, c.Env))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	switch c.SessionStore {
	case SessionStorePostgres, SessionStoreRedis, SessionStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be postgres, redis or memory, got %q", c.SessionStore))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool {
	return c.Env == EnvProd
}

// PostgresURL returns the DSN used both by database/sql and golang-migrate.
func (c Config) PostgresURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, strings.TrimRight(o, "/"))
		}
	}
	return out
}

func appendMissing(list []string, items ...string) []string {
	for _, it := range items {
		found := false
		for _, l := range list {
			if l == it {
				found = true
				break
			}
		}
		if !found {
			list = append(list, it)
		}
	}
	return list
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
