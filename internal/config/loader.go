package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rpattn/moviesapi/internal/db"
	"github.com/rpattn/moviesapi/internal/logging"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig
	Database  db.Config
	Auth      AuthConfig
	Log       logging.Config
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TokenTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	TokenPerMinute    int
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: db.DefaultConfig(),
		Auth: AuthConfig{
			Issuer:   "https://id.me.com",
			Audience: "https://movies.me.com",
			TokenTTL: 8 * time.Hour,
		},
		Log: logging.DefaultConfig(),
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 600,
			TokenPerMinute:    10,
		},
	}
}

// Load reads defaults, then config.yaml in configPath, then a .env file in configPath,
// then the environment. Database keys use the DB_ prefix, everything else APP_.
func Load(configPath string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(filepath.Join(configPath, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	dbConfig, err := LoadDBConfig(configPath)
	if err != nil {
		return Config{}, err
	}
	cfg.Database = dbConfig

	v := newViper(configPath, "APP")
	for _, key := range []string{
		"server.host", "server.port", "server.read_timeout", "server.write_timeout",
		"server.idle_timeout", "server.shutdown_timeout",
		"auth.secret", "auth.issuer", "auth.audience", "auth.token_ttl",
		"log.level", "log.format", "log.caller",
		"cors.allowed_origins",
		"rate_limit.requests_per_minute", "rate_limit.token_per_minute",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	if v.IsSet("server.host") {
		cfg.Server.Host = v.GetString("server.host")
	}
	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("server.read_timeout") {
		cfg.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	}
	if v.IsSet("server.write_timeout") {
		cfg.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	}
	if v.IsSet("server.idle_timeout") {
		cfg.Server.IdleTimeout = v.GetDuration("server.idle_timeout")
	}
	if v.IsSet("server.shutdown_timeout") {
		cfg.Server.ShutdownTimeout = v.GetDuration("server.shutdown_timeout")
	}
	if v.IsSet("auth.secret") {
		cfg.Auth.Secret = v.GetString("auth.secret")
	}
	if v.IsSet("auth.issuer") {
		cfg.Auth.Issuer = v.GetString("auth.issuer")
	}
	if v.IsSet("auth.audience") {
		cfg.Auth.Audience = v.GetString("auth.audience")
	}
	if v.IsSet("auth.token_ttl") {
		cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.format") {
		cfg.Log.Format = v.GetString("log.format")
	}
	if v.IsSet("log.caller") {
		cfg.Log.Caller = v.GetBool("log.caller")
	}
	if v.IsSet("cors.allowed_origins") {
		cfg.CORS.AllowedOrigins = splitList(v.GetStringSlice("cors.allowed_origins"))
	}
	if v.IsSet("rate_limit.requests_per_minute") {
		cfg.RateLimit.RequestsPerMinute = v.GetInt("rate_limit.requests_per_minute")
	}
	if v.IsSet("rate_limit.token_per_minute") {
		cfg.RateLimit.TokenPerMinute = v.GetInt("rate_limit.token_per_minute")
	}

	if cfg.Auth.Secret == "" {
		return Config{}, errors.New("auth.secret (APP_AUTH_SECRET) is required")
	}

	return cfg, nil
}

// LoadDBConfig reads the database section, honouring DB_HOST, DB_PORT and friends.
func LoadDBConfig(configPath string) (db.Config, error) {
	cfg := db.DefaultConfig()

	v := newViper(configPath, "DB")
	// database.host maps to DB_HOST rather than DB_DATABASE_HOST
	for _, key := range []string{"host", "port", "user", "password", "dbname", "sslmode", "max_conns", "min_conns"} {
		_ = v.BindEnv("database."+key, "DB_"+strings.ToUpper(key))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return db.Config{}, err
		}
		logging.Debug().Str("path", configPath).Msg("no config.yaml found, using defaults and env vars")
	}

	if v.IsSet("database.host") {
		cfg.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("database.max_conns") {
		cfg.MaxConns = v.GetInt32("database.max_conns")
	}
	if v.IsSet("database.min_conns") {
		cfg.MinConns = v.GetInt32("database.min_conns")
	}

	return cfg, nil
}

func newViper(configPath, envPrefix string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
