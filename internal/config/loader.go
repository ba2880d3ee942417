package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minJWTSecretLen = 32

// secretEnv lists every accepted environment name per secret key, canonical first.
var secretEnv = map[string][]string{
	"postgres.user":      {"APP_POSTGRES_USER", "POSTGRES_USER", "DB_USER"},
	"postgres.password":  {"APP_POSTGRES_PASSWORD", "POSTGRES_PASSWORD", "DB_PASSWORD"},
	"postgres.dbname":    {"APP_POSTGRES_DB", "POSTGRES_DB", "DB_NAME"},
	"auth.password_hash": {"APP_AUTH_PASSWORD_HASH"},
	"auth.jwt_secret":    {"APP_AUTH_JWT_SECRET", "JWT_SECRET"},
	"redis.password":     {"APP_REDIS_PASSWORD", "REDIS_PASSWORD"},
}

// Load reads the YAML file at path, overlays APP_* environment variables and
// validates the result. A .env file next to the config is loaded first if present.
func Load(path string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	setDefaults(v)
	for key, names := range secretEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks field rules plus the cross-section requirements of the
// selected data source and auth mode.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}

	if c.DataSource.Type == "postgres" {
		var missing []string
		if c.Postgres.Host == "" {
			missing = append(missing, "postgres.host")
		}
		if c.Postgres.User == "" {
			missing = append(missing, "postgres.user")
		}
		if c.Postgres.Password == "" {
			missing = append(missing, "postgres.password")
		}
		if c.Postgres.DBName == "" {
			missing = append(missing, "postgres.dbname")
		}
		if len(missing) > 0 {
			return fmt.Errorf("config validation error: postgres data source requires %s", strings.Join(missing, ", "))
		}
	}
	if c.Auth.Mode == "jwt" && len(c.Auth.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("config validation error: auth.jwt_secret must be at least %d characters", minJWTSecretLen)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "openapi-skeleton")
	v.SetDefault("app.version", "0.0.1")
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.port", 8080)

	v.SetDefault("server.admin_port", 8081)
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.key_path", "")
	v.SetDefault("server.tls.cert_path", "")
	v.SetDefault("server.tls.secure_protocol", "TLSv1.2")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("openapi.strict_validation", false)
	v.SetDefault("openapi.validate_requests", true)

	v.SetDefault("auth.mode", "none")
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.jwt_issuer", "")

	v.SetDefault("data_source.type", "json")
	v.SetDefault("data_source.json_path", "data/pets.yaml")

	v.SetDefault("postgres.host", "")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Minute)
	v.SetDefault("redis.dial_timeout", 5*time.Second)

	v.SetDefault("cors.allowed_origins", []string{})
}
