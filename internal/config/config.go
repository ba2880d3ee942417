// Package config loads the single Config value the server is built from.
package config

import (
	"time"

	"github.com/maxviazov/openapi-skeleton/internal/logger"
)

// Config is constructed once at startup and passed explicitly to whatever needs it.
type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Server     ServerConfig        `mapstructure:"server"`
	Logger     logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	OpenAPI    OpenAPIConfig       `mapstructure:"openapi"`
	Auth       AuthConfig          `mapstructure:"auth"`
	DataSource DataSourceConfig    `mapstructure:"data_source"`
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	Redis      RedisConfig         `mapstructure:"redis"`
	CORS       CORSConfig          `mapstructure:"cors"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env" validate:"oneof=dev test staging prod"`
	Port    int    `mapstructure:"port" validate:"gt=0,lt=65536"`
}

// ServerConfig covers both listeners. AdminPort serves build metadata.
type ServerConfig struct {
	AdminPort       int           `mapstructure:"admin_port" validate:"gt=0,lt=65536"`
	PublicURL       string        `mapstructure:"public_url" validate:"omitempty,url"`
	TLS             TLSConfig     `mapstructure:"tls"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type TLSConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	KeyPath        string `mapstructure:"key_path" validate:"required_if=Enabled true"`
	CertPath       string `mapstructure:"cert_path" validate:"required_if=Enabled true"`
	SecureProtocol string `mapstructure:"secure_protocol" validate:"oneof=TLSv1.2 TLSv1.3"`
}

type OpenAPIConfig struct {
	// StrictValidation replaces schema-invalid responses with an error
	// instead of only logging them.
	StrictValidation bool `mapstructure:"strict_validation"`
	ValidateRequests bool `mapstructure:"validate_requests"`
}

type AuthConfig struct {
	Mode         string `mapstructure:"mode" validate:"oneof=none basic jwt"`
	Username     string `mapstructure:"username" validate:"required_if=Mode basic"`
	PasswordHash string `mapstructure:"password_hash" validate:"required_if=Mode basic"`
	JWTSecret    string `mapstructure:"jwt_secret" validate:"required_if=Mode jwt"`
	JWTIssuer    string `mapstructure:"jwt_issuer"`
}

type DataSourceConfig struct {
	Type     string `mapstructure:"type" validate:"required"`
	JSONPath string `mapstructure:"json_path"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"dbname"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	TTL         time.Duration `mapstructure:"ttl"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}
