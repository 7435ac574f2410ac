// Package config читает config.yaml и переопределяет отдельные поля из окружения (и .env).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	AlgHS256 = "HS256"
	AlgRS256 = "RS256"
)

type HTTP struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	CORSOrigins     []string      `yaml:"corsOrigins"`
}

type GRPC struct {
	Enabled        bool          `yaml:"enabled"`
	Addr           string        `yaml:"addr"`
	DefaultTimeout time.Duration `yaml:"defaultTimeout"` // если у вызова нет deadline
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // chat-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	Level     string `yaml:"level"`     // debug|info|warn|error
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Storage struct {
	Driver string `yaml:"driver"` // postgres|sqlite
}

type Postgres struct {
	DSN               string        `yaml:"dsn"`
	MaxConns          int32         `yaml:"maxConns"`
	MinConns          int32         `yaml:"minConns"`
	MaxConnLifetime   time.Duration `yaml:"maxConnLifetime"`
	MaxConnIdleTime   time.Duration `yaml:"maxConnIdleTime"`
	HealthCheckPeriod time.Duration `yaml:"healthCheckPeriod"`
	ApplicationName   string        `yaml:"applicationName"`
	ConnectTimeout    time.Duration `yaml:"connectTimeout"`
	Migrate           bool          `yaml:"migrate"`
}

type SQLite struct {
	Path     string `yaml:"path"`
	PoolSize int    `yaml:"poolSize"`
}

type Password struct {
	MinLength  int `yaml:"minLength"`
	BcryptCost int `yaml:"bcryptCost"`
}

func (p *Password) validate() error {
	if p.MinLength == 0 {
		p.MinLength = 6
	}
	if p.MinLength < 4 {
		return errors.New("security.password.minLength must be >= 4")
	}
	if p.BcryptCost != 0 && (p.BcryptCost < 4 || p.BcryptCost > 18) {
		return errors.New("security.password.bcryptCost must be in [4..18]")
	}
	return nil
}

type JWT struct {
	Alg            string        `yaml:"alg"`            // HS256|RS256
	Secret         string        `yaml:"secret"`         // для HS256
	PrivateKeyPath string        `yaml:"privateKeyPath"` // для RS256
	PublicKeyPath  string        `yaml:"publicKeyPath"`  // для RS256
	Issuer         string        `yaml:"issuer"`
	Audience       string        `yaml:"audience"` // пусто: не проверяется
	AccessTTL      time.Duration `yaml:"accessTTL"`
	ClockSkew      time.Duration `yaml:"clockSkew"`
}

func (j *JWT) validate() error {
	if j.Alg == "" {
		j.Alg = AlgHS256
	}
	j.Alg = strings.ToUpper(j.Alg)
	switch j.Alg {
	case AlgHS256:
		if len(j.Secret) < 16 {
			return errors.New("security.jwt.secret must be at least 16 bytes for HS256")
		}
	case AlgRS256:
		if j.PrivateKeyPath == "" || j.PublicKeyPath == "" {
			return errors.New("security.jwt.privateKeyPath and publicKeyPath are required for RS256")
		}
	default:
		return fmt.Errorf("security.jwt.alg %q is not supported", j.Alg)
	}
	if j.Issuer == "" {
		j.Issuer = "chat-service"
	}
	if j.AccessTTL == 0 {
		j.AccessTTL = time.Hour
	}
	if j.AccessTTL < 0 {
		return errors.New("security.jwt.accessTTL must be > 0")
	}
	if j.ClockSkew < 0 || j.ClockSkew > time.Minute {
		return errors.New("security.jwt.clockSkew must be in [0..1m]")
	}
	return nil
}

type Security struct {
	Password Password `yaml:"password"`
	JWT      JWT      `yaml:"jwt"`
}

type Chat struct {
	MaxMessageLength  int `yaml:"maxMessageLength"`
	MaxRoomNameLength int `yaml:"maxRoomNameLength"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	GRPC     GRPC     `yaml:"grpc"`
	Logging  Logging  `yaml:"logging"`
	Storage  Storage  `yaml:"storage"`
	Postgres Postgres `yaml:"postgres"`
	SQLite   SQLite   `yaml:"sqlite"`
	Security Security `yaml:"security"`
	Chat     Chat     `yaml:"chat"`
}

// overrides: переменные окружения поверх yaml. Пустые не трогают значение из файла.
type overrides struct {
	HTTPAddr      *string `env:"CHAT_HTTP_ADDR"`
	GRPCAddr      *string `env:"CHAT_GRPC_ADDR"`
	StorageDriver *string `env:"CHAT_STORAGE_DRIVER"`
	PostgresDSN   *string `env:"CHAT_POSTGRES_DSN"`
	SQLitePath    *string `env:"CHAT_SQLITE_PATH"`
	JWTSecret     *string `env:"CHAT_JWT_SECRET"`
	LogLevel      *string `env:"CHAT_LOG_LEVEL"`
	LogEnv        *string `env:"APP_ENV"`
}

// LoadConfig читает файл из CONFIG_PATH (по умолчанию ./config/config.yaml).
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	return Load(path)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var o overrides
	if _, err := env.UnmarshalFromEnviron(&o); err != nil {
		return fmt.Errorf("read env overrides: %w", err)
	}
	set := func(dst *string, v *string) {
		if v != nil && *v != "" {
			*dst = *v
		}
	}
	set(&c.HTTP.Addr, o.HTTPAddr)
	set(&c.GRPC.Addr, o.GRPCAddr)
	set(&c.Storage.Driver, o.StorageDriver)
	set(&c.Postgres.DSN, o.PostgresDSN)
	set(&c.SQLite.Path, o.SQLitePath)
	set(&c.Security.JWT.Secret, o.JWTSecret)
	set(&c.Logging.Level, o.LogLevel)
	set(&c.Logging.Env, o.LogEnv)
	return nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.GRPC.Enabled && c.GRPC.Addr == "" {
		return errors.New("grpc.addr is required when grpc is enabled")
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = DriverSQLite
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverPostgres && c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if c.Storage.Driver == DriverSQLite && c.SQLite.Path == "" {
		c.SQLite.Path = "./data/chat.db"
	}

	if err := c.Security.Password.validate(); err != nil {
		return err
	}
	if err := c.Security.JWT.validate(); err != nil {
		return err
	}

	if c.Chat.MaxMessageLength < 0 || c.Chat.MaxRoomNameLength < 0 {
		return errors.New("chat limits must not be negative")
	}
	if c.Chat.MaxMessageLength == 0 {
		c.Chat.MaxMessageLength = 4000
	}
	if c.Chat.MaxRoomNameLength == 0 {
		c.Chat.MaxRoomNameLength = 100
	}

	// установка дефолтов, если значения не указаны
	if c.HTTP.RequestTimeout == 0 {
		c.HTTP.RequestTimeout = 30 * time.Second
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "chat-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	return nil
}
