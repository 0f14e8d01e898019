package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"skyview-backend/utils"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("config: unsupported config file format")
	ErrReadFile          = errors.New("config: failed to read config file")
	ErrParse             = errors.New("config: failed to parse config file")
	ErrInvalidValue      = errors.New("config: invalid value")
)

type Config struct {
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Database DatabaseConfig `toml:"database" yaml:"database"`
	Logs     LogsConfig     `toml:"logs" yaml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
	Auth     AuthConfig     `toml:"auth" yaml:"auth"`
	WhatsApp WhatsAppConfig `toml:"whatsapp" yaml:"whatsapp"`
	Telegram TelegramConfig `toml:"telegram" yaml:"telegram"`
	Redis    RedisConfig    `toml:"redis" yaml:"redis"`
	Digest   DigestConfig   `toml:"digest" yaml:"digest"`
	App      AppConfig      `toml:"app" yaml:"app"`

	// GeneratedSecret is set when no JWT secret was configured and a random one was used.
	GeneratedSecret bool `toml:"-" yaml:"-"`
}

type ServerConfig struct {
	Port            int      `toml:"port" yaml:"port"`
	ReadTimeout     int      `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins" yaml:"allowed_origins"`
	Mode            string   `toml:"mode" yaml:"mode"`
}

type DatabaseConfig struct {
	URL             string `toml:"url" yaml:"url"`
	MaxOpenConns    int    `toml:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate" yaml:"auto_migrate"`
}

type LogsConfig struct {
	File  string `toml:"file" yaml:"file"`
	Level string `toml:"level" yaml:"level"`
}

type MetricsConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	Path      string `toml:"path" yaml:"path"`
	Namespace string `toml:"namespace" yaml:"namespace"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret" yaml:"jwt_secret"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes" yaml:"token_ttl_minutes"`
}

type WhatsAppConfig struct {
	AccountSID         string `toml:"account_sid" yaml:"account_sid"`
	AuthToken          string `toml:"auth_token" yaml:"auth_token"`
	From               string `toml:"from" yaml:"from"`
	AdminPhone         string `toml:"admin_phone" yaml:"admin_phone"`
	TemplateContentSID string `toml:"template_content_sid" yaml:"template_content_sid"`
	CountryCode        string `toml:"country_code" yaml:"country_code"`
	NotifyCustomer     bool   `toml:"notify_customer" yaml:"notify_customer"`
}

type TelegramConfig struct {
	BotToken    string `toml:"bot_token" yaml:"bot_token"`
	AdminChatID int64  `toml:"admin_chat_id" yaml:"admin_chat_id"`
}

type RedisConfig struct {
	Address  string `toml:"address" yaml:"address"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
	PoolSize int    `toml:"pool_size" yaml:"pool_size"`
}

type DigestConfig struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Schedule string `toml:"schedule" yaml:"schedule"`
}

type AppConfig struct {
	Name         string `toml:"name" yaml:"name"`
	Timezone     string `toml:"timezone" yaml:"timezone"`
	ContactPhone string `toml:"contact_phone" yaml:"contact_phone"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			AllowedOrigins:  []string{"http://localhost:3000"},
			Mode:            "release",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "skyview"},
		Auth:    AuthConfig{TokenTTLMinutes: 60},
		WhatsApp: WhatsAppConfig{
			From:        "whatsapp:+14155238886",
			CountryCode: "91",
		},
		Digest: DigestConfig{Schedule: "0 8 * * *"},
		App: AppConfig{
			Name:         "SkyView Cleaning Services",
			ContactPhone: "+91 9623707524",
		},
	}
}

// Load reads .env, then the config file at path (TOML or YAML by extension),
// then applies environment overrides. A missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = utils.GenerateJWTSecret()
		cfg.GeneratedSecret = true
	}

	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return nil, fmt.Errorf("%w: app.timezone %q: %v", ErrInvalidValue, cfg.App.Timezone, err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrReadFile, path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	setString("DB_URL", &cfg.Database.URL)
	setString("JWT_SECRET", &cfg.Auth.JWTSecret)
	setString("TWILIO_ACCOUNT_SID", &cfg.WhatsApp.AccountSID)
	setString("TWILIO_AUTH_TOKEN", &cfg.WhatsApp.AuthToken)
	setString("TWILIO_WHATSAPP_FROM", &cfg.WhatsApp.From)
	setString("ADMIN_WHATSAPP_PHONE", &cfg.WhatsApp.AdminPhone)
	setString("TWILIO_TEMPLATE_CONTENT_SID", &cfg.WhatsApp.TemplateContentSID)
	setString("REDIS_ADDR", &cfg.Redis.Address)
	setString("TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken)
	setString("APP_TIMEZONE", &cfg.App.Timezone)
	setString("LOG_LEVEL", &cfg.Logs.Level)

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalidValue, v)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: TELEGRAM_ADMIN_CHAT_ID=%q", ErrInvalidValue, v)
		}
		cfg.Telegram.AdminChatID = id
	}

	if v := os.Getenv("JWT_EXPIRY_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return fmt.Errorf("%w: JWT_EXPIRY_MINUTES=%q", ErrInvalidValue, v)
		}
		cfg.Auth.TokenTTLMinutes = minutes
	}

	return nil
}

// Location returns the business timezone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	if c.App.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
