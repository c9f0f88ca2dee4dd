package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "CHECKOUT_"

type Config struct {
	Primary   Primary         `koanf:"primary"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Telebirr  TelebirrConfig  `koanf:"telebirr"`
	Retry     RetryConfig     `koanf:"retry"`
	Logger    LoggerConfig    `koanf:"logger"`
	Worker    WorkerConfig    `koanf:"worker"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type WorkerConfig struct {
	Interval  time.Duration `koanf:"interval" validate:"required"`
	BatchSize int           `koanf:"batch_size" validate:"required"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type RedisConfig struct {
	Addr          string        `koanf:"addr" validate:"required"`
	Password      string        `koanf:"password"`
	DB            int           `koanf:"db"`
	LockTTL       time.Duration `koanf:"lock_ttl" validate:"required"`
	UpdateChannel string        `koanf:"update_channel" validate:"required"`
}

// TelebirrConfig holds the merchant credentials and endpoints for the Fabric gateway.
type TelebirrConfig struct {
	BaseURL             string        `koanf:"base_url" validate:"required,url"`
	WebBaseURL          string        `koanf:"web_base_url" validate:"required,url"`
	FabricAppID         string        `koanf:"fabric_app_id" validate:"required"`
	AppSecret           string        `koanf:"app_secret" validate:"required"`
	AppKey              string        `koanf:"app_key" validate:"required"`
	MerchantAppID       string        `koanf:"merchant_app_id" validate:"required"`
	MerchantCode        string        `koanf:"merchant_code" validate:"required"`
	PrivateKey          string        `koanf:"private_key"`
	PrivateKeyFile      string        `koanf:"private_key_file"`
	NotifyURL           string        `koanf:"notify_url" validate:"required,url"`
	RedirectURL         string        `koanf:"redirect_url" validate:"required,url"`
	MandateNotifyURL    string        `koanf:"mandate_notify_url" validate:"required,url"`
	MandateRedirectURL  string        `koanf:"mandate_redirect_url"`
	Title               string        `koanf:"title" validate:"required"`
	BusinessType        string        `koanf:"business_type" validate:"required"`
	PayeeIdentifierType string        `koanf:"payee_identifier_type" validate:"required"`
	PayeeType           string        `koanf:"payee_type" validate:"required"`
	TimeoutExpress      time.Duration `koanf:"timeout_express" validate:"required"`
	ConnTimeout         time.Duration `koanf:"conn_timeout" validate:"required"`
	TokenTTL            time.Duration `koanf:"token_ttl" validate:"required"`
	RequestsPerSecond   float64       `koanf:"requests_per_second"`
	GatewayUTCOffset    time.Duration `koanf:"gateway_utc_offset"`
}

type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int           `koanf:"max_retries"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required"`
	Issuer    string `koanf:"issuer"`
}

type RateLimitConfig struct {
	RPS   int `koanf:"rps"`
	Burst int `koanf:"burst"`
}

var defaults = map[string]any{
	"primary.env":                    "development",
	"server.port":                    "8080",
	"server.read_timeout":            "15s",
	"server.write_timeout":           "30s",
	"server.idle_timeout":            "60s",
	"database.ssl_mode":              "disable",
	"database.max_open_conns":        10,
	"database.max_idle_conns":        2,
	"database.conn_max_lifetime":     "1h",
	"database.conn_max_idle_time":    "30m",
	"redis.lock_ttl":                 "5s",
	"redis.update_channel":           "payment_updates",
	"telebirr.title":                 "Game Store Order",
	"telebirr.business_type":         "BuyGoods",
	"telebirr.payee_identifier_type": "04",
	"telebirr.payee_type":            "5000",
	"telebirr.timeout_express":       "120m",
	"telebirr.conn_timeout":          "15s",
	"telebirr.token_ttl":             "55m",
	"telebirr.gateway_utc_offset":    "3h",
	"retry.base_delay":               "500ms",
	"retry.max_retries":              3,
	"logger.level":                   "info",
	"logger.format":                  "text",
	"worker.interval":                "1m",
	"worker.batch_size":              100,
	"rate_limit.rps":                 20,
	"rate_limit.burst":               40,
}

// LoadConfig reads defaults, then CHECKOUT_* environment variables (a .env file is
// picked up automatically). Nested keys use a double underscore:
// CHECKOUT_TELEBIRR__MERCHANT_CODE -> telebirr.merchant_code.
func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load config defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if err := Validate(mainConfig); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// Validate runs struct validation and the cross-field checks, returning a
// *ConfigurationError for the first problem found.
func Validate(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ConfigurationError{Field: fe.Namespace(), Reason: "failed on '" + fe.Tag() + "'"}
		}
		return &ConfigurationError{Reason: err.Error()}
	}

	return cfg.Telebirr.Validate()
}

// Validate checks the credential combinations validator tags cannot express.
func (c *TelebirrConfig) Validate() error {
	if c.PrivateKey == "" && c.PrivateKeyFile == "" {
		return &ConfigurationError{Field: "Config.Telebirr.PrivateKey", Reason: "private_key or private_key_file is required"}
	}
	if c.TimeoutExpress < time.Minute {
		return &ConfigurationError{Field: "Config.Telebirr.TimeoutExpress", Reason: "must be at least one minute"}
	}
	if c.RequestsPerSecond < 0 {
		return &ConfigurationError{Field: "Config.Telebirr.RequestsPerSecond", Reason: "must not be negative"}
	}
	return nil
}

// GatewayLocation is the zone the gateway writes its yyyyMMddHHmmss dates in.
func (c *TelebirrConfig) GatewayLocation() *time.Location {
	if c.GatewayUTCOffset == 0 {
		return time.UTC
	}
	return time.FixedZone("gateway", int(c.GatewayUTCOffset/time.Second))
}

// PrivateKeyPEM returns the signing key material, reading PrivateKeyFile when the
// inline value is empty.
func (c *TelebirrConfig) PrivateKeyPEM() (string, error) {
	if c.PrivateKey != "" {
		return c.PrivateKey, nil
	}
	data, err := os.ReadFile(c.PrivateKeyFile)
	if err != nil {
		return "", &ConfigurationError{Field: "Config.Telebirr.PrivateKeyFile", Reason: "unreadable", Err: err}
	}
	return string(data), nil
}
