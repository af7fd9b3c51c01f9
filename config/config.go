package config

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/api-smoke/internal/endpoint"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type CheckConfig struct {
	TimeoutSeconds float64 `mapstructure:"timeout_seconds"`
	Retries        int     `mapstructure:"retries"`
	Backoff        float64 `mapstructure:"backoff"`
}

// Timeout converts the configured per-attempt bound into a duration.
func (c CheckConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

type ReportConfig struct {
	JSONPath     string `mapstructure:"json_path"`
	MarkdownPath string `mapstructure:"markdown_path"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type EndpointConfig struct {
	Path   string `mapstructure:"path"`
	Auth   bool   `mapstructure:"auth"`
	Status int    `mapstructure:"status"`
}

type Config struct {
	BaseURL     string           `mapstructure:"base_url"`
	BearerToken string           `mapstructure:"bearer_token"`
	Environment string           `mapstructure:"environment"`
	UserAgent   string           `mapstructure:"user_agent"`
	Check       CheckConfig      `mapstructure:"check"`
	Report      ReportConfig     `mapstructure:"report"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Endpoints   []EndpointConfig `mapstructure:"endpoints"`
}

func Load() (*Config, error) {
	viper.SetDefault("environment", EnvDev)
	viper.SetDefault("user_agent", "api-smoke-suite/1.0")
	viper.SetDefault("check.timeout_seconds", 10.0)
	viper.SetDefault("check.retries", 6)
	viper.SetDefault("check.backoff", 2.0)
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("apismoke")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// EndpointList converts configured endpoints into checker endpoints with
// defaults applied.
func (c *Config) EndpointList() []endpoint.Endpoint {
	endpoints := make([]endpoint.Endpoint, 0, len(c.Endpoints))
	for _, ec := range c.Endpoints {
		ep := endpoint.New(ec.Path)
		ep.RequiresAuth = ec.Auth
		if ec.Status != 0 {
			ep.ExpectedStatus = ec.Status
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.BaseURL,
			validation.By(validateOptionalURL),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Check,
			validation.Required,
			validation.By(func(value interface{}) error {
				cc, ok := value.(CheckConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a CheckConfig")
				}
				return validation.ValidateStruct(&cc,
					validation.Field(&cc.TimeoutSeconds,
						validation.Required,
						validation.Min(0.001),
					),
					validation.Field(&cc.Retries,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&cc.Backoff,
						validation.Required,
						validation.Min(0.001),
					),
				)
			}),
		),
		validation.Field(&c.Endpoints,
			validation.Each(validation.By(validateEndpointConfig)),
		),
	)
}

func validateOptionalURL(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if raw == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsed.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}

func validateEndpointConfig(value interface{}) error {
	ec, ok := value.(EndpointConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be an EndpointConfig")
	}

	if ec.Path == "" {
		return validation.NewError("validation_empty_path", "endpoint path cannot be empty")
	}

	if ec.Status != 0 && (ec.Status < 100 || ec.Status > 599) {
		return validation.NewError("validation_invalid_status", "expected status must be a valid HTTP status code")
	}

	return nil
}
