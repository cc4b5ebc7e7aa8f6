// Package config loads ehf-generator settings from ehf.yaml and EHF_
// environment variables.
package config

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rezonia/ehf-generator/internal/archive"
	"github.com/rezonia/ehf-generator/internal/logger"
	"github.com/rezonia/ehf-generator/internal/mapper"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

// EnvPrefix prefixes every environment override, e.g. EHF_LOG_LEVEL
const EnvPrefix = "EHF"

// Archive drivers
const (
	DriverFile = "file"
	DriverS3   = "s3"
)

// Config holds all application configuration
type Config struct {
	Rules   mapper.Rules
	Log     logger.Config
	Server  ServerConfig
	Archive ArchiveConfig
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Address      string `validate:"required"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// ArchiveConfig selects where generated documents and the outbox live
type ArchiveConfig struct {
	Driver       string `validate:"required,oneof=file s3"`
	Dir          string `validate:"required_if=Driver file"`
	Bucket       string `validate:"required_if=Driver s3"`
	Region       string
	Endpoint     string `validate:"omitempty,url"`
	AccessKey    string `validate:"required_if=Driver s3"`
	SecretKey    string `validate:"required_if=Driver s3"`
	UsePathStyle bool
	Prefix       string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rules.default_scheme", ubl.SchemeNorwegianOrgNumber)
	v.SetDefault("rules.placeholder_endpoint", ubl.PlaceholderEndpointID)
	v.SetDefault("rules.national_registry", ubl.NationalRegistryID)
	v.SetDefault("rules.default_unit_code", ubl.DefaultUnitCode)
	v.SetDefault("rules.default_country", ubl.DefaultCountryCode)

	def := logger.DefaultConfig()
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.format", def.Format)
	v.SetDefault("log.output", def.Output)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.debug", false)

	v.SetDefault("archive.driver", DriverFile)
	v.SetDefault("archive.dir", "./ehf-archive")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.use_path_style", true)
}

// Load reads configuration. An explicit file must exist; otherwise
// ehf.yaml is searched in ./, ./config and /etc/ehf-generator and may
// be absent.
//
// Priority (highest to lowest):
// 1. Environment variables with EHF_ prefix (e.g. EHF_ARCHIVE_BUCKET)
// 2. ehf.yaml
// 3. Built-in defaults
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("ehf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/ehf-generator")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Rules: mapper.Rules{
			DefaultScheme:       v.GetString("rules.default_scheme"),
			PlaceholderEndpoint: v.GetString("rules.placeholder_endpoint"),
			NationalRegistry:    v.GetString("rules.national_registry"),
			DefaultUnitCode:     v.GetString("rules.default_unit_code"),
			DefaultCountry:      v.GetString("rules.default_country"),
		},
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Server: ServerConfig{
			Address:      v.GetString("server.address"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			Debug:        v.GetBool("server.debug"),
		},
		Archive: ArchiveConfig{
			Driver:       strings.ToLower(v.GetString("archive.driver")),
			Dir:          v.GetString("archive.dir"),
			Bucket:       v.GetString("archive.bucket"),
			Region:       v.GetString("archive.region"),
			Endpoint:     v.GetString("archive.endpoint"),
			AccessKey:    v.GetString("archive.access_key"),
			SecretKey:    v.GetString("archive.secret_key"),
			UsePathStyle: v.GetBool("archive.use_path_style"),
			Prefix:       v.GetString("archive.prefix"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// Store opens the configured archive
func (a ArchiveConfig) Store(ctx context.Context, log *zap.Logger) (archive.Store, error) {
	switch a.Driver {
	case DriverFile:
		return archive.NewFileStore(a.Dir, archive.WithFileLogger(log))
	case DriverS3:
		return archive.NewS3Store(ctx, archive.S3Config{
			Bucket:       a.Bucket,
			Region:       a.Region,
			Endpoint:     a.Endpoint,
			AccessKey:    a.AccessKey,
			SecretKey:    a.SecretKey,
			UsePathStyle: a.UsePathStyle,
			Prefix:       a.Prefix,
		}, archive.WithS3Logger(log))
	default:
		return nil, errors.Newf("unknown archive driver %q", a.Driver)
	}
}
