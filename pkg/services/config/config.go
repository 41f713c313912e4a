package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/services/analysis"
	"github.com/de-tools/audit-atlas/pkg/telemetry"
)

const EnvPrefix = "AUDITPRO"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// SeedConfig points at a YAML fixture; blank means the embedded default data.
type SeedConfig struct {
	Path string `mapstructure:"path"`
}

type WorkflowConfig struct {
	LinkPolicy string `mapstructure:"link_policy"`
}

type AnalysisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int64         `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type TelemetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Stdout         bool          `mapstructure:"stdout"`
	OTLPEndpoint   string        `mapstructure:"otlp_endpoint"`
	ExportInterval time.Duration `mapstructure:"export_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("seed.path", "")
	v.SetDefault("workflow.link_policy", string(domain.LinkPolicyCreateNew))
	v.SetDefault("analysis.enabled", true)
	v.SetDefault("analysis.api_key", "")
	v.SetDefault("analysis.model", analysis.DefaultModel)
	v.SetDefault("analysis.max_tokens", 1024)
	v.SetDefault("analysis.timeout", 30*time.Second)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.stdout", false)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.export_interval", 15*time.Second)
}

// LoadConfig reads the config file at path (if any) on top of the defaults.
// AUDITPRO_* environment variables override both, e.g. AUDITPRO_SERVER_PORT.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !domain.LinkPolicy(c.Workflow.LinkPolicy).Valid() {
		errs = append(errs, fmt.Errorf("workflow.link_policy: unknown policy %q", c.Workflow.LinkPolicy))
	}
	if c.Analysis.MaxTokens <= 0 {
		errs = append(errs, errors.New("analysis.max_tokens must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func (c *Config) LinkPolicy() domain.LinkPolicy {
	return domain.LinkPolicy(c.Workflow.LinkPolicy)
}

func (c *Config) AnalysisSettings() analysis.Settings {
	return analysis.Settings{
		APIKey:     c.Analysis.APIKey,
		Model:      c.Analysis.Model,
		MaxTokens:  c.Analysis.MaxTokens,
		MaxElapsed: c.Analysis.Timeout,
	}
}

func (c *Config) TelemetrySettings(version string) telemetry.Settings {
	return telemetry.Settings{
		Enabled:        c.Telemetry.Enabled,
		Stdout:         c.Telemetry.Stdout,
		OTLPEndpoint:   c.Telemetry.OTLPEndpoint,
		ServiceName:    "auditpro",
		Version:        version,
		ExportInterval: c.Telemetry.ExportInterval,
	}
}
