package config

import (
	"embed"
	"fmt"

	"github.com/chrissnell/sieveanalysis/internal/gradation"
	"github.com/chrissnell/sieveanalysis/internal/interp"
	"github.com/chrissnell/sieveanalysis/internal/validate"
)

// Migrations holds the schema of the SQLite configuration store
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the SQL files
const MigrationsDir = "migrations"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetServerConfig() (*ServerData, error)
	GetAnalysisConfig() (*AnalysisData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server   ServerData   `json:"server"`
	Analysis AnalysisData `json:"analysis"`
	Log      LogData      `json:"log"`
}

// ServerData configures the REST server
type ServerData struct {
	ListenAddr   string `json:"listen_addr,omitempty"`
	Port         int    `json:"port,omitempty" validate:"min=1,max=65535"`
	Cert         string `json:"cert,omitempty" validate:"required_with=Key"`
	Key          string `json:"key,omitempty" validate:"required_with=Cert"`
	EnableCORS   bool   `json:"enable_cors,omitempty"`
	MaxBodyBytes int64  `json:"max_body_bytes,omitempty" validate:"min=1024"`
}

// AnalysisData holds the default analysis options. Requests may override them.
type AnalysisData struct {
	NullPolicy         string `json:"null_policy" validate:"oneof=interpolate ignore zero"`
	InterpKind         string `json:"interp_kind" validate:"oneof=linear cubic nearest"`
	AllowExtrapolation bool   `json:"allow_extrapolation"`
	CurvePoints        int    `json:"curve_points" validate:"min=100,max=100000"`
	Workers            int    `json:"workers" validate:"min=0"`
	MaxSamples         int    `json:"max_samples" validate:"min=1"`
}

// LogData configures logging
type LogData struct {
	Debug      bool   `json:"debug,omitempty"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" validate:"min=0"`
	MaxBackups int    `json:"max_backups,omitempty" validate:"min=0"`
	MaxAgeDays int    `json:"max_age_days,omitempty" validate:"min=0"`
}

// Defaults
const (
	DefaultPort         = 8080
	DefaultMaxBodyBytes = 4 << 20
	DefaultMaxSamples   = 500
	DefaultLogMaxSizeMB = 100
	DefaultLogBackups   = 3
	DefaultLogMaxAge    = 28
)

// ApplyDefaults fills unset fields
func (c *ConfigData) ApplyDefaults() {
	defaults := gradation.DefaultOptions()

	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if c.Analysis.NullPolicy == "" {
		c.Analysis.NullPolicy = string(defaults.NullPolicy)
	}
	if c.Analysis.InterpKind == "" {
		c.Analysis.InterpKind = string(defaults.Kind)
	}
	if c.Analysis.CurvePoints == 0 {
		c.Analysis.CurvePoints = defaults.CurvePoints
	}
	if c.Analysis.MaxSamples == 0 {
		c.Analysis.MaxSamples = DefaultMaxSamples
	}

	if c.Log.File != "" {
		if c.Log.MaxSizeMB == 0 {
			c.Log.MaxSizeMB = DefaultLogMaxSizeMB
		}
		if c.Log.MaxBackups == 0 {
			c.Log.MaxBackups = DefaultLogBackups
		}
		if c.Log.MaxAgeDays == 0 {
			c.Log.MaxAgeDays = DefaultLogMaxAge
		}
	}
}

// Validate checks every section
func (c *ConfigData) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Options converts the analysis section into pipeline options
func (a AnalysisData) Options() (gradation.Options, error) {
	policy, err := gradation.ParseNullPolicy(a.NullPolicy)
	if err != nil {
		return gradation.Options{}, err
	}
	kind, err := interp.ParseKind(a.InterpKind)
	if err != nil {
		return gradation.Options{}, err
	}

	opts := gradation.Options{
		NullPolicy:         policy,
		Kind:               kind,
		AllowExtrapolation: a.AllowExtrapolation,
		CurvePoints:        a.CurvePoints,
		Workers:            a.Workers,
	}
	return opts, opts.Validate()
}

// finalize applies defaults and validates a freshly loaded configuration
func finalize(c *ConfigData) (*ConfigData, error) {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
