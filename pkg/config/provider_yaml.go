package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Server   ServerYAML   `yaml:"server"`
		Analysis AnalysisYAML `yaml:"analysis"`
		Log      LogYAML      `yaml:"log"`
	}

	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", y.filename, err)
	}

	config := &ConfigData{
		Server: ServerData{
			ListenAddr:   yamlConfig.Server.ListenAddr,
			Port:         yamlConfig.Server.Port,
			Cert:         yamlConfig.Server.Cert,
			Key:          yamlConfig.Server.Key,
			EnableCORS:   yamlConfig.Server.EnableCORS,
			MaxBodyBytes: yamlConfig.Server.MaxBodyBytes,
		},
		Analysis: AnalysisData{
			NullPolicy:         yamlConfig.Analysis.NullPolicy,
			InterpKind:         yamlConfig.Analysis.InterpKind,
			AllowExtrapolation: yamlConfig.Analysis.AllowExtrapolation,
			CurvePoints:        yamlConfig.Analysis.CurvePoints,
			Workers:            yamlConfig.Analysis.Workers,
			MaxSamples:         yamlConfig.Analysis.MaxSamples,
		},
		Log: LogData{
			Debug:      yamlConfig.Log.Debug,
			File:       yamlConfig.Log.File,
			MaxSizeMB:  yamlConfig.Log.MaxSizeMB,
			MaxBackups: yamlConfig.Log.MaxBackups,
			MaxAgeDays: yamlConfig.Log.MaxAgeDays,
		},
	}

	config, err = finalize(config)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

// GetServerConfig returns the server section
func (y *YAMLProvider) GetServerConfig() (*ServerData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Server, nil
}

// GetAnalysisConfig returns the analysis section
func (y *YAMLProvider) GetAnalysisConfig() (*AnalysisData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Analysis, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags
type ServerYAML struct {
	ListenAddr   string `yaml:"listen_addr,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	Cert         string `yaml:"cert,omitempty"`
	Key          string `yaml:"key,omitempty"`
	EnableCORS   bool   `yaml:"enable_cors,omitempty"`
	MaxBodyBytes int64  `yaml:"max_body_bytes,omitempty"`
}

type AnalysisYAML struct {
	NullPolicy         string `yaml:"null_policy,omitempty"`
	InterpKind         string `yaml:"interp_kind,omitempty"`
	AllowExtrapolation bool   `yaml:"allow_extrapolation,omitempty"`
	CurvePoints        int    `yaml:"curve_points,omitempty"`
	Workers            int    `yaml:"workers,omitempty"`
	MaxSamples         int    `yaml:"max_samples,omitempty"`
}

type LogYAML struct {
	Debug      bool   `yaml:"debug,omitempty"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}
