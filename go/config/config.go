// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/attic-labs/dap2/go/dap"
	"github.com/attic-labs/dap2/go/util/verbose"
)

const (
	ConfigFile = ".dapconfig.yaml"

	DefaultLogLevel        = "info"
	DefaultLogFormat       = verbose.TextFormat
	DefaultProtocolVersion = dap.DefaultProtocolVersion
)

var ErrNoConfig = errors.New("no dap configuration found")

// Config is the contents of a .dapconfig.yaml file. Every field is optional; the accessor
// methods supply defaults for missing ones.
type Config struct {
	File string `yaml:"-"`

	LogLevelStr        *string `yaml:"log_level,omitempty"`
	LogFormatStr       *string `yaml:"log_format,omitempty"`
	ProtocolVersionStr *string `yaml:"protocol_version,omitempty"`
	CompressionStr     *string `yaml:"compression,omitempty"`
	Headers_           *bool   `yaml:"headers,omitempty"`
	Constrained_       *bool   `yaml:"constrained,omitempty"`
}

// Parse decodes and validates configuration text. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.LogLevelStr != nil {
		lvl := strings.ToLower(*cfg.LogLevelStr)
		cfg.LogLevelStr = &lvl
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file '%s'", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file '%s'", path)
	}
	cfg.File = path
	return cfg, nil
}

// Find looks for .dapconfig.yaml in dir and each of its ancestors, loading the first one found.
// ErrNoConfig is returned when the walk reaches the filesystem root without finding one.
func Find(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to stat '%s'", path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoConfig
		}
		dir = parent
	}
}

// Default returns a configuration with every field unset.
func Default() *Config {
	return &Config{}
}

func (cfg *Config) Validate() error {
	if _, err := logrus.ParseLevel(cfg.LogLevel()); err != nil {
		return err
	}
	if _, err := cfg.ProtocolVersion(); err != nil {
		return err
	}
	if _, err := cfg.Compression(); err != nil {
		return err
	}
	switch cfg.LogFormat() {
	case verbose.TextFormat, verbose.JSONFormat:
	default:
		return verbose.ErrUnknownLogFormat.New(cfg.LogFormat())
	}
	return nil
}

func (cfg *Config) LogLevel() string {
	if cfg.LogLevelStr == nil {
		return DefaultLogLevel
	}
	return *cfg.LogLevelStr
}

func (cfg *Config) LogFormat() string {
	if cfg.LogFormatStr == nil {
		return DefaultLogFormat
	}
	return strings.ToLower(*cfg.LogFormatStr)
}

// ProtocolVersion is the DAP version data is written as, and the version assumed when reading
// a stream that carries no headers.
func (cfg *Config) ProtocolVersion() (dap.ServerVersion, error) {
	if cfg.ProtocolVersionStr == nil {
		return dap.ParseServerVersion(DefaultProtocolVersion)
	}
	return dap.ParseServerVersion(*cfg.ProtocolVersionStr)
}

func (cfg *Config) Compression() (dap.Compression, error) {
	if cfg.CompressionStr == nil {
		return dap.NoCompression, nil
	}
	return dap.ParseCompression(*cfg.CompressionStr)
}

func (cfg *Config) Headers() bool {
	return cfg.Headers_ != nil && *cfg.Headers_
}

func (cfg *Config) Constrained() bool {
	return cfg.Constrained_ != nil && *cfg.Constrained_
}

// ExternalizeOptions converts the configuration into options for DataDDS.Externalize.
func (cfg *Config) ExternalizeOptions() (dap.ExternalizeOptions, error) {
	c, err := cfg.Compression()
	if err != nil {
		return dap.ExternalizeOptions{}, err
	}
	return dap.ExternalizeOptions{Compression: c, Headers: cfg.Headers(), Constrained: cfg.Constrained()}, nil
}

// ApplyLogging configures the standard logger from the log_level and log_format settings.
func (cfg *Config) ApplyLogging() error {
	return verbose.Configure(cfg.LogLevel(), cfg.LogFormat())
}

// String renders the configuration as YAML, omitting unset fields.
func (cfg *Config) String() string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err.Error()
	}
	return string(data)
}
