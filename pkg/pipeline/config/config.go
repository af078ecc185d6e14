package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-passpipe/pkg/log"
	"github.com/askiada/go-passpipe/pkg/pipeline"
	"github.com/askiada/go-passpipe/pkg/pipeline/measure"
	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

type (
	// Config holds the settings of a pipeline run.
	Config struct {
		Name      string `yaml:"name"`
		MaxPasses int    `yaml:"max_passes"`
		Log       Log    `yaml:"log"`
		// DrawFile is the DOT file written when the run finishes. Empty disables drawing.
		DrawFile string `yaml:"draw_file"`
		Measure  bool   `yaml:"measure"`
	}

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	}
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = log.FormatText

	MaxPasses = 10_000
)

// Environment variables read by LoadFromEnv.
const (
	EnvName      = "PASSPIPE_NAME"
	EnvMaxPasses = "PASSPIPE_MAX_PASSES"
	EnvLogLevel  = "PASSPIPE_LOG_LEVEL"
	EnvLogFormat = "PASSPIPE_LOG_FORMAT"
	EnvDrawFile  = "PASSPIPE_DRAW_FILE"
	EnvMeasure   = "PASSPIPE_MEASURE"
)

var (
	ErrEmptyName        = errors.New("pipeline name must not be empty")
	ErrInvalidName      = errors.New("pipeline name must not contain " + model.PathSeparator)
	ErrInvalidMaxPasses = errors.New("invalid max passes")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidEnv       = errors.New("invalid environment variable")
)

// NewDefaultConfig creates a configuration matching the pipeline defaults,
// with measuring and drawing disabled.
func NewDefaultConfig() *Config {
	return &Config{
		Name:      pipeline.DefaultName,
		MaxPasses: pipeline.DefaultMaxPasses,
		Log: Log{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load config %s", path)
	}

	return cfg, nil
}

// Parse decodes a YAML document on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := NewDefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "unable to decode config")
	}

	return cfg, nil
}

// LoadFromEnv overrides the configuration with the PASSPIPE_* environment
// variables that are set.
func (c *Config) LoadFromEnv() error {
	if name := os.Getenv(EnvName); name != "" {
		c.Name = name
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}

	if format := os.Getenv(EnvLogFormat); format != "" {
		c.Log.Format = format
	}

	if drawFile := os.Getenv(EnvDrawFile); drawFile != "" {
		c.DrawFile = drawFile
	}

	if s := os.Getenv(EnvMaxPasses); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return errors.Wrapf(ErrInvalidEnv, "%s: %q", EnvMaxPasses, s)
		}

		c.MaxPasses = v
	}

	if s := os.Getenv(EnvMeasure); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return errors.Wrapf(ErrInvalidEnv, "%s: %q", EnvMeasure, s)
		}

		c.Measure = v
	}

	return nil
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}

	if strings.Contains(c.Name, model.PathSeparator) {
		return errors.Wrapf(ErrInvalidName, "%q", c.Name)
	}

	if c.MaxPasses <= 0 || c.MaxPasses > MaxPasses {
		return errors.Wrapf(ErrInvalidMaxPasses, "%d out of range [1, %d]", c.MaxPasses, MaxPasses)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(ErrInvalidLogLevel, "%q", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", log.FormatText, log.FormatJSON:
	default:
		return errors.Wrapf(ErrInvalidLogFormat, "%q", c.Log.Format)
	}

	return nil
}

// Options validates the configuration and turns it into pipeline options.
// Logs are written to wrt. The returned measure is nil unless Measure is set.
func (c *Config) Options(wrt io.Writer) ([]pipeline.Option, measure.Measure, error) {
	err := c.Validate()
	if err != nil {
		return nil, nil, err
	}

	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	logger, err := log.New(level, c.Log.Format, wrt)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create logger")
	}

	opts := []pipeline.Option{
		pipeline.WithName(c.Name),
		pipeline.WithMaxPasses(c.MaxPasses),
		pipeline.WithLogger(logger),
	}

	var msr measure.Measure
	if c.Measure {
		msr = measure.NewDefaultMeasure()
		opts = append(opts, pipeline.WithMeasure(msr))
	}

	if c.DrawFile != "" {
		opts = append(opts, pipeline.WithDOTFile(c.DrawFile, msr))
	}

	return opts, msr, nil
}
