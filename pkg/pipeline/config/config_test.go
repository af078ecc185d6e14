package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-passpipe/pkg/pipeline"
	"github.com/askiada/go-passpipe/pkg/pipeline/config"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()

	assert.Equal(t, pipeline.DefaultName, cfg.Name)
	assert.Equal(t, pipeline.DefaultMaxPasses, cfg.MaxPasses)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, config.DefaultLogFormat, cfg.Log.Format)
	assert.False(t, cfg.Measure)
	assert.Empty(t, cfg.DrawFile)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(`
name: calibration
max_passes: 5
log:
  level: debug
  format: json
draw_file: out.dot
measure: true
`))
	require.NoError(t, err)

	assert.Equal(t, &config.Config{
		Name:      "calibration",
		MaxPasses: 5,
		Log:       config.Log{Level: "debug", Format: "json"},
		DrawFile:  "out.dot",
		Measure:   true,
	}, cfg)
}

func TestParseKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte("max_passes: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxPasses)
	assert.Equal(t, pipeline.DefaultName, cfg.Name)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)

	cfg, err = config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte("max_pass: 7\n"))
	require.Error(t, err)

	_, err = config.Parse([]byte("max_passes: [1\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "passpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: loaded\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "loaded", cfg.Name)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(config.EnvName, "env")
	t.Setenv(config.EnvMaxPasses, "9")
	t.Setenv(config.EnvLogLevel, "warn")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvDrawFile, "env.dot")
	t.Setenv(config.EnvMeasure, "true")

	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, &config.Config{
		Name:      "env",
		MaxPasses: 9,
		Log:       config.Log{Level: "warn", Format: "json"},
		DrawFile:  "env.dot",
		Measure:   true,
	}, cfg)
}

func TestLoadFromEnvUnsetKeepsValues(t *testing.T) {
	t.Setenv(config.EnvName, "")
	t.Setenv(config.EnvMaxPasses, "")

	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestLoadFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "max_passes_not_a_number", key: config.EnvMaxPasses, value: "many"},
		{name: "measure_not_a_bool", key: config.EnvMeasure, value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			err := config.NewDefaultConfig().LoadFromEnv()
			assert.ErrorIs(t, err, config.ErrInvalidEnv)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		configMod func(*config.Config)
		wantErr   error
	}{
		{name: "empty_name", configMod: func(c *config.Config) { c.Name = "" }, wantErr: config.ErrEmptyName},
		{name: "name_with_separator", configMod: func(c *config.Config) { c.Name = "a/b" }, wantErr: config.ErrInvalidName},
		{name: "zero_max_passes", configMod: func(c *config.Config) { c.MaxPasses = 0 }, wantErr: config.ErrInvalidMaxPasses},
		{name: "negative_max_passes", configMod: func(c *config.Config) { c.MaxPasses = -1 }, wantErr: config.ErrInvalidMaxPasses},
		{
			name:      "too_many_max_passes",
			configMod: func(c *config.Config) { c.MaxPasses = config.MaxPasses + 1 },
			wantErr:   config.ErrInvalidMaxPasses,
		},
		{name: "unknown_level", configMod: func(c *config.Config) { c.Log.Level = "verbose" }, wantErr: config.ErrInvalidLogLevel},
		{name: "unknown_format", configMod: func(c *config.Config) { c.Log.Format = "xml" }, wantErr: config.ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewDefaultConfig()
			tt.configMod(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)

			_, _, err := cfg.Options(nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()
	cfg.Name = "configured"
	cfg.MaxPasses = 1
	cfg.Log.Format = "json"
	cfg.Measure = true
	cfg.DrawFile = filepath.Join(t.TempDir(), "run.dot")

	var buf bytes.Buffer

	opts, msr, err := cfg.Options(&buf)
	require.NoError(t, err)
	require.NotNil(t, msr)

	pipe, err := pipeline.New([]*pipeline.Step{
		pipeline.Func("again", func(ctx *pipeline.Context) (*pipeline.Context, error) {
			ctx.StartAnotherPass()

			return ctx, nil
		}),
	}, opts...)
	require.NoError(t, err)
	assert.Equal(t, "configured", pipe.Name())
	assert.Equal(t, 1, pipe.MaxPasses())

	_, err = pipe.Run(pipeline.NewContext())
	require.ErrorIs(t, err, pipeline.ErrPassLimitExceeded)

	assert.Contains(t, buf.String(), `"pipeline":"configured"`)
	assert.Equal(t, 1, msr.Passes())
	assert.Equal(t, int64(1), msr.GetMetric("configured/again").Runs())

	content, err := os.ReadFile(cfg.DrawFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"configured" -> "configured/again"`)
}

func TestOptionsWithoutObservers(t *testing.T) {
	t.Parallel()

	opts, msr, err := config.NewDefaultConfig().Options(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Nil(t, msr)
	assert.Len(t, opts, 3)
}
