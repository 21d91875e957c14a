package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "PODIUM_"
	envConfig  = envPrefix + "CONFIG"
	defaultEnv = ".env"
)

// Keys whose env values are comma-separated lists.
var listKeys = map[string]struct{}{ //nolint:gochecknoglobals // read-only lookup
	"tournaments":         {},
	"majors":              {},
	"multi_team_debaters": {},
}

// LoadOption tunes Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path    string
	dotEnv  string
	environ bool
}

// WithFile loads path instead of the file named by PODIUM_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithDotEnv reads extra environment from path. An empty path disables it.
func WithDotEnv(path string) LoadOption {
	return func(o *loadOptions) {
		o.dotEnv = path
	}
}

// WithoutEnv skips the PODIUM_ environment layer.
func WithoutEnv() LoadOption {
	return func(o *loadOptions) {
		o.environ = false
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML or JSON by extension) from WithFile or PODIUM_CONFIG
//  3. .env entries not already present in the environment
//  4. env (prefix PODIUM_)
//
// The result is validated before it is returned.
func Load(ctx context.Context, opts ...LoadOption) (*Config, error) {
	o := loadOptions{dotEnv: defaultEnv, environ: true}
	for _, opt := range opts {
		opt(&o)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// godotenv never overrides variables that are already set.
	if o.dotEnv != "" {
		if err := godotenv.Load(o.dotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, o.dotEnv, err)
		}
	}

	k := koanf.New(".")

	path := o.path
	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// PODIUM_MAJOR_WEIGHT -> major_weight. Underscores are kept to match the tags.
	if o.environ {
		envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if key == "config" {
				return "", nil
			}
			if _, ok := listKeys[key]; ok {
				return key, splitList(value)
			}
			return key, value
		})
		if err := k.Load(envProvider, nil); err != nil {
			return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
		}
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported config extension %q", ErrLoadConfig, filepath.Ext(path))
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
