// Package config loads pixelgrid's YAML configuration.
//
// Every key has a default, so a missing file is not an error. Unknown keys
// are rejected to catch typos early.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pixelgrid/internal/editor"
	"github.com/roach88/pixelgrid/internal/persist"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Defaults.
const (
	DefaultPath     = "pixelgrid.db"
	DefaultRedisURL = "redis://localhost:6379/0"
	DefaultAddr     = "127.0.0.1:8080"
	DefaultBaseURL  = "http://127.0.0.1:8080/"
	DefaultLogLevel = "info"
)

// Config is the root of the configuration file.
type Config struct {
	Storage Storage `yaml:"storage"`
	Server  Server  `yaml:"server"`
	Timing  Timing  `yaml:"timing"`
	Log     Log     `yaml:"log"`
}

type Storage struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
	Record   string `yaml:"record"`
}

type Server struct {
	Addr    string `yaml:"addr"`
	BaseURL string `yaml:"base_url"`
}

// Timing controls the editor's transient timers. Values are Go duration
// strings such as "3s" or "500ms".
type Timing struct {
	DeleteWindow Duration `yaml:"delete_window"`
	SavedDelay   Duration `yaml:"saved_delay"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Duration is a time.Duration that reads and writes as a duration string.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend:  BackendSQLite,
			Path:     DefaultPath,
			RedisURL: DefaultRedisURL,
			Record:   persist.DefaultRecord,
		},
		Server: Server{
			Addr:    DefaultAddr,
			BaseURL: DefaultBaseURL,
		},
		Timing: Timing{
			DeleteWindow: Duration(editor.DefaultDeleteWindow),
			SavedDelay:   Duration(editor.DefaultSavedDelay),
		},
		Log: Log{Level: DefaultLogLevel},
	}
}

// Load reads the file at path over the defaults. An empty path yields the
// defaults; a named file that cannot be read is an error.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that the type system cannot.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendRedis, c.Storage.Backend)
	}
	if c.Storage.Record == "" {
		return errors.New("storage.record must not be empty")
	}
	if c.Timing.DeleteWindow <= 0 {
		return errors.New("timing.delete_window must be positive")
	}
	if c.Timing.SavedDelay <= 0 {
		return errors.New("timing.saved_delay must be positive")
	}
	return nil
}

// EditorOptions returns the editor timing derived from the config.
func (c Config) EditorOptions() editor.Options {
	return editor.Options{
		DeleteWindow: time.Duration(c.Timing.DeleteWindow),
		SavedDelay:   time.Duration(c.Timing.SavedDelay),
	}
}
