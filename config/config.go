// Package config loads the optional shell settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ColorMode selects when diagnostics are styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether m is one of the known modes.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config holds the settings of the interactive shell.
type Config struct {
	Path        string    // file the settings came from, empty for defaults
	HistoryFile string    // empty disables history
	Color       ColorMode
	DebugAST    bool
}

type configFile struct {
	HistoryFile *string `yaml:"history_file"`
	Color       string  `yaml:"color"`
	DebugAST    bool    `yaml:"debug_ast"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	cfg := &Config{Color: ColorAuto}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		cfg.HistoryFile = filepath.Join(home, ".lox_history")
	}
	return cfg
}

// Path returns the settings file location: $LOX_CONFIG when set, otherwise
// .loxrc.yml in the home directory. It returns "" when neither is known.
func Path() string {
	if p := os.Getenv("LOX_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".loxrc.yml")
}

// Load reads settings from path. A missing file yields the defaults; a file
// that cannot be parsed or has unknown keys is an error. Environment
// overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: open %s: %w", path, err)
		default:
			defer file.Close()
			if err := cfg.decode(file); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
			cfg.Path = path
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if raw.HistoryFile != nil {
		c.HistoryFile = expandHome(*raw.HistoryFile)
	}
	if raw.Color != "" {
		c.Color = ColorMode(strings.ToLower(raw.Color))
	}
	c.DebugAST = raw.DebugAST
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOX_DEBUG_AST"); v != "" {
		c.DebugAST = v != "0" && !strings.EqualFold(v, "false")
	}
	if os.Getenv("NO_COLOR") != "" {
		c.Color = ColorNever
	}
}

func (c *Config) validate() error {
	if !c.Color.IsValid() {
		return fmt.Errorf("config: color must be one of auto, always, never; got %q", c.Color)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
