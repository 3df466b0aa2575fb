// Package config loads the notemap configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"notemap/diagram"
	"notemap/validation"
)

// Storage keys used by the web application this format comes from. Keeping
// them lets a store be shared with existing data.
const (
	DefaultDocumentKey = "yaNoteRemixData"
	DefaultVersionKey  = "yaNoteRemix-currentVersion"
)

// EnvConfig names the variable that points at a config file.
const EnvConfig = "NOTEMAP_CONFIG"

type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Keys     KeysConfig     `yaml:"keys"`
	Defaults DefaultsConfig `yaml:"defaults"`
	History  HistoryConfig  `yaml:"history"`
	Log      LogConfig      `yaml:"log"`
	Share    ShareConfig    `yaml:"share"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=memory file sqlite"`
	Path    string `yaml:"path" validate:"required_unless=Backend memory"`
}

type KeysConfig struct {
	Document string `yaml:"document" validate:"required"`
	Version  string `yaml:"version" validate:"required"`
}

// DefaultsConfig holds the styles applied to newly created items, by tag.
type DefaultsConfig struct {
	NodeType string `yaml:"node_type"`
	LineType string `yaml:"line_type"`
	DashType string `yaml:"dash_type"`
}

type HistoryConfig struct {
	// Limit caps the undo stack; 0 keeps every state.
	Limit int `yaml:"limit" validate:"gte=0"`
}

type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
	// File receives log output. The terminal UI owns stderr, so an empty
	// value discards logs while it runs.
	File string `yaml:"file"`
}

type ShareConfig struct {
	Listen       string        `yaml:"listen" validate:"omitempty,hostname_port"`
	BaseURL      string        `yaml:"base_url" validate:"omitempty,url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" validate:"gt=0"`
	MaxBytes     int64         `yaml:"max_bytes" validate:"gt=0"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	home, _ := os.UserHomeDir()
	styles := diagram.DefaultStyles()
	return &Config{
		Store: StoreConfig{
			Backend: "file",
			Path:    filepath.Join(home, ".local", "share", "notemap"),
		},
		Keys: KeysConfig{
			Document: DefaultDocumentKey,
			Version:  DefaultVersionKey,
		},
		Defaults: DefaultsConfig{
			NodeType: styles.NodeType.String(),
			LineType: styles.LineType.String(),
			DashType: styles.DashType.String(),
		},
		Log: LogConfig{Level: "info"},
		Share: ShareConfig{
			Listen:       "127.0.0.1:8086",
			FetchTimeout: 10 * time.Second,
			MaxBytes:     4 << 20,
		},
	}
}

// Path resolves the config file location: the explicit path if given, then
// $NOTEMAP_CONFIG, then ~/.config/notemap/config.yaml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "notemap", "config.yaml")
}

// Load reads the config at Path(explicit). A missing file yields the
// defaults unless the path was given explicitly. Environment overrides are
// applied last and the result is validated.
func Load(explicit string) (*Config, error) {
	cfg := Default()
	path := Path(explicit)
	if path != "" {
		err := cfg.readFile(path)
		switch {
		case err == nil:
			cfg.Source = path
		case errors.Is(err, fs.ErrNotExist) && explicit == "":
		default:
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("NOTEMAP_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("NOTEMAP_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("NOTEMAP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("NOTEMAP_HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NOTEMAP_HISTORY_LIMIT: %w", err)
		}
		c.History.Limit = n
	}
	if v := os.Getenv("NOTEMAP_SHARE_BASE_URL"); v != "" {
		c.Share.BaseURL = v
	}
	return nil
}

// Validate checks the struct tags and the style names.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Styles(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Styles parses the configured default styles.
func (c *Config) Styles() (diagram.Defaults, error) {
	var (
		d   diagram.Defaults
		err error
	)
	if d.NodeType, err = diagram.ParseNodeType(c.Defaults.NodeType); err != nil {
		return d, fmt.Errorf("defaults.node_type: %w", err)
	}
	if d.LineType, err = diagram.ParseLineType(c.Defaults.LineType); err != nil {
		return d, fmt.Errorf("defaults.line_type: %w", err)
	}
	if d.DashType, err = diagram.ParseDashType(c.Defaults.DashType); err != nil {
		return d, fmt.Errorf("defaults.dash_type: %w", err)
	}
	return d, nil
}
