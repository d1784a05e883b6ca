// Package worldconfig is the kernel's typed configuration: storage
// backend selection, plugin load order, tick interval, and log level,
// parsed from YAML or JSON by file extension. Grounded on the teacher's
// config package (config/config.go's Save/SaveYAML/SaveJSON/Write and
// its extension-dispatching Save), generalized from "agent/tool/MCP
// definitions" to "one world's storage and plugin wiring."
package worldconfig

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/hollowmere/kernel/klog"
)

// StorageKind selects a storage.Storage backend.
type StorageKind string

const (
	StorageMemory StorageKind = "memory"
	StorageFile   StorageKind = "file"
)

// Storage configures the backend a Domain opens.
type Storage struct {
	Kind StorageKind `json:"kind" yaml:"kind"`
	// Dir is the root directory for StorageFile; ignored otherwise.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// Plugin names one plugin to load, by the key its PluginKey() returns,
// and arbitrary options passed through to that plugin's own
// constructor — the core never interprets Options itself.
type Plugin struct {
	Key     string          `json:"key" yaml:"key"`
	Options json.RawMessage `json:"options,omitempty" yaml:"options,omitempty"`
}

// WorldConfig is the top-level typed configuration for one Domain.
type WorldConfig struct {
	Storage Storage  `json:"storage" yaml:"storage"`
	Plugins []Plugin `json:"plugins,omitempty" yaml:"plugins,omitempty"`

	// TickInterval is how often a host process should call Domain.Tick;
	// it is not enforced by the kernel itself (spec.md §4.9 "the core
	// does not run its own timer").
	TickInterval time.Duration `json:"tickInterval,omitempty" yaml:"tickInterval,omitempty"`

	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// Default returns a WorldConfig suitable for local development: an
// in-memory store, no plugins, info-level logging.
func Default() WorldConfig {
	return WorldConfig{
		Storage:      Storage{Kind: StorageMemory},
		TickInterval: 2 * time.Second,
		LogLevel:     "info",
	}
}

// Load reads path and parses it as YAML or JSON by extension (.yml/.yaml
// vs .json), mirroring the teacher's Save's extension dispatch.
func Load(path string) (WorldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WorldConfig{}, err
	}
	var cfg WorldConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return WorldConfig{}, err
		}
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return WorldConfig{}, err
		}
	default:
		return WorldConfig{}, fmt.Errorf("worldconfig: unsupported file extension: %s", ext)
	}
	return cfg, nil
}

// Save writes cfg to path, dispatching on extension exactly as Load does.
func (cfg WorldConfig) Save(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return cfg.SaveJSON(path)
	case ".yml", ".yaml":
		return cfg.SaveYAML(path)
	default:
		return fmt.Errorf("worldconfig: unsupported file extension: %s", ext)
	}
}

// SaveYAML writes cfg as YAML.
func (cfg WorldConfig) SaveYAML(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveJSON writes cfg as indented JSON.
func (cfg WorldConfig) SaveJSON(path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Write encodes cfg as YAML to w.
func (cfg WorldConfig) Write(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(cfg)
}

// Level parses cfg.LogLevel via klog.LevelFromString, defaulting to
// klog.LevelInfo if unset.
func (cfg WorldConfig) Level() klog.Level {
	if cfg.LogLevel == "" {
		return klog.LevelInfo
	}
	return klog.LevelFromString(cfg.LogLevel)
}
