// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/weekplan/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// knownKeys lists the keys accepted in each section.
var knownKeys = map[string][]string{
	"calendar": {"timezone", "daytime_start", "daytime_end", "deep_work_threshold_min"},
	"training": {"seed", "min_completed", "deep_clusters", "shallow_clusters", "restarts"},
	"insights": {"min_completed"},
	"store":    {"driver", "path", "dsn", "busy_timeout"},
	"profile":  {"path"},
	"log":      {"level", "console"},
	"daemon":   {"schedule_spec", "retrain_spec", "min_interval", "watch_store"},
}

// Loader loads configuration from TOML files.
type Loader struct {
	dataPath      string // Path to the data directory config file
	globalConfDir string // Path to global config directory (e.g., ~/.config/weekplan)
}

// NewLoader creates a new Loader for the given data directory.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataPath:      domain.DataConfigPath(dataDir),
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataPath:      domain.DataConfigPath(dataDir),
		globalConfDir: globalConfDir,
	}
}

// WithConfigFile replaces the data directory config with an explicit file.
func (l *Loader) WithConfigFile(path string) *Loader {
	if path != "" {
		l.dataPath = path
	}
	return l
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Dir(domain.GlobalConfigPath(configHome))
}

// Load returns the merged configuration.
// Layers are applied as default <- global <- data dir; later layers win.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()
	if err := l.applyFile(cfg, l.globalPath()); err != nil {
		return nil, err
	}
	if err := l.applyFile(cfg, l.dataPath); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadGlobal returns the defaults overlaid with the global configuration only.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()
	if err := l.applyFile(cfg, l.globalPath()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) globalPath() string {
	if l.globalConfDir == "" {
		return ""
	}
	return filepath.Join(l.globalConfDir, domain.ConfigFileName)
}

// applyFile decodes path on top of cfg. Keys absent from the file keep
// their current values. A missing file is not an error.
func (l *Loader) applyFile(cfg *domain.Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	warnings := cfg.Warnings
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Warnings = append(warnings, unknownKeys(raw)...)
	return nil
}

// unknownKeys returns a sorted warning for every unrecognized section or key.
func unknownKeys(raw map[string]any) []string {
	var warnings []string
	for section, value := range raw {
		keys, ok := knownKeys[section]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("section %s must be a table", section))
			continue
		}
		for k := range m {
			if !contains(keys, k) {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
