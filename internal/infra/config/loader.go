// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/te4it/te4it/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the te4it data directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/te4it)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv(domain.ConfigHomeEnvVar)
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration (data dir + global).
// The data directory config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	local, err := l.loadFile(domain.ConfigPath(l.dataDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- data dir (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if local != nil {
		base = mergeConfigs(base, local)
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	section := func(name string, value any, fn func(k string, v any) bool) {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("[%s] must be a table", name))
			return
		}
		for k, v := range m {
			if !fn(k, v) {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", name, k))
			}
		}
	}

	for name, value := range raw {
		switch name {
		case "store":
			section(name, value, func(k string, v any) bool {
				switch k {
				case "type":
					if s, ok := v.(string); ok {
						if s != domain.StoreTypeSQLite && s != domain.StoreTypeJSON {
							warnings = append(warnings, fmt.Sprintf("unknown store type %q, using %q", s, domain.DefaultStore))
							return true
						}
						res.Store.Type = s
					}
				case "path":
					if s, ok := v.(string); ok {
						res.Store.Path = s
					}
				default:
					return false
				}
				return true
			})
		case "users":
			section(name, value, func(k string, v any) bool {
				if k != "path" {
					return false
				}
				if s, ok := v.(string); ok {
					res.Users.Path = s
				}
				return true
			})
		case "log":
			section(name, value, func(k string, v any) bool {
				if k != "level" {
					return false
				}
				if s, ok := v.(string); ok {
					if !validLogLevel(s) {
						warnings = append(warnings, fmt.Sprintf("unknown log level %q, using %q", s, domain.DefaultLogLevel))
						return true
					}
					res.Log.Level = s
				}
				return true
			})
		case "invitations":
			section(name, value, func(k string, v any) bool {
				if k != "expiration_days" {
					return false
				}
				// go-toml decodes integers into int64
				if n, ok := v.(int64); ok {
					if n <= 0 {
						warnings = append(warnings, fmt.Sprintf("expiration_days must be positive, got %d", n))
						return true
					}
					res.Invitations.ExpirationDays = int(n)
				}
				return true
			})
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", name))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func validLogLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		Store:       base.Store,
		Users:       base.Users,
		Log:         base.Log,
		Invitations: base.Invitations,
		Warnings:    append(append([]string{}, base.Warnings...), override.Warnings...),
	}

	if override.Store.Type != "" {
		result.Store.Type = override.Store.Type
	}
	if override.Store.Path != "" {
		result.Store.Path = override.Store.Path
	}
	if override.Users.Path != "" {
		result.Users.Path = override.Users.Path
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Invitations.ExpirationDays != 0 {
		result.Invitations.ExpirationDays = override.Invitations.ExpirationDays
	}

	return result
}
