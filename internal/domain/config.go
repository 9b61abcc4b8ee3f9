package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings    []string          `toml:"-"`
	Store       StoreConfig       `toml:"store"`
	Users       UsersConfig       `toml:"users"`
	Log         LogConfig         `toml:"log"`
	Invitations InvitationsConfig `toml:"invitations"`
}

// StoreConfig holds persistence settings from [store] section.
type StoreConfig struct {
	Type string `toml:"type,omitempty"` // Storage backend: "sqlite" (default) or "json"
	Path string `toml:"path,omitempty"` // Store file path (default: inside the data directory)
}

// UsersConfig holds user directory settings from [users] section.
type UsersConfig struct {
	Path string `toml:"path,omitempty"` // Directory file path (default: <data-dir>/users.yaml)
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// InvitationsConfig holds invitation settings from [invitations] section.
type InvitationsConfig struct {
	ExpirationDays int `toml:"expiration_days,omitempty"` // Days until a pending invitation expires
}

// Store types.
const (
	StoreTypeSQLite = "sqlite"
	StoreTypeJSON   = "json"
)

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultStore    = StoreTypeSQLite
)

// File names.
const (
	DirName          = "te4it"       // Directory name under XDG dirs
	ConfigFileName   = "config.toml" // Config file name
	SQLiteFileName   = "te4it.db"    // SQLite store file name
	JSONFileName     = "te4it.json"  // JSON store file name
	UsersFileName    = "users.yaml"  // User directory file name
	LogDirName       = "logs"        // Log directory name
	DataDirEnv       = "TE4IT_HOME"  // Overrides the data directory
	ActorEnv         = "TE4IT_ACTOR" // Default acting user (id or email)
	ConfigHomeEnvVar = "XDG_CONFIG_HOME"
)

// ConfigPath returns the data directory config path.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// GlobalConfigDir returns the global config directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, DirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// StorePath returns the store file path for cfg, relative paths resolved against dataDir.
func (c *Config) StorePath(dataDir string) string {
	if c.Store.Path != "" {
		return resolvePath(dataDir, c.Store.Path)
	}
	if c.Store.Type == StoreTypeJSON {
		return filepath.Join(dataDir, JSONFileName)
	}
	return filepath.Join(dataDir, SQLiteFileName)
}

// UsersPath returns the user directory path for cfg.
func (c *Config) UsersPath(dataDir string) string {
	if c.Users.Path != "" {
		return resolvePath(dataDir, c.Users.Path)
	}
	return filepath.Join(dataDir, UsersFileName)
}

// LogDir returns the log directory inside dataDir.
func LogDir(dataDir string) string {
	return filepath.Join(dataDir, LogDirName)
}

// GlobalLogFileName is the log file for entries not tied to a project.
const GlobalLogFileName = "te4it.log"

// LogFilePath returns the log file for projectID, or the global log file
// when projectID is empty.
func LogFilePath(dataDir string, projectID ID) string {
	if projectID.IsZero() {
		return filepath.Join(LogDir(dataDir), GlobalLogFileName)
	}
	return filepath.Join(LogDir(dataDir), "project-"+projectID.String()+".log")
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Type: DefaultStore,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Invitations: InvitationsConfig{
			ExpirationDays: DefaultExpirationDays,
		},
	}
}

// RenderConfigTemplate renders a commented config file from cfg.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
