package domain

import (
	"strings"
	"testing"
)

func TestGlobalConfigDir(t *testing.T) {
	got := GlobalConfigDir("/home/user/.config")
	want := "/home/user/.config/te4it"
	if got != want {
		t.Errorf("GlobalConfigDir() = %q, want %q", got, want)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	got := GlobalConfigPath("/home/user/.config")
	want := "/home/user/.config/te4it/config.toml"
	if got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestConfigPath(t *testing.T) {
	got := ConfigPath("/data/te4it")
	want := "/data/te4it/config.toml"
	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Store.Type != StoreTypeSQLite {
		t.Errorf("Store.Type = %q, want %q", cfg.Store.Type, StoreTypeSQLite)
	}
	if cfg.Invitations.ExpirationDays != DefaultExpirationDays {
		t.Errorf("Invitations.ExpirationDays = %d, want %d", cfg.Invitations.ExpirationDays, DefaultExpirationDays)
	}
}

func TestConfig_StorePath(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"sqlite default", Config{Store: StoreConfig{Type: StoreTypeSQLite}}, "/data/te4it.db"},
		{"json default", Config{Store: StoreConfig{Type: StoreTypeJSON}}, "/data/te4it.json"},
		{"relative path", Config{Store: StoreConfig{Path: "db/main.db"}}, "/data/db/main.db"},
		{"absolute path", Config{Store: StoreConfig{Path: "/var/lib/te4it.db"}}, "/var/lib/te4it.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.StorePath("/data"); got != tt.want {
				t.Errorf("StorePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_UsersPath(t *testing.T) {
	cfg := NewDefaultConfig()
	if got := cfg.UsersPath("/data"); got != "/data/users.yaml" {
		t.Errorf("UsersPath() = %q", got)
	}
	cfg.Users.Path = "/etc/te4it/users.yaml"
	if got := cfg.UsersPath("/data"); got != "/etc/te4it/users.yaml" {
		t.Errorf("UsersPath() = %q", got)
	}
}

func TestRenderConfigTemplate(t *testing.T) {
	content := RenderConfigTemplate(NewDefaultConfig())

	for _, want := range []string{`type = "sqlite"`, `level = "info"`, "expiration_days = 7", "[users]"} {
		if !strings.Contains(content, want) {
			t.Errorf("expected template to contain %q", want)
		}
	}
}

func TestLogFilePath(t *testing.T) {
	if got, want := LogFilePath("/data", ""), "/data/logs/te4it.log"; got != want {
		t.Errorf("LogFilePath(global) = %q, want %q", got, want)
	}
	if got, want := LogFilePath("/data", "abc"), "/data/logs/project-abc.log"; got != want {
		t.Errorf("LogFilePath(project) = %q, want %q", got, want)
	}
}
