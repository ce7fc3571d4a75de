package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "songbook.db" {
			t.Errorf("expected database path songbook.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 7878 {
			t.Errorf("expected server port 7878, got %d", config.Server.Port)
		}

		if config.Lookup.BaseURL != "http://localhost:8080" {
			t.Errorf("expected lookup base URL http://localhost:8080, got %s", config.Lookup.BaseURL)
		}

		if config.Lookup.RateLimit != 5.0 {
			t.Errorf("expected rate limit 5.0, got %f", config.Lookup.RateLimit)
		}

		if len(config.Extraction.TitlePrefixes) == 0 {
			t.Error("expected default title prefixes to be set")
		}

		if config.Extraction.PreviewRows != 5 {
			t.Errorf("expected 5 preview rows, got %d", config.Extraction.PreviewRows)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[lookup]
base_url = "http://localhost:9090"
timeout_seconds = 30
rate_limit = 2.5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[extraction]
title_prefixes = ["song:"]
preview_rows = 3

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Lookup.BaseURL != "http://localhost:9090" {
			t.Errorf("expected lookup base URL http://localhost:9090, got %s", config.Lookup.BaseURL)
		}

		if config.Lookup.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %f", config.Lookup.RateLimit)
		}

		if len(config.Extraction.TitlePrefixes) != 1 || config.Extraction.TitlePrefixes[0] != "song:" {
			t.Errorf("expected title prefixes [song:], got %v", config.Extraction.TitlePrefixes)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
