package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("expected default TimeoutSeconds=30, got %d", cfg.TimeoutSeconds)
	}
	if cfg.DownloadWorkers != 4 {
		t.Errorf("expected default DownloadWorkers=4, got %d", cfg.DownloadWorkers)
	}
	if !cfg.OfflineFallback {
		t.Error("expected OfflineFallback on by default")
	}
	if cfg.APIToken != "" {
		t.Errorf("expected empty default token, got %q", cfg.APIToken)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("expected default MaxRetries=3, got %d", cfg.MaxRetries)
	}
}

func TestSave_And_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.APIBaseURL = "https://assets.example.com/api"
	cfg.APIToken = "secret-token"
	cfg.DefaultEvent = 12
	cfg.DownloadWorkers = 8

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config permissions = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.APIBaseURL != cfg.APIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", loaded.APIBaseURL, cfg.APIBaseURL)
	}
	if loaded.APIToken != "secret-token" {
		t.Errorf("APIToken = %q", loaded.APIToken)
	}
	if loaded.DefaultEvent != 12 || loaded.DownloadWorkers != 8 {
		t.Errorf("got event=%d workers=%d", loaded.DefaultEvent, loaded.DownloadWorkers)
	}
}

func TestLoad_BackfillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_base_url: \"https://x.test/api/\"\ntimeout_seconds: 0\ndownload_workers: -2\nlog_mode: verbose\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "https://x.test/api" {
		t.Errorf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
	if cfg.DownloadWorkers != 4 {
		t.Errorf("DownloadWorkers = %d, want 4", cfg.DownloadWorkers)
	}
	if cfg.LogMode != "dev" {
		t.Errorf("LogMode = %q, want dev", cfg.LogMode)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: https://file.test\nmax_retries: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STAGEASSETS_API_URL", "https://env.test")
	t.Setenv("STAGEASSETS_API_TOKEN", "env-token")
	t.Setenv("STAGEASSETS_EVENT", "77")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "https://env.test" {
		t.Errorf("APIBaseURL = %q, want env value", cfg.APIBaseURL)
	}
	if cfg.APIToken != "env-token" {
		t.Errorf("APIToken = %q", cfg.APIToken)
	}
	if cfg.DefaultEvent != 77 {
		t.Errorf("DefaultEvent = %d", cfg.DefaultEvent)
	}
	// untouched by env
	if cfg.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d, want file value 1", cfg.MaxRetries)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("STAGEASSETS_TIMEOUT_SECONDS", "soon")
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestConfig_SetAndGet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"api_base_url", "https://a.test/api/", "https://a.test/api", false},
		{"timeout_seconds", "15", "15", false},
		{"timeout_seconds", "0", "", true},
		{"max_retries", "-1", "", true},
		{"offline_fallback", "false", "false", false},
		{"default_event", "42", "42", false},
		{"color_theme", "dark", "dark", false},
		{"color_theme", "neon", "", true},
		{"log_mode", "prod", "prod", false},
		{"nope", "x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfig_GetMasksToken(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIToken = "abcd1234efgh5678"

	got, err := cfg.Get("api_token")
	if err != nil {
		t.Fatal(err)
	}
	if got == cfg.APIToken {
		t.Error("token returned unmasked")
	}
	if got != "abcd…5678" {
		t.Errorf("masked token = %q", got)
	}
}

func TestKeys_AllGettable(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range Keys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error = %v", key, err)
		}
	}
}

func TestLoadFile_IgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_token: from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STAGEASSETS_API_TOKEN", "from-env")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.APIToken != "from-file" {
		t.Errorf("APIToken = %q, want file value", cfg.APIToken)
	}
}
