// ABOUTME: Tests for nutrition configuration management.
// ABOUTME: Covers load, save, defaults, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "kv"}
	if got := cfg.GetBackend(); got != "kv" {
		t.Errorf("GetBackend() = %q, want %q", got, "kv")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/nutrition-test"}
	if got := cfg.GetDataDir(); got != "/tmp/nutrition-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/nutrition-test")
	}
}

func TestExpandPathEmpty(t *testing.T) {
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want %q", got, "")
	}
}

func TestExpandPathAbsolute(t *testing.T) {
	if got := ExpandPath("/tmp/foo"); got != "/tmp/foo" {
		t.Errorf("ExpandPath(\"/tmp/foo\") = %q, want %q", got, "/tmp/foo")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~")
	if got != home {
		t.Errorf("ExpandPath(\"~\") = %q, want %q", got, home)
	}
}

func TestExpandPathTildeSlash(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~/data/nutrition")
	want := filepath.Join(home, "data/nutrition")
	if got != want {
		t.Errorf("ExpandPath(\"~/data/nutrition\") = %q, want %q", got, want)
	}
}

func TestExpandPathRelative(t *testing.T) {
	if got := ExpandPath("data/nutrition"); got != "data/nutrition" {
		t.Errorf("ExpandPath(\"data/nutrition\") = %q, want %q", got, "data/nutrition")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/nutrition-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "nutrition-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	// Set XDG_CONFIG_HOME to a temp dir with no config file
	tmpDir, err := os.MkdirTemp("", "nutrition-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Should return defaults
	if cfg.Backend != "" {
		t.Errorf("Expected empty Backend, got %q", cfg.Backend)
	}
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "nutrition-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	// Save config
	cfg := &Config{
		Backend: "kv",
		DataDir: "/tmp/nutrition-data",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// Load config
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.Backend != "kv" {
		t.Errorf("Backend mismatch: got %q, want %q", loaded.Backend, "kv")
	}
	if loaded.DataDir != "/tmp/nutrition-data" {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, "/tmp/nutrition-data")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "nutrition-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Point to a non-existent subdirectory
	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	cfg := &Config{Backend: "sqlite"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	// Verify directory was created
	configDir := filepath.Join(tmpDir, "nonexistent", "nutrition")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "nutrition-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	// Write invalid JSON
	configDir := filepath.Join(tmpDir, "nutrition")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	_, err = Load()
	if err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "nutrition-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "nutrition", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "nutrition-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := &Config{
		Backend: "sqlite",
		DataDir: tmpDir,
	}

	repo, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer repo.Close()

	if repo == nil {
		t.Error("Expected non-nil repository")
	}

	// Verify database file was created
	dbPath := filepath.Join(tmpDir, "nutrition.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected nutrition.db to be created")
	}
}

func TestOpenStorageKV(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "nutrition-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := &Config{
		Backend: "kv",
		DataDir: tmpDir,
	}

	repo, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() for kv failed: %v", err)
	}
	defer repo.Close()

	if repo == nil {
		t.Error("Expected non-nil repository")
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{
		Backend: "invalid",
		DataDir: "/tmp",
	}

	_, err := cfg.OpenStorage(nil)
	if err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestConfigJSONSerialization(t *testing.T) {
	cfg := &Config{
		Backend: "kv",
		DataDir: "~/nutrition-data",
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if loaded.Backend != cfg.Backend {
		t.Errorf("Backend mismatch: got %q, want %q", loaded.Backend, cfg.Backend)
	}
	if loaded.DataDir != cfg.DataDir {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, cfg.DataDir)
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	cfg := &Config{}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Empty config should result in "{}" since fields have omitempty
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}

func TestOpenStorageDefaultBackend(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "nutrition-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Empty config should use sqlite backend by default
	cfg := &Config{
		DataDir: tmpDir,
	}

	repo, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() with default backend failed: %v", err)
	}
	defer repo.Close()

	if repo == nil {
		t.Error("Expected non-nil repository")
	}
}

func TestGetUserIDDefault(t *testing.T) {
	if got := (&Config{}).GetUserID(); got != 1 {
		t.Errorf("GetUserID() = %d, want 1", got)
	}
	if got := (&Config{UserID: 42}).GetUserID(); got != 42 {
		t.Errorf("GetUserID() = %d, want 42", got)
	}
}

func TestGetLogLevelDefault(t *testing.T) {
	if got := (&Config{}).GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want %q", got, "warn")
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"backend", "kv", false},
		{"backend", "markdown", true},
		{"data_dir", "~/nutrition", false},
		{"user_id", "7", false},
		{"user_id", "zero", true},
		{"user_id", "-3", true},
		{"catalog_path", "/tmp/foods.yaml", false},
		{"log_level", "debug", false},
		{"log_level", "loud", true},
		{"color", "blue", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}

	cfg := &Config{}
	_ = cfg.Set("user_id", "7")
	if cfg.UserID != 7 {
		t.Errorf("Expected UserID 7, got %d", cfg.UserID)
	}
}

func TestLoadCatalogDefault(t *testing.T) {
	cat, err := (&Config{}).LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() failed: %v", err)
	}
	if cat.Len() == 0 {
		t.Error("Expected built-in catalog to have foods")
	}
}

func TestLoadCatalogFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.yaml")
	yamlData := "foods:\n  - {id: toast, name: Toast, unit: unit, portion: 1, calories: 90, protein: 3, carbs: 15, fat: 1}\n"
	if err := os.WriteFile(path, []byte(yamlData), 0600); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	cat, err := (&Config{CatalogPath: path}).LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() failed: %v", err)
	}
	if _, ok := cat.Lookup("toast"); !ok || cat.Len() != 1 {
		t.Errorf("Expected catalog with only toast, got %d foods", cat.Len())
	}
}

func TestStoragePath(t *testing.T) {
	dir := t.TempDir()

	sqlite := &Config{DataDir: dir}
	if got, want := sqlite.StoragePath(), filepath.Join(dir, "nutrition.db"); got != want {
		t.Errorf("StoragePath() = %q, want %q", got, want)
	}

	kv := &Config{Backend: BackendKV, DataDir: dir}
	if got, want := kv.StoragePath(), filepath.Join(dir, "kv"); got != want {
		t.Errorf("StoragePath() = %q, want %q", got, want)
	}
}
