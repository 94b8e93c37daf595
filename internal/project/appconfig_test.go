package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelPlan/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultTiltAngle = 15
	cfg.DefaultPanelType = "large"
	cfg.Theme = "dark"
	cfg.RecentProjects = []string{"/tmp/house.panelplan", "/tmp/barn.panelplan"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultTiltAngle != 15 {
		t.Errorf("expected DefaultTiltAngle=15, got %f", loaded.DefaultTiltAngle)
	}
	if loaded.DefaultPanelType != "large" {
		t.Errorf("expected DefaultPanelType=large, got %s", loaded.DefaultPanelType)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if len(loaded.RecentProjects) != 2 {
		t.Errorf("expected 2 recent projects, got %d", len(loaded.RecentProjects))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultTiltAngle != defaults.DefaultTiltAngle {
		t.Errorf("expected default tilt %f, got %f", defaults.DefaultTiltAngle, cfg.DefaultTiltAngle)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"theme":"light"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected theme=light, got %s", cfg.Theme)
	}
	if cfg.ServerAddr != model.DefaultAppConfig().ServerAddr {
		t.Errorf("expected default server address, got %q", cfg.ServerAddr)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Write config with null recent_projects
	data := []byte(`{"default_tilt_angle":20,"theme":"light","recent_projects":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after loading")
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := model.DefaultAppConfig()
	if ResolveCatalogPath(cfg) != DefaultCatalogPath() {
		t.Errorf("expected default catalog path, got %s", ResolveCatalogPath(cfg))
	}
	if ResolveDatabasePath(cfg) != DefaultDatabasePath() {
		t.Errorf("expected default database path, got %s", ResolveDatabasePath(cfg))
	}

	cfg.CatalogPath = "/etc/panels.toml"
	cfg.DatabasePath = "/var/lib/roofs.db"
	if ResolveCatalogPath(cfg) != "/etc/panels.toml" {
		t.Errorf("expected configured catalog path, got %s", ResolveCatalogPath(cfg))
	}
	if ResolveDatabasePath(cfg) != "/var/lib/roofs.db" {
		t.Errorf("expected configured database path, got %s", ResolveDatabasePath(cfg))
	}
}
