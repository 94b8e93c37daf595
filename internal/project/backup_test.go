package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelPlan/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultOrientationAngle = 170
	cfg.Theme = "dark"
	catalog := model.DefaultPanelCatalog()
	catalog.Upsert(model.PanelDefinition{Type: "custom", Label: "Custom", WidthMeters: 1.1, HeightMeters: 1.8, Wattage: 380})

	if err := ExportAllData(path, cfg, catalog); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultOrientationAngle != 170 {
		t.Errorf("expected DefaultOrientationAngle=170, got %f", backup.Config.DefaultOrientationAngle)
	}
	if backup.Config.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", backup.Config.Theme)
	}
	if _, ok := backup.Catalog.Lookup("custom"); !ok {
		t.Error("expected custom panel type in restored catalog")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportAllDataInvalidCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "badcatalog.json")
	data := []byte(`{"version":"1.0.0","catalog":{"panels":[{"type":"x","width_m":0,"height_m":1}]}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid catalog")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "backup.json")

	if err := ExportAllData(path, model.DefaultAppConfig(), model.DefaultPanelCatalog()); err != nil {
		t.Fatalf("ExportAllData should create dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("backup file was not created")
	}
}

func TestImportAllDataDefaultsCatalogAndRecentProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.json")
	data := []byte(`{"version":"1.0.0","config":{"recent_projects":null}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
	if len(backup.Catalog.Panels) != len(model.DefaultPanelCatalog().Panels) {
		t.Errorf("expected built-in catalog, got %d panels", len(backup.Catalog.Panels))
	}
}
