package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// DefaultCatalogPath returns the default file path for the panel catalog.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "panels.toml")
}

// SaveCatalog writes the catalog as TOML, one [[panel]] table per type.
func SaveCatalog(path string, catalog model.PanelCatalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(catalog); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadCatalog reads a TOML panel catalog.
// Returns the built-in catalog if the file does not exist. Entries with a
// missing type or non-positive dimensions are rejected.
func LoadCatalog(path string) (model.PanelCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultPanelCatalog(), nil
		}
		return model.PanelCatalog{}, err
	}

	var catalog model.PanelCatalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return model.PanelCatalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := ValidateCatalog(catalog); err != nil {
		return model.PanelCatalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog, nil
}

// ValidateCatalog checks every definition and rejects duplicate types.
func ValidateCatalog(catalog model.PanelCatalog) error {
	if len(catalog.Panels) == 0 {
		return errors.New("no panel types defined")
	}
	seen := make(map[string]bool, len(catalog.Panels))
	for i, d := range catalog.Panels {
		if !d.Valid() {
			return fmt.Errorf("panel %d (%q): type, width and height are required", i+1, d.Type)
		}
		if seen[d.Type] {
			return fmt.Errorf("panel %d: duplicate type %q", i+1, d.Type)
		}
		seen[d.Type] = true
	}
	return nil
}

// LoadCatalogFromConfig loads the catalog named by the config, or the
// default catalog file.
func LoadCatalogFromConfig(config model.AppConfig) (model.PanelCatalog, error) {
	return LoadCatalog(ResolveCatalogPath(config))
}
