package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/PanelPlan/internal/model"
)

// Extension is the file extension of saved projects.
const Extension = ".panelplan"

// Save writes the project as indented JSON.
func Save(path string, proj model.Project) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create project directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// Load reads a project file. Angles are normalized, missing collections are
// made non-nil and unset guard rails fall back to their defaults. Stored
// panel counts are kept as-is; callers recompute layouts before trusting them.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("read project: %w", err)
	}
	var proj model.Project
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("parse project %s: %w", path, err)
	}

	if proj.Roofs == nil {
		proj.Roofs = []model.RoofArea{}
	}
	for i := range proj.Roofs {
		proj.Roofs[i].Normalize()
		if proj.Roofs[i].ExclusionZones == nil {
			proj.Roofs[i].ExclusionZones = []model.ExclusionZone{}
		}
	}
	defaults := model.DefaultLayoutSettings()
	if proj.Settings.MinFootprintRatio <= 0 {
		proj.Settings.MinFootprintRatio = defaults.MinFootprintRatio
	}
	if proj.Settings.MaxCandidates <= 0 {
		proj.Settings.MaxCandidates = defaults.MaxCandidates
	}
	return proj, nil
}

// EnsureExtension appends the project extension when path lacks it.
func EnsureExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}
