package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to newly drawn roofs
	DefaultPanelType        string  `json:"default_panel_type"`
	DefaultTiltAngle        float64 `json:"default_tilt_angle"`
	DefaultOrientationAngle float64 `json:"default_orientation_angle"`

	// Engine guard rails applied to new projects
	MinFootprintRatio float64 `json:"min_footprint_ratio"`
	MaxCandidates     int     `json:"max_candidates"`

	// Collaborator locations
	CatalogPath  string `json:"catalog_path"`  // TOML panel catalog, empty = default location
	DatabasePath string `json:"database_path"` // SQLite roof record store
	ServerAddr   string `json:"server_addr"`   // Listen address of the layout API

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultLayoutSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultLayoutSettings()
	return AppConfig{
		DefaultPanelType:        DefaultPanelType,
		DefaultTiltAngle:        30,
		DefaultOrientationAngle: 180,
		MinFootprintRatio:       defaults.MinFootprintRatio,
		MaxCandidates:           defaults.MaxCandidates,
		ServerAddr:              "127.0.0.1:8420",
		RecentProjects:          []string{},
		Theme:                   "system",
	}
}

// ApplyToSettings copies the guard rail values into a LayoutSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *LayoutSettings) {
	if c.MinFootprintRatio > 0 {
		s.MinFootprintRatio = c.MinFootprintRatio
	}
	if c.MaxCandidates > 0 {
		s.MaxCandidates = c.MaxCandidates
	}
}

// ApplyToRoof fills in the configured defaults on a freshly drawn roof.
func (c AppConfig) ApplyToRoof(r *RoofArea) {
	r.PanelType = c.DefaultPanelType
	r.TiltAngle = c.DefaultTiltAngle
	r.OrientationAngle = c.DefaultOrientationAngle
	r.Normalize()
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentProjects = recent
}
