package model

import (
	"math"

	"github.com/google/uuid"
)

// GeoPoint is a geographic coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Path is an ordered sequence of geographic points.
// A closed polygon is implied: the last point connects back to the first.
type Path []GeoPoint

// IsPolygon reports whether the path has enough vertices to bound an area.
func (p Path) IsPolygon() bool {
	return len(p) >= 3
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	cp := make(Path, len(p))
	copy(cp, p)
	return cp
}

// Equal reports whether two paths hold the same points in the same order.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// ExclusionZone is a polygon inside a roof where no panel may be placed.
type ExclusionZone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path Path   `json:"path"`
}

func NewExclusionZone(name string, path Path) ExclusionZone {
	return ExclusionZone{
		ID:   uuid.New().String()[:8],
		Name: name,
		Path: path.Clone(),
	}
}

// RoofArea is one planar roof segment with its panel configuration.
type RoofArea struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Path             Path            `json:"path"`
	PanelType        string          `json:"panel_type"`
	TiltAngle        float64         `json:"tilt_angle"`        // degrees from horizontal, [0, 90]
	OrientationAngle float64         `json:"orientation_angle"` // degrees clockwise from north, [0, 360)
	PanelCount       int             `json:"panel_count"`       // derived from the layout, never authored
	ExclusionZones   []ExclusionZone `json:"exclusion_zones"`
}

func NewRoofArea(name string, path Path) RoofArea {
	return RoofArea{
		ID:             uuid.New().String()[:8],
		Name:           name,
		Path:           path.Clone(),
		ExclusionZones: []ExclusionZone{},
	}
}

// Normalize clamps the tilt into [0, 90] and wraps the orientation into [0, 360).
func (r *RoofArea) Normalize() {
	r.TiltAngle = ClampTilt(r.TiltAngle)
	r.OrientationAngle = NormalizeHeading(r.OrientationAngle)
}

// AddExclusionZone appends a zone and returns it.
func (r *RoofArea) AddExclusionZone(name string, path Path) ExclusionZone {
	z := NewExclusionZone(name, path)
	r.ExclusionZones = append(r.ExclusionZones, z)
	return z
}

// RemoveExclusionZone deletes the zone with the given id.
// It returns false if no such zone exists.
func (r *RoofArea) RemoveExclusionZone(id string) bool {
	for i, z := range r.ExclusionZones {
		if z.ID == id {
			r.ExclusionZones = append(r.ExclusionZones[:i:i], r.ExclusionZones[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the roof, including paths and zones.
func (r RoofArea) Clone() RoofArea {
	cp := r
	cp.Path = r.Path.Clone()
	if r.ExclusionZones != nil {
		cp.ExclusionZones = make([]ExclusionZone, len(r.ExclusionZones))
		for i, z := range r.ExclusionZones {
			cp.ExclusionZones[i] = z
			cp.ExclusionZones[i].Path = z.Path.Clone()
		}
	}
	return cp
}

// ClampTilt limits a tilt angle to the physical range [0, 90].
func ClampTilt(tilt float64) float64 {
	if math.IsNaN(tilt) || tilt < 0 {
		return 0
	}
	if tilt > 90 {
		return 90
	}
	return tilt
}

// NormalizeHeading wraps any angle into [0, 360).
func NormalizeHeading(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

// Panel is one placed panel: its center and four corners in ring order.
type Panel struct {
	Index   int         `json:"index"` // position in the deterministic grid output
	Center  GeoPoint    `json:"center"`
	Corners [4]GeoPoint `json:"corners"`
}

// SamplePoints returns the center followed by the four corners.
func (p Panel) SamplePoints() []GeoPoint {
	return []GeoPoint{p.Center, p.Corners[0], p.Corners[1], p.Corners[2], p.Corners[3]}
}

// Outline returns the corners as a closed path.
func (p Panel) Outline() Path {
	return Path{p.Corners[0], p.Corners[1], p.Corners[2], p.Corners[3]}
}

// LayoutSettings holds engine guard rails.
type LayoutSettings struct {
	// MinFootprintRatio is the smallest fraction of the panel height the
	// horizontal footprint may shrink to as tilt approaches 90 degrees.
	MinFootprintRatio float64 `json:"min_footprint_ratio"`
	// MaxCandidates bounds the number of grid positions evaluated per roof.
	MaxCandidates int `json:"max_candidates"`
}

const (
	DefaultMinFootprintRatio = 0.05
	DefaultMaxCandidates     = 2_000_000
)

func DefaultLayoutSettings() LayoutSettings {
	return LayoutSettings{
		MinFootprintRatio: DefaultMinFootprintRatio,
		MaxCandidates:     DefaultMaxCandidates,
	}
}

// Project ties everything together for save/load.
type Project struct {
	Name     string         `json:"name"`
	Roofs    []RoofArea     `json:"roofs"`
	Settings LayoutSettings `json:"settings"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Roofs:    []RoofArea{},
		Settings: DefaultLayoutSettings(),
	}
}

// Roof returns a pointer to the roof with the given id, or nil.
func (p *Project) Roof(id string) *RoofArea {
	for i := range p.Roofs {
		if p.Roofs[i].ID == id {
			return &p.Roofs[i]
		}
	}
	return nil
}

// RemoveRoof deletes the roof with the given id. It returns false if absent.
func (p *Project) RemoveRoof(id string) bool {
	for i := range p.Roofs {
		if p.Roofs[i].ID == id {
			p.Roofs = append(p.Roofs[:i:i], p.Roofs[i+1:]...)
			return true
		}
	}
	return false
}

// TotalPanels sums the derived panel counts of all roofs.
func (p Project) TotalPanels() int {
	total := 0
	for _, r := range p.Roofs {
		total += r.PanelCount
	}
	return total
}

// ZoneRecord is the persisted form of an exclusion zone.
type ZoneRecord struct {
	Name string `json:"name"`
	Path Path   `json:"path"`
}

// RoofRecord is the persistable form of a roof handed to a storage backend.
type RoofRecord struct {
	Name             string       `json:"name"`
	Path             Path         `json:"path"`
	PanelType        string       `json:"panel_type"`
	TiltAngle        float64      `json:"tilt_angle"`
	OrientationAngle float64      `json:"orientation_angle"`
	PanelCount       int          `json:"panel_count"`
	ExclusionZones   []ZoneRecord `json:"exclusion_zones"`
}

// Record converts the roof to its persistable form.
func (r RoofArea) Record() RoofRecord {
	zones := make([]ZoneRecord, 0, len(r.ExclusionZones))
	for _, z := range r.ExclusionZones {
		zones = append(zones, ZoneRecord{Name: z.Name, Path: z.Path.Clone()})
	}
	return RoofRecord{
		Name:             r.Name,
		Path:             r.Path.Clone(),
		PanelType:        r.PanelType,
		TiltAngle:        r.TiltAngle,
		OrientationAngle: r.OrientationAngle,
		PanelCount:       r.PanelCount,
		ExclusionZones:   zones,
	}
}

// ToRoofArea rebuilds a roof from a stored record with fresh ids.
// PanelCount is copied as stored; callers recompute it before trusting it.
func (rec RoofRecord) ToRoofArea() RoofArea {
	roof := NewRoofArea(rec.Name, rec.Path)
	roof.PanelType = rec.PanelType
	roof.TiltAngle = rec.TiltAngle
	roof.OrientationAngle = rec.OrientationAngle
	roof.PanelCount = rec.PanelCount
	for _, z := range rec.ExclusionZones {
		roof.AddExclusionZone(z.Name, z.Path)
	}
	return roof
}
