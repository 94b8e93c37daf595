package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// point is a drawing-space vertex. X points east and Y points north.
type point struct {
	X, Y float64
}

type outline []point

// segment represents a line segment between two drawing points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// chainTolerance is the endpoint gap, in meters, still treated as connected.
const chainTolerance = 0.01

// RoofImportResult holds a roof traced from a drawing.
type RoofImportResult struct {
	Roof     *model.RoofArea
	Errors   []string
	Warnings []string
}

// ImportRoofDXF reads a roof plan from a DXF file. Drawing coordinates are
// multiplied by unitScale to get meters (1 for meter drawings, 0.001 for
// millimeters) and placed relative to anchor, which marks the drawing origin.
// The largest closed shape becomes the roof outline. Closed shapes lying
// completely inside it become exclusion zones.
func ImportRoofDXF(path string, anchor model.GeoPoint, unitScale float64) RoofImportResult {
	result := RoofImportResult{}

	if unitScale <= 0 || math.IsNaN(unitScale) {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid unit scale %v", unitScale))
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 32))

		case *entity.Arc:
			pts := arcToPoints(e, 16)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Text, dimensions and hatches carry no outline
		}
	}

	outlines = append(outlines, chainSegments(segments, chainTolerance/unitScale)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	roofArea := outlineArea(outlines[0]) * unitScale * unitScale
	if roofArea < 1 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Largest shape covers only %.2f m², check the unit scale", roofArea))
		return result
	}

	roof := model.NewRoofArea("DXF Roof", toPath(outlines[0], anchor, unitScale))
	roof.PanelType = model.DefaultPanelType

	for i, o := range outlines[1:] {
		zone := toPath(o, anchor, unitScale)
		if !geo.ContainsAll(zone, roof.Path) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped shape %d: not inside the roof outline", i+2))
			continue
		}
		roof.AddExclusionZone(fmt.Sprintf("Obstacle %d", len(roof.ExclusionZones)+1), zone)
	}

	result.Roof = &roof
	return result
}

// toPath scales a drawing outline to meters and places it around the anchor.
func toPath(o outline, anchor model.GeoPoint, unitScale float64) model.Path {
	pts := make([][2]float64, len(o))
	for i, p := range o {
		pts[i] = [2]float64{p.X * unitScale, p.Y * unitScale}
	}
	return geo.PathFromLocal(anchor, pts)
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	var o outline

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := point{X: lw.Vertices[nextIdx][0], Y: lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 16)
			// The next vertex is added on its own iteration
			o = append(o, arcPts[:len(arcPts)-1]...)
		} else {
			o = append(o, current)
		}
	}

	return o
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 point, bulge float64, numSegments int) outline {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Hypot(dx, dy)
	if chordLen < 1e-9 {
		return outline{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	// Center lies on the chord's perpendicular bisector
	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make(outline, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleToOutline approximates a circle as a regular polygon.
func circleToOutline(c *entity.Circle, numSegments int) outline {
	o := make(outline, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		o[i] = point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return o
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines.
// Open chains are dropped since they cannot bound a roof or obstacle.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}

		chain := outline{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) < 4 || !pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			continue
		}
		outlines = append(outlines, chain[:len(chain)-1])
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o outline) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}
