package widgets

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/piwi3910/PanelPlan/internal/controller"
	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// Mode selects what a tap on the canvas does.
type Mode int

const (
	// ModeSelect removes the tapped panel or selects the tapped roof.
	ModeSelect Mode = iota
	// ModeDraw appends the tapped point to the draft outline.
	ModeDraw
	// ModeSnap reports the tapped point so the caller can align a roof to its nearest edge.
	ModeSnap
)

var (
	colorBackground = color.NRGBA{R: 235, G: 238, B: 240, A: 255}
	colorRoof       = color.NRGBA{R: 70, G: 70, B: 70, A: 255}
	colorRoofActive = color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	colorZone       = color.NRGBA{R: 220, G: 40, B: 40, A: 255}
	colorPanel      = color.NRGBA{R: 25, G: 60, B: 140, A: 230}
	colorDraft      = color.NRGBA{R: 255, G: 152, B: 0, A: 255}
	colorLabel      = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

const (
	canvasMargin   = float32(20)
	emptyViewSpan  = 40.0 // meters shown around the anchor when nothing is drawn
	draftDotRadius = float32(3)
)

// panelShape is a panel drawn on the canvas. It satisfies controller.PanelHandle.
type panelShape struct {
	rc      *RoofCanvas
	roofID  string
	index   int
	panel   model.Panel
	onTap   func()
	removed bool
}

func (s *panelShape) ClearHandlers() {
	s.onTap = nil
}

func (s *panelShape) Remove() {
	if s.removed {
		return
	}
	s.removed = true
	s.rc.removeShape(s)
}

// RoofCanvas draws roofs, exclusion zones and panels with north up, scaled
// to fit the widget. It is the rendering surface handed to the layout
// controller.
type RoofCanvas struct {
	widget.BaseWidget

	// OnRoofSelected is called when a roof outline is tapped in ModeSelect.
	OnRoofSelected func(roofID string)
	// OnDraftChanged is called after a vertex is added to the draft in ModeDraw.
	OnDraftChanged func(draft model.Path)
	// OnSnap is called with the tapped location in ModeSnap.
	OnSnap func(click model.GeoPoint)

	mode     Mode
	anchor   model.GeoPoint
	roofs    []model.RoofArea
	selected string
	draft    model.Path
	shapes   []*panelShape
	dead     int // removed shapes not yet compacted out of shapes
}

var _ controller.Surface = (*RoofCanvas)(nil)

// NewRoofCanvas creates an empty canvas centered on anchor.
func NewRoofCanvas(anchor model.GeoPoint) *RoofCanvas {
	rc := &RoofCanvas{anchor: anchor}
	rc.ExtendBaseWidget(rc)
	return rc
}

// DrawPanel implements controller.Surface. Drawing and removing panels do
// not repaint; call Refresh once the batch is done.
func (rc *RoofCanvas) DrawPanel(roofID string, index int, p model.Panel, onTap func()) (controller.PanelHandle, error) {
	for _, c := range p.Corners {
		if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
			return nil, fmt.Errorf("panel %d of roof %s has an invalid outline", index, roofID)
		}
	}
	s := &panelShape{rc: rc, roofID: roofID, index: index, panel: p, onTap: onTap}
	rc.shapes = append(rc.shapes, s)
	return s, nil
}

// removeShape is called after a shape is marked removed. Removed shapes are
// dropped in bulk once they make up half of the slice.
func (rc *RoofCanvas) removeShape(*panelShape) {
	rc.dead++
	if rc.dead*2 < len(rc.shapes) {
		return
	}
	live := rc.shapes[:0]
	for _, s := range rc.shapes {
		if !s.removed {
			live = append(live, s)
		}
	}
	clear(rc.shapes[len(live):])
	rc.shapes = live
	rc.dead = 0
}

// PanelCount returns the number of panels currently drawn for the roof.
func (rc *RoofCanvas) PanelCount(roofID string) int {
	n := 0
	for _, s := range rc.shapes {
		if !s.removed && s.roofID == roofID {
			n++
		}
	}
	return n
}

// SetRoofs replaces the roofs being displayed and marks one as selected.
func (rc *RoofCanvas) SetRoofs(roofs []model.RoofArea, selected string) {
	rc.roofs = make([]model.RoofArea, len(roofs))
	for i, r := range roofs {
		rc.roofs[i] = r.Clone()
	}
	rc.selected = selected
	rc.Refresh()
}

// SetAnchor moves the view center used when no roof is drawn.
func (rc *RoofCanvas) SetAnchor(anchor model.GeoPoint) {
	rc.anchor = anchor
	rc.Refresh()
}

// Anchor returns the view center used when no roof is drawn.
func (rc *RoofCanvas) Anchor() model.GeoPoint {
	return rc.anchor
}

// SetMode switches the tap behavior. Leaving ModeDraw keeps the draft until
// ClearDraft is called.
func (rc *RoofCanvas) SetMode(m Mode) {
	rc.mode = m
}

func (rc *RoofCanvas) Mode() Mode {
	return rc.mode
}

// Draft returns a copy of the outline collected in ModeDraw.
func (rc *RoofCanvas) Draft() model.Path {
	return rc.draft.Clone()
}

// ClearDraft discards the draft outline.
func (rc *RoofCanvas) ClearDraft() {
	rc.draft = nil
	rc.Refresh()
}

// Tapped implements fyne.Tappable.
func (rc *RoofCanvas) Tapped(ev *fyne.PointEvent) {
	v := rc.view()
	pt := v.toGeo(ev.Position)

	switch rc.mode {
	case ModeDraw:
		rc.draft = append(rc.draft, pt)
		rc.Refresh()
		if rc.OnDraftChanged != nil {
			rc.OnDraftChanged(rc.draft.Clone())
		}
	case ModeSnap:
		if rc.OnSnap != nil {
			rc.OnSnap(pt)
		}
	default:
		if s := rc.panelAt(pt); s != nil {
			if s.onTap != nil {
				s.onTap()
				rc.Refresh()
			}
			return
		}
		if id := rc.roofAt(pt); id != "" && rc.OnRoofSelected != nil {
			rc.OnRoofSelected(id)
		}
	}
}

// panelAt returns the topmost panel containing pt.
func (rc *RoofCanvas) panelAt(pt model.GeoPoint) *panelShape {
	for i := len(rc.shapes) - 1; i >= 0; i-- {
		s := rc.shapes[i]
		if !s.removed && geo.ContainsLocation(pt, s.panel.Corners[:]) {
			return s
		}
	}
	return nil
}

// roofAt returns the id of the last roof whose outline contains pt.
func (rc *RoofCanvas) roofAt(pt model.GeoPoint) string {
	for i := len(rc.roofs) - 1; i >= 0; i-- {
		if geo.ContainsLocation(pt, rc.roofs[i].Path) {
			return rc.roofs[i].ID
		}
	}
	return ""
}

// viewport maps between geographic points and widget pixels, north up.
type viewport struct {
	origin model.GeoPoint // south-west corner of the visible extent
	height float64        // meters
	scale  float32        // pixels per meter
	offset fyne.Position
}

func (v viewport) toScreen(p model.GeoPoint) fyne.Position {
	x, y := geo.ToLocal(v.origin, p)
	return fyne.NewPos(
		v.offset.X+float32(x)*v.scale,
		v.offset.Y+float32(v.height-y)*v.scale,
	)
}

func (v viewport) toGeo(pos fyne.Position) model.GeoPoint {
	x := float64((pos.X - v.offset.X) / v.scale)
	y := v.height - float64((pos.Y-v.offset.Y)/v.scale)
	return geo.FromLocal(v.origin, x, y)
}

// view fits the roofs into the widget. The draft never moves the view so
// taps stay where the user put them.
func (rc *RoofCanvas) view() viewport {
	var pts []model.GeoPoint
	for _, r := range rc.roofs {
		pts = append(pts, r.Path...)
	}

	var sw, ne model.GeoPoint
	if len(pts) == 0 {
		half := emptyViewSpan / 2
		sw = geo.FromLocal(rc.anchor, -half, -half)
		ne = geo.FromLocal(rc.anchor, half, half)
	} else {
		sw, ne = geo.Bounds(pts)
	}
	w, h := geo.ToLocal(sw, ne)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	size := rc.Size()
	availW := size.Width - 2*canvasMargin
	availH := size.Height - 2*canvasMargin
	if availW < 1 {
		availW = 1
	}
	if availH < 1 {
		availH = 1
	}
	scale := float32(math.Min(float64(availW)/w, float64(availH)/h))

	return viewport{
		origin: sw,
		height: h,
		scale:  scale,
		offset: fyne.NewPos(
			canvasMargin+(availW-float32(w)*scale)/2,
			canvasMargin+(availH-float32(h)*scale)/2,
		),
	}
}

// CreateRenderer implements fyne.Widget.
func (rc *RoofCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newRoofCanvasRenderer(rc)
}

type roofCanvasRenderer struct {
	rc      *RoofCanvas
	objects []fyne.CanvasObject
}

func newRoofCanvasRenderer(rc *RoofCanvas) *roofCanvasRenderer {
	r := &roofCanvasRenderer{rc: rc}
	r.rebuild()
	return r
}

func (r *roofCanvasRenderer) rebuild() {
	r.objects = nil
	rc := r.rc
	v := rc.view()

	bg := canvas.NewRectangle(colorBackground)
	bg.Resize(rc.Size())
	r.objects = append(r.objects, bg)

	for _, roof := range rc.roofs {
		col, width := colorRoof, float32(1.5)
		if roof.ID == rc.selected {
			col, width = colorRoofActive, 2.5
		}
		r.outline(v, roof.Path, col, width, true)
		for _, z := range roof.ExclusionZones {
			r.outline(v, z.Path, colorZone, 1.5, true)
		}
		if roof.Path.IsPolygon() {
			label := canvas.NewText(fmt.Sprintf("%s (%d)", roof.Name, roof.PanelCount), colorLabel)
			label.TextSize = 11
			label.TextStyle = fyne.TextStyle{Bold: roof.ID == rc.selected}
			label.Move(v.toScreen(geo.Centroid(roof.Path)))
			r.objects = append(r.objects, label)
		}
	}

	for _, s := range rc.shapes {
		if s.removed {
			continue
		}
		r.outline(v, s.panel.Outline(), colorPanel, 1, true)
	}

	if len(rc.draft) > 0 {
		r.outline(v, rc.draft, colorDraft, 2, false)
		for _, p := range rc.draft {
			dot := canvas.NewCircle(colorDraft)
			pos := v.toScreen(p)
			dot.Resize(fyne.NewSize(2*draftDotRadius, 2*draftDotRadius))
			dot.Move(fyne.NewPos(pos.X-draftDotRadius, pos.Y-draftDotRadius))
			r.objects = append(r.objects, dot)
		}
	}
}

// outline draws the path as line segments, closing it when closed is set.
func (r *roofCanvasRenderer) outline(v viewport, path model.Path, col color.Color, width float32, closed bool) {
	n := len(path)
	if n < 2 {
		return
	}
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		line := canvas.NewLine(col)
		line.StrokeWidth = width
		line.Position1 = v.toScreen(path[i])
		line.Position2 = v.toScreen(path[(i+1)%n])
		r.objects = append(r.objects, line)
	}
}

func (r *roofCanvasRenderer) Layout(size fyne.Size)        { r.rebuild() }
func (r *roofCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *roofCanvasRenderer) Destroy()                     {}
func (r *roofCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *roofCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(400, 300) }
