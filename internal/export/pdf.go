package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PanelPlan/internal/estimate"
)

// rgb is a fill or stroke color.
type rgb struct {
	R, G, B int
}

// These mirror the color scheme used by the roof canvas widget.
var (
	roofFill    = rgb{R: 200, G: 200, B: 200}
	roofStroke  = rgb{R: 60, G: 60, B: 60}
	zoneFill    = rgb{R: 255, G: 200, B: 200}
	zoneStroke  = rgb{R: 200, G: 0, B: 0}
	panelFill   = rgb{R: 33, G: 150, B: 243}
	panelStroke = rgb{R: 13, G: 71, B: 161}
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	northArrowSz = 12.0
)

// ExportPDF generates a layout report. Each roof is drawn on its own page,
// followed by a summary page with project totals.
func ExportPDF(path, title string, layouts []RoofLayout) error {
	if len(layouts) == 0 {
		return fmt.Errorf("no roofs to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, l := range layouts {
		pdf.AddPage()
		if err := renderRoofPage(pdf, l, i+1); err != nil {
			return fmt.Errorf("render roof %q: %w", l.Roof.Name, err)
		}
	}

	pdf.AddPage()
	renderSummaryPage(pdf, title, layouts)

	return pdf.OutputFileAndClose(path)
}

// renderRoofPage draws a single roof with its panels on the current page.
func renderRoofPage(pdf *fpdf.Fpdf, l RoofLayout, roofNum int) error {
	s := l.Summary()

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Roof %d: %s (%s)", roofNum, l.Roof.Name, l.Definition.Label)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(pdf, title), "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Panels: %d | System: %.2f kWp | Tilt: %.0f° | Orientation: %.0f° %s | Area: %.1f m² (sloped %.1f m²)",
		s.PanelCount, s.TotalWattage/1000, s.TiltAngle, s.OrientationAngle, estimate.Compass(s.OrientationAngle),
		s.Area2D, s.SlopedArea)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, tr(pdf, stats), "", 0, "L", false, 0, "")

	local := localize(l)
	if local.Width <= 0 || local.Height <= 0 {
		return fmt.Errorf("roof has no extent")
	}

	// Leave room on the right for the QR code
	drawWidth := pageWidth - marginLeft - marginRight - qrSize - 10
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/local.Width, drawHeight/local.Height)
	canvasW := local.Width * scale
	canvasH := local.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// North is up: local y grows northwards, page y grows downwards.
	toPage := func(pts [][2]float64) []fpdf.PointType {
		out := make([]fpdf.PointType, len(pts))
		for i, p := range pts {
			out[i] = fpdf.PointType{X: offsetX + p[0]*scale, Y: offsetY + (local.Height-p[1])*scale}
		}
		return out
	}

	setColors(pdf, roofFill, roofStroke, 0.5)
	pdf.Polygon(toPage(local.Roof), "FD")

	setColors(pdf, zoneFill, zoneStroke, 0.3)
	for _, z := range local.Zones {
		pdf.Polygon(toPage(z), "FD")
	}

	setColors(pdf, panelFill, panelStroke, 0.2)
	for _, p := range local.Panels {
		pdf.Polygon(toPage(p), "FD")
	}

	drawNorthArrow(pdf, offsetX+canvasW+4, offsetY)
	drawDimensionAnnotations(pdf, local.Width, local.Height, offsetX, offsetY, canvasW, canvasH)

	qrX := pageWidth - marginRight - qrSize
	qrY := pageHeight - marginBottom - qrSize - 5
	// Roofs whose record outgrows a QR code are printed without one.
	if err := placeRoofQR(pdf, l, qrX, qrY); err == nil {
		pdf.SetFont("Helvetica", "", 6)
		pdf.SetXY(qrX, qrY+qrSize)
		pdf.CellFormat(qrSize, 4, "Roof record", "", 0, "C", false, 0, "")
	}
	return nil
}

func setColors(pdf *fpdf.Fpdf, fill, stroke rgb, width float64) {
	pdf.SetFillColor(fill.R, fill.G, fill.B)
	pdf.SetDrawColor(stroke.R, stroke.G, stroke.B)
	pdf.SetLineWidth(width)
}

// drawNorthArrow draws a small arrow pointing up with an N above it.
func drawNorthArrow(pdf *fpdf.Fpdf, x, y float64) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	tip := y + 5
	pdf.Polygon([]fpdf.PointType{
		{X: x, Y: tip},
		{X: x + 2, Y: tip + northArrowSz},
		{X: x - 2, Y: tip + northArrowSz},
	}, "F")
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(x-2, y)
	pdf.CellFormat(4, 4, "N", "", 0, "C", false, 0, "")
}

// drawDimensionAnnotations labels the bounding box width and depth in meters.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, height, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.1f m", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.1f m", height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the final summary page with project totals.
func renderSummaryPage(pdf *fpdf.Fpdf, title string, layouts []RoofLayout) {
	if title == "" {
		title = "Untitled"
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, tr(pdf, "Panel Layout Summary: "+title), "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	panels, watts := totals(layouts)
	var area, sloped float64
	summaries := make([]estimate.Summary, len(layouts))
	for i, l := range layouts {
		summaries[i] = l.Summary()
		area += summaries[i].Area2D
		sloped += summaries[i].SlopedArea
	}

	summaryItems := []struct {
		label string
		value string
	}{
		{"Roofs", fmt.Sprintf("%d", len(layouts))},
		{"Total Panels", fmt.Sprintf("%d", panels)},
		{"System Size", fmt.Sprintf("%.2f kWp", watts/1000)},
		{"Roof Area (plan)", fmt.Sprintf("%.1f m²", area)},
		{"Roof Area (sloped)", fmt.Sprintf("%.1f m²", sloped)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, tr(pdf, item.value), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Roof Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{12, 55, 55, 22, 30, 22, 25, 30}
	headers := []string{"#", "Roof", "Panel", "Tilt", "Orientation", "Panels", "kWp", "Coverage"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range summaries {
		// Continue the table on a fresh page
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			s.RoofName,
			s.PanelLabel,
			fmt.Sprintf("%.0f°", s.TiltAngle),
			fmt.Sprintf("%.0f° %s", s.OrientationAngle, estimate.Compass(s.OrientationAngle)),
			fmt.Sprintf("%d", s.PanelCount),
			fmt.Sprintf("%.2f", s.TotalWattage/1000),
			fmt.Sprintf("%.1f%%", s.Coverage),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, tr(pdf, cell), "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PanelPlan - Solar Panel Layout Planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// tr converts UTF-8 text to the code page of the core fonts so degree and
// squared signs render.
func tr(pdf *fpdf.Fpdf, s string) string {
	return pdf.UnicodeTranslatorFromDescriptor("")(s)
}
