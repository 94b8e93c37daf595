package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PanelPlan/internal/estimate"
	"github.com/piwi3910/PanelPlan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo is printed on one roof label. Its QR code carries the full roof
// record so the roof can be rebuilt from a scan.
type LabelInfo struct {
	RoofID     string
	RoofName   string
	PanelLabel string
	PanelCount int
	KWp        float64
	Record     model.RoofRecord
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per roof, laid out
// on a standard label sheet (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, layouts []RoofLayout) error {
	labels := CollectLabelInfos(layouts)
	if len(labels) == 0 {
		return fmt.Errorf("no roofs to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.RoofName, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// CollectLabelInfos extracts label information from the layouts.
func CollectLabelInfos(layouts []RoofLayout) []LabelInfo {
	labels := make([]LabelInfo, 0, len(layouts))
	for _, l := range layouts {
		rec := l.Roof.Record()
		rec.PanelCount = len(l.Panels)
		labels = append(labels, LabelInfo{
			RoofID:     l.Roof.ID,
			RoofName:   l.Roof.Name,
			PanelLabel: l.Definition.Label,
			PanelCount: len(l.Panels),
			KWp:        float64(len(l.Panels)) * l.Definition.Wattage / 1000,
			Record:     rec,
		})
	}
	return labels
}

// recordQR encodes a roof record as a PNG QR code.
func recordQR(rec model.RoofRecord) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roof record: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Low, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// placeQR registers a QR image under name and draws it at x, y.
func placeQR(pdf *fpdf.Fpdf, name string, png []byte, x, y float64) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, qrSize, qrSize, false, opts, 0, "")
}

// placeRoofQR draws the QR code of a layout's roof record.
func placeRoofQR(pdf *fpdf.Fpdf, l RoofLayout, x, y float64) error {
	rec := l.Roof.Record()
	rec.PanelCount = len(l.Panels)
	png, err := recordQR(rec)
	if err != nil {
		return err
	}
	placeQR(pdf, "roof_"+l.Roof.ID, png, x, y)
	return nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	png, err := recordQR(info.Record)
	if err != nil {
		return err
	}
	placeQR(pdf, "label_"+info.RoofID, png, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2)

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := info.RoofName
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d panels, %.2f kWp", info.PanelCount, info.KWp), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, info.PanelLabel, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	angles := fmt.Sprintf("Tilt %.0f, facing %s", info.Record.TiltAngle, estimate.Compass(info.Record.OrientationAngle))
	pdf.CellFormat(textW, 3, angles, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}
