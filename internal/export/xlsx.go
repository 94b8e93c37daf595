package export

import (
	"fmt"

	"github.com/piwi3910/PanelPlan/internal/estimate"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	panelsSheet  = "Panels"
)

var (
	summaryHeader = []interface{}{
		"Roof", "Panel type", "Panel", "Tilt (°)", "Orientation (°)", "Facing",
		"Panels", "Wattage (W)", "System (kWp)", "Plan area (m²)", "Sloped area (m²)", "Coverage (%)",
	}
	panelsHeader = []interface{}{
		"Roof", "Panel #", "Center lat", "Center lng",
		"Corner 1 lat", "Corner 1 lng", "Corner 2 lat", "Corner 2 lng",
		"Corner 3 lat", "Corner 3 lng", "Corner 4 lat", "Corner 4 lng",
	}
)

// ExportXLSX writes a panel schedule workbook: a summary sheet with one row
// per roof plus totals, and a sheet listing every panel's coordinates.
func ExportXLSX(path string, layouts []RoofLayout) error {
	if len(layouts) == 0 {
		return fmt.Errorf("no roofs to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(panelsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeSummary(f, layouts, bold); err != nil {
		return err
	}
	if err := writePanels(f, layouts, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, layouts []RoofLayout, headerStyle int) error {
	if err := writeRow(f, summarySheet, 1, summaryHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "L1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, l := range layouts {
		s := l.Summary()
		values := []interface{}{
			s.RoofName, s.PanelType, s.PanelLabel,
			round(s.TiltAngle, 1), round(s.OrientationAngle, 1), estimate.Compass(s.OrientationAngle),
			s.PanelCount, s.PanelWattage, round(s.TotalWattage/1000, 3),
			round(s.Area2D, 2), round(s.SlopedArea, 2), round(s.Coverage, 1),
		}
		if err := writeRow(f, summarySheet, row, values); err != nil {
			return err
		}
		row++
	}

	panels, watts := totals(layouts)
	if err := writeRow(f, summarySheet, row, []interface{}{"Total", "", "", "", "", "", panels, "", round(watts/1000, 3)}); err != nil {
		return err
	}
	cell, _ := excelize.CoordinatesToCellName(12, row)
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), cell, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "C", 24)
}

func writePanels(f *excelize.File, layouts []RoofLayout, headerStyle int) error {
	if err := writeRow(f, panelsSheet, 1, panelsHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(panelsSheet, "A1", "L1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, l := range layouts {
		for _, p := range l.Panels {
			values := []interface{}{l.Roof.Name, p.Index + 1, p.Center.Lat, p.Center.Lng}
			for _, c := range p.Corners {
				values = append(values, c.Lat, c.Lng)
			}
			if err := writeRow(f, panelsSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(panelsSheet, "A", "A", 24)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
