// Package importer reads panel catalogs from CSV and Excel sheets and roof
// outlines from DXF drawings. It supports automatic delimiter detection,
// flexible column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/xuri/excelize/v2"
)

// millimeterThreshold is the largest dimension accepted as meters. Anything
// above it is read as millimeters, which is how most datasheets list panels.
const millimeterThreshold = 10.0

// ImportResult holds the results of a catalog import.
type ImportResult struct {
	Panels   []model.PanelDefinition
	Errors   []string
	Warnings []string
}

// Catalog returns the imported panels as a catalog.
func (r ImportResult) Catalog() model.PanelCatalog {
	return model.PanelCatalog{Panels: r.Panels}
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Type    int
	Label   int
	Width   int
	Height  int
	Wattage int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"type":    {"type", "id", "key", "code", "model", "sku"},
	"label":   {"label", "name", "panel", "panel name", "description", "desc"},
	"width":   {"width", "w", "width_m", "width (m)", "width (mm)", "width mm"},
	"height":  {"height", "h", "length", "len", "height_m", "height (m)", "height (mm)", "height mm"},
	"wattage": {"wattage", "watts", "watt", "wp", "power", "pmax", "peak power", "power (w)"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (type, label, width, height, wattage) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Type: -1, Label: -1, Width: -1, Height: -1, Wattage: -1}
	slots := map[string]*int{
		"type":    &mapping.Type,
		"label":   &mapping.Label,
		"width":   &mapping.Width,
		"height":  &mapping.Height,
		"wattage": &mapping.Wattage,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Type: 0, Label: 1, Width: 2, Height: 3, Wattage: 4}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a catalog key from a display label.
func slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// parseNumber accepts both decimal points and decimal commas.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// parseDimension parses a length and converts millimeters to meters.
func parseDimension(s string) (v float64, converted bool, err error) {
	v, err = parseNumber(s)
	if err != nil {
		return 0, false, err
	}
	if v > millimeterThreshold {
		return v / 1000, true, nil
	}
	return v, false, nil
}

// parseRow extracts a PanelDefinition from a row using the given column mapping.
// Returns the definition, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, panelCount int) (model.PanelDefinition, string, string) {
	label := getCell(row, mapping.Label)
	panelType := slugify(getCell(row, mapping.Type))
	if panelType == "" {
		panelType = slugify(label)
	}
	if panelType == "" {
		panelType = fmt.Sprintf("panel-%d", panelCount+1)
	}
	if label == "" {
		label = panelType
	}

	var warnings []string

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.PanelDefinition{}, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, wmm, err := parseDimension(widthStr)
	if err != nil {
		return model.PanelDefinition{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.PanelDefinition{}, fmt.Sprintf("%s: Missing height value", rowLabel), ""
	}
	height, hmm, err := parseDimension(heightStr)
	if err != nil {
		return model.PanelDefinition{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), ""
	}
	if wmm || hmm {
		warnings = append(warnings, fmt.Sprintf("%s: Dimensions above %.0f read as millimeters", rowLabel, millimeterThreshold))
	}

	if width <= 0 || height <= 0 {
		return model.PanelDefinition{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel), ""
	}

	def := model.PanelDefinition{Type: panelType, Label: label, WidthMeters: width, HeightMeters: height}

	// Optional wattage
	if wattStr := getCell(row, mapping.Wattage); wattStr != "" {
		watts, err := parseNumber(strings.TrimSuffix(strings.ToLower(wattStr), "w"))
		if err != nil || watts < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid wattage '%s', defaulting to 0", rowLabel, wattStr))
		} else {
			def.Wattage = watts
		}
	}

	return def, "", strings.Join(warnings, "; ")
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports panel definitions from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports panel definitions from a CSV reader with a
// specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports panel definitions from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// Later rows with a type already seen replace the earlier definition.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		if _, err := parseNumber(strings.TrimSpace(rows[0][2])); err != nil {
			// Unrecognized header: skip it but keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	catalog := model.PanelCatalog{}
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		def, errMsg, warning := parseRow(row, mapping, rowLabel, len(catalog.Panels))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if _, dup := catalog.Lookup(def.Type); dup {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate type '%s' replaces earlier row", rowLabel, def.Type))
		}
		catalog.Upsert(def)
	}

	result.Panels = catalog.Panels
	return result
}
