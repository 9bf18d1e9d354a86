package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SpectrumImportResult holds a measured spectrum read from a file.
// WavelengthsNm and Transmission are parallel slices in file order.
type SpectrumImportResult struct {
	WavelengthsNm []float64
	Transmission  []float64
	Errors        []string
	Warnings      []string
}

// SpectrumColumns maps the spectrum column roles to their indices.
type SpectrumColumns struct {
	Wavelength   int
	Transmission int
}

// spectrumAliases maps canonical column names to their accepted aliases (all lowercase).
var spectrumAliases = map[string][]string{
	"wavelength":   {"wavelength", "wavelength_nm", "wavelength (nm)", "lambda", "wl", "nm"},
	"transmission": {"transmission", "transmittance", "t", "intensity", "i", "signal", "counts"},
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

		// Score: count how many rows have the same column count as the first row
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

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectSpectrumColumns examines a header row and returns a SpectrumColumns mapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (wavelength first, transmission second) and false if no header was found.
func DetectSpectrumColumns(row []string) (SpectrumColumns, bool) {
	mapping := SpectrumColumns{
		Wavelength:   -1,
		Transmission: -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range spectrumAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "wavelength":
						if mapping.Wavelength == -1 {
							mapping.Wavelength = i
						}
					case "transmission":
						if mapping.Transmission == -1 {
							mapping.Transmission = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		return SpectrumColumns{Wavelength: 0, Transmission: 1}, false
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

// parseSpectrumRow extracts one (wavelength, transmission) sample from a row.
// Returns the sample and any error message.
func parseSpectrumRow(row []string, mapping SpectrumColumns, rowLabel string) (float64, float64, string) {
	wavelengthStr := getCell(row, mapping.Wavelength)
	if wavelengthStr == "" {
		return 0, 0, fmt.Sprintf("%s: Missing wavelength value", rowLabel)
	}
	wavelength, err := strconv.ParseFloat(wavelengthStr, 64)
	if err != nil {
		return 0, 0, fmt.Sprintf("%s: Invalid wavelength '%s'", rowLabel, wavelengthStr)
	}
	if wavelength <= 0 {
		return 0, 0, fmt.Sprintf("%s: Wavelength must be positive", rowLabel)
	}

	transmissionStr := getCell(row, mapping.Transmission)
	if transmissionStr == "" {
		return 0, 0, fmt.Sprintf("%s: Missing transmission value", rowLabel)
	}
	transmission, err := strconv.ParseFloat(transmissionStr, 64)
	if err != nil {
		return 0, 0, fmt.Sprintf("%s: Invalid transmission '%s'", rowLabel, transmissionStr)
	}

	return wavelength, transmission, ""
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

// ImportSpectrumCSV imports a measured spectrum from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportSpectrumCSV(path string) SpectrumImportResult {
	result := SpectrumImportResult{}

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

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importSpectrumRows(records, "Line", result.Warnings)
}

// ImportSpectrumCSVFromReader imports a spectrum from a CSV reader with a specific
// delimiter. This is useful for testing or when the delimiter is already known.
func ImportSpectrumCSVFromReader(reader io.Reader, delimiter rune) SpectrumImportResult {
	result := SpectrumImportResult{}

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

	return importSpectrumRows(records, "Line", nil)
}

// ImportSpectrumExcel imports a measured spectrum from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportSpectrumExcel(path string) SpectrumImportResult {
	result := SpectrumImportResult{}

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

	return importSpectrumRows(rows, "Row", nil)
}

// importSpectrumRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a sample.
func importSpectrumRows(rows [][]string, rowPrefix string, initialWarnings []string) SpectrumImportResult {
	result := SpectrumImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	// Detect columns from first row
	mapping, hasHeader := DetectSpectrumColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		// Validate that required columns were found
		missing := []string{}
		if mapping.Wavelength == -1 {
			missing = append(missing, "Wavelength")
		}
		if mapping.Transmission == -1 {
			missing = append(missing, "Transmission")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 2 {
		// No header recognized: if the first cell is not numeric the row is
		// probably an unknown header, so skip it and keep positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	clamped := 0
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		wavelength, transmission, errMsg := parseSpectrumRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if transmission < 0 {
			// Baseline-subtracted instruments produce small negatives.
			transmission = 0
			clamped++
		}

		result.WavelengthsNm = append(result.WavelengthsNm, wavelength)
		result.Transmission = append(result.Transmission, transmission)
	}

	if clamped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Clamped %d negative transmission values to 0", clamped))
	}

	if len(result.WavelengthsNm) == 0 {
		result.Errors = append(result.Errors, "No spectrum samples found")
		return result
	}

	// Percent or raw-counts scales are common in exported lab data. The fringe
	// analysis only needs relative modulation, so renormalize to 0..1.
	maxT := result.Transmission[0]
	for _, t := range result.Transmission[1:] {
		if t > maxT {
			maxT = t
		}
	}
	if maxT > 1.5 {
		for i := range result.Transmission {
			result.Transmission[i] /= maxT
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("Transmission maximum %g is above 1, rescaled to a 0..1 range", maxT))
	}

	return result
}
