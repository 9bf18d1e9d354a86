package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Wavelength,Transmission\n450,0.12\n550,0.87\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Wavelength;Transmission\n450;0.12\n550;0.87\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Wavelength\tTransmission\n450\t0.12\n550\t0.87\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Wavelength|Transmission\n450|0.12\n550|0.87\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectSpectrumColumns Tests ───────────────────────────

func TestDetectSpectrumColumns_StandardHeaders(t *testing.T) {
	row := []string{"Wavelength", "Transmission"}
	mapping, isHeader := DetectSpectrumColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Wavelength != 0 {
		t.Errorf("expected Wavelength at 0, got %d", mapping.Wavelength)
	}
	if mapping.Transmission != 1 {
		t.Errorf("expected Transmission at 1, got %d", mapping.Transmission)
	}
}

func TestDetectSpectrumColumns_Aliases(t *testing.T) {
	row := []string{"Counts", "Lambda"}
	mapping, isHeader := DetectSpectrumColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Wavelength != 1 {
		t.Errorf("expected Wavelength at 1, got %d", mapping.Wavelength)
	}
	if mapping.Transmission != 0 {
		t.Errorf("expected Transmission at 0, got %d", mapping.Transmission)
	}
}

func TestDetectSpectrumColumns_NoHeader(t *testing.T) {
	row := []string{"450", "0.12"}
	mapping, isHeader := DetectSpectrumColumns(row)

	if isHeader {
		t.Error("numeric row should not be detected as header")
	}
	if mapping.Wavelength != 0 || mapping.Transmission != 1 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write test file: %v", err)
	}
	return path
}

func TestImportSpectrumCSV_Standard(t *testing.T) {
	path := writeTempFile(t, "spectrum.csv",
		"Wavelength,Transmission\n450,0.12\n550,0.87\n650,0.34\n")

	result := ImportSpectrumCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.WavelengthsNm) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(result.WavelengthsNm))
	}
	if result.WavelengthsNm[1] != 550 || result.Transmission[1] != 0.87 {
		t.Errorf("sample 1 = (%g, %g), want (550, 0.87)",
			result.WavelengthsNm[1], result.Transmission[1])
	}
}

func TestImportSpectrumCSV_SwappedColumns(t *testing.T) {
	path := writeTempFile(t, "swapped.csv",
		"Transmission,Wavelength\n0.12,450\n0.87,550\n")

	result := ImportSpectrumCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.WavelengthsNm[0] != 450 {
		t.Errorf("column mapping ignored header order: got wavelength %g", result.WavelengthsNm[0])
	}
}

func TestImportSpectrumCSV_PercentScaleRenormalized(t *testing.T) {
	path := writeTempFile(t, "percent.csv",
		"Wavelength,Transmission\n450,12\n550,100\n650,34\n")

	result := ImportSpectrumCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Transmission[1] != 1.0 {
		t.Errorf("expected peak renormalized to 1, got %g", result.Transmission[1])
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "rescaled") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected rescale warning, got %v", result.Warnings)
	}
}

func TestImportSpectrumCSV_NegativeClamped(t *testing.T) {
	path := writeTempFile(t, "negative.csv",
		"Wavelength,Transmission\n450,-0.002\n550,0.9\n")

	result := ImportSpectrumCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Transmission[0] != 0 {
		t.Errorf("expected negative transmission clamped to 0, got %g", result.Transmission[0])
	}
}

func TestImportSpectrumCSV_BadRows(t *testing.T) {
	path := writeTempFile(t, "bad.csv",
		"Wavelength,Transmission\nnotanumber,0.5\n-10,0.5\n550,\n650,0.4\n")

	result := ImportSpectrumCSV(path)
	if len(result.Errors) != 3 {
		t.Errorf("expected 3 row errors, got %v", result.Errors)
	}
	if len(result.WavelengthsNm) != 1 {
		t.Errorf("expected 1 good sample, got %d", len(result.WavelengthsNm))
	}
}

func TestImportSpectrumCSV_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "")

	result := ImportSpectrumCSV(path)
	if len(result.Errors) == 0 {
		t.Fatal("expected error for empty file")
	}
}

func TestImportSpectrumCSV_MissingFile(t *testing.T) {
	result := ImportSpectrumCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing file")
	}
}

func TestImportSpectrumCSVFromReader_Semicolon(t *testing.T) {
	reader := strings.NewReader("450;0.12\n550;0.87\n")
	result := ImportSpectrumCSVFromReader(reader, ';')
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.WavelengthsNm) != 2 {
		t.Errorf("expected 2 samples, got %d", len(result.WavelengthsNm))
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func TestImportSpectrumExcel_Standard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spectrum.xlsx")

	f := excelize.NewFile()
	rows := [][]any{
		{"Wavelength (nm)", "Transmittance"},
		{450.0, 0.12},
		{550.0, 0.87},
		{650.0, 0.34},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("cannot build test workbook: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("cannot save test workbook: %v", err)
	}
	f.Close()

	result := ImportSpectrumExcel(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.WavelengthsNm) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(result.WavelengthsNm))
	}
	if result.WavelengthsNm[2] != 650 {
		t.Errorf("sample 2 wavelength = %g, want 650", result.WavelengthsNm[2])
	}
}

func TestImportSpectrumExcel_MissingFile(t *testing.T) {
	result := ImportSpectrumExcel(filepath.Join(t.TempDir(), "nope.xlsx"))
	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing file")
	}
}
