package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PolarBench/internal/spectral"
)

func TestSaveAndLoadUserMaterials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "materials.json")

	materials := []spectral.Material{
		{Name: "Sapphire", IndexOrdinary: 1.768, IndexExtraordinary: 1.760},
		{Name: "Rutile", IndexOrdinary: 2.616, IndexExtraordinary: 2.903},
	}

	if err := SaveUserMaterials(path, materials); err != nil {
		t.Fatalf("SaveUserMaterials: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("materials file was not created")
	}

	loaded, err := LoadUserMaterials(path)
	if err != nil {
		t.Fatalf("LoadUserMaterials: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(loaded))
	}
	if loaded[0].Name != "Sapphire" {
		t.Errorf("expected name Sapphire, got %s", loaded[0].Name)
	}
	if loaded[1].Name != "Rutile" {
		t.Errorf("expected name Rutile, got %s", loaded[1].Name)
	}
}

func TestLoadUserMaterialsNonExistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")

	materials, err := LoadUserMaterials(path)
	if err != nil {
		t.Fatalf("expected no error for nonexistent file, got: %v", err)
	}
	if len(materials) != 0 {
		t.Fatalf("expected 0 materials for nonexistent file, got %d", len(materials))
	}
}

func TestLoadUserMaterialsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")

	if err := os.WriteFile(path, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadUserMaterials(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadUserMaterialsRejectsBadIndices(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad_index.json")

	data := []byte(`[{"name":"Vacuumite","indexOrdinary":0.5,"indexExtraordinary":1.2}]`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadUserMaterials(path); err == nil {
		t.Fatal("expected error for refractive index below 1")
	}
}

func TestFindMaterial(t *testing.T) {
	user := []spectral.Material{
		{Name: "Sapphire", IndexOrdinary: 1.768, IndexExtraordinary: 1.760},
		// Shadows the built-in quartz preset.
		{Name: "Quartz", IndexOrdinary: 1.55, IndexExtraordinary: 1.56},
	}

	m := FindMaterial("sapphire", user)
	if m.IndexOrdinary != 1.768 {
		t.Errorf("expected user sapphire, got %+v", m)
	}

	m = FindMaterial("quartz", user)
	if m.IndexOrdinary != 1.55 {
		t.Errorf("user material should shadow the preset, got %+v", m)
	}

	m = FindMaterial("Mica", user)
	if m.Name != "Mica" {
		t.Errorf("expected built-in Mica, got %+v", m)
	}

	m = FindMaterial("unobtainium", user)
	if m.Name != "Calcite" {
		t.Errorf("unknown names should fall back to the first preset, got %+v", m)
	}
}

func TestImportMaterialLibraryMerges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")

	incoming := []spectral.Material{
		{Name: "Sapphire", IndexOrdinary: 1.768, IndexExtraordinary: 1.760},
		{Name: "Rutile", IndexOrdinary: 2.616, IndexExtraordinary: 2.903},
	}
	if err := SaveUserMaterials(path, incoming); err != nil {
		t.Fatal(err)
	}

	existing := []spectral.Material{
		// Same name, different indices: the local entry wins.
		{Name: "sapphire", IndexOrdinary: 1.77, IndexExtraordinary: 1.76},
	}

	merged, err := ImportMaterialLibrary(path, existing)
	if err != nil {
		t.Fatalf("ImportMaterialLibrary: %v", err)
	}

	if len(merged) != 2 {
		t.Fatalf("expected 2 materials after merge, got %d", len(merged))
	}
	if merged[0].IndexOrdinary != 1.77 {
		t.Error("existing entry should win over an imported duplicate")
	}
	if merged[1].Name != "Rutile" {
		t.Errorf("expected Rutile appended, got %+v", merged[1])
	}
}

func TestExportAndImportMaterial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exported.json")

	original := spectral.Material{Name: "Rutile", IndexOrdinary: 2.616, IndexExtraordinary: 2.903}

	if err := ExportMaterial(path, original); err != nil {
		t.Fatalf("ExportMaterial: %v", err)
	}

	imported, err := ImportMaterial(path)
	if err != nil {
		t.Fatalf("ImportMaterial: %v", err)
	}

	if imported != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", imported, original)
	}
}

func TestImportMaterialNoName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noname.json")

	if err := os.WriteFile(path, []byte(`{"indexOrdinary":1.5,"indexExtraordinary":1.6}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportMaterial(path); err == nil {
		t.Fatal("expected error for material without name")
	}
}

func TestSaveUserMaterialsCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	path := filepath.Join(dir, "materials.json")

	if err := SaveUserMaterials(path, []spectral.Material{}); err != nil {
		t.Fatalf("SaveUserMaterials should create directories: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("file was not created in nested directory")
	}
}
