package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/PolarBench/internal/spectral"
)

// DefaultMaterialsPath returns the default file path for user materials.
func DefaultMaterialsPath() string {
	return filepath.Join(DefaultConfigDir(), "materials.json")
}

// SaveUserMaterials saves user-defined materials to a JSON file.
func SaveUserMaterials(path string, materials []spectral.Material) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(materials, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadUserMaterials loads user-defined materials from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadUserMaterials(path string) ([]spectral.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []spectral.Material{}, nil
		}
		return nil, err
	}

	var materials []spectral.Material
	if err := json.Unmarshal(data, &materials); err != nil {
		return nil, err
	}

	for _, m := range materials {
		if err := validateMaterial(m); err != nil {
			return nil, err
		}
	}
	return materials, nil
}

// FindMaterial resolves a material name against user materials first,
// then the built-in presets. Unknown names fall back to the first
// built-in, matching spectral.GetMaterial.
func FindMaterial(name string, userMaterials []spectral.Material) spectral.Material {
	for _, m := range userMaterials {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return spectral.GetMaterial(name)
}

// ImportMaterialLibrary imports materials from a user-specified JSON
// file, merging them with the existing library. Names already present
// are skipped.
func ImportMaterialLibrary(path string, existing []spectral.Material) ([]spectral.Material, error) {
	imported, err := LoadUserMaterials(path)
	if err != nil {
		return existing, err
	}

	names := make(map[string]bool, len(existing))
	for _, m := range existing {
		names[strings.ToLower(m.Name)] = true
	}

	for _, m := range imported {
		key := strings.ToLower(m.Name)
		if !names[key] {
			existing = append(existing, m)
			names[key] = true
		}
	}
	return existing, nil
}

// ExportMaterial exports a single material to a JSON file (for sharing).
func ExportMaterial(path string, material spectral.Material) error {
	data, err := json.MarshalIndent(material, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportMaterial imports a single material from a JSON file.
func ImportMaterial(path string) (spectral.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return spectral.Material{}, err
	}

	var material spectral.Material
	if err := json.Unmarshal(data, &material); err != nil {
		return spectral.Material{}, err
	}

	if err := validateMaterial(material); err != nil {
		return spectral.Material{}, err
	}
	return material, nil
}

func validateMaterial(m spectral.Material) error {
	if m.Name == "" {
		return errors.New("material has no name")
	}
	if m.IndexOrdinary < 1 || m.IndexExtraordinary < 1 {
		return fmt.Errorf("material %s: refractive indices must be at least 1", m.Name)
	}
	return nil
}
