package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/PolarBench/internal/level"
)

const workspaceVersion = "1.0.0"

// Workspace is the serialized form of an open bench session: the board
// layout plus the spectral lab inputs that belong to it.
type Workspace struct {
	Version      string          `json:"version"`
	SavedAt      string          `json:"saved_at"`
	Name         string          `json:"name"`
	Board        level.BoardSpec `json:"board"`
	MaterialName string          `json:"material_name,omitempty"`
	WavelengthNm float64         `json:"wavelength_nm,omitempty"`
	ThicknessUm  float64         `json:"thickness_um,omitempty"`
}

// NewWorkspace wraps a bench layout in a named workspace.
func NewWorkspace(name string, board level.BoardSpec) Workspace {
	return Workspace{
		Name:  name,
		Board: board,
	}
}

// SaveWorkspace writes the workspace to a JSON file, stamping the
// format version and save time. Parent directories are created.
func SaveWorkspace(path string, ws Workspace) error {
	ws.Version = workspaceVersion
	ws.SavedAt = time.Now().UTC().Format(time.RFC3339)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadWorkspace reads a workspace from a JSON file.
func LoadWorkspace(path string) (Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Workspace{}, fmt.Errorf("failed to read workspace file: %w", err)
	}

	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return Workspace{}, fmt.Errorf("failed to parse workspace file: %w", err)
	}
	if ws.Version == "" {
		return Workspace{}, fmt.Errorf("invalid workspace file: missing version field")
	}
	return ws, nil
}
