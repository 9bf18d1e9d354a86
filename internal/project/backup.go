package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/spectral"
)

// DefaultBackupRetention is how many rotating workspace backups are
// kept when the caller does not say otherwise.
const DefaultBackupRetention = 10

const backupPrefix = "workspace-"

// Nanosecond precision keeps names unique within a second; the fixed
// width keeps lexicographic order equal to chronological order.
const backupStamp = "20060102-150405.000000000"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Config    model.AppConfig     `json:"config"`
	Materials []spectral.Material `json:"materials"`
	Templates TemplateStore       `json:"templates"`
}

// ExportAllData exports the app config, user materials, and user bench
// templates to a single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, materials []spectral.Material, templates TemplateStore) error {
	backup := BackupData{
		Version:   "1.0.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Materials: materials,
		Templates: templates,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	// Ensure slices are never nil
	if backup.Config.RecentWorkspaces == nil {
		backup.Config.RecentWorkspaces = []string{}
	}
	if backup.Materials == nil {
		backup.Materials = []spectral.Material{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []BenchTemplate{}
	}
	return backup, nil
}

// BackupWorkspace writes a timestamped copy of the workspace into dir
// and prunes old copies beyond keep. It returns the path of the new
// backup file.
func BackupWorkspace(dir string, ws Workspace, keep int) (string, error) {
	if keep < 1 {
		keep = DefaultBackupRetention
	}

	name := backupPrefix + time.Now().UTC().Format(backupStamp) + ".json"
	path := filepath.Join(dir, name)
	if err := SaveWorkspace(path, ws); err != nil {
		return "", err
	}

	if err := pruneBackups(dir, keep); err != nil {
		return path, err
	}
	return path, nil
}

// ListBackups returns the workspace backup files in dir, newest first.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, ".json") {
			backups = append(backups, filepath.Join(dir, name))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	return backups, nil
}

func pruneBackups(dir string, keep int) error {
	backups, err := ListBackups(dir)
	if err != nil {
		return err
	}
	for _, path := range backups[min(keep, len(backups)):] {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}
