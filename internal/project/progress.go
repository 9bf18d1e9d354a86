package project

import (
	"fmt"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Storage keys for level progress inside the gdata store.
const (
	progressObject   = "progress"
	progressProperty = "levels"
)

// LevelRecord captures how a level was solved.
type LevelRecord struct {
	Adjustments int    `yaml:"adjustments"`
	SolvedAt    string `yaml:"solvedAt"`
}

// Progress tracks which levels the player has solved.
type Progress struct {
	Solved map[string]LevelRecord `yaml:"solved"`
}

// NewProgress returns an empty progress record.
func NewProgress() *Progress {
	return &Progress{Solved: map[string]LevelRecord{}}
}

// ProgressManager loads and saves level progress through gdata so the
// same code path works on desktop and wasm builds. A nil store is a
// degraded mode: progress lives in memory only.
type ProgressManager struct {
	store    *gdata.Manager
	progress *Progress
}

// NewProgressManager creates a manager backed by the given gdata store.
// Load failures are not fatal; the manager starts from empty progress.
func NewProgressManager(store *gdata.Manager) *ProgressManager {
	pm := &ProgressManager{
		store:    store,
		progress: NewProgress(),
	}
	// Best effort: a corrupt or missing record starts fresh.
	_ = pm.Load()
	return pm
}

// Load reads saved progress from the store. Missing data is not an
// error; the progress simply resets to empty.
func (pm *ProgressManager) Load() error {
	if pm.store == nil {
		return nil
	}
	if !pm.store.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}

	data, err := pm.store.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	var loaded Progress
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("unmarshal progress: %w", err)
	}
	if loaded.Solved == nil {
		loaded.Solved = map[string]LevelRecord{}
	}
	pm.progress = &loaded
	return nil
}

// Save writes the current progress to the store. In degraded mode this
// is a no-op.
func (pm *ProgressManager) Save() error {
	if pm.store == nil {
		return nil
	}

	data, err := yaml.Marshal(pm.progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := pm.store.SaveObjectProp(progressObject, progressProperty, data); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// MarkSolved records a solved level. If the level was already solved,
// the record is only replaced when the new attempt used fewer
// adjustments.
func (pm *ProgressManager) MarkSolved(levelID string, adjustments int) {
	existing, ok := pm.progress.Solved[levelID]
	if ok && existing.Adjustments <= adjustments {
		return
	}
	pm.progress.Solved[levelID] = LevelRecord{
		Adjustments: adjustments,
		SolvedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// IsSolved reports whether the level has been solved.
func (pm *ProgressManager) IsSolved(levelID string) bool {
	_, ok := pm.progress.Solved[levelID]
	return ok
}

// Record returns the solve record for a level, if any.
func (pm *ProgressManager) Record(levelID string) (LevelRecord, bool) {
	rec, ok := pm.progress.Solved[levelID]
	return rec, ok
}

// SolvedCount returns how many levels have been solved.
func (pm *ProgressManager) SolvedCount() int {
	return len(pm.progress.Solved)
}
