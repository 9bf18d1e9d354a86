package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/PolarBench/internal/level"
)

// BenchTemplate is a reusable bench layout that captures component
// placement and angles but no trace results or level goals.
type BenchTemplate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
	Builtin     bool            `json:"builtin,omitempty"`
	Board       level.BoardSpec `json:"board"`
}

// NewBenchTemplate creates a template from the given bench layout.
func NewBenchTemplate(name, description string, board level.BoardSpec) BenchTemplate {
	return BenchTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Board:       board,
	}
}

// TemplateStore holds a collection of bench templates.
type TemplateStore struct {
	Templates []BenchTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []BenchTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t BenchTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *BenchTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *BenchTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// BuiltinTemplates returns the ready-made bench layouts offered in the
// template picker. The layouts come from the teaching levels with every
// dial unlocked so they work as sandbox starting points.
func BuiltinTemplates() []BenchTemplate {
	return []BenchTemplate{
		builtinFromLevel("align-the-analyzer", "builtin-malus",
			"Malus bench", "Laser, analyzer and detector in a row."),
		builtinFromLevel("circular-handshake", "builtin-qwp",
			"Quarter-wave demo", "Linear light through a quarter-wave plate and a circular filter."),
		builtinFromLevel("balanced-paths", "builtin-mach-zehnder",
			"Mach-Zehnder", "Two-path interferometer with an adjustable phase arm."),
	}
}

func builtinFromLevel(levelID, templateID, name, description string) BenchTemplate {
	l, ok := level.ByID(levelID)
	if !ok {
		return BenchTemplate{ID: templateID, Name: name, Description: description, Builtin: true}
	}
	board := l.Board
	for i := range board.Components {
		board.Components[i].Locked = false
	}
	return BenchTemplate{
		ID:          templateID,
		Name:        name,
		Description: description,
		Builtin:     true,
		Board:       board,
	}
}

// DefaultTemplatesPath returns the default file path for the templates store.
func DefaultTemplatesPath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// SaveTemplates writes the template store to a JSON file. Builtin
// templates are skipped; they are code, not data.
func SaveTemplates(path string, store TemplateStore) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	out := NewTemplateStore()
	for _, t := range store.Templates {
		if t.Builtin {
			continue
		}
		out.Templates = append(out.Templates, t)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTemplates reads a template store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadTemplates(path string) (TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewTemplateStore(), nil
		}
		return TemplateStore{}, err
	}
	var store TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []BenchTemplate{}
	}
	for i := range store.Templates {
		store.Templates[i].Builtin = false
	}
	return store, nil
}
