package ui

import (
	"testing"

	"github.com/piwi3910/PolarBench/internal/level"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestPushAndUndo(t *testing.T) {
	h := NewHistory()

	// Push initial state (before adding a component)
	snap0 := MakeSnapshot(nil, "initial")
	h.Push(snap0)

	if !h.CanUndo() {
		t.Fatal("should be able to undo after push")
	}

	// Current state has one component
	currentComponents := []level.ComponentSpec{{ID: "pol1", Kind: "polarizer", X: 40, Y: 50, AngleDeg: 30}}
	current := MakeSnapshot(currentComponents, "current")

	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.Components) != 0 {
		t.Errorf("expected 0 components after undo, got %d", len(restored.Components))
	}
	if restored.Label != "initial" {
		t.Errorf("expected label 'initial', got %q", restored.Label)
	}
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()

	// State 0: empty
	snap0 := MakeSnapshot(nil, "empty")
	h.Push(snap0)

	// State 1: one component
	comps1 := []level.ComponentSpec{{ID: "pol1", Kind: "polarizer", X: 40, Y: 50, AngleDeg: 30}}
	snap1 := MakeSnapshot(comps1, "one component")
	h.Push(snap1)

	// Current state: two components
	comps2 := []level.ComponentSpec{
		{ID: "pol1", Kind: "polarizer", X: 40, Y: 50, AngleDeg: 30},
		{ID: "det1", Kind: "sensor", X: 70, Y: 50, ThresholdPct: 25},
	}
	current := MakeSnapshot(comps2, "two components")

	// Undo to one component
	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("first undo should succeed")
	}
	if len(restored.Components) != 1 {
		t.Errorf("expected 1 component, got %d", len(restored.Components))
	}

	// Redo back to two components
	if !h.CanRedo() {
		t.Fatal("should be able to redo")
	}
	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(redone.Components) != 2 {
		t.Errorf("expected 2 components after redo, got %d", len(redone.Components))
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()

	snap0 := MakeSnapshot(nil, "empty")
	h.Push(snap0)

	comps1 := []level.ComponentSpec{{ID: "pol1", Kind: "polarizer", X: 40, Y: 50, AngleDeg: 30}}
	current := MakeSnapshot(comps1, "one component")

	// Undo
	_, ok := h.Undo(current)
	if !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	// Push new state - should clear redo
	snap2 := MakeSnapshot(nil, "new action")
	h.Push(snap2)
	if h.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestMaxDepth(t *testing.T) {
	h := &History{maxDepth: 3}

	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(nil, ""))
	}

	if len(h.undoStack) != 3 {
		t.Errorf("expected undo stack length 3, got %d", len(h.undoStack))
	}
}

func TestUndoEmpty(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(nil, "current")
	_, ok := h.Undo(current)
	if ok {
		t.Error("undo on empty history should return false")
	}
}

func TestRedoEmpty(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(nil, "current")
	_, ok := h.Redo(current)
	if ok {
		t.Error("redo on empty history should return false")
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(nil, "a"))
	h.Push(MakeSnapshot(nil, "b"))

	// Create a redo entry
	current := MakeSnapshot(nil, "current")
	h.Undo(current)

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestDeepCopyComponents(t *testing.T) {
	original := []level.ComponentSpec{{ID: "pol1", Kind: "polarizer", X: 40, Y: 50, AngleDeg: 30}}
	snap := MakeSnapshot(original, "test")

	// Mutate original
	original[0].AngleDeg = 120

	if snap.Components[0].AngleDeg != 30 {
		t.Error("snapshot should be independent of original slice")
	}
}

func TestDeepCopyRequiredAngle(t *testing.T) {
	angle := 45.0
	original := []level.ComponentSpec{
		{ID: "det1", Kind: "sensor", X: 70, Y: 50, ThresholdPct: 25, RequiredAngleDeg: &angle},
	}
	snap := MakeSnapshot(original, "test")

	// Mutate original through the shared pointer
	*original[0].RequiredAngleDeg = 999

	if *snap.Components[0].RequiredAngleDeg != 45 {
		t.Error("snapshot required angle should be independent of original")
	}
}

func TestCopyNilSlice(t *testing.T) {
	snap := MakeSnapshot(nil, "nil test")
	if snap.Components != nil {
		t.Error("nil components should stay nil")
	}
}

func TestMultipleUndoRedo(t *testing.T) {
	h := NewHistory()

	// Build up 3 states: empty -> 1 component -> 2 components -> 3 components
	h.Push(MakeSnapshot(nil, "empty"))
	h.Push(MakeSnapshot(
		[]level.ComponentSpec{{ID: "em1", Kind: "emitter", X: 10, Y: 50}},
		"1 component",
	))
	h.Push(MakeSnapshot(
		[]level.ComponentSpec{
			{ID: "em1", Kind: "emitter", X: 10, Y: 50},
			{ID: "pol1", Kind: "polarizer", X: 40, Y: 50},
		},
		"2 components",
	))

	current := MakeSnapshot(
		[]level.ComponentSpec{
			{ID: "em1", Kind: "emitter", X: 10, Y: 50},
			{ID: "pol1", Kind: "polarizer", X: 40, Y: 50},
			{ID: "det1", Kind: "sensor", X: 70, Y: 50},
		},
		"3 components",
	)

	// Undo 3 times to get back to empty
	s, ok := h.Undo(current)
	if !ok || len(s.Components) != 2 {
		t.Fatalf("first undo: expected 2 components, got %d", len(s.Components))
	}

	s, ok = h.Undo(s)
	if !ok || len(s.Components) != 1 {
		t.Fatalf("second undo: expected 1 component, got %d", len(s.Components))
	}

	s, ok = h.Undo(s)
	if !ok || len(s.Components) != 0 {
		t.Fatalf("third undo: expected 0 components, got %d", len(s.Components))
	}

	// No more undos
	if h.CanUndo() {
		t.Error("should not be able to undo further")
	}

	// Redo all the way forward
	s, ok = h.Redo(s)
	if !ok || len(s.Components) != 1 {
		t.Fatalf("first redo: expected 1 component, got %d", len(s.Components))
	}

	s, ok = h.Redo(s)
	if !ok || len(s.Components) != 2 {
		t.Fatalf("second redo: expected 2 components, got %d", len(s.Components))
	}

	s, ok = h.Redo(s)
	if !ok || len(s.Components) != 3 {
		t.Fatalf("third redo: expected 3 components, got %d", len(s.Components))
	}

	if h.CanRedo() {
		t.Error("should not be able to redo further")
	}
}
