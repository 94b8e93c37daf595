package ui

import "github.com/piwi3910/PanelPlan/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the roofs of a project at a point in time.
type Snapshot struct {
	Roofs []model.RoofArea
	Label string // Human-readable description (e.g. "Add Roof")
}

// History manages undo/redo stacks of roof snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// Call it before the edit is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo
// stack. It returns false if there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent undone snapshot and pushes current onto the
// undo stack. It returns false if there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one snapshot to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one snapshot to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoLabel returns the label of the edit Undo would revert.
func (h *History) UndoLabel() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Label
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// copyRoofs deep-copies roofs including their paths and exclusion zones.
func copyRoofs(roofs []model.RoofArea) []model.RoofArea {
	if roofs == nil {
		return nil
	}
	cp := make([]model.RoofArea, len(roofs))
	for i, r := range roofs {
		cp[i] = r.Clone()
	}
	return cp
}

// MakeSnapshot creates a snapshot of the given roofs with a label.
func MakeSnapshot(roofs []model.RoofArea, label string) Snapshot {
	return Snapshot{
		Roofs: copyRoofs(roofs),
		Label: label,
	}
}
