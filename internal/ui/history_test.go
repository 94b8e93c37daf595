package ui

import (
	"testing"

	"github.com/piwi3910/PanelPlan/internal/model"
)

func testRoof(name string) model.RoofArea {
	r := model.NewRoofArea(name, model.Path{
		{Lat: 52.0, Lng: 4.0},
		{Lat: 52.0, Lng: 4.0003},
		{Lat: 52.0001, Lng: 4.0003},
		{Lat: 52.0001, Lng: 4.0},
	})
	r.PanelType = model.DefaultPanelType
	r.TiltAngle = 30
	r.OrientationAngle = 180
	return r
}

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

	h.Push(MakeSnapshot(nil, "initial"))
	if !h.CanUndo() {
		t.Fatal("should be able to undo after push")
	}

	current := MakeSnapshot([]model.RoofArea{testRoof("South")}, "current")

	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.Roofs) != 0 {
		t.Errorf("expected 0 roofs after undo, got %d", len(restored.Roofs))
	}
	if restored.Label != "initial" {
		t.Errorf("expected label 'initial', got %q", restored.Label)
	}
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()

	h.Push(MakeSnapshot(nil, "empty"))
	h.Push(MakeSnapshot([]model.RoofArea{testRoof("South")}, "one roof"))

	current := MakeSnapshot([]model.RoofArea{testRoof("South"), testRoof("East")}, "two roofs")

	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("first undo should succeed")
	}
	if len(restored.Roofs) != 1 {
		t.Errorf("expected 1 roof, got %d", len(restored.Roofs))
	}

	if !h.CanRedo() {
		t.Fatal("should be able to redo")
	}
	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(redone.Roofs) != 2 {
		t.Errorf("expected 2 roofs after redo, got %d", len(redone.Roofs))
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(nil, "empty"))

	if _, ok := h.Undo(MakeSnapshot([]model.RoofArea{testRoof("South")}, "one roof")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	h.Push(MakeSnapshot(nil, "new action"))
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

func TestUndoRedoEmpty(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(nil, "current")
	if _, ok := h.Undo(current); ok {
		t.Error("undo on empty history should return false")
	}
	if _, ok := h.Redo(current); ok {
		t.Error("redo on empty history should return false")
	}
}

func TestUndoLabel(t *testing.T) {
	h := NewHistory()
	if h.UndoLabel() != "" {
		t.Errorf("expected empty label, got %q", h.UndoLabel())
	}
	h.Push(MakeSnapshot(nil, "Add Roof"))
	h.Push(MakeSnapshot(nil, "Change Tilt"))
	if h.UndoLabel() != "Change Tilt" {
		t.Errorf("expected 'Change Tilt', got %q", h.UndoLabel())
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(nil, "a"))
	h.Push(MakeSnapshot(nil, "b"))
	h.Undo(MakeSnapshot(nil, "current"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestDeepCopyRoofs(t *testing.T) {
	roof := testRoof("South")
	roof.AddExclusionZone("Chimney", model.Path{
		{Lat: 52.00004, Lng: 4.0001},
		{Lat: 52.00004, Lng: 4.00012},
		{Lat: 52.00006, Lng: 4.00012},
	})
	original := []model.RoofArea{roof}
	snap := MakeSnapshot(original, "test")

	original[0].Name = "Modified"
	original[0].Path[0].Lat = 0
	original[0].ExclusionZones[0].Path[0].Lng = 0

	if snap.Roofs[0].Name != "South" {
		t.Error("snapshot should be independent of original slice")
	}
	if snap.Roofs[0].Path[0].Lat != 52.0 {
		t.Error("snapshot roof path should be independent of original")
	}
	if snap.Roofs[0].ExclusionZones[0].Path[0].Lng != 4.0001 {
		t.Error("snapshot zone path should be independent of original")
	}
}

func TestCopyNilRoofs(t *testing.T) {
	snap := MakeSnapshot(nil, "nil test")
	if snap.Roofs != nil {
		t.Error("nil roofs should stay nil")
	}
}

func TestMultipleUndoRedo(t *testing.T) {
	h := NewHistory()

	h.Push(MakeSnapshot(nil, "empty"))
	h.Push(MakeSnapshot([]model.RoofArea{testRoof("A")}, "1 roof"))
	h.Push(MakeSnapshot([]model.RoofArea{testRoof("A"), testRoof("B")}, "2 roofs"))

	current := MakeSnapshot([]model.RoofArea{testRoof("A"), testRoof("B"), testRoof("C")}, "3 roofs")

	s, ok := h.Undo(current)
	if !ok || len(s.Roofs) != 2 {
		t.Fatalf("first undo: expected 2 roofs, got %d", len(s.Roofs))
	}
	s, ok = h.Undo(s)
	if !ok || len(s.Roofs) != 1 {
		t.Fatalf("second undo: expected 1 roof, got %d", len(s.Roofs))
	}
	s, ok = h.Undo(s)
	if !ok || len(s.Roofs) != 0 {
		t.Fatalf("third undo: expected 0 roofs, got %d", len(s.Roofs))
	}
	if h.CanUndo() {
		t.Error("should not be able to undo further")
	}

	s, ok = h.Redo(s)
	if !ok || len(s.Roofs) != 1 {
		t.Fatalf("first redo: expected 1 roof, got %d", len(s.Roofs))
	}
	s, ok = h.Redo(s)
	if !ok || len(s.Roofs) != 2 {
		t.Fatalf("second redo: expected 2 roofs, got %d", len(s.Roofs))
	}
	s, ok = h.Redo(s)
	if !ok || len(s.Roofs) != 3 {
		t.Fatalf("third redo: expected 3 roofs, got %d", len(s.Roofs))
	}
	if h.CanRedo() {
		t.Error("should not be able to redo further")
	}
}
