package controller

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PanelPlan/internal/model"
)

// recorder collects teardown events in the order they happen.
type recorder struct {
	events []string
}

type fakeHandle struct {
	roofID  string
	index   int
	rec     *recorder
	onTap   func()
	cleared bool
	removed bool
}

func (h *fakeHandle) ClearHandlers() {
	h.cleared = true
	h.onTap = nil
	h.rec.events = append(h.rec.events, fmt.Sprintf("clear %s/%d", h.roofID, h.index))
}

func (h *fakeHandle) Remove() {
	h.removed = true
	h.rec.events = append(h.rec.events, fmt.Sprintf("remove %s/%d", h.roofID, h.index))
}

func (h *fakeHandle) tap() {
	if h.onTap != nil {
		h.onTap()
	}
}

type fakeSurface struct {
	rec     *recorder
	draws   int
	handles []*fakeHandle
	failAt  int // index that fails to draw, -1 for none
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{rec: &recorder{}, failAt: -1}
}

func (s *fakeSurface) DrawPanel(roofID string, index int, p model.Panel, onTap func()) (PanelHandle, error) {
	s.draws++
	if index == s.failAt {
		return nil, errors.New("draw failed")
	}
	h := &fakeHandle{roofID: roofID, index: index, rec: s.rec, onTap: onTap}
	s.handles = append(s.handles, h)
	s.rec.events = append(s.rec.events, fmt.Sprintf("draw %s/%d", roofID, index))
	return h, nil
}

// live returns the handles that have not been removed.
func (s *fakeSurface) live() []*fakeHandle {
	var out []*fakeHandle
	for _, h := range s.handles {
		if !h.removed {
			out = append(out, h)
		}
	}
	return out
}
