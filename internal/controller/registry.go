package controller

import "sort"

// PanelHandle is a panel drawn on a rendering surface.
type PanelHandle interface {
	// ClearHandlers detaches any tap listeners from the drawn panel.
	ClearHandlers()
	// Remove takes the panel off the surface.
	Remove()
}

// Registry owns every panel handle drawn for each roof, keyed by roof id
// and panel index. Handles leave the registry only through teardown, which
// clears listeners before removing the shape.
type Registry struct {
	handles map[string]map[int]PanelHandle
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]map[int]PanelHandle)}
}

// Create registers a handle for one panel. An existing handle at the same
// position is torn down first.
func (r *Registry) Create(roofID string, index int, h PanelHandle) {
	set, ok := r.handles[roofID]
	if !ok {
		set = make(map[int]PanelHandle)
		r.handles[roofID] = set
	}
	if old, ok := set[index]; ok {
		teardown(old)
	}
	set[index] = h
}

// Replace tears down every handle of the roof and installs the new set.
func (r *Registry) Replace(roofID string, handles map[int]PanelHandle) {
	r.DestroyAll(roofID)
	if len(handles) == 0 {
		return
	}
	set := make(map[int]PanelHandle, len(handles))
	for i, h := range handles {
		set[i] = h
	}
	r.handles[roofID] = set
}

// Destroy tears down one panel handle. It returns false if none was registered.
func (r *Registry) Destroy(roofID string, index int) bool {
	set, ok := r.handles[roofID]
	if !ok {
		return false
	}
	h, ok := set[index]
	if !ok {
		return false
	}
	teardown(h)
	delete(set, index)
	if len(set) == 0 {
		delete(r.handles, roofID)
	}
	return true
}

// DestroyAll tears down every handle of the roof in index order and returns
// how many were removed.
func (r *Registry) DestroyAll(roofID string) int {
	set, ok := r.handles[roofID]
	if !ok {
		return 0
	}
	for _, i := range sortedKeys(set) {
		teardown(set[i])
	}
	delete(r.handles, roofID)
	return len(set)
}

// Len returns the number of live handles for the roof.
func (r *Registry) Len(roofID string) int {
	return len(r.handles[roofID])
}

// Has reports whether a handle is registered at the given position.
func (r *Registry) Has(roofID string, index int) bool {
	_, ok := r.handles[roofID][index]
	return ok
}

// Roofs returns the ids of roofs with live handles, sorted.
func (r *Registry) Roofs() []string {
	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func teardown(h PanelHandle) {
	if h == nil {
		return
	}
	h.ClearHandlers()
	h.Remove()
}

func sortedKeys(m map[int]PanelHandle) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
