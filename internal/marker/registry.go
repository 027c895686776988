package marker

import (
	"sync"

	"github.com/spherecam/spherecam/internal/mathutil"
	"github.com/spherecam/spherecam/pkg/core"
)

// Registry holds the live markers of a session in creation order.
// It is the only mapping from a hit target back to a marker ID.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	markers map[string]core.Marker
}

// Target is a marker position as seen by the ray caster.
type Target struct {
	ID       string
	Position mathutil.Vec3
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		markers: make(map[string]core.Marker),
	}
}

// Add stores markers, replacing any with the same ID in place.
func (r *Registry) Add(markers ...core.Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range markers {
		if _, ok := r.markers[m.ID]; !ok {
			r.order = append(r.order, m.ID)
		}
		r.markers[m.ID] = m
	}
}

// Get retrieves a marker by ID
func (r *Registry) Get(id string) (core.Marker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.markers[id]
	return m, ok
}

// Remove deletes a marker and reports whether it was present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.markers[id]; !ok {
		return false
	}
	delete(r.markers, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns a snapshot of the live markers in creation order.
func (r *Registry) All() []core.Marker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Marker, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.markers[id])
	}
	return out
}

// Targets returns marker positions in creation order for intersection tests.
func (r *Registry) Targets() []Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Target, 0, len(r.order))
	for _, id := range r.order {
		m := r.markers[id]
		out = append(out, Target{ID: id, Position: mathutil.Vec3(m.Point.Coords())})
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Reset clears all markers from the registry
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.markers = make(map[string]core.Marker)
}

// Replace swaps the whole set, as when a new preset is selected.
func (r *Registry) Replace(markers []core.Marker) {
	r.mu.Lock()
	r.order = nil
	r.markers = make(map[string]core.Marker, len(markers))
	r.mu.Unlock()
	r.Add(markers...)
}
