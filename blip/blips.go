package blip

import (
	"sort"

	"github.com/wavekit/wavekit/commons"
)

// Registry owns every loaded blip of a session, keyed by id. Blips hold
// parent and child ids only and resolve them here, keeping the conversation
// tree free of cyclic links.
type Registry struct {
	blips map[string]*Blip
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{blips: make(map[string]*Blip)}
}

// Get returns the blip with the id, if loaded.
func (r *Registry) Get(id string) (*Blip, bool) {
	b, ok := r.blips[id]
	return b, ok
}

// Len returns the number of loaded blips.
func (r *Registry) Len() int {
	return len(r.blips)
}

// IDs returns the loaded blip ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.blips))
	for id := range r.blips {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Serialize re-exports every loaded blip, keyed by id.
func (r *Registry) Serialize() map[string]*commons.BlipData {
	res := make(map[string]*commons.BlipData, len(r.blips))
	for id, b := range r.blips {
		res[id] = b.Serialize()
	}
	return res
}

func (r *Registry) add(b *Blip) {
	r.blips[b.id] = b
}
