package typeregistry

import (
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Registry is the flat type table a decoded metadata blob produces.
// Its type table is built once by metadata.Load and then only ever
// read from, so lookups take no lock; the name cache RenderName fills
// is guarded by nameMu.
type Registry struct {
	defs []*Definition // index i holds TypeID(i)'s definition, or nil if unused

	// nameCache memoizes rendered path strings keyed by a hash of the
	// path itself rather than by TypeID: Substrate metadata commonly
	// declares the same generic instantiation (e.g. the same pallet's
	// Call enum) at many distinct ids, and this avoids rebuilding and
	// storing the same joined string once per id.
	nameCache map[uint64]string
	nameMu    sync.Mutex
}

// New builds an empty Registry sized to hold ids up to size-1.
func New(size int) *Registry {
	return &Registry{defs: make([]*Definition, size), nameCache: make(map[uint64]string)}
}

// Insert places def at id, growing the backing table if needed.
func (r *Registry) Insert(id TypeID, def *Definition) {
	if int(id) >= len(r.defs) {
		grown := make([]*Definition, int(id)+1)
		copy(grown, r.defs)
		r.defs = grown
	}
	r.defs[id] = def
}

// Resolve looks up id, failing TypeNotFound if it is out of range or
// was never inserted.
func (r *Registry) Resolve(id TypeID) (*Definition, error) {
	if int(id) >= len(r.defs) || r.defs[id] == nil {
		return nil, TypeNotFound{ID: id}
	}
	return r.defs[id], nil
}

// AsVariant resolves id and additionally requires it to be a variant
// definition, the shape every pallet Call/Event type takes.
func (r *Registry) AsVariant(id TypeID) (*Definition, error) {
	def, err := r.Resolve(id)
	if err != nil {
		return nil, err
	}
	if def.Kind != DefVariant {
		return nil, ExpectedVariantType{ID: id, Got: def.Kind, Rendered: r.RenderName(id)}
	}
	return def, nil
}

// RenderName produces a human-readable name for id's declared path,
// falling back to a bare numeric id when no path was recorded. The
// result is memoized by content hash so repeated calls across many ids
// sharing the same path don't re-join or re-allocate.
func (r *Registry) RenderName(id TypeID) string {
	def, err := r.Resolve(id)
	if err != nil || len(def.Path) == 0 {
		return "#" + strconv.Itoa(int(id))
	}

	d := xxhash.New()
	for i, p := range def.Path {
		if i > 0 {
			d.WriteString("::")
		}
		d.WriteString(p)
	}
	h := d.Sum64()

	r.nameMu.Lock()
	defer r.nameMu.Unlock()
	if cached, ok := r.nameCache[h]; ok {
		return cached
	}
	joined := strings.Join(def.Path, "::")
	r.nameCache[h] = joined
	return joined
}
