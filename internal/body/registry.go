package body

// Registry owns the live set of bodies. Bodies are stored in a flat slice in
// insertion order; the physics passes index into that slice directly.
type Registry struct {
	bodies []Body
	ids    []ID
	slots  map[ID]int
	pool   idPool
}

func NewRegistry() *Registry {
	return &Registry{
		bodies: make([]Body, 0, 64),
		ids:    make([]ID, 0, 64),
		slots:  make(map[ID]int, 64),
	}
}

// Add validates b and appends it. Invalid bodies are rejected here so that
// the passes never have to check for negative mass or radius.
func (r *Registry) Add(b Body) (ID, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	id := r.pool.create()
	r.slots[id] = len(r.bodies)
	r.bodies = append(r.bodies, b)
	r.ids = append(r.ids, id)
	return id, nil
}

// MustAdd is Add for setup code with known-good bodies. It panics on error.
func (r *Registry) MustAdd(b Body) ID {
	id, err := r.Add(b)
	if err != nil {
		panic(err)
	}
	return id
}

// Remove deletes the body and keeps the relative order of the rest.
func (r *Registry) Remove(id ID) error {
	i, ok := r.slots[id]
	if !ok {
		return ErrUnknownBody
	}
	r.bodies = append(r.bodies[:i], r.bodies[i+1:]...)
	r.ids = append(r.ids[:i], r.ids[i+1:]...)
	delete(r.slots, id)
	for j := i; j < len(r.ids); j++ {
		r.slots[r.ids[j]] = j
	}
	r.pool.destroy(id)
	return nil
}

// Get returns a pointer into the registry's storage. The pointer is only
// valid until the next Add, Remove or Clear.
func (r *Registry) Get(id ID) (*Body, bool) {
	i, ok := r.slots[id]
	if !ok {
		return nil, false
	}
	return &r.bodies[i], true
}

func (r *Registry) Has(id ID) bool {
	_, ok := r.slots[id]
	return ok
}

func (r *Registry) Len() int { return len(r.bodies) }

// Bodies returns the backing slice. Mutations through it are visible to the
// registry.
func (r *Registry) Bodies() []Body { return r.bodies }

func (r *Registry) IDs() []ID {
	out := make([]ID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Snapshot returns a copy of the bodies in insertion order.
func (r *Registry) Snapshot() []Body {
	out := make([]Body, len(r.bodies))
	copy(out, r.bodies)
	return out
}

func (r *Registry) Each(fn func(ID, *Body)) {
	for i := range r.bodies {
		fn(r.ids[i], &r.bodies[i])
	}
}

func (r *Registry) Clear() {
	for _, id := range r.ids {
		r.pool.destroy(id)
		delete(r.slots, id)
	}
	r.bodies = r.bodies[:0]
	r.ids = r.ids[:0]
}
