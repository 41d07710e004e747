package body

// ID encodes a 32-bit slot index in the lower bits and a 32-bit generation in
// the upper bits. The generation increments when a slot is freed, so IDs held
// across a Remove stop resolving.
type ID uint64

func newID(index, generation uint32) ID {
	return ID(uint64(generation)<<32 | uint64(index))
}

func (id ID) Index() uint32      { return uint32(id) }
func (id ID) Generation() uint32 { return uint32(id >> 32) }

// idPool hands out generational IDs with a free list.
type idPool struct {
	generations []uint32
	freeList    []uint32
}

func (p *idPool) create() ID {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return newID(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 0)
	return newID(idx, 0)
}

func (p *idPool) alive(id ID) bool {
	idx := id.Index()
	if int(idx) >= len(p.generations) {
		return false
	}
	return p.generations[idx] == id.Generation()
}

func (p *idPool) destroy(id ID) {
	if !p.alive(id) {
		return
	}
	p.generations[id.Index()]++
	p.freeList = append(p.freeList, id.Index())
}
