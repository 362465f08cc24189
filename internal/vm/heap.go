package vm

import "fmt"

// CodeArray is the reserved identifier of the array the program counter
// reads from. It is present for the entire lifetime of a VM.
const CodeArray = uint32(0)

// IdentifierSpace bounds the number of distinct array identifiers a Heap
// will ever hand out, id 0 included. spec.md requires at least 1<<16;
// we use exactly that, matching the "implementation parameter >= 2^16"
// decision recorded in SPEC_FULL.md.
const IdentifierSpace = 1 << 16

// Heap is the allocator/registry that maps live array identifiers to
// owned word vectors. The zero value is not usable; use NewHeap.
//
// Heap is not safe for concurrent use — exactly one goroutine, the
// execution engine's run loop, ever touches it.
type Heap struct {
	arrays map[uint32][]uint32
}

// NewHeap creates a Heap whose identifier 0 holds code (a copy of it,
// so the caller's slice is never aliased).
func NewHeap(code []uint32) *Heap {
	h := &Heap{arrays: make(map[uint32][]uint32)}
	h.arrays[CodeArray] = append([]uint32(nil), code...)
	return h
}

// Alloc reserves a fresh identifier for a zero-filled vector of n words.
// It reuses the smallest currently-absent non-zero identifier, so that
// handle values observable to a running program stay small and bounded
// even across many alloc/free cycles.
func (h *Heap) Alloc(n uint32) (uint32, error) {
	for id := uint32(1); id < IdentifierSpace; id++ {
		if _, live := h.arrays[id]; !live {
			h.arrays[id] = make([]uint32, n)
			return id, nil
		}
	}
	return 0, ErrAllocExhausted
}

// Free releases a live, non-zero identifier. Freeing id 0 or an absent
// identifier is a fault.
func (h *Heap) Free(id uint32) error {
	if id == CodeArray {
		return ErrDeallocationForbidden
	}
	if _, live := h.arrays[id]; !live {
		return fmt.Errorf("%w: id %d", ErrArrayAbsent, id)
	}
	delete(h.arrays, id)
	return nil
}

// Read returns the word at offset off in array id.
func (h *Heap) Read(id, off uint32) (uint32, error) {
	vec, err := h.live(id)
	if err != nil {
		return 0, err
	}
	if off >= uint32(len(vec)) {
		return 0, fmt.Errorf("%w: offset %d, length %d", ErrArrayBounds, off, len(vec))
	}
	return vec[off], nil
}

// Write stores v at offset off in array id.
func (h *Heap) Write(id, off, v uint32) error {
	vec, err := h.live(id)
	if err != nil {
		return err
	}
	if off >= uint32(len(vec)) {
		return fmt.Errorf("%w: offset %d, length %d", ErrArrayBounds, off, len(vec))
	}
	vec[off] = v
	return nil
}

// Length returns the word count of a live array.
func (h *Heap) Length(id uint32) (uint32, error) {
	vec, err := h.live(id)
	if err != nil {
		return 0, err
	}
	return uint32(len(vec)), nil
}

// DuplicateIntoZero copies the content of a live array into array 0,
// replacing its prior content. The replacement vector is fully built
// before it is installed, so array 0 is never observably in a
// half-copied state — the ownership-transfer rule the LOAD_PROGRAM
// hazard depends on.
func (h *Heap) DuplicateIntoZero(id uint32) error {
	src, err := h.live(id)
	if err != nil {
		return err
	}
	dup := make([]uint32, len(src))
	copy(dup, src)
	h.arrays[CodeArray] = dup
	return nil
}

// Stats reports the number of live and free identifiers, for tests that
// check live counts across Alloc and Free without reaching into Heap's
// internals.
func (h *Heap) Stats() (live, free int) {
	live = len(h.arrays)
	return live, IdentifierSpace - live
}

func (h *Heap) live(id uint32) ([]uint32, error) {
	vec, ok := h.arrays[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrArrayAbsent, id)
	}
	return vec, nil
}
