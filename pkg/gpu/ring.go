package gpu

import (
	"encoding/binary"
	"sync"

	"github.com/rotisserie/eris"
)

// uniformAlignment is the alignment of each slot when the ring is laid out in one buffer.
const uniformAlignment = 256

// UniformRing is a fixed ring of uniform slots, one per frame in flight. A slot is acquired while
// the CPU writes it and released once the GPU has consumed it. Release is usually called from a
// GPU completion handler, so the ring is safe for concurrent use.
type UniformRing[T any] struct {
	slots       []T
	held        []bool
	index       int // Slot the next acquire starts searching from
	alignedSize int
	mu          sync.Mutex
}

// NewUniformRing creates a ring of n slots. T must be a fixed-size value as accepted by
// encoding/binary.
func NewUniformRing[T any](n int) (*UniformRing[T], error) {
	if n <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "ring size must be positive, got %d", n)
	}

	var zero T
	size := binary.Size(zero)
	if size < 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "%T is not a fixed-size value", zero)
	}

	return &UniformRing[T]{
		slots:       make([]T, n),
		held:        make([]bool, n),
		index:       0,
		alignedSize: (size + uniformAlignment - 1) &^ (uniformAlignment - 1),
	}, nil
}

// AcquireSlot returns the first free slot at or after the current position. Returns ErrRingFull if
// every slot is held.
func (r *UniformRing[T]) AcquireSlot() (*T, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range len(r.slots) {
		slot := (r.index + i) % len(r.slots)
		if !r.held[slot] {
			r.held[slot] = true
			return &r.slots[slot], slot, nil
		}
	}
	return nil, 0, eris.Wrapf(ErrRingFull, "%d slots held", len(r.slots))
}

// Release makes slot available again. Releasing a slot that isn't held is a no-op.
func (r *UniformRing[T]) Release(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slot >= 0 && slot < len(r.held) {
		r.held[slot] = false
	}
}

// Next advances the position the next acquire starts from.
func (r *UniformRing[T]) Next() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.index = (r.index + 1) % len(r.slots)
}

// Offset returns the byte offset of slot when the ring is laid out in a single buffer.
func (r *UniformRing[T]) Offset(slot int) int {
	return slot * r.alignedSize
}

// AlignedSize returns the size of one slot including padding.
func (r *UniformRing[T]) AlignedSize() int {
	return r.alignedSize
}

// Len returns the number of slots.
func (r *UniformRing[T]) Len() int {
	return len(r.slots)
}

// Encode writes every slot little-endian into a buffer of Len() * AlignedSize() bytes.
func (r *UniformRing[T]) Encode() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]byte, len(r.slots)*r.alignedSize)
	for i := range r.slots {
		off := i * r.alignedSize
		if _, err := binary.Encode(buf[off:off+r.alignedSize], binary.LittleEndian, r.slots[i]); err != nil {
			return nil, eris.Wrapf(ErrInvalidInput, "failed to encode slot %d: %v", i, err)
		}
	}
	return buf, nil
}
