// Package gpu provides the CPU side of per-frame GPU uploads: a bump allocator over a small ring of
// upload buffers and a fixed ring of uniform slots. Buffers are plain byte slices; handing them to a
// graphics API is up to the caller.
package gpu

import (
	"encoding/binary"

	"github.com/rotisserie/eris"
)

const (
	// BuffersInFlight is the number of frames that can be recorded before the oldest buffer is reused.
	BuffersInFlight = 3

	// DefaultPoolSize is the default size of each upload buffer in bytes.
	DefaultPoolSize = 128_000
)

// Offset is a byte offset into the current frame's upload buffer.
type Offset int

// MemoryPool is a bump allocator for per-frame upload memory. Each frame writes into one of
// BuffersInFlight fixed-size buffers; BeginFrame rewinds the cursor and FinishFrame moves on to the
// next buffer. It is up to the caller to make sure the GPU is done with a buffer before it comes
// around again.
type MemoryPool struct {
	buffers [BuffersInFlight][]byte
	index   int // Current buffer
	offset  int // Allocation cursor in the current buffer
	size    int
}

// NewMemoryPool creates a pool whose buffers are size bytes each.
func NewMemoryPool(size int) (*MemoryPool, error) {
	if size <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "pool size must be positive, got %d", size)
	}

	p := &MemoryPool{size: size}
	for i := range p.buffers {
		p.buffers[i] = make([]byte, size)
	}
	return p, nil
}

// BeginFrame starts writing a frame into the current buffer, discarding what it held.
func (p *MemoryPool) BeginFrame() {
	p.offset = 0
}

// FinishFrame ends the frame and advances to the next buffer. Returns the number of bytes written.
func (p *MemoryPool) FinishFrame() int {
	used := p.offset
	p.Next()
	return used
}

// Next advances to the next buffer in the ring without touching the cursor.
func (p *MemoryPool) Next() {
	p.index = (p.index + 1) % BuffersInFlight
}

// Allocate reserves n bytes aligned to align, which must be a power of two. Returns
// ErrAllocationFailed if the current buffer doesn't have room; the cursor is left unchanged.
func (p *MemoryPool) Allocate(n, align int) (Offset, error) {
	if n < 0 || align <= 0 || align&(align-1) != 0 {
		return 0, eris.Wrapf(ErrInvalidInput, "allocate(%d, %d)", n, align)
	}

	start := (p.offset + align - 1) &^ (align - 1)
	if start+n > p.size {
		return 0, eris.Wrapf(ErrAllocationFailed, "need %d bytes at %d, buffer is %d", n, start, p.size)
	}

	p.offset = start + n
	return Offset(start), nil
}

// Append encodes v little-endian into the next free bytes of the current buffer and returns where
// it was written. v must be a fixed-size value as accepted by encoding/binary.
func (p *MemoryPool) Append(v any) (Offset, error) {
	n := binary.Size(v)
	if n < 0 {
		return 0, eris.Wrapf(ErrInvalidInput, "%T is not a fixed-size value", v)
	}

	off, err := p.Allocate(n, 1)
	if err != nil {
		return 0, err
	}
	if _, err := binary.Encode(p.buffers[p.index][off:int(off)+n], binary.LittleEndian, v); err != nil {
		p.offset = int(off)
		return 0, eris.Wrapf(ErrInvalidInput, "failed to encode %T: %v", v, err)
	}
	return off, nil
}

// Bytes returns n bytes of the current buffer starting at off. The slice aliases the buffer.
func (p *MemoryPool) Bytes(off Offset, n int) []byte {
	return p.buffers[p.index][off : int(off)+n]
}

// Used returns the number of bytes allocated in the current frame.
func (p *MemoryPool) Used() int {
	return p.offset
}

// Size returns the size of each buffer.
func (p *MemoryPool) Size() int {
	return p.size
}

// BufferIndex returns the index of the current buffer.
func (p *MemoryPool) BufferIndex() int {
	return p.index
}
