package exec

import (
	"encoding/binary"
	"fmt"
)

// PageSize is the size of a WASM linear memory page in bytes.
const PageSize = 65536

var ErrLimitExceeded = fmt.Errorf("memory limit exceeded")

// Memory is a WASM linear memory. A memory is exclusively owned by the
// execution context it backs: no two contexts may share one.
type Memory struct {
	min, max uint32
	bytes    []byte
}

// NewMemory creates a new linear memory with the given limits.
func NewMemory(min, max uint32) Memory {
	return Memory{
		min:   min,
		max:   max,
		bytes: make([]byte, min*PageSize),
	}
}

// Limits returns the minimum and maximum size of the memory in pages.
func (m *Memory) Limits() (min, max uint32) {
	return m.min, m.max
}

// Size returns the current size of the memory in pages.
func (m *Memory) Size() uint32 {
	return uint32(len(m.bytes) / PageSize)
}

// ByteLength returns the current size of the memory in bytes.
func (m *Memory) ByteLength() uint32 {
	return uint32(len(m.bytes))
}

// Grow grows the memory by the given number of pages. It returns the old size
// of the memory in pages and an error if growing the memory by the requested
// amount would exceed the memory's maximum size.
func (m *Memory) Grow(pages uint32) (uint32, error) {
	currentSize := m.Size()
	newSize := currentSize + pages
	if newSize > m.max || newSize > 65536 {
		return currentSize, ErrLimitExceeded
	}
	newBytes := make([]byte, int(newSize)*PageSize)
	copy(newBytes, m.bytes)
	m.bytes = newBytes
	return currentSize, nil
}

// Bytes returns the memory's bytes.
func (m *Memory) Bytes() []byte {
	return m.bytes
}

// View translates a guest offset and an access length into a window over the
// memory's live contents. Every dereference of a guest-supplied offset must
// pass through View: an access whose end would exceed the current size of the
// memory fails with TrapOutOfBoundsMemoryAccess before any byte is touched.
// The current size is re-read on each call, so views remain correct across
// Grow.
func (m *Memory) View(offset, length uint32) ([]byte, error) {
	if uint64(offset)+uint64(length) > uint64(len(m.bytes)) {
		return nil, TrapOutOfBoundsMemoryAccess
	}
	return m.bytes[offset : offset+length : offset+length], nil
}

// Uint32 returns the little-endian uint32 stored at the given offset.
func (m *Memory) Uint32(offset uint32) (uint32, error) {
	w, err := m.View(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(w), nil
}

// PutUint32 writes the given uint32 to the given offset in little-endian
// byte order.
func (m *Memory) PutUint32(v uint32, offset uint32) error {
	w, err := m.View(offset, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(w, v)
	return nil
}

// Uint64 returns the little-endian uint64 stored at the given offset.
func (m *Memory) Uint64(offset uint32) (uint64, error) {
	w, err := m.View(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(w), nil
}

// PutUint64 writes the given uint64 to the given offset in little-endian
// byte order.
func (m *Memory) PutUint64(v uint64, offset uint32) error {
	w, err := m.View(offset, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(w, v)
	return nil
}
