package emscripten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmkit/emsys/exec"
)

func TestVarArgsSlotWidth(t *testing.T) {
	mem := exec.NewMemory(1, 2)

	base := uint32(1024)
	for i, w := range []uint32{10, 20, 30, 40, 50} {
		require.NoError(t, mem.PutUint32(w, base+uint32(i)*4))
	}

	va := NewVarArgs(&mem, base)

	// Every read consumes exactly one 4-byte slot, whatever the logical type.
	for i, want := range []int32{10, 20, 30} {
		v, err := va.Int32()
		require.NoError(t, err)
		assert.Equal(t, want, v)
		assert.Equal(t, base+uint32(i+1)*4, va.Cursor())
	}

	u, err := va.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(40), u)

	require.NoError(t, va.Skip())
	assert.Equal(t, base+20, va.Cursor())
}

func TestVarArgsSplit64(t *testing.T) {
	mem := exec.NewMemory(1, 2)

	// A 64-bit quantity arrives as two consecutive word slots, as in the
	// seek syscall's high/low offset pair.
	base := uint32(64)
	require.NoError(t, mem.PutUint32(0x89abcdef, base))   // low
	require.NoError(t, mem.PutUint32(0x01234567, base+4)) // high

	va := NewVarArgs(&mem, base)
	low, err := va.Uint32()
	require.NoError(t, err)
	high, err := va.Uint32()
	require.NoError(t, err)

	assert.Equal(t, uint64(0x0123456789abcdef), uint64(high)<<32|uint64(low))
	assert.Equal(t, base+8, va.Cursor())
}

func TestVarArgsOutOfBounds(t *testing.T) {
	mem := exec.NewMemory(1, 2)

	va := NewVarArgs(&mem, exec.PageSize-4)
	_, err := va.Int32()
	require.NoError(t, err)

	_, err = va.Int32()
	assert.Equal(t, exec.TrapOutOfBoundsMemoryAccess, err)

	va = NewVarArgs(&mem, 0xfffffffe)
	_, err = va.Uint32()
	assert.Equal(t, exec.TrapOutOfBoundsMemoryAccess, err)
}

func TestVarArgsNegative(t *testing.T) {
	mem := exec.NewMemory(1, 2)

	require.NoError(t, mem.PutUint32(0xffffffff, 0))
	va := NewVarArgs(&mem, 0)

	v, err := va.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
}
