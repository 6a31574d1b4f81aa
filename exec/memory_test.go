package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewBounds(t *testing.T) {
	m := NewMemory(1, 2)

	cases := []struct {
		name   string
		offset uint32
		length uint32
		ok     bool
	}{
		{"empty at start", 0, 0, true},
		{"full region", 0, PageSize, true},
		{"last word", PageSize - 4, 4, true},
		{"end overrun by one", PageSize - 3, 4, false},
		{"offset past end", PageSize, 1, false},
		{"length past end", 0, PageSize + 1, false},
		{"offset+length wraps", 0xfffffffc, 16, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, err := m.View(c.offset, c.length)
			if c.ok {
				require.NoError(t, err)
				assert.Equal(t, int(c.length), len(w))
			} else {
				assert.Equal(t, TrapOutOfBoundsMemoryAccess, err)
			}
		})
	}
}

func TestViewAliasesMemory(t *testing.T) {
	m := NewMemory(1, 2)

	w, err := m.View(128, 4)
	require.NoError(t, err)

	copy(w, "cart")
	assert.Equal(t, []byte("cart"), m.Bytes()[128:132])

	m.Bytes()[128] = 'd'
	assert.Equal(t, []byte("dart"), w)
}

func TestViewAfterGrow(t *testing.T) {
	m := NewMemory(1, 4)

	_, err := m.View(PageSize, 4)
	require.Equal(t, TrapOutOfBoundsMemoryAccess, err)

	old, err := m.Grow(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), old)

	// The translator reads the live size, so the same access now succeeds.
	_, err = m.View(PageSize, 4)
	assert.NoError(t, err)
}

func TestGrowLimit(t *testing.T) {
	m := NewMemory(1, 2)

	_, err := m.Grow(2)
	assert.Equal(t, ErrLimitExceeded, err)
}

func TestCheckedAccessors(t *testing.T) {
	m := NewMemory(1, 2)

	require.NoError(t, m.PutUint32(0xdeadbeef, 16))
	v32, err := m.Uint32(16)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v32)

	// Little-endian byte order on the wire.
	assert.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, m.Bytes()[16:20])

	require.NoError(t, m.PutUint64(0x0123456789abcdef, 24))
	v64, err := m.Uint64(24)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0123456789abcdef), v64)

	assert.Equal(t, TrapOutOfBoundsMemoryAccess, m.PutUint32(1, PageSize-3))
	_, err = m.Uint64(PageSize - 7)
	assert.Equal(t, TrapOutOfBoundsMemoryAccess, err)
}
