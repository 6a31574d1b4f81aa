package emscripten

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmkit/emsys/exec"
)

func TestStatLayoutDeclaration(t *testing.T) {
	fields := StatLayout()
	require.NotEmpty(t, fields)

	end := uint32(0)
	for _, f := range fields {
		assert.GreaterOrEqual(t, f.Offset, end, "field %s overlaps its predecessor", f.Name)
		end = f.Offset + f.Width
	}
	assert.Equal(t, uint32(StatRecordSize), end)
}

func TestWriteStat(t *testing.T) {
	mem := exec.NewMemory(1, 2)

	st := FileStat{
		Dev:     0x11,
		Ino:     0x22,
		Mode:    0o100644,
		Nlink:   3,
		Uid:     1000,
		Gid:     100,
		Rdev:    0x33,
		Size:    0x123456789,
		Blksize: 4096,
		Blocks:  7,
		Atime:   1600000001,
		Mtime:   1600000002,
		Ctime:   1600000003,
	}

	const addr = 256
	// Dirty the destination to prove padding is zeroed.
	for i := addr; i < addr+StatRecordSize; i++ {
		mem.Bytes()[i] = 0xaa
	}

	require.NoError(t, writeStat(&mem, addr, &st))

	rec := mem.Bytes()[addr : addr+StatRecordSize]
	assert.Equal(t, uint32(0x11), binary.LittleEndian.Uint32(rec[0:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(rec[4:]), "dev padding")
	assert.Equal(t, uint32(0x22), binary.LittleEndian.Uint32(rec[8:]))
	assert.Equal(t, uint32(0o100644), binary.LittleEndian.Uint32(rec[12:]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(rec[16:]))
	assert.Equal(t, uint32(1000), binary.LittleEndian.Uint32(rec[20:]))
	assert.Equal(t, uint32(100), binary.LittleEndian.Uint32(rec[24:]))
	assert.Equal(t, uint32(0x33), binary.LittleEndian.Uint32(rec[28:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(rec[32:]), "rdev padding")
	assert.Equal(t, uint64(0x123456789), binary.LittleEndian.Uint64(rec[36:]))
	assert.Equal(t, uint32(4096), binary.LittleEndian.Uint32(rec[44:]))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(rec[48:]))
	assert.Equal(t, uint64(1600000001), binary.LittleEndian.Uint64(rec[52:]))
	assert.Equal(t, uint64(1600000002), binary.LittleEndian.Uint64(rec[60:]))
	assert.Equal(t, uint64(1600000003), binary.LittleEndian.Uint64(rec[68:]))
}

func TestWriteStatZeroFields(t *testing.T) {
	mem := exec.NewMemory(1, 2)

	// Fields the host does not supply marshal as zero.
	require.NoError(t, writeStat(&mem, 0, &FileStat{}))
	for _, b := range mem.Bytes()[:StatRecordSize] {
		require.Equal(t, byte(0), b)
	}
}

func TestWriteStatBoundsPrecheck(t *testing.T) {
	mem := exec.NewMemory(1, 2)

	addr := uint32(exec.PageSize - StatRecordSize + 1)
	for i := addr; uint64(i) < uint64(exec.PageSize); i++ {
		mem.Bytes()[i] = 0xaa
	}

	st := FileStat{Size: 42}
	err := writeStat(&mem, addr, &st)
	require.Equal(t, exec.TrapOutOfBoundsMemoryAccess, err)

	// The whole record is bounds-checked up front: no partial write happened.
	for i := addr; uint64(i) < uint64(exec.PageSize); i++ {
		require.Equal(t, byte(0xaa), mem.Bytes()[i])
	}

	// The same record fits one byte earlier.
	require.NoError(t, writeStat(&mem, addr-1, &st))
}
