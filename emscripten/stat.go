package emscripten

import (
	"encoding/binary"

	"github.com/wasmkit/emsys/exec"
)

// FileStat is the host-neutral result of a stat or fstat operation. Backends
// fill in whatever the host supplies; unsupplied fields are left zero and are
// marshalled as zero.
type FileStat struct {
	Dev   uint64
	Ino   uint64
	Mode  uint32
	Nlink uint32
	Uid   uint32
	Gid   uint32
	Rdev  uint64

	Size    int64
	Blksize int32
	Blocks  int64

	// Timestamps in seconds since the epoch.
	Atime int64
	Mtime int64
	Ctime int64
}

// StatRecordSize is the size in bytes of the guest stat record.
const StatRecordSize = 76

// A StatField describes one field of the guest stat record.
type StatField struct {
	Name   string
	Offset uint32
	Width  uint32
}

type statField struct {
	name   string
	offset uint32
	width  uint32
	get    func(*FileStat) uint64
}

// statLayout is the guest C library's stat record, declared field by field.
// 32-bit fields mirror the historical 32-bit ABI; size and the three
// timestamps are the 64-bit-widened variants. Gaps between fields are
// padding and stay zero.
var statLayout = []statField{
	{"st_dev", 0, 4, func(st *FileStat) uint64 { return st.Dev }},
	{"st_ino", 8, 4, func(st *FileStat) uint64 { return st.Ino }},
	{"st_mode", 12, 4, func(st *FileStat) uint64 { return uint64(st.Mode) }},
	{"st_nlink", 16, 4, func(st *FileStat) uint64 { return uint64(st.Nlink) }},
	{"st_uid", 20, 4, func(st *FileStat) uint64 { return uint64(st.Uid) }},
	{"st_gid", 24, 4, func(st *FileStat) uint64 { return uint64(st.Gid) }},
	{"st_rdev", 28, 4, func(st *FileStat) uint64 { return st.Rdev }},
	{"st_size", 36, 8, func(st *FileStat) uint64 { return uint64(st.Size) }},
	{"st_blksize", 44, 4, func(st *FileStat) uint64 { return uint64(st.Blksize) }},
	{"st_blocks", 48, 4, func(st *FileStat) uint64 { return uint64(st.Blocks) }},
	{"st_atim", 52, 8, func(st *FileStat) uint64 { return uint64(st.Atime) }},
	{"st_mtim", 60, 8, func(st *FileStat) uint64 { return uint64(st.Mtime) }},
	{"st_ctim", 68, 8, func(st *FileStat) uint64 { return uint64(st.Ctime) }},
}

// StatLayout returns the declared layout of the guest stat record.
func StatLayout() []StatField {
	fields := make([]StatField, len(statLayout))
	for i, f := range statLayout {
		fields[i] = StatField{Name: f.name, Offset: f.offset, Width: f.width}
	}
	return fields
}

// writeStat marshals st into the guest stat record at addr. The full record
// window is bounds-checked up front: either all 76 bytes are written or the
// call fails before any partial write begins.
func writeStat(mem *exec.Memory, addr uint32, st *FileStat) error {
	w, err := mem.View(addr, StatRecordSize)
	if err != nil {
		return err
	}
	for i := range w {
		w[i] = 0
	}
	for _, f := range statLayout {
		switch f.width {
		case 4:
			binary.LittleEndian.PutUint32(w[f.offset:], uint32(f.get(st)))
		case 8:
			binary.LittleEndian.PutUint64(w[f.offset:], f.get(st))
		}
	}
	return nil
}
