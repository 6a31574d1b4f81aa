//go:build darwin || netbsd

package emscripten

import "golang.org/x/sys/unix"

func hostFileStat(st *unix.Stat_t) FileStat {
	return FileStat{
		Dev:     uint64(st.Dev),
		Ino:     uint64(st.Ino),
		Mode:    uint32(st.Mode),
		Nlink:   uint32(st.Nlink),
		Uid:     st.Uid,
		Gid:     st.Gid,
		Rdev:    uint64(st.Rdev),
		Size:    st.Size,
		Blksize: int32(st.Blksize),
		Blocks:  st.Blocks,
		Atime:   st.Atimespec.Sec,
		Mtime:   st.Mtimespec.Sec,
		Ctime:   st.Ctimespec.Sec,
	}
}
