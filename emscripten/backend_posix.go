//go:build linux || darwin || freebsd || netbsd

package emscripten

import (
	"os"

	"golang.org/x/sys/unix"
)

// hostBackend forwards syscalls to the host OS. This is the reference
// backend: status codes are the host's raw return codes.
type hostBackend struct{}

// NewHostBackend returns a Backend backed by the host operating system.
func NewHostBackend() Backend {
	return hostBackend{}
}

func (hostBackend) Getpid() int32 {
	return int32(unix.Getpid())
}

func (hostBackend) Chdir(path string) int32 {
	if err := unix.Chdir(path); err != nil {
		return -1
	}
	return 0
}

func (hostBackend) Getcwd() (string, int32) {
	wd, err := os.Getwd()
	if err != nil {
		return "", -1
	}
	return wd, 0
}

func (hostBackend) Rmdir(path string) int32 {
	if err := unix.Rmdir(path); err != nil {
		return -1
	}
	return 0
}

func (hostBackend) Seek(fd, offset, whence int32) (int32, int32) {
	pos, err := unix.Seek(int(fd), int64(offset), int(whence))
	if err != nil {
		return -1, -1
	}
	return int32(pos), 0
}

func (hostBackend) Read(fd int32, p []byte) int32 {
	n, err := unix.Read(int(fd), p)
	if err != nil {
		return -1
	}
	return int32(n)
}

func (hostBackend) Stat(path string) (FileStat, int32) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return FileStat{}, -1
	}
	return hostFileStat(&st), 0
}

func (hostBackend) Fstat(fd int32) (FileStat, int32) {
	var st unix.Stat_t
	if err := unix.Fstat(int(fd), &st); err != nil {
		return FileStat{}, -1
	}
	return hostFileStat(&st), 0
}
