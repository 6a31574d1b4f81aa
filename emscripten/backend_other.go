//go:build !linux && !darwin && !freebsd && !netbsd

package emscripten

import "os"

// unsupportedBackend stands in on platforms without a POSIX host backend.
// Every filesystem operation fails; embedders should supply an FS overlay
// instead.
type unsupportedBackend struct{}

// NewHostBackend returns a Backend backed by the host operating system. On
// platforms without POSIX host primitives the returned backend fails every
// filesystem operation.
func NewHostBackend() Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Getpid() int32 {
	return int32(os.Getpid())
}

func (unsupportedBackend) Chdir(path string) int32 { return -1 }

func (unsupportedBackend) Getcwd() (string, int32) { return "", -1 }

func (unsupportedBackend) Rmdir(path string) int32 { return -1 }

func (unsupportedBackend) Seek(fd, offset, whence int32) (int32, int32) { return -1, -1 }

func (unsupportedBackend) Read(fd int32, p []byte) int32 { return -1 }

func (unsupportedBackend) Stat(path string) (FileStat, int32) { return FileStat{}, -1 }

func (unsupportedBackend) Fstat(fd int32) (FileStat, int32) { return FileStat{}, -1 }
