//go:build linux || darwin || freebsd || netbsd

package emscripten

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The host backend honors the same contract the VFS overlay does: raw 0/-1
// statuses, FileStat fields filled from the host, reads that advance the
// descriptor's offset.
func TestHostBackend(t *testing.T) {
	backend := NewHostBackend()

	assert.Equal(t, int32(os.Getpid()), backend.Getpid())

	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("hello world"), 0o644))

	st, status := backend.Stat(file)
	require.Equal(t, int32(0), status)
	assert.Equal(t, int64(11), st.Size)
	assert.NotZero(t, st.Mode&ModeRegular)
	assert.NotZero(t, st.Ino)

	_, status = backend.Stat(filepath.Join(dir, "nope"))
	assert.Equal(t, int32(-1), status)

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	fd := int32(f.Fd())

	buf := make([]byte, 5)
	assert.Equal(t, int32(5), backend.Read(fd, buf))
	assert.Equal(t, "hello", string(buf))

	pos, status := backend.Seek(fd, -5, 2)
	require.Equal(t, int32(0), status)
	assert.Equal(t, int32(6), pos)

	assert.Equal(t, int32(5), backend.Read(fd, buf))
	assert.Equal(t, "world", string(buf))
	assert.Equal(t, int32(0), backend.Read(fd, buf), "EOF reads 0")

	st, status = backend.Fstat(fd)
	require.Equal(t, int32(0), status)
	assert.Equal(t, int64(11), st.Size)

	_, status = backend.Fstat(-1)
	assert.Equal(t, int32(-1), status)
}

func TestHostBackendDirectories(t *testing.T) {
	backend := NewHostBackend()

	old, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(old)

	dir := t.TempDir()
	require.Equal(t, int32(0), backend.Chdir(dir))

	wd, status := backend.Getcwd()
	require.Equal(t, int32(0), status)
	osWd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, osWd, wd)

	assert.Equal(t, int32(-1), backend.Chdir(filepath.Join(dir, "nope")))

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.Equal(t, int32(0), backend.Rmdir(sub))
	assert.Equal(t, int32(-1), backend.Rmdir(sub))

	st, status := backend.Stat(dir)
	require.Equal(t, int32(0), status)
	assert.NotZero(t, st.Mode&ModeDir)
}
