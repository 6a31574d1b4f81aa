package emscripten

import (
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/willf/bitset"
)

// File mode bits in the guest's numbering.
const (
	ModeDir     = 0o040000
	ModeRegular = 0o100000
)

const maxOpenFiles = 4096

type vfsNode struct {
	ino   uint64
	mode  uint32
	data  []byte
	atime int64
	mtime int64
	ctime int64
}

type vfsFile struct {
	node *vfsNode
	pos  int64
}

// FS is an in-memory filesystem overlay. It implements Backend with the same
// argument and return contracts as the host backend, so it can be substituted
// anywhere a handler would otherwise call a host filesystem primitive.
//
// An FS may be shared between execution contexts; its state is guarded by a
// single mutex.
type FS struct {
	m sync.Mutex

	cwd     string
	nodes   map[string]*vfsNode
	nextIno uint64

	fds   *bitset.BitSet
	files map[int32]*vfsFile
}

// NewFS returns an empty overlay containing only the root directory, with the
// working directory set to "/". Descriptors 0-2 are reserved for the standard
// streams and are never handed out.
func NewFS() *FS {
	fs := &FS{
		cwd:     "/",
		nodes:   map[string]*vfsNode{},
		nextIno: 1,
		fds:     bitset.New(maxOpenFiles),
		files:   map[int32]*vfsFile{},
	}
	fs.nodes["/"] = fs.newNode(ModeDir | 0o755)
	fs.fds.Set(0).Set(1).Set(2)
	return fs
}

func (fs *FS) newNode(mode uint32) *vfsNode {
	now := time.Now().Unix()
	n := &vfsNode{ino: fs.nextIno, mode: mode, atime: now, mtime: now, ctime: now}
	fs.nextIno++
	return n
}

// resolve cleans p against the working directory. Callers must hold fs.m.
func (fs *FS) resolve(p string) string {
	if !path.IsAbs(p) {
		p = path.Join(fs.cwd, p)
	}
	return path.Clean(p)
}

// Mkdir creates a directory. The parent directory must exist.
func (fs *FS) Mkdir(p string, perm uint32) error {
	fs.m.Lock()
	defer fs.m.Unlock()

	p = fs.resolve(p)
	if _, ok := fs.nodes[p]; ok {
		return os.ErrExist
	}
	parent, ok := fs.nodes[path.Dir(p)]
	if !ok || parent.mode&ModeDir == 0 {
		return os.ErrNotExist
	}
	fs.nodes[p] = fs.newNode(ModeDir | perm&0o7777)
	return nil
}

// WriteFile creates or replaces a regular file with the given contents.
func (fs *FS) WriteFile(p string, data []byte, perm uint32) error {
	fs.m.Lock()
	defer fs.m.Unlock()

	p = fs.resolve(p)
	parent, ok := fs.nodes[path.Dir(p)]
	if !ok || parent.mode&ModeDir == 0 {
		return os.ErrNotExist
	}
	if n, ok := fs.nodes[p]; ok {
		if n.mode&ModeDir != 0 {
			return os.ErrExist
		}
		n.data = append(n.data[:0], data...)
		n.mtime = time.Now().Unix()
		return nil
	}
	n := fs.newNode(ModeRegular | perm&0o7777)
	n.data = append([]byte(nil), data...)
	fs.nodes[p] = n
	return nil
}

// Open opens an existing file for reading and returns its descriptor.
func (fs *FS) Open(p string) (int32, error) {
	fs.m.Lock()
	defer fs.m.Unlock()

	n, ok := fs.nodes[fs.resolve(p)]
	if !ok {
		return -1, os.ErrNotExist
	}

	fd, ok := fs.fds.NextClear(0)
	if !ok || fd >= maxOpenFiles {
		return -1, os.ErrInvalid
	}
	fs.fds.Set(fd)
	fs.files[int32(fd)] = &vfsFile{node: n}
	return int32(fd), nil
}

// Close releases the descriptor.
func (fs *FS) Close(fd int32) error {
	fs.m.Lock()
	defer fs.m.Unlock()

	if _, ok := fs.files[fd]; !ok {
		return os.ErrClosed
	}
	delete(fs.files, fd)
	fs.fds.Clear(uint(fd))
	return nil
}

func (fs *FS) Getpid() int32 {
	return int32(os.Getpid())
}

func (fs *FS) Chdir(p string) int32 {
	fs.m.Lock()
	defer fs.m.Unlock()

	p = fs.resolve(p)
	n, ok := fs.nodes[p]
	if !ok || n.mode&ModeDir == 0 {
		return -1
	}
	fs.cwd = p
	return 0
}

func (fs *FS) Getcwd() (string, int32) {
	fs.m.Lock()
	defer fs.m.Unlock()

	return fs.cwd, 0
}

func (fs *FS) Rmdir(p string) int32 {
	fs.m.Lock()
	defer fs.m.Unlock()

	p = fs.resolve(p)
	n, ok := fs.nodes[p]
	if !ok || n.mode&ModeDir == 0 || p == "/" {
		return -1
	}
	prefix := p + "/"
	for name := range fs.nodes {
		if strings.HasPrefix(name, prefix) {
			return -1
		}
	}
	delete(fs.nodes, p)
	return 0
}

func (fs *FS) Seek(fd, offset, whence int32) (int32, int32) {
	fs.m.Lock()
	defer fs.m.Unlock()

	f, ok := fs.files[fd]
	if !ok {
		return -1, -1
	}

	var pos int64
	switch whence {
	case 0: // SEEK_SET
		pos = int64(offset)
	case 1: // SEEK_CUR
		pos = f.pos + int64(offset)
	case 2: // SEEK_END
		pos = int64(len(f.node.data)) + int64(offset)
	default:
		return -1, -1
	}
	if pos < 0 {
		return -1, -1
	}
	f.pos = pos
	return int32(pos), 0
}

func (fs *FS) Read(fd int32, p []byte) int32 {
	fs.m.Lock()
	defer fs.m.Unlock()

	f, ok := fs.files[fd]
	if !ok {
		return -1
	}
	if f.pos >= int64(len(f.node.data)) {
		return 0
	}
	n := copy(p, f.node.data[f.pos:])
	f.pos += int64(n)
	f.node.atime = time.Now().Unix()
	return int32(n)
}

func (fs *FS) Stat(p string) (FileStat, int32) {
	fs.m.Lock()
	defer fs.m.Unlock()

	n, ok := fs.nodes[fs.resolve(p)]
	if !ok {
		return FileStat{}, -1
	}
	return fs.fileStat(n), 0
}

func (fs *FS) Fstat(fd int32) (FileStat, int32) {
	fs.m.Lock()
	defer fs.m.Unlock()

	f, ok := fs.files[fd]
	if !ok {
		return FileStat{}, -1
	}
	return fs.fileStat(f.node), 0
}

func (fs *FS) fileStat(n *vfsNode) FileStat {
	return FileStat{
		Ino:     n.ino,
		Mode:    n.mode,
		Nlink:   1,
		Size:    int64(len(n.data)),
		Blksize: 4096,
		Blocks:  (int64(len(n.data)) + 511) / 512,
		Atime:   n.atime,
		Mtime:   n.mtime,
		Ctime:   n.ctime,
	}
}
