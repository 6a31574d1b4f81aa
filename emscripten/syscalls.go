package emscripten

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Syscall numbers follow the historical 32-bit Linux numbering the guest C
// library was compiled against.
// Syscall list: https://www.cs.utexas.edu/~bismith/test/syscalls/syscalls32.html

// A Handler implements one syscall. which is the raw syscall number the
// guest passed; args is a fresh cursor over the packed argument block. The
// int32 result follows the host call's sign convention. Errors are reserved
// for conditions that are fatal to the call: bounds violations, guest
// callback failures, and the exit control transfer.
type Handler func(env *Env, which int32, args *VarArgs) (int32, error)

// ErrUnknownSyscall reports a syscall number with no dispatch entry. It is
// surfaced as a distinct condition rather than silently stubbed so embedders
// can diagnose missing table entries.
var ErrUnknownSyscall = errors.New("unknown syscall")

// An ExitError is returned from Invoke when the guest issues the exit
// syscall. It is a control-flow result, not a failure: the embedding engine
// decides whether to terminate the whole process or only this guest context.
type ExitError struct {
	Code int32
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

type syscallEntry struct {
	name    string
	stub    bool
	handler Handler
}

var syscallTable = map[int32]syscallEntry{
	1:   {name: "exit", handler: sysExit},
	12:  {name: "chdir", handler: sysChdir},
	20:  {name: "getpid", handler: sysGetpid},
	40:  {name: "rmdir", handler: sysRmdir},
	64:  {name: "getppid", handler: sysGetppid},
	140: {name: "lseek", handler: sysLseek},
	145: {name: "readv", handler: sysReadv},
	183: {name: "getcwd", handler: sysGetcwd},
	192: {name: "mmap2", handler: sysMmap2},
	195: {name: "stat64", handler: sysStat64},
	197: {name: "fstat64", handler: sysFstat64},
	221: {name: "fcntl64", handler: sysFcntl64},
	340: {name: "prlimit64", handler: sysPrlimit64},
}

// Numbers the reference ABI publishes but this layer does not implement.
// They dispatch to a logged stub that fails unconditionally.
var stubSyscalls = []int32{10, 38, 60, 66, 75, 85, 91, 97, 110, 168, 191, 199, 220, 268, 272, 295, 300, 334}

func init() {
	for _, num := range stubSyscalls {
		syscallTable[num] = syscallEntry{name: "stub", stub: true, handler: sysStub}
	}
}

// Invoke dispatches syscall num. which is passed through to the handler
// unchanged; varargs is the guest address of the packed argument block. A
// fresh cursor is constructed per invocation and never outlives the call.
func (env *Env) Invoke(num, which int32, varargs uint32) (int32, error) {
	entry, ok := syscallTable[num]
	if !ok {
		env.logger.Warn("unknown syscall", zap.Int32("syscall", num))
		return -1, fmt.Errorf("%w %d", ErrUnknownSyscall, num)
	}

	args := NewVarArgs(env.mem, varargs)
	start := time.Now()
	ret, err := entry.handler(env, which, args)
	if env.tracer != nil {
		env.tracer.record(num, entry.name, ret, time.Since(start))
	}
	return ret, err
}

// exit
func sysExit(env *Env, which int32, args *VarArgs) (int32, error) {
	status, err := args.Int32()
	if err != nil {
		return -1, err
	}
	return 0, &ExitError{Code: status}
}

// chdir
func sysChdir(env *Env, which int32, args *VarArgs) (int32, error) {
	pathAddr, err := args.Uint32()
	if err != nil {
		return -1, err
	}
	path, err := env.readString(pathAddr)
	if err != nil {
		return -1, err
	}
	return env.backend.Chdir(path), nil
}

// getpid
func sysGetpid(env *Env, which int32, args *VarArgs) (int32, error) {
	return env.backend.Getpid(), nil
}

// getppid reports the same id as getpid; there is no distinct parent
// tracking.
func sysGetppid(env *Env, which int32, args *VarArgs) (int32, error) {
	return env.backend.Getpid(), nil
}

// rmdir
func sysRmdir(env *Env, which int32, args *VarArgs) (int32, error) {
	pathAddr, err := args.Uint32()
	if err != nil {
		return -1, err
	}
	path, err := env.readString(pathAddr)
	if err != nil {
		return -1, err
	}
	return env.backend.Rmdir(path), nil
}

// lseek reads a 64-bit offset as two argument words but seeks using only the
// low word; the high word is ignored. On success the resulting offset is
// written through the guest result pointer and the return value is 0. On
// host failure the result pointer is left unwritten.
func sysLseek(env *Env, which int32, args *VarArgs) (int32, error) {
	fd, err := args.Int32()
	if err != nil {
		return -1, err
	}
	if err := args.Skip(); err != nil { // offset high word
		return -1, err
	}
	offsetLow, err := args.Int32()
	if err != nil {
		return -1, err
	}
	resultAddr, err := args.Uint32()
	if err != nil {
		return -1, err
	}
	whence, err := args.Int32()
	if err != nil {
		return -1, err
	}

	pos, status := env.backend.Seek(fd, offsetLow, whence)
	if status != 0 {
		return -1, nil
	}
	if err := env.mem.PutUint32(uint32(pos), resultAddr); err != nil {
		return -1, err
	}
	return 0, nil
}

// readv performs a scatter read: each iovec is translated and bounds-checked
// independently, and bytes read accumulate across elements. When an
// element's read fails the call returns -1 and the count accumulated from
// prior elements is discarded, even though their bytes were already copied
// into guest memory. This mirrors the reference behavior and is relied on as
// a documented quirk; do not "fix" it here.
func sysReadv(env *Env, which int32, args *VarArgs) (int32, error) {
	fd, err := args.Int32()
	if err != nil {
		return -1, err
	}
	iov, err := args.Uint32()
	if err != nil {
		return -1, err
	}
	iovcnt, err := args.Int32()
	if err != nil {
		return -1, err
	}

	total := int32(0)
	for i := int32(0); i < iovcnt; i++ {
		desc, err := env.mem.View(iov+uint32(i)*8, 8)
		if err != nil {
			return -1, err
		}
		base := binary.LittleEndian.Uint32(desc)
		length := binary.LittleEndian.Uint32(desc[4:])

		w, err := env.mem.View(base, length)
		if err != nil {
			return -1, err
		}

		n := env.backend.Read(fd, w)
		if n < 0 {
			return -1, nil
		}
		total += n
	}
	return total, nil
}

// getcwd writes the working directory, NUL-terminated, into the guest buffer
// and returns the buffer's address. The size argument is consumed but not
// enforced; the write itself is still bounds-checked against the memory.
func sysGetcwd(env *Env, which int32, args *VarArgs) (int32, error) {
	buf, err := args.Uint32()
	if err != nil {
		return -1, err
	}
	if err := args.Skip(); err != nil { // size, unenforced
		return -1, err
	}

	wd, status := env.backend.Getcwd()
	if status != 0 {
		return -1, nil
	}

	w, err := env.mem.View(buf, uint32(len(wd))+1)
	if err != nil {
		return -1, err
	}
	copy(w, wd)
	w[len(wd)] = 0
	return int32(buf), nil
}

// mmap2 supports anonymous mappings only. The memory comes from the guest's
// own allocator: memalign for the block, memset to zero it. Any file-backed
// request fails.
func sysMmap2(env *Env, which int32, args *VarArgs) (int32, error) {
	if err := args.Skip(); err != nil { // addr hint
		return -1, err
	}
	length, err := args.Uint32()
	if err != nil {
		return -1, err
	}
	if err := args.Skip(); err != nil { // prot
		return -1, err
	}
	if err := args.Skip(); err != nil { // flags
		return -1, err
	}
	fd, err := args.Int32()
	if err != nil {
		return -1, err
	}
	if err := args.Skip(); err != nil { // offset
		return -1, err
	}

	if fd != -1 {
		return -1, nil
	}

	ptr, err := env.callMemalign(16384, length)
	if err != nil {
		return -1, err
	}
	if ptr == 0 {
		return -1, nil
	}
	if err := env.callMemset(ptr, 0, length); err != nil {
		return -1, err
	}
	return int32(ptr), nil
}

// stat64
func sysStat64(env *Env, which int32, args *VarArgs) (int32, error) {
	pathAddr, err := args.Uint32()
	if err != nil {
		return -1, err
	}
	buf, err := args.Uint32()
	if err != nil {
		return -1, err
	}

	path, err := env.readString(pathAddr)
	if err != nil {
		return -1, err
	}

	st, status := env.backend.Stat(path)
	if status != 0 {
		return status, nil
	}
	if err := writeStat(env.mem, buf, &st); err != nil {
		return -1, err
	}
	return 0, nil
}

// fstat64
func sysFstat64(env *Env, which int32, args *VarArgs) (int32, error) {
	fd, err := args.Int32()
	if err != nil {
		return -1, err
	}
	buf, err := args.Uint32()
	if err != nil {
		return -1, err
	}

	st, status := env.backend.Fstat(fd)
	if status != 0 {
		return status, nil
	}
	if err := writeStat(env.mem, buf, &st); err != nil {
		return -1, err
	}
	return 0, nil
}

// fcntl64 emulates the close-on-exec query and pretends file locking worked;
// every other command fails, independent of the descriptor.
func sysFcntl64(env *Env, which int32, args *VarArgs) (int32, error) {
	if err := args.Skip(); err != nil { // fd
		return -1, err
	}
	cmd, err := args.Uint32()
	if err != nil {
		return -1, err
	}

	switch cmd {
	case 2:
		return 0, nil
	case 13, 14:
		return 0, nil
	default:
		return -1, nil
	}
}

// prlimit64 never applies limits. When asked to report the old limit it
// writes four -1 words (RLIM_INFINITY) regardless of the resource or pid.
func sysPrlimit64(env *Env, which int32, args *VarArgs) (int32, error) {
	if err := args.Skip(); err != nil { // pid
		return -1, err
	}
	if err := args.Skip(); err != nil { // resource
		return -1, err
	}
	if err := args.Skip(); err != nil { // new limit
		return -1, err
	}
	oldLimit, err := args.Uint32()
	if err != nil {
		return -1, err
	}

	if oldLimit != 0 {
		w, err := env.mem.View(oldLimit, 16)
		if err != nil {
			return -1, err
		}
		for i := 0; i < 16; i += 4 {
			binary.LittleEndian.PutUint32(w[i:], 0xffffffff)
		}
	}
	return 0, nil
}

func sysStub(env *Env, which int32, args *VarArgs) (int32, error) {
	env.logger.Debug("unimplemented syscall", zap.Int32("syscall", which))
	return -1, nil
}

// A TableEntry describes one dispatch table entry.
type TableEntry struct {
	Num    int32  `csv:"syscall" json:"syscall"`
	Name   string `csv:"name" json:"name"`
	Import string `csv:"import" json:"import"`
	Stub   bool   `csv:"stub" json:"stub"`
}

// Table returns the dispatch table sorted by syscall number.
func Table() []TableEntry {
	entries := make([]TableEntry, 0, len(syscallTable))
	for num, entry := range syscallTable {
		entries = append(entries, TableEntry{
			Num:    num,
			Name:   entry.name,
			Import: ImportName(num),
			Stub:   entry.stub,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Num < entries[j].Num })
	return entries
}
