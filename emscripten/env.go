package emscripten

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/wasmkit/emsys/exec"
)

// Guest export names for the allocator helpers the anonymous-mmap handler
// calls back into.
const (
	memalignExport = "_memalign"
	memsetExport   = "_memset"
)

// Options configures an Env.
type Options struct {
	// Backend supplies the host primitives. Defaults to the host OS backend.
	Backend Backend

	// Logger receives stub and unknown-syscall diagnostics. Defaults to a
	// no-op logger.
	Logger *zap.Logger

	// Tracer, when non-nil, records every dispatched syscall.
	Tracer *Tracer
}

// Env is the execution context the syscall handlers run against. It owns no
// state of its own beyond the injected backend: handlers are pure functions
// of (env, number, cursor) plus host OS state and the guest memory.
type Env struct {
	mem      *exec.Memory
	memalign exec.Function
	memset   exec.Function

	backend Backend
	logger  *zap.Logger
	tracer  *Tracer
}

// NewEnv creates an execution context over the given guest memory and guest
// helper functions. memalign and memset may be nil if the guest exposes no
// allocator; the anonymous-mmap handler then fails with -1.
func NewEnv(mem *exec.Memory, memalign, memset exec.Function, opts *Options) *Env {
	env := &Env{
		mem:      mem,
		memalign: memalign,
		memset:   memset,
	}
	if opts != nil {
		env.backend = opts.Backend
		env.logger = opts.Logger
		env.tracer = opts.Tracer
	}
	if env.backend == nil {
		env.backend = NewHostBackend()
	}
	if env.logger == nil {
		env.logger = zap.NewNop()
	}
	return env
}

// Instantiate creates an Env whose memory and allocator helpers are resolved
// from the guest module's exports.
func Instantiate(mem *exec.Memory, exports exec.FunctionResolver, opts *Options) (*Env, error) {
	memalign, err := exports.ResolveFunction(memalignExport)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", memalignExport, err)
	}
	memset, err := exports.ResolveFunction(memsetExport)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", memsetExport, err)
	}
	return NewEnv(mem, memalign, memset, opts), nil
}

// Memory returns the guest memory this context translates against.
func (env *Env) Memory() *exec.Memory {
	return env.mem
}

// callMemalign asks the guest allocator for size bytes at the given
// alignment and returns the allocated guest address, or 0 on failure.
func (env *Env) callMemalign(align, size uint32) (uint32, error) {
	if env.memalign == nil {
		return 0, nil
	}
	rets, err := env.memalign.Call(uint64(align), uint64(size))
	if err != nil {
		return 0, err
	}
	if len(rets) != 1 {
		return 0, fmt.Errorf("%s returned %d values; expected 1", memalignExport, len(rets))
	}
	return uint32(rets[0]), nil
}

// callMemset fills size bytes at ptr with value using the guest's memset.
func (env *Env) callMemset(ptr uint32, value byte, size uint32) error {
	if env.memset == nil {
		return nil
	}
	_, err := env.memset.Call(uint64(ptr), uint64(value), uint64(size))
	return err
}

// readString reads the NUL-terminated string at addr. A string that starts
// outside the memory or runs off its end is a bounds violation.
func (env *Env) readString(addr uint32) (string, error) {
	mem := env.mem.Bytes()
	if uint64(addr) >= uint64(len(mem)) {
		return "", exec.TrapOutOfBoundsMemoryAccess
	}
	i := bytes.IndexByte(mem[addr:], 0)
	if i < 0 {
		return "", exec.TrapOutOfBoundsMemoryAccess
	}
	return string(mem[addr : addr+uint32(i)]), nil
}
