package emscripten

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wasmkit/emsys/exec"
)

// Handlers are registered under the guest C library's import naming scheme:
// syscall N is importable as "___syscallN" with signature
// (which i32, varargs i32) -> i32.
const importPrefix = "___syscall"

// ImportName returns the import name under which syscall num is registered.
func ImportName(num int32) string {
	return importPrefix + strconv.Itoa(int(num))
}

func parseImportName(name string) (int32, bool) {
	if !strings.HasPrefix(name, importPrefix) {
		return 0, false
	}
	num, err := strconv.ParseInt(name[len(importPrefix):], 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(num), true
}

// GetFunction resolves an import name to a callable handler bound to this
// context. Names outside the syscall namespace fail with
// exec.ErrFunctionNotFound; well-formed names whose number has no dispatch
// entry fail with ErrUnknownSyscall.
func (env *Env) GetFunction(name string) (exec.Function, error) {
	num, ok := parseImportName(name)
	if !ok {
		return nil, exec.ErrFunctionNotFound
	}
	if _, ok := syscallTable[num]; !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownSyscall, num)
	}
	return &syscallFunction{env: env, num: num}, nil
}

// ResolveFunction implements exec.FunctionResolver so an Env can be linked
// directly as an import source by the embedding engine.
func (env *Env) ResolveFunction(name string) (exec.Function, error) {
	return env.GetFunction(name)
}

type syscallFunction struct {
	env *Env
	num int32
}

// Call implements exec.Function. Arguments are (which, varargs).
func (f *syscallFunction) Call(args ...uint64) ([]uint64, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 arguments; got %d", ImportName(f.num), len(args))
	}
	ret, err := f.env.Invoke(f.num, int32(uint32(args[0])), uint32(args[1]))
	if err != nil {
		return nil, err
	}
	return []uint64{uint64(uint32(ret))}, nil
}
