package emscripten

import (
	"encoding/binary"

	"github.com/wasmkit/emsys/exec"
)

// VarArgs reads a syscall's packed argument block out of guest memory.
//
// Arguments are packed as consecutive little-endian words starting at the
// address the cursor is anchored to. Every read decodes one word and advances
// the cursor by a fixed 4-byte slot regardless of the logical width of the
// value: 64-bit quantities are split across two consecutive word reads where
// a syscall's ABI defines them that way. Reads are strictly sequential and
// cannot be undone. A VarArgs is created per invocation and must not outlive
// the handler it was created for.
type VarArgs struct {
	mem    *exec.Memory
	cursor uint32
}

// NewVarArgs returns a cursor anchored at the given guest address.
func NewVarArgs(mem *exec.Memory, addr uint32) *VarArgs {
	return &VarArgs{mem: mem, cursor: addr}
}

// Cursor returns the guest address of the next unread argument slot.
func (va *VarArgs) Cursor() uint32 {
	return va.cursor
}

func (va *VarArgs) word() (uint32, error) {
	w, err := va.mem.View(va.cursor, 4)
	if err != nil {
		return 0, err
	}
	va.cursor += 4
	return binary.LittleEndian.Uint32(w), nil
}

// Int32 reads the next argument word as a signed 32-bit integer.
func (va *VarArgs) Int32() (int32, error) {
	v, err := va.word()
	return int32(v), err
}

// Uint32 reads the next argument word as an unsigned 32-bit integer.
func (va *VarArgs) Uint32() (uint32, error) {
	return va.word()
}

// Skip discards the next argument word.
func (va *VarArgs) Skip() error {
	_, err := va.word()
	return err
}
