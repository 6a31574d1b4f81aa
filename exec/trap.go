package exec

// A Trap represents a WASM trap.
type Trap string

func (t Trap) Error() string {
	return string(t)
}

// TrapGeneric is produced for failures with no associated information.
var TrapGeneric = Trap("")

// TrapOutOfBoundsMemoryAccess indicates an out-of-bounds memory access.
var TrapOutOfBoundsMemoryAccess = Trap("out of bounds memory access")

// TrapCallStackExhausted indicates call stack exhaustion.
var TrapCallStackExhausted = Trap("call stack exhausted")

// TrapUnreachable indicates execution of unreachable code.
var TrapUnreachable = Trap("unreachable")
