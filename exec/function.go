package exec

import "fmt"

var ErrFunctionNotFound = fmt.Errorf("function not found")

// A Function is a callable function. Arguments and results are passed as raw
// 64-bit words using the same packing as the WASM value stack; integer values
// occupy the low bits of their word.
type Function interface {
	// Call invokes the function with the given arguments.
	Call(args ...uint64) ([]uint64, error)
}

// A FunctionResolver resolves exported function names to functions. The
// embedding engine supplies one per instantiated guest module so that host
// modules can call back into guest code.
type FunctionResolver interface {
	// ResolveFunction resolves the given export name to a function.
	ResolveFunction(name string) (Function, error)
}

// A MapResolver is a FunctionResolver that maps export names to functions
// using the contents of a map.
type MapResolver map[string]Function

// ResolveFunction resolves the given export name to a function.
func (r MapResolver) ResolveFunction(name string) (Function, error) {
	f, ok := r[name]
	if !ok {
		return nil, ErrFunctionNotFound
	}
	return f, nil
}
