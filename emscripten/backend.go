package emscripten

// A Backend provides the host primitives the syscall handlers are built on.
// One implementation forwards to the host OS; the in-memory FS implements the
// same contract as a filesystem overlay. A backend is selected when the Env
// is constructed and injected into the dispatch layer.
//
// Status results follow the host call convention: 0 on success, -1 on
// failure. Failures carry no errno side channel; handlers propagate the raw
// status to the guest unchanged.
type Backend interface {
	// Getpid returns the process id reported to the guest.
	Getpid() int32

	// Chdir changes the working directory.
	Chdir(path string) int32

	// Getcwd returns the working directory and a status.
	Getcwd() (string, int32)

	// Rmdir removes the directory at path.
	Rmdir(path string) int32

	// Seek repositions the descriptor's offset per whence and returns the
	// resulting offset and a status.
	Seek(fd, offset, whence int32) (int32, int32)

	// Read reads into p from the descriptor, returning the number of bytes
	// read or -1.
	Read(fd int32, p []byte) int32

	// Stat stats the file at path.
	Stat(path string) (FileStat, int32)

	// Fstat stats the open descriptor.
	Fstat(fd int32) (FileStat, int32)
}
