package vm

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds surfaced to the hypervisor. Static cases are package-level
// sentinels; cases that carry data are their own types so callers can
// errors.As() them after pkg/errors has wrapped the call site.
var (
	// ErrOutOfMemory: mount cannot fit the image in the machine's capacity.
	ErrOutOfMemory = errors.New("anyvm: image does not fit machine memory")
	// ErrBadInstruction: the fetched opcode byte is unassigned.
	ErrBadInstruction = errors.New("anyvm: unknown opcode")
	// ErrDivideByZero: a div[l,i,s,b] with a zero divisor.
	ErrDivideByZero = errors.New("anyvm: division by zero")
	// ErrStdabiTestFailure: the stdabi conformance table's stest callable
	// observed the wrong string.
	ErrStdabiTestFailure = errors.New("anyvm: stdabi test failure")
	// ErrHostTableNotFound: dock named a table no one has Register()ed.
	ErrHostTableNotFound = errors.New("anyvm: no host table registered under that name")
	// ErrHostFunctionNotFound: loadfun named a callable the docked table
	// doesn't expose.
	ErrHostFunctionNotFound = errors.New("anyvm: host table has no such function")
)

// SegfaultError is returned whenever translate() rejects an address, or an
// instruction dereferences a rabbit handle as if it were a memory address.
type SegfaultError struct {
	Addr int64
}

func (e *SegfaultError) Error() string {
	return fmt.Sprintf("anyvm: segmentation fault at address %d", e.Addr)
}

// UncaughtThrowError is returned when throw executes with no active sbm
// handler (sbm == (0,0)).
type UncaughtThrowError struct {
	Code byte
}

func (e *UncaughtThrowError) Error() string {
	return fmt.Sprintf("anyvm: uncaught throw, code %d", e.Code)
}

// StringProcessingError is returned when a host-facing C string can't be
// read: unterminated within the machine's memory, or not valid UTF-8.
type StringProcessingError struct {
	Addr int64
}

func (e *StringProcessingError) Error() string {
	return fmt.Sprintf("anyvm: malformed host string at address %d", e.Addr)
}

// segfault is a small helper so call sites read naturally:
// return 0, segfault(addr)
func segfault(addr int64) error {
	return errors.WithStack(&SegfaultError{Addr: addr})
}
