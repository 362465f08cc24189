package vm

import "errors"

// The following sentinel errors classify every way the machine can stop.
// Call sites with context to add wrap them via fmt.Errorf("%w: ...",
// sentinel), others return them bare, and Run returns the fault as it
// received it; callers recover the classification with errors.Is, the
// same idiom the teacher VM uses for its own ErrHalted/ErrSIGSEGV family.
var (
	// ErrHalted is not a fault: it is the sentinel HALT uses to unwind
	// the run loop cleanly.
	ErrHalted = errors.New("vm: halted")

	// ErrInvalidOpcode means the top 4 bits of an instruction word did
	// not name one of the 14 defined opcodes.
	ErrInvalidOpcode = errors.New("vm: invalid opcode")

	// ErrArrayAbsent means an operation referenced an array identifier
	// that is not currently live.
	ErrArrayAbsent = errors.New("vm: array identifier not live")

	// ErrArrayBounds means an index/update offset was at or beyond the
	// length of the target array.
	ErrArrayBounds = errors.New("vm: array offset out of bounds")

	// ErrDivisionByZero means DIVISION was attempted with a zero divisor.
	ErrDivisionByZero = errors.New("vm: division by zero")

	// ErrBadOutputValue means OUTPUT was given an operand outside 0..255.
	ErrBadOutputValue = errors.New("vm: output value out of range")

	// ErrDeallocationForbidden means DEALLOCATION targeted array
	// identifier 0, which must remain live for the lifetime of the
	// machine.
	ErrDeallocationForbidden = errors.New("vm: deallocation of array 0")

	// ErrAllocExhausted means ALLOCATION could not find any free
	// identifier in the bounded identifier space.
	ErrAllocExhausted = errors.New("vm: array identifier space exhausted")

	// ErrPCOutOfBounds means the program counter fell outside array 0
	// at the start of a fetch.
	ErrPCOutOfBounds = errors.New("vm: program counter out of bounds")
)
