package vm

import "fmt"

// State is the machine's lifecycle state.
type State int

const (
	// Running is the only state in which Run advances execution.
	Running State = iota
	// Halted is a terminal state reached by the HALT opcode.
	Halted
	// Faulted is a terminal state reached by any fault condition.
	Faulted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// VM is one instance of the um32 machine. The zero value is not usable;
// use New. VM is not safe for concurrent use — the run loop is the only
// locus of control, by design (spec.md §5).
type VM struct {
	regs  Registers
	heap  *Heap
	io    *IOPort
	pc    uint32
	state State
	fault error
}

// New creates a machine with code loaded into array 0, registers zeroed,
// and the counter at 0.
func New(code []uint32, io *IOPort) *VM {
	return &VM{
		heap: NewHeap(code),
		io:   io,
	}
}

// State reports the machine's current lifecycle state.
func (m *VM) State() State { return m.state }

// Snapshot is a read-only view of machine state for introspection after
// Run returns — for example by a test asserting on final register or
// program-counter contents. It has no effect on execution.
type Snapshot struct {
	Registers   Registers
	PC          uint32
	State       State
	CodeLength  uint32
	Fault       error
}

// Snapshot captures the machine's current state.
func (m *VM) Snapshot() Snapshot {
	codeLen, _ := m.heap.Length(CodeArray)
	return Snapshot{
		Registers:  m.regs,
		PC:         m.pc,
		State:      m.state,
		CodeLength: codeLen,
		Fault:      m.fault,
	}
}

// Run executes instructions until the machine halts or faults. It always
// flushes the I/O port before returning, preserving any output written
// before a fault. A nil return means a clean HALT. If the machine
// faulted, the fault is returned and is classified with errors.Is
// against the sentinels in faults.go; if it halted but the final flush
// failed, the flush error is returned and the state stays Halted.
func (m *VM) Run() error {
	m.state = Running
	for m.state == Running {
		word, err := m.Fetch()
		if err != nil {
			m.fail(err)
			break
		}
		if err := m.Execute(word); err != nil {
			if err == ErrHalted {
				m.state = Halted
				break
			}
			m.fail(err)
			break
		}
	}
	flushErr := m.io.Flush()
	if m.state == Faulted {
		return m.fault
	}
	return flushErr
}

func (m *VM) fail(err error) {
	m.state = Faulted
	m.fault = err
}

// Fetch reads the word at the program counter and advances the counter
// by one. It faults if the counter falls outside array 0.
func (m *VM) Fetch() (uint32, error) {
	codeLen, _ := m.heap.Length(CodeArray)
	if m.pc >= codeLen {
		return 0, fmt.Errorf("%w: pc %d, length %d", ErrPCOutOfBounds, m.pc, codeLen)
	}
	word, err := m.heap.Read(CodeArray, m.pc)
	if err != nil {
		return 0, err
	}
	m.pc++
	return word, nil
}

// Execute decodes and dispatches a single instruction word. It returns
// ErrHalted on HALT, nil on any other successfully-dispatched
// instruction, or a wrapped fault sentinel.
func (m *VM) Execute(word uint32) error {
	op, err := Decode(word)
	if err != nil {
		return err
	}
	switch op.Opcode {
	case OpConditionalMove:
		if m.regs[op.C] != 0 {
			m.regs[op.A] = m.regs[op.B]
		}
	case OpArrayIndex:
		v, err := m.heap.Read(m.regs[op.B], m.regs[op.C])
		if err != nil {
			return err
		}
		m.regs[op.A] = v
	case OpArrayUpdate:
		if err := m.heap.Write(m.regs[op.A], m.regs[op.B], m.regs[op.C]); err != nil {
			return err
		}
	case OpAddition:
		m.regs[op.A] = m.regs[op.B] + m.regs[op.C]
	case OpMultiplication:
		m.regs[op.A] = m.regs[op.B] * m.regs[op.C]
	case OpDivision:
		if m.regs[op.C] == 0 {
			return ErrDivisionByZero
		}
		m.regs[op.A] = m.regs[op.B] / m.regs[op.C]
	case OpNAND:
		m.regs[op.A] = ^(m.regs[op.B] & m.regs[op.C])
	case OpHalt:
		return ErrHalted
	case OpAllocation:
		id, err := m.heap.Alloc(m.regs[op.C])
		if err != nil {
			return err
		}
		m.regs[op.B] = id
	case OpDeallocation:
		if err := m.heap.Free(m.regs[op.C]); err != nil {
			return err
		}
	case OpOutput:
		if err := m.io.Output(m.regs[op.C]); err != nil {
			return err
		}
	case OpInput:
		v, err := m.io.Input()
		if err != nil {
			return err
		}
		m.regs[op.C] = v
	case OpLoadProgram:
		if m.regs[op.B] != CodeArray {
			if err := m.heap.DuplicateIntoZero(m.regs[op.B]); err != nil {
				return err
			}
		}
		m.pc = m.regs[op.C]
	case OpLoadImmediate:
		m.regs[op.A] = op.Imm
	default:
		return fmt.Errorf("%w: %d", ErrInvalidOpcode, op.Opcode)
	}
	return nil
}
