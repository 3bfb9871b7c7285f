package vm

import (
	"fmt"
	"io"
	"log"
	"os"
)

const (
	TRACE_STACK_LIMIT = 10 // Max stack values carried in a trace event.
)

// TraceEvent is a read-only snapshot emitted before each instruction
// when tracing is enabled.
type TraceEvent struct {
	Pc    int
	Inst  Instruction
	Stack []int32 // Top values, deepest first, at most TRACE_STACK_LIMIT.
}

// Machine is the stack machine interpreter. Each machine owns an
// independent stack, program and counters; the registry may be shared.
type Machine struct {
	Verbose bool             // If set, verbosely logs each dispatch.
	Output  io.Writer        // PRINT destination. Defaults to stdout.
	Tracer  func(TraceEvent) // If set, receives a snapshot per instruction.
	Resume  <-chan bool      // If set, execution suspends between instructions.

	Stack   Stack
	Program Program
	Pc      int // Address of the next instruction to fetch.

	Running   bool
	Cancelled bool // Set when a run was interrupted rather than completed.

	Instructions int // Instructions dispatched since Load.
	Cycles       int // Simulated cycles, weighted by opcode cost.

	registry *Registry
}

// NewMachine creates a machine dispatching through the given registry.
func NewMachine(reg *Registry) *Machine {
	return &Machine{
		registry: reg,
	}
}

// Registry returns the opcode registry the machine dispatches through.
func (m *Machine) Registry() *Registry {
	return m.registry
}

// Load installs a program and resets all execution state.
func (m *Machine) Load(prog Program) {
	m.Program = prog
	m.Pc = 0
	m.Running = false
	m.Cancelled = false
	m.Stack.Reset()
	m.Instructions = 0
	m.Cycles = 0
}

// Stats returns the instruction and weighted cycle counts of the most
// recent run.
func (m *Machine) Stats() (instructions, cycles int) {
	return m.Instructions, m.Cycles
}

// Print emits a value on the machine's output.
func (m *Machine) Print(value int32) {
	out := m.Output
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "%d\n", value)
}

// Execute runs the loaded program to completion. The run ends normally
// when the program counter leaves the program or a HALT executes; an
// execution failure returns an ErrRuntime with the machine frozen at
// the failing instruction.
func (m *Machine) Execute() (err error) {
	m.Running = true
	m.Cancelled = false
	m.Pc = 0
	m.Instructions = 0
	m.Cycles = 0

	for m.Running && m.Pc >= 0 && m.Pc < len(m.Program) {
		inst := m.Program[m.Pc]

		if m.Tracer != nil {
			m.Tracer(TraceEvent{
				Pc:    m.Pc,
				Inst:  inst,
				Stack: m.traceStack(),
			})
		}

		if m.Resume != nil {
			// Cooperative suspension point. A refused or closed
			// resume channel cancels the run like a HALT.
			cont, ok := <-m.Resume
			if !ok || !cont {
				m.Running = false
				m.Cancelled = true
				return nil
			}
		}

		if m.Verbose {
			log.Printf("vm: %3d: %v", m.Pc, inst)
		}

		var next int
		next, err = m.step(inst)
		if err != nil {
			m.Running = false
			return ErrRuntime{Pc: m.Pc, Inst: inst, Err: err}
		}

		m.Pc = next
	}

	m.Running = false

	return nil
}

// traceStack snapshots the top of the stack, deepest first.
func (m *Machine) traceStack() (values []int32) {
	data := m.Stack.Data
	if len(data) > TRACE_STACK_LIMIT {
		data = data[len(data)-TRACE_STACK_LIMIT:]
	}
	values = make([]int32, len(data))
	copy(values, data)

	return
}

// step dispatches a single instruction and returns the next program
// counter. A taken jump sets the next address directly; every other
// instruction advances by one.
func (m *Machine) step(inst Instruction) (next int, err error) {
	info, err := m.registry.LookupName(inst.Opcode)
	if err != nil {
		return
	}

	m.Instructions += 1
	m.Cycles += info.Cost

	next = m.Pc + 1

	switch inst.Opcode {
	case "PUSH":
		m.Stack.Push(inst.Operand)

	case "POP":
		_, err = m.Stack.Pop()

	case "ADD", "SUB", "MUL", "DIV":
		var a, b int32
		b, err = m.Stack.Pop()
		if err != nil {
			return
		}
		a, err = m.Stack.Pop()
		if err != nil {
			return
		}
		switch inst.Opcode {
		case "ADD":
			m.Stack.Push(a + b)
		case "SUB":
			m.Stack.Push(a - b)
		case "MUL":
			m.Stack.Push(a * b)
		case "DIV":
			if b == 0 {
				err = ErrDivisionByZero
				return
			}
			m.Stack.Push(floorDiv(a, b))
		}

	case "DUP":
		var value int32
		value, err = m.Stack.Peek()
		if err != nil {
			return
		}
		m.Stack.Push(value)

	case "SWAP":
		var a, b int32
		b, err = m.Stack.Pop()
		if err != nil {
			return
		}
		a, err = m.Stack.Pop()
		if err != nil {
			return
		}
		m.Stack.Push(b)
		m.Stack.Push(a)

	case "PRINT":
		var value int32
		value, err = m.Stack.Pop()
		if err != nil {
			return
		}
		m.Print(value)

	case "JUMP":
		next = int(inst.Operand)

	case "JZ":
		var value int32
		value, err = m.Stack.Pop()
		if err != nil {
			return
		}
		if value == 0 {
			next = int(inst.Operand)
		}

	case "HALT":
		m.Running = false

	default:
		// Anything else resolved by the registry is an extension.
		if info.Execute == nil {
			err = ErrUnknownOpcode{Name: inst.Opcode, Suggestions: m.registry.Suggest(inst.Opcode)}
			return
		}
		err = info.Execute(m, inst.Operand, inst.HasOperand)
	}

	return
}

// floorDiv divides with the quotient rounded toward negative infinity.
func floorDiv(a, b int32) (q int32) {
	q = a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q -= 1
	}
	return
}

// FloorMod reduces a modulo b with the result sign following the
// divisor. Shared with extension opcodes that need the same semantics.
func FloorMod(a, b int32) (r int32) {
	r = a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return
}
