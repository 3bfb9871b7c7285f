package vm

// Base opcode numbers. These are fixed by the bytecode format and can
// never be reassigned by extensions.
const (
	OP_PUSH  = byte(0x01)
	OP_POP   = byte(0x02)
	OP_ADD   = byte(0x03)
	OP_SUB   = byte(0x04)
	OP_MUL   = byte(0x05)
	OP_DIV   = byte(0x06)
	OP_DUP   = byte(0x07)
	OP_SWAP  = byte(0x08)
	OP_PRINT = byte(0x09)
	OP_JUMP  = byte(0x0A)
	OP_JZ    = byte(0x0B)
	OP_HALT  = byte(0xFF)
)

// ExtensionFunc is the execution behavior of an extension opcode.
// The operand is meaningful only when hasOperand is set.
type ExtensionFunc func(m *Machine, operand int32, hasOperand bool) error

// OpcodeInfo is a single registry entry. Execute is nil for the base
// instruction set, which the machine dispatches directly.
type OpcodeInfo struct {
	Name       string
	Code       byte
	HasOperand bool
	Cost       int // simulated cycles per execution
	Execute    ExtensionFunc
}

// The fixed base instruction set. MUL, DIV, control flow and I/O carry
// higher simulated cycle costs than plain stack traffic.
var baseOpcodes = []OpcodeInfo{
	{Name: "PUSH", Code: OP_PUSH, HasOperand: true, Cost: 1},
	{Name: "POP", Code: OP_POP, Cost: 1},
	{Name: "ADD", Code: OP_ADD, Cost: 1},
	{Name: "SUB", Code: OP_SUB, Cost: 1},
	{Name: "MUL", Code: OP_MUL, Cost: 3},
	{Name: "DIV", Code: OP_DIV, Cost: 10},
	{Name: "DUP", Code: OP_DUP, Cost: 1},
	{Name: "SWAP", Code: OP_SWAP, Cost: 1},
	{Name: "PRINT", Code: OP_PRINT, Cost: 5},
	{Name: "JUMP", Code: OP_JUMP, HasOperand: true, Cost: 2},
	{Name: "JZ", Code: OP_JZ, HasOperand: true, Cost: 2},
	{Name: "HALT", Code: OP_HALT, Cost: 1},
}
