// Package vm implements the stack machine and its toolchain core.
//
// The machine is a sequential interpreter over a fixed instruction
// sequence: a LIFO stack of signed 32-bit integers, a program counter,
// and an opcode registry that merges the twelve base instructions with
// dynamically registered extension opcodes.
//
// The package also provides the two-pass assembler (labels, comments,
// compile-time expressions), the STKM bytecode codec, and the
// disassembler that reverses it.
package vm
