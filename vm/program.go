package vm

import (
	"fmt"
)

// Instruction is a pair of opcode mnemonic and optional operand.
// HasOperand distinguishes "no operand" from an operand of zero; the
// binary encoding stores both as 0 and decoders re-derive the flag from
// the registry.
type Instruction struct {
	Opcode     string
	Operand    int32
	HasOperand bool
}

// MakeInst creates an operand-less instruction.
func MakeInst(opcode string) Instruction {
	return Instruction{Opcode: opcode}
}

// MakeInstOp creates an instruction carrying an operand.
func MakeInstOp(opcode string, operand int32) Instruction {
	return Instruction{Opcode: opcode, Operand: operand, HasOperand: true}
}

// String returns the assembly language representation of the instruction.
func (in Instruction) String() string {
	if in.HasOperand {
		return fmt.Sprintf("%v %v", in.Opcode, in.Operand)
	}
	return in.Opcode
}

// Program is an ordered sequence of instructions. The index of an
// instruction is its address; the sequence is immutable once loaded.
type Program []Instruction
