package vm

import (
	"bytes"
	"encoding/binary"
)

// Magic identifies a stack machine bytecode file.
var Magic = [4]byte{'S', 'T', 'K', 'M'}

const (
	FORMAT_VERSION   = byte(1) // Current bytecode format version.
	HEADER_SIZE      = 9       // Magic(4) + Version(1) + Count(4).
	INSTRUCTION_SIZE = 5       // Opcode(1) + Operand(4).
)

// Codec serializes programs to and from the STKM binary format:
// header, then one fixed 5-byte record per instruction with the opcode
// number and the little-endian signed operand (0 when absent).
type Codec struct {
	Registry *Registry
}

// Encode serializes a program to bytecode.
func (c *Codec) Encode(prog Program) (data []byte, err error) {
	var buf bytes.Buffer

	buf.Write(Magic[:])
	buf.WriteByte(FORMAT_VERSION)

	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(prog)))
	buf.Write(count[:])

	for _, inst := range prog {
		var info *OpcodeInfo
		info, err = c.Registry.LookupName(inst.Opcode)
		if err != nil {
			return nil, err
		}

		var record [INSTRUCTION_SIZE]byte
		record[0] = info.Code
		// An absent operand is stored as the literal value 0.
		binary.LittleEndian.PutUint32(record[1:], uint32(inst.Operand))
		buf.Write(record[:])
	}

	return buf.Bytes(), nil
}

// Decode deserializes bytecode into a program. The record count in the
// header must exactly match the bytes present.
func (c *Codec) Decode(data []byte) (prog Program, err error) {
	if len(data) < HEADER_SIZE {
		return nil, ErrTruncated
	}
	if !bytes.Equal(data[:4], Magic[:]) {
		return nil, ErrBadMagic(data[:4])
	}
	if data[4] != FORMAT_VERSION {
		return nil, ErrBadVersion(data[4])
	}

	count := int(binary.LittleEndian.Uint32(data[5:9]))
	body := data[HEADER_SIZE:]
	if len(body) < count*INSTRUCTION_SIZE {
		return nil, ErrTruncated
	}
	if len(body) > count*INSTRUCTION_SIZE {
		return nil, ErrTrailingBytes
	}

	prog = make(Program, 0, count)
	for n := 0; n < count; n++ {
		record := body[n*INSTRUCTION_SIZE:]

		var info *OpcodeInfo
		info, err = c.Registry.LookupCode(record[0])
		if err != nil {
			return nil, err
		}

		operand := int32(binary.LittleEndian.Uint32(record[1:INSTRUCTION_SIZE]))

		// Operand presence is re-derived from the opcode's flag, not
		// from the stored value: a stored 0 on an operand-bearing
		// opcode is a real operand.
		inst := Instruction{
			Opcode:     info.Name,
			Operand:    operand,
			HasOperand: info.HasOperand || operand != 0,
		}

		prog = append(prog, inst)
	}

	return
}
