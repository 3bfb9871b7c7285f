package vm

import (
	"fmt"
	"strings"
)

// AnnotateMode selects how much detail the disassembler appends to each
// rendered instruction.
type AnnotateMode int

const (
	ANNOTATE_NONE      = AnnotateMode(0) // Bare instructions.
	ANNOTATE_ADDRESSES = AnnotateMode(1) // Append file byte offsets.
	ANNOTATE_VERBOSE   = AnnotateMode(2) // Append offsets, raw bytes and opcode hex.
)

// Disassembler reconstructs source text from bytecode. Only symbolic
// opcode names survive a round trip; label spellings do not.
type Disassembler struct {
	Registry *Registry
}

// Disassemble decodes bytecode and renders it as assemblable source.
// The source argument names the input in the generated header comment.
func (d *Disassembler) Disassemble(data []byte, source string, mode AnnotateMode) (text string, err error) {
	codec := &Codec{Registry: d.Registry}
	prog, err := codec.Decode(data)
	if err != nil {
		return
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# Disassembled from %v\n", source)
	fmt.Fprintf(&out, "# %d instructions\n", len(prog))
	out.WriteString("\n")

	for n, inst := range prog {
		line := inst.String()
		offset := HEADER_SIZE + n*INSTRUCTION_SIZE

		switch mode {
		case ANNOTATE_ADDRESSES:
			line = fmt.Sprintf("%-20s # @0x%04x", line, offset)
		case ANNOTATE_VERBOSE:
			record := data[offset : offset+INSTRUCTION_SIZE]
			raw := make([]string, len(record))
			for i, b := range record {
				raw[i] = fmt.Sprintf("%02x", b)
			}
			line = fmt.Sprintf("%-20s # @0x%04x: %v (op=0x%02x)",
				line, offset, strings.Join(raw, " "), record[0])
		}

		out.WriteString(line)
		out.WriteString("\n")
	}

	text = out.String()

	return
}
