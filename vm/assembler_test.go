package vm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, lines ...string) (Program, error) {
	t.Helper()

	asm := &Assembler{Registry: NewRegistry()}
	return asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
}

func TestAssembler_Empty(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t)
	assert.NoError(err)
	assert.Equal(0, len(prog))
}

func TestAssembler_Simple(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"# add two numbers",
		"PUSH 5",
		"PUSH 3",
		"ADD     # inline comment",
		"",
		"PRINT",
		"HALT",
	)
	assert.NoError(err)

	expected := Program{
		MakeInstOp("PUSH", 5),
		MakeInstOp("PUSH", 3),
		MakeInst("ADD"),
		MakeInst("PRINT"),
		MakeInst("HALT"),
	}
	assert.Equal(expected, prog)
}

func TestAssembler_CaseFolding(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"push 5",
		"Dup",
		"hAlT",
	)
	assert.NoError(err)
	assert.Equal(Program{
		MakeInstOp("PUSH", 5),
		MakeInst("DUP"),
		MakeInst("HALT"),
	}, prog)
}

func TestAssembler_NegativeOperand(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t, "PUSH -42")
	assert.NoError(err)
	assert.Equal(Program{MakeInstOp("PUSH", -42)}, prog)
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"PUSH 5",
		"LOOP:",
		"DUP",
		"PRINT",
		"PUSH 1",
		"SUB",
		"DUP",
		"JZ END",
		"JUMP LOOP",
		"END:",
		"POP",
		"HALT",
	)
	assert.NoError(err)

	// Labels consume no addresses.
	assert.Equal(10, len(prog))
	assert.Equal(MakeInstOp("JZ", 8), prog[6])
	assert.Equal(MakeInstOp("JUMP", 1), prog[7])
}

func TestAssembler_ForwardReference(t *testing.T) {
	assert := assert.New(t)

	// A label referenced before its declaration resolves correctly.
	prog, err := assemble(t,
		"JUMP END",
		"PUSH 1",
		"PRINT",
		"END:",
		"HALT",
	)
	assert.NoError(err)
	assert.Equal(MakeInstOp("JUMP", 3), prog[0])
}

func TestAssembler_NumericJumpTarget(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t, "JUMP 4")
	assert.NoError(err)
	assert.Equal(Program{MakeInstOp("JUMP", 4)}, prog)
}

func TestAssembler_DuplicateLabel(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(t,
		"LOOP:",
		"HALT",
		"LOOP:",
	)
	var dup ErrDuplicateLabel
	assert.ErrorAs(err, &dup)
	assert.Equal("LOOP", string(dup))

	var syntax ErrSyntax
	assert.ErrorAs(err, &syntax)
	assert.Equal(3, syntax.LineNo)
}

func TestAssembler_EmptyLabelName(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(t, "  :")
	assert.ErrorIs(err, ErrEmptyLabelName)
}

func TestAssembler_UndefinedLabel(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(t, "JUMP NOWHERE")
	var undef ErrUndefinedLabel
	assert.ErrorAs(err, &undef)
	assert.Equal("NOWHERE", string(undef))
}

func TestAssembler_UnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(t,
		"PUSH 1",
		"ADDD",
	)
	assert.ErrorIs(err, ErrUnknownOpcode{})

	var unknown ErrUnknownOpcode
	assert.ErrorAs(err, &unknown)
	assert.NotEmpty(unknown.Suggestions)
	assert.Contains(unknown.Suggestions, "ADD")

	var syntax ErrSyntax
	assert.ErrorAs(err, &syntax)
	assert.Equal(2, syntax.LineNo)
}

func TestAssembler_InvalidOperand(t *testing.T) {
	assert := assert.New(t)

	// Only JUMP/JZ operands may be labels.
	_, err := assemble(t, "PUSH abc")
	assert.ErrorIs(err, ErrInvalidOperand(""))

	var syntax ErrSyntax
	assert.ErrorAs(err, &syntax)
	assert.Equal(1, syntax.LineNo)

	_, err = assemble(t, "PUSH 1 2")
	assert.ErrorIs(err, ErrInvalidOperand(""))
}

func TestAssembler_ParenExpression(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"PUSH $(2 + 3 * 4)",
		"PUSH $((1 << 8) - 1)",
	)
	assert.NoError(err)
	assert.Equal(Program{
		MakeInstOp("PUSH", 14),
		MakeInstOp("PUSH", 255),
	}, prog)
}

func TestAssembler_ParenExpressionInvalid(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(t, "PUSH $(nonsense +)")
	var bad ErrExpression
	assert.ErrorAs(err, &bad)
}

func TestAssembler_ParseFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "prog.txt")
	source := "PUSH 5\nPRINT\nHALT\n"
	assert.NoError(os.WriteFile(path, []byte(source), 0o644))

	asm := &Assembler{Registry: NewRegistry()}
	prog, err := asm.ParseFile(path)
	assert.NoError(err)
	assert.Equal(3, len(prog))
}

func TestAssembler_ParseFile_Missing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{Registry: NewRegistry()}
	_, err := asm.ParseFile(filepath.Join(t.TempDir(), "no-such-file.txt"))

	var source ErrSource
	assert.ErrorAs(err, &source)
	assert.ErrorIs(err, os.ErrNotExist)
}
