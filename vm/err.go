package vm

import (
	"errors"
	"strings"

	"github.com/ezrec/stackmac/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrDivisionByZero = errors.New(f("division by zero"))

	// Assembler errors
	ErrEmptyLabelName = errors.New(f("empty label name"))

	// Codec errors
	ErrTruncated     = errors.New(f("bytecode truncated"))
	ErrTrailingBytes = errors.New(f("trailing bytes after last instruction"))
)

// ErrUnknownOpcode reports an unresolved mnemonic, with up to three
// similarly spelled known opcodes as suggestions.
type ErrUnknownOpcode struct {
	Name        string
	Suggestions []string
}

func (err ErrUnknownOpcode) Error() string {
	if len(err.Suggestions) == 0 {
		return f("unknown opcode '%v'", err.Name)
	}
	return f("unknown opcode '%v' (did you mean %v?)", err.Name,
		strings.Join(err.Suggestions, ", "))
}

func (err ErrUnknownOpcode) Is(target error) (ok bool) {
	_, ok = target.(ErrUnknownOpcode)
	return
}

// ErrUnknownCode reports a numeric opcode with no registry entry.
type ErrUnknownCode byte

func (err ErrUnknownCode) Error() string {
	return f("unknown opcode number 0x%02x", byte(err))
}

func (err ErrUnknownCode) Is(target error) (ok bool) {
	_, ok = target.(ErrUnknownCode)
	return
}

type ErrDuplicateLabel string

func (err ErrDuplicateLabel) Error() string {
	return f("duplicate label '%v'", string(err))
}

type ErrUndefinedLabel string

func (err ErrUndefinedLabel) Error() string {
	return f("undefined label '%v'", string(err))
}

type ErrInvalidOperand string

func (err ErrInvalidOperand) Error() string {
	return f("invalid operand '%v' - must be an integer or label", string(err))
}

func (err ErrInvalidOperand) Is(target error) (ok bool) {
	_, ok = target.(ErrInvalidOperand)
	return
}

type ErrExpression string

func (err ErrExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrBadMagic []byte

func (err ErrBadMagic) Error() string {
	return f("invalid file format: expected %v magic, got %q", string(Magic[:]), []byte(err))
}

func (err ErrBadMagic) Is(target error) (ok bool) {
	_, ok = target.(ErrBadMagic)
	return
}

type ErrBadVersion byte

func (err ErrBadVersion) Error() string {
	return f("unsupported version: %v (expected %v)", byte(err), FORMAT_VERSION)
}

func (err ErrBadVersion) Is(target error) (ok bool) {
	_, ok = target.(ErrBadVersion)
	return
}

// Registration errors
type ErrNameConflict string

func (err ErrNameConflict) Error() string {
	return f("opcode name '%v' already registered", string(err))
}

type ErrCodeConflict byte

func (err ErrCodeConflict) Error() string {
	return f("opcode number 0x%02x already registered", byte(err))
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrSource indicates the source file could not be read.
type ErrSource struct {
	Path string
	Err  error
}

func (err ErrSource) Error() string {
	return f("source file '%v' not found: %v", err.Path, err.Err)
}

func (err ErrSource) Unwrap() error {
	return err.Err
}

// ErrRuntime locates an execution error at the failing instruction.
// The machine state is left frozen at that instruction for diagnostics.
type ErrRuntime struct {
	Pc   int
	Inst Instruction
	Err  error
}

func (err ErrRuntime) Error() string {
	return f("pc %d '%v' %v", err.Pc, err.Inst, err.Err)
}

func (err ErrRuntime) Unwrap() error {
	return err.Err
}
