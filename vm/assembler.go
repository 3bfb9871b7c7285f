package vm

import (
	"bufio"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a two-pass assembler for stack machine source text.
//
// Pass one scans the source, strips comments, collects labels at their
// emission addresses and validates mnemonics against the registry.
// Pass two resolves label references on JUMP/JZ operands to concrete
// addresses and parses the remaining operands as signed integers.
type Assembler struct {
	Registry *Registry
	Verbose  bool // If set, verbosely logs the assembler actions.

	Label map[string]int // Map of labels to emission addresses.
}

// scanLine is a single accepted instruction line from pass one, with
// its operand still in raw token form.
type scanLine struct {
	LineNo  int
	Text    string
	Opcode  string
	Operand string
	HasTok  bool
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parenEval does compile-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, starlark.StringDict{})
	if err != nil {
		err = ErrExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > 0x7fffffff || st_int64 < -0x80000000 {
		err = ErrExpression(expr)
		return
	}
	value = int32(st_int64)
	return
}

// expand replaces $(...) expressions with their evaluated values.
func (asm *Assembler) expand(line string) (out string, err error) {
	out = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return strconv.FormatInt(int64(value), 10)
	})
	return
}

// Parse assembles an input stream into a program.
func (asm *Assembler) Parse(input io.Reader) (prog Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)

	var accepted []scanLine
	address := 0

	// Pass one: scan lines, collect labels, validate mnemonics.
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		// Strip the comment, if any.
		text, _, _ = strings.Cut(text, "#")
		line = strings.TrimSpace(text)

		if len(line) == 0 {
			continue
		}

		// NAME: declares a label at the current emission address.
		// Labels consume no address.
		if strings.HasSuffix(line, ":") {
			label := strings.TrimSpace(line[:len(line)-1])
			if len(label) == 0 {
				err = ErrEmptyLabelName
				return
			}
			if _, ok := asm.Label[label]; ok {
				err = ErrDuplicateLabel(label)
				return
			}
			asm.Label[label] = address
			continue
		}

		line, err = asm.expand(line)
		if err != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		opcode := strings.ToUpper(fields[0])
		if _, err = asm.Registry.LookupName(opcode); err != nil {
			return
		}

		entry := scanLine{
			LineNo: lineno,
			Text:   line,
			Opcode: opcode,
		}
		if len(fields) > 1 {
			entry.Operand = strings.Join(fields[1:], " ")
			entry.HasTok = true
		}

		accepted = append(accepted, entry)
		address += 1
	}
	if err = scanner.Err(); err != nil {
		return
	}

	// Pass two: resolve operands.
	for _, entry := range accepted {
		inst := Instruction{Opcode: entry.Opcode}

		if entry.HasTok {
			lineno, line = entry.LineNo, entry.Text

			value, perr := strconv.ParseInt(entry.Operand, 10, 32)
			switch {
			case perr == nil:
				inst.Operand = int32(value)
				inst.HasOperand = true
			case entry.Opcode == "JUMP" || entry.Opcode == "JZ":
				// Not an integer literal: a label reference.
				target, ok := asm.Label[entry.Operand]
				if !ok {
					err = ErrUndefinedLabel(entry.Operand)
					return
				}
				inst.Operand = int32(target)
				inst.HasOperand = true
			default:
				err = ErrInvalidOperand(entry.Operand)
				return
			}
		}

		prog = append(prog, inst)
	}

	return
}

// ParseFile assembles a source file into a program.
func (asm *Assembler) ParseFile(path string) (prog Program, err error) {
	input, err := os.Open(path)
	if err != nil {
		return nil, ErrSource{Path: path, Err: err}
	}
	defer input.Close()

	return asm.Parse(input)
}
