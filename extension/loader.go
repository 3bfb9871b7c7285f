// Package extension loads extension opcodes from Starlark scripts.
//
// A script declares the module globals OPCODE_NAME (string),
// OPCODE_VALUE (int), HAS_OPERAND (bool), an optional COST (int,
// default 1), and a function execute(m, operand). The machine value m
// exposes push(v), pop(), peek(), depth() and print(v). For example:
//
//	OPCODE_NAME = "MOD"
//	OPCODE_VALUE = 0x10
//	HAS_OPERAND = False
//
//	def execute(m, operand):
//	    b = m.pop()
//	    a = m.pop()
//	    m.push(a % b)
package extension

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/stackmac/vm"
)

const (
	DEFAULT_COST = 1 // Cycle cost of an extension that declares none.

	scriptSuffix = ".star"
)

// Info describes a successfully registered extension opcode.
type Info struct {
	Name       string
	Code       byte
	HasOperand bool
	Cost       int
}

// LoadSource evaluates a single extension script and registers its
// opcode. The filename is used for diagnostics; src may be nil to read
// the file, or a string/[]byte holding the script text.
func LoadSource(reg *vm.Registry, filename string, src any) (info Info, err error) {
	defer func() {
		if err != nil {
			err = ErrScript{File: filename, Err: err}
		}
	}()

	thread := &starlark.Thread{Name: "extension:" + filename}
	opts := &syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(opts, thread, filename, src, starlark.StringDict{})
	if err != nil {
		return
	}

	name, ok := globals["OPCODE_NAME"].(starlark.String)
	if !ok || len(string(name)) == 0 {
		err = ErrDeclName
		return
	}

	var code int
	if value, ok := globals["OPCODE_VALUE"]; ok {
		code, err = starlark.AsInt32(value)
		if err != nil || code < 0 || code > 0xff {
			err = ErrDeclValue
			return
		}
	} else {
		err = ErrDeclValue
		return
	}

	hasOperand, ok := globals["HAS_OPERAND"].(starlark.Bool)
	if !ok {
		err = ErrDeclOperand
		return
	}

	cost := DEFAULT_COST
	if value, ok := globals["COST"]; ok {
		cost, err = starlark.AsInt32(value)
		if err != nil || cost < 1 {
			err = ErrDeclCost
			return
		}
	}

	execute, ok := globals["execute"].(starlark.Callable)
	if !ok {
		err = ErrDeclExecute
		return
	}

	info = Info{
		Name:       string(name),
		Code:       byte(code),
		HasOperand: bool(hasOperand),
		Cost:       cost,
	}

	err = reg.RegisterExtension(info.Name, info.Code, info.HasOperand, info.Cost,
		behavior(info.Name, execute))
	if err != nil {
		return
	}

	return
}

// LoadFile evaluates an extension script file and registers its opcode.
func LoadFile(reg *vm.Registry, path string) (Info, error) {
	return LoadSource(reg, path, nil)
}

// LoadDir registers every *.star script in a directory, sorted by
// filename so that conflict resolution is reproducible. Scripts that
// fail to load or conflict are reported on the log and skipped; the
// remainder still load. A missing directory is not an error.
func LoadDir(reg *vm.Registry, dir string) (loaded []Info, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, scriptSuffix) || strings.HasPrefix(name, "_") {
			continue
		}

		info, lerr := LoadFile(reg, filepath.Join(dir, name))
		if lerr != nil {
			log.Printf("extension: %v", lerr)
			continue
		}

		loaded = append(loaded, info)
	}

	return
}

// behavior wraps a Starlark execute function as an ExtensionFunc.
func behavior(name string, execute starlark.Callable) vm.ExtensionFunc {
	return func(m *vm.Machine, operand int32, hasOperand bool) error {
		thread := &starlark.Thread{Name: name}

		recv := &machineValue{machine: m}
		var op starlark.Value = starlark.None
		if hasOperand {
			op = starlark.MakeInt(int(operand))
		}

		_, err := starlark.Call(thread, execute, starlark.Tuple{recv, op}, nil)
		if err == nil {
			return nil
		}

		// Surface machine errors raised inside the script directly.
		if recv.failure != nil {
			return recv.failure
		}

		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) && strings.Contains(evalErr.Msg, "by zero") {
			return fmt.Errorf("%v: %w", name, vm.ErrDivisionByZero)
		}

		return err
	}
}
