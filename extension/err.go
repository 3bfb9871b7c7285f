package extension

import (
	"errors"

	"github.com/ezrec/stackmac/translate"
)

var f = translate.From

var (
	// Script protocol errors
	ErrDeclName    = errors.New(f("OPCODE_NAME missing or not a string"))
	ErrDeclValue   = errors.New(f("OPCODE_VALUE missing or not an integer in 0..255"))
	ErrDeclOperand = errors.New(f("HAS_OPERAND missing or not a bool"))
	ErrDeclCost    = errors.New(f("COST is not an integer"))
	ErrDeclExecute = errors.New(f("execute function missing"))
)

// ErrScript locates a failure in an extension script.
type ErrScript struct {
	File string
	Err  error
}

func (err ErrScript) Error() string {
	return f("extension %v: %v", err.File, err.Err)
}

func (err ErrScript) Unwrap() error {
	return err.Err
}
