package extension

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/ezrec/stackmac/vm"
)

// machineValue exposes a vm.Machine to an extension script as a value
// with push/pop/peek/depth/print methods. Machine errors raised by a
// method are recorded in failure so the loader can report them without
// the Starlark error text in the way.
type machineValue struct {
	machine *vm.Machine
	failure error
}

var _ starlark.HasAttrs = (*machineValue)(nil)

func (mv *machineValue) String() string        { return "<machine>" }
func (mv *machineValue) Type() string          { return "machine" }
func (mv *machineValue) Freeze()               {}
func (mv *machineValue) Truth() starlark.Bool  { return starlark.True }
func (mv *machineValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: machine") }

func (mv *machineValue) AttrNames() []string {
	return []string{"depth", "peek", "pop", "print", "push"}
}

func (mv *machineValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "push":
		return starlark.NewBuiltin("push", mv.push), nil
	case "pop":
		return starlark.NewBuiltin("pop", mv.pop), nil
	case "peek":
		return starlark.NewBuiltin("peek", mv.peek), nil
	case "depth":
		return starlark.NewBuiltin("depth", mv.depth), nil
	case "print":
		return starlark.NewBuiltin("print", mv.print), nil
	}
	return nil, nil
}

func (mv *machineValue) push(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value int32
	if err := starlark.UnpackPositionalArgs("push", args, kwargs, 1, &value); err != nil {
		return nil, err
	}
	mv.machine.Stack.Push(value)
	return starlark.None, nil
}

func (mv *machineValue) pop(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs("pop", args, kwargs, 0); err != nil {
		return nil, err
	}
	value, err := mv.machine.Stack.Pop()
	if err != nil {
		mv.failure = err
		return nil, err
	}
	return starlark.MakeInt(int(value)), nil
}

func (mv *machineValue) peek(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs("peek", args, kwargs, 0); err != nil {
		return nil, err
	}
	value, err := mv.machine.Stack.Peek()
	if err != nil {
		mv.failure = err
		return nil, err
	}
	return starlark.MakeInt(int(value)), nil
}

func (mv *machineValue) depth(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs("depth", args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.MakeInt(mv.machine.Stack.Size()), nil
}

func (mv *machineValue) print(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value int32
	if err := starlark.UnpackPositionalArgs("print", args, kwargs, 1, &value); err != nil {
		return nil, err
	}
	mv.machine.Print(value)
	return starlark.None, nil
}
