package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_BaseTable(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()

	table := []struct {
		name       string
		code       byte
		hasOperand bool
	}{
		{"PUSH", 0x01, true},
		{"POP", 0x02, false},
		{"ADD", 0x03, false},
		{"SUB", 0x04, false},
		{"MUL", 0x05, false},
		{"DIV", 0x06, false},
		{"DUP", 0x07, false},
		{"SWAP", 0x08, false},
		{"PRINT", 0x09, false},
		{"JUMP", 0x0A, true},
		{"JZ", 0x0B, true},
		{"HALT", 0xFF, false},
	}

	for _, entry := range table {
		info, err := reg.LookupName(entry.name)
		assert.NoError(err, entry.name)
		assert.Equal(entry.code, info.Code, entry.name)
		assert.Equal(entry.hasOperand, info.HasOperand, entry.name)
		assert.Equal(entry.hasOperand, reg.HasOperand(entry.name), entry.name)
		assert.False(reg.IsExtension(entry.name), entry.name)

		info, err = reg.LookupCode(entry.code)
		assert.NoError(err, entry.name)
		assert.Equal(entry.name, info.Name)
	}
}

func TestRegistry_Costs(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()

	assert.Equal(1, reg.Cost("PUSH"))
	assert.Equal(1, reg.Cost("ADD"))
	assert.Equal(3, reg.Cost("MUL"))
	assert.Equal(10, reg.Cost("DIV"))
	assert.Equal(2, reg.Cost("JUMP"))
	assert.Equal(2, reg.Cost("JZ"))
	assert.Equal(5, reg.Cost("PRINT"))
	assert.Equal(1, reg.Cost("HALT"))
}

func TestRegistry_LookupUnknown(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()

	_, err := reg.LookupName("FROB")
	assert.ErrorIs(err, ErrUnknownOpcode{})

	_, err = reg.LookupCode(0x7f)
	assert.ErrorIs(err, ErrUnknownCode(0))

	assert.False(reg.HasOperand("FROB"))
	assert.Equal(1, reg.Cost("FROB"))
}

func TestRegistry_RegisterExtension(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()

	noop := func(m *Machine, operand int32, hasOperand bool) error { return nil }

	err := reg.RegisterExtension("NEG", 0x11, false, 1, noop)
	assert.NoError(err)

	info, err := reg.LookupName("NEG")
	assert.NoError(err)
	assert.Equal(byte(0x11), info.Code)
	assert.True(reg.IsExtension("NEG"))
	assert.False(reg.HasOperand("NEG"))

	info, err = reg.LookupCode(0x11)
	assert.NoError(err)
	assert.Equal("NEG", info.Name)
}

func TestRegistry_Conflicts(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()

	noop := func(m *Machine, operand int32, hasOperand bool) error { return nil }

	// The base set can never be shadowed.
	var nameConflict ErrNameConflict
	err := reg.RegisterExtension("PUSH", 0x40, true, 1, noop)
	assert.ErrorAs(err, &nameConflict)
	assert.Equal("PUSH", string(nameConflict))

	var codeConflict ErrCodeConflict
	err = reg.RegisterExtension("FROB", 0x01, false, 1, noop)
	assert.ErrorAs(err, &codeConflict)
	assert.Equal(byte(0x01), byte(codeConflict))

	// The base entry is untouched by the rejected attempts.
	info, err := reg.LookupName("PUSH")
	assert.NoError(err)
	assert.Equal(byte(0x01), info.Code)
	assert.False(reg.IsExtension("PUSH"))

	// First successful registration stands; later ones are rejected.
	assert.NoError(reg.RegisterExtension("MOD", 0x10, false, 1, noop))
	assert.Error(reg.RegisterExtension("MOD", 0x20, false, 1, noop))
	assert.Error(reg.RegisterExtension("REM", 0x10, false, 1, noop))

	info, err = reg.LookupName("MOD")
	assert.NoError(err)
	assert.Equal(byte(0x10), info.Code)
}

func TestRegistry_Suggest(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()

	matches := reg.Suggest("ADDD")
	assert.NotEmpty(matches)
	assert.Contains(matches, "ADD")
	assert.LessOrEqual(len(matches), SUGGEST_LIMIT)

	_, err := reg.LookupName("ADDD")
	var unknown ErrUnknownOpcode
	assert.ErrorAs(err, &unknown)
	assert.Contains(unknown.Suggestions, "ADD")

	// Nothing resembles this.
	assert.Empty(reg.Suggest("XYZZYQWERTY"))
}

func TestRegistry_Names(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	assert.NoError(reg.RegisterExtension("NEG", 0x11, false, 1,
		func(m *Machine, operand int32, hasOperand bool) error { return nil }))

	names := map[string]bool{}
	for name := range reg.Names() {
		names[name] = true
	}

	assert.Equal(13, len(names))
	assert.True(names["PUSH"])
	assert.True(names["HALT"])
	assert.True(names["NEG"])
}
