package vm

import (
	"iter"
	"maps"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/ezrec/stackmac/internal"
)

const (
	SUGGEST_THRESHOLD = 0.6 // Minimum similarity ratio for a suggestion.
	SUGGEST_LIMIT     = 3   // Maximum suggestions reported.
)

// Registry maps opcode names and numbers to their entries. It merges
// the fixed base instruction set with extension opcodes registered at
// construction time. Once registration is complete it is read-only and
// safe to share between concurrent machines.
type Registry struct {
	base   map[string]*OpcodeInfo
	ext    map[string]*OpcodeInfo
	byCode map[byte]*OpcodeInfo
}

// NewRegistry creates a registry holding the base instruction set.
func NewRegistry() (reg *Registry) {
	reg = &Registry{
		base:   make(map[string]*OpcodeInfo, len(baseOpcodes)),
		ext:    make(map[string]*OpcodeInfo),
		byCode: make(map[byte]*OpcodeInfo, len(baseOpcodes)),
	}

	for n := range baseOpcodes {
		info := &baseOpcodes[n]
		reg.base[info.Name] = info
		reg.byCode[info.Code] = info
	}

	return
}

// RegisterExtension adds an extension opcode. The first successful
// registration of a name or number stands; later attempts fail with
// ErrNameConflict or ErrCodeConflict and the table is unchanged.
func (reg *Registry) RegisterExtension(name string, code byte, hasOperand bool, cost int, execute ExtensionFunc) error {
	if _, ok := reg.base[name]; ok {
		return ErrNameConflict(name)
	}
	if _, ok := reg.ext[name]; ok {
		return ErrNameConflict(name)
	}
	if _, ok := reg.byCode[code]; ok {
		return ErrCodeConflict(code)
	}

	if cost < 1 {
		cost = 1
	}

	info := &OpcodeInfo{
		Name:       name,
		Code:       code,
		HasOperand: hasOperand,
		Cost:       cost,
		Execute:    execute,
	}
	reg.ext[name] = info
	reg.byCode[code] = info

	return nil
}

// LookupName returns the entry for a mnemonic, or ErrUnknownOpcode with
// spelling suggestions.
func (reg *Registry) LookupName(name string) (info *OpcodeInfo, err error) {
	info, ok := reg.base[name]
	if !ok {
		info, ok = reg.ext[name]
	}
	if !ok {
		err = ErrUnknownOpcode{Name: name, Suggestions: reg.Suggest(name)}
	}

	return
}

// LookupCode returns the entry for a numeric opcode, or ErrUnknownCode.
func (reg *Registry) LookupCode(code byte) (info *OpcodeInfo, err error) {
	info, ok := reg.byCode[code]
	if !ok {
		err = ErrUnknownCode(code)
	}

	return
}

// IsExtension reports whether a mnemonic names an extension opcode.
func (reg *Registry) IsExtension(name string) bool {
	_, ok := reg.ext[name]
	return ok
}

// HasOperand reports whether a mnemonic is operand-bearing. Unknown
// names are not operand-bearing.
func (reg *Registry) HasOperand(name string) bool {
	info, err := reg.LookupName(name)
	if err != nil {
		return false
	}
	return info.HasOperand
}

// Cost returns the simulated cycle cost of a mnemonic. Unknown names
// cost a single cycle.
func (reg *Registry) Cost(name string) int {
	info, err := reg.LookupName(name)
	if err != nil {
		return 1
	}
	return info.Cost
}

// Names iterates over all registered mnemonics, base set first.
func (reg *Registry) Names() iter.Seq[string] {
	return internal.ConcatSeq(maps.Keys(reg.base), maps.Keys(reg.ext))
}

// Suggest returns up to SUGGEST_LIMIT registered mnemonics whose
// similarity ratio to name is at least SUGGEST_THRESHOLD, best first.
func (reg *Registry) Suggest(name string) (matches []string) {
	type scored struct {
		name  string
		ratio float64
	}

	var found []scored
	for known := range reg.Names() {
		longest := max(len(name), len(known))
		if longest == 0 {
			continue
		}
		distance := levenshtein.ComputeDistance(name, known)
		ratio := 1.0 - float64(distance)/float64(longest)
		if ratio >= SUGGEST_THRESHOLD {
			found = append(found, scored{name: known, ratio: ratio})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].ratio != found[j].ratio {
			return found[i].ratio > found[j].ratio
		}
		return found[i].name < found[j].name
	})

	if len(found) > SUGGEST_LIMIT {
		found = found[:SUGGEST_LIMIT]
	}
	for _, entry := range found {
		matches = append(matches, entry.name)
	}

	return
}
