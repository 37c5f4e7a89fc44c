package preprocessor

import (
	"maps"

	"github.com/KikuchiTomo/cclint/internal/token"
)

// Macro is a macro definition: {name, is_function_like, parameters (ordered,
// unique), is_variadic, replacement token sequence, definition_site}.
// Replacement tokens carry MacroStringify/MacroConcat as first-class kinds
// rather than generic Hash/HashHash, so the expander never has to guess
// whether a '#' is an operator or a replacement-list marker.
type Macro struct {
	Name           string
	IsFunctionLike bool
	Parameters     []string
	IsVariadic     bool
	Replacement    []token.Token
	DefinitionSite token.Position
}

// VariadicParameter is the synthetic parameter name bound to the trailing
// arguments of a variadic function-like macro.
const VariadicParameter = "__VA_ARGS__"

// paramIndex returns the index of name in m.Parameters, or -1.
func (m *Macro) paramIndex(name string) int {
	for i, p := range m.Parameters {
		if p == name {
			return i
		}
	}
	return -1
}

// Table is the preprocessor's macro table: name to current definition.
// Re-defining a macro with an identical definition is allowed (a no-op);
// redefining with a different one replaces it and the caller may choose to
// warn (Preprocessor.handleDefine records an error for it).
type Table struct {
	macros map[string]*Macro
}

// NewTable constructs an empty macro table.
func NewTable() *Table {
	return &Table{macros: make(map[string]*Macro)}
}

// Clone deep-copies the table's definition pointers (not the definitions
// themselves, which are treated as immutable once defined).
func (t *Table) Clone() *Table {
	return &Table{macros: maps.Clone(t.macros)}
}

// Define installs or replaces a macro definition.
func (t *Table) Define(m *Macro) {
	t.macros[m.Name] = m
}

// Undef removes a macro definition, if any.
func (t *Table) Undef(name string) {
	delete(t.macros, name)
}

// Lookup returns the macro named name, and whether it is defined.
func (t *Table) Lookup(name string) (*Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// IsDefined reports whether name is a currently-defined macro.
func (t *Table) IsDefined(name string) bool {
	_, ok := t.macros[name]
	return ok
}

// Names returns every currently-defined macro name, in no particular order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.macros))
	for name := range t.macros {
		names = append(names, name)
	}
	return names
}

// sameDefinition reports whether two macro definitions are considered
// identical for the "redefinition with the same body is not an error" rule.
func sameDefinition(a, b *Macro) bool {
	if a.IsFunctionLike != b.IsFunctionLike || a.IsVariadic != b.IsVariadic {
		return false
	}
	if len(a.Parameters) != len(b.Parameters) || len(a.Replacement) != len(b.Replacement) {
		return false
	}
	for i := range a.Parameters {
		if a.Parameters[i] != b.Parameters[i] {
			return false
		}
	}
	for i := range a.Replacement {
		if a.Replacement[i].Kind != b.Replacement[i].Kind || a.Replacement[i].Text != b.Replacement[i].Text {
			return false
		}
	}
	return true
}
