// Package javatext parses sanitized Java source into an editable
// declaration-level tree and prints it back. Member bodies are kept as raw
// text spans: the stub transformer replaces every body wholesale, so nothing
// below statement granularity ever needs structural form.
package javatext

type CompilationUnit struct {
	Package string
	Imports []string
	Types   []*TypeDecl
}

// AddImport appends an import if it is not already present.
func (u *CompilationUnit) AddImport(name string) {
	for _, imp := range u.Imports {
		if imp == name {
			return
		}
	}
	u.Imports = append(u.Imports, name)
}

type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotation
)

func (k TypeKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindAnnotation:
		return "@interface"
	default:
		return "class"
	}
}

type TypeDecl struct {
	Annotations  []string
	Modifiers    []string
	Kind         TypeKind
	Name         string
	TypeParams   string // raw text including angle brackets, "" if none
	RecordHeader string // raw text including parens, records only
	Extends      []string
	Implements   []string
	Permits      []string
	Constants    []*EnumConstant
	Members      []*Member
}

func (t *TypeDecl) HasModifier(m string) bool { return hasString(t.Modifiers, m) }

// RemoveModifier deletes every occurrence of the modifier.
func (t *TypeDecl) RemoveModifier(m string) { t.Modifiers = removeString(t.Modifiers, m) }

type EnumConstant struct {
	Annotations []string
	Name        string
	Args        string // raw text including parens, "" if none
	Body        []*Member
}

type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberConstructor
	MemberStaticInit
	MemberInstanceInit
	MemberType
)

type Member struct {
	Kind        MemberKind
	Annotations []string
	Modifiers   []string
	TypeParams  string // raw, generic methods only
	Type        string // return or field type, raw
	Name        string
	Params      string // raw text including parens
	Throws      string // raw comma-separated list, without the keyword
	Declarators []Declarator
	Body        *Block // nil for abstract/native methods and fields
	Default     string // annotation member default, raw
	Nested      *TypeDecl
}

func (m *Member) HasModifier(mod string) bool { return hasString(m.Modifiers, mod) }

func (m *Member) RemoveModifier(mod string) { m.Modifiers = removeString(m.Modifiers, mod) }

// Declarator is one variable of a field declaration: `int a = 1, b;` has two.
type Declarator struct {
	Name string
	Dims string // C-style array suffix after the name, "" normally
	Init string // raw initializer text, "" if none
}

// Block is a member body. Raw holds the decompiled inner text; when Stmts is
// set the printer emits those lines instead.
type Block struct {
	Raw   string
	Stmts []string
}

func NewBlock(stmts ...string) *Block { return &Block{Stmts: stmts} }

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
