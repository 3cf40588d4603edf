// Package signature models JVM generic type signatures as a tagged union and
// builds the once-per-archive constructor signature index that delegation-call
// resolution reads from.
package signature

import "strings"

type Kind int

const (
	KindPrimitive Kind = iota
	KindClass
	KindArray
	KindTypeVar
	KindWildcard
)

// TypeSig is one node of a parsed type signature. Which fields are meaningful
// depends on Kind:
//
//	KindPrimitive: Name is the Java keyword ("int", "boolean", ...)
//	KindClass:     Name is the dotted binary name ("java.util.Map$Entry"),
//	               Args holds type arguments (possibly wildcards)
//	KindArray:     Elem is the element type, Dims >= 1
//	KindTypeVar:   Name is the type-parameter name
//	KindWildcard:  Variance is '+' (extends), '-' (super) or '*'; Elem is the
//	               bound, nil for '*'
type TypeSig struct {
	Kind     Kind
	Name     string
	Args     []TypeSig
	Elem     *TypeSig
	Dims     int
	Variance byte
}

// TypeParam is a declared type parameter with its bounds, class bound first.
type TypeParam struct {
	Name   string
	Bounds []TypeSig
}

// Object is the universal top type used when nothing better can be recovered.
var Object = TypeSig{Kind: KindClass, Name: "java.lang.Object"}

func Primitive(name string) TypeSig { return TypeSig{Kind: KindPrimitive, Name: name} }

func Class(name string, args ...TypeSig) TypeSig {
	return TypeSig{Kind: KindClass, Name: name, Args: args}
}

func (t TypeSig) IsPrimitive() bool { return t.Kind == KindPrimitive }

func (t TypeSig) IsObject() bool {
	return t.Kind == KindClass && t.Name == "java.lang.Object"
}

// SimpleName is the class name without package or enclosing types.
func (t TypeSig) SimpleName() string {
	name := t.Name
	if i := strings.LastIndexByte(name, '$'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// String renders the signature as Java source text. Nested-class separators
// become dots; type arguments are rendered recursively.
func (t TypeSig) String() string {
	var sb strings.Builder
	t.render(&sb)
	return sb.String()
}

func (t TypeSig) render(sb *strings.Builder) {
	switch t.Kind {
	case KindPrimitive, KindTypeVar:
		sb.WriteString(t.Name)
	case KindClass:
		sb.WriteString(strings.ReplaceAll(t.Name, "$", "."))
		if len(t.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				a.render(sb)
			}
			sb.WriteByte('>')
		}
	case KindArray:
		if t.Elem != nil {
			t.Elem.render(sb)
		}
		for i := 0; i < t.Dims; i++ {
			sb.WriteString("[]")
		}
	case KindWildcard:
		switch t.Variance {
		case '+':
			sb.WriteString("? extends ")
			t.Elem.render(sb)
		case '-':
			sb.WriteString("? super ")
			t.Elem.render(sb)
		default:
			sb.WriteByte('?')
		}
	}
}

// Raw strips all type arguments, recursively flattening to the erased form.
func (t TypeSig) Raw() TypeSig {
	switch t.Kind {
	case KindClass:
		return TypeSig{Kind: KindClass, Name: t.Name}
	case KindArray:
		if t.Elem != nil {
			e := t.Elem.Raw()
			return TypeSig{Kind: KindArray, Elem: &e, Dims: t.Dims}
		}
	}
	return t
}

// Substitute replaces type variables by the given concrete types. Variables
// absent from the map are left untouched.
func (t TypeSig) Substitute(m map[string]TypeSig) TypeSig {
	switch t.Kind {
	case KindTypeVar:
		if c, ok := m[t.Name]; ok {
			return c
		}
		return t
	case KindClass:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]TypeSig, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.Substitute(m)
		}
		return TypeSig{Kind: KindClass, Name: t.Name, Args: args}
	case KindArray:
		if t.Elem == nil {
			return t
		}
		e := t.Elem.Substitute(m)
		return TypeSig{Kind: KindArray, Elem: &e, Dims: t.Dims}
	case KindWildcard:
		if t.Elem == nil {
			return t
		}
		e := t.Elem.Substitute(m)
		return TypeSig{Kind: KindWildcard, Variance: t.Variance, Elem: &e}
	}
	return t
}

// HasTypeVars reports whether any type variable occurs anywhere in the tree.
func (t TypeSig) HasTypeVars() bool {
	switch t.Kind {
	case KindTypeVar:
		return true
	case KindClass:
		for _, a := range t.Args {
			if a.HasTypeVars() {
				return true
			}
		}
	case KindArray, KindWildcard:
		if t.Elem != nil {
			return t.Elem.HasTypeVars()
		}
	}
	return false
}
