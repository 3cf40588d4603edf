package signature

import (
	"strings"

	"github.com/hytalekt/stubgen/classfile"
)

// CtorSig is one constructor of an indexed class: its erased descriptor and
// the full parameter signatures, generic where the bytecode retained them.
type CtorSig struct {
	Descriptor string
	Params     []TypeSig
}

type classEntry struct {
	name       string
	access     classfile.Flags
	typeParams []TypeParam
	super      *TypeSig
	ctors      []CtorSig
}

// Index answers constructor-signature and type-parameter queries for every
// class in the archive. It is built once before any per-class work starts and
// never mutated afterwards, so concurrent readers need no locking.
type Index struct {
	classes map[string]*classEntry
}

func NewIndex() *Index {
	return &Index{classes: make(map[string]*classEntry)}
}

// Key is the canonical index key for a class: dotted package, '$' nesting.
func Key(internalName string) string {
	return strings.ReplaceAll(internalName, "/", ".")
}

// Add records one class. Constructors keep declaration order.
func (x *Index) Add(cf *classfile.ClassFile) {
	e := &classEntry{
		name:   Key(cf.Name),
		access: cf.Access,
	}
	// Class-level flags of nested types lose the private bit; the
	// InnerClasses self-entry keeps the declared one.
	for _, ic := range cf.Inner {
		if ic.Inner == cf.Name {
			e.access = ic.Access
		}
	}
	if cf.Signature != "" {
		if cs, err := ParseClassSig(cf.Signature); err == nil {
			e.typeParams = cs.TypeParams
			e.super = &cs.Super
		}
	}
	if e.super == nil && cf.SuperName != "" {
		s := Class(Key(cf.SuperName))
		e.super = &s
	}
	for _, m := range cf.Constructors() {
		e.ctors = append(e.ctors, ctorSig(m))
	}
	x.classes[e.name] = e
}

func ctorSig(m *classfile.Method) CtorSig {
	cs := CtorSig{Descriptor: m.Descriptor}
	if m.Signature != "" {
		if ms, err := ParseMethodSig(m.Signature); err == nil {
			cs.Params = ms.Params
			return cs
		}
	}
	// Erasure destroyed the generic signature; fall back to descriptor types.
	for _, d := range classfile.ParamDescriptors(m.Descriptor) {
		cs.Params = append(cs.Params, FromDescriptor(d))
	}
	return cs
}

func (x *Index) Has(name string) bool {
	_, ok := x.classes[name]
	return ok
}

func (x *Index) TypeParams(name string) []TypeParam {
	if e, ok := x.classes[name]; ok {
		return e.typeParams
	}
	return nil
}

// Constructors returns the class's constructors in declaration order, nil for
// unknown classes.
func (x *Index) Constructors(name string) []CtorSig {
	if e, ok := x.classes[name]; ok {
		return e.ctors
	}
	return nil
}

// SuperSignature returns the generic superclass reference recorded for the
// class, nil when unknown or java.lang.Object.
func (x *Index) SuperSignature(name string) *TypeSig {
	e, ok := x.classes[name]
	if !ok || e.super == nil || e.super.IsObject() {
		return nil
	}
	return e.super
}

// IsPrivate reports whether the named class is known and declared private.
// Used to strip type arguments that cannot legally escape their scope.
func (x *Index) IsPrivate(name string) bool {
	if e, ok := x.classes[name]; ok {
		return e.access.IsPrivate()
	}
	return false
}

// Len reports how many classes are indexed.
func (x *Index) Len() int { return len(x.classes) }
