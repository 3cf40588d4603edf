package stub

import (
	"strings"

	"github.com/hytalekt/stubgen/javatext"
	"github.com/hytalekt/stubgen/signature"
)

// Transformer rewrites parsed compilation units into API-preserving stubs.
// It holds no per-unit state, so one value serves concurrent workers.
type Transformer struct {
	resolver *Resolver
}

func New(index *signature.Index) *Transformer {
	return &Transformer{resolver: &Resolver{Index: index}}
}

// Apply transforms every declaration of the unit in place and adds the
// sentinel exception import when a throw was inserted. Nested declarations
// are handled before their enclosing one.
func (t *Transformer) Apply(unit *javatext.CompilationUnit) {
	r := &run{resolver: t.resolver, unit: unit}
	for _, decl := range unit.Types {
		r.transformType(decl, joinPkg(unit.Package, decl.Name))
	}
	if r.threw {
		unit.AddImport(SentinelImport)
	}
}

type action int

const (
	actKeep action = iota
	actDropBody // signature only
	actSentinel
	actSentinelConcrete // clears the abstract modifier first
	actConstructor
	actRemove
	actField
)

// rule is one row of the member decision table: declaration kind, member
// kind, an optional predicate, and the resulting action.
type rule struct {
	kind    javatext.TypeKind
	anyKind bool
	member  javatext.MemberKind
	when    func(*javatext.TypeDecl, *javatext.Member) bool
	act     action
}

func hasBody(_ *javatext.TypeDecl, m *javatext.Member) bool { return m.Body != nil }

func instanceOnly(_ *javatext.TypeDecl, m *javatext.Member) bool {
	return !m.HasModifier("static")
}

func abstractOrNative(_ *javatext.TypeDecl, m *javatext.Member) bool {
	return m.HasModifier("abstract") || m.HasModifier("native")
}

func isAbstract(_ *javatext.TypeDecl, m *javatext.Member) bool {
	return m.HasModifier("abstract")
}

// canonicalRecordCtor matches the compact form and the explicit constructor
// whose parameter types repeat the record header. Only these may open without
// a this(...) delegation.
func canonicalRecordCtor(decl *javatext.TypeDecl, m *javatext.Member) bool {
	if m.Params == "" {
		return true
	}
	header := paramTypeTexts(decl.RecordHeader)
	params := paramTypeTexts(m.Params)
	if len(params) != len(header) {
		return false
	}
	for i := range params {
		if strings.ReplaceAll(params[i], " ", "") != strings.ReplaceAll(header[i], " ", "") {
			return false
		}
	}
	return true
}

// paramTypeTexts extracts the declared type text of each parameter, dropping
// annotations, the final modifier and the trailing name.
func paramTypeTexts(params string) []string {
	var out []string
	for _, p := range javatext.SplitArgs(params) {
		words := strings.Fields(p)
		for len(words) > 1 && (words[0] == "final" || strings.HasPrefix(words[0], "@")) {
			words = words[1:]
		}
		if len(words) > 1 {
			// generic types keep internal spaces, the name is the last word
			words = words[:len(words)-1]
		}
		out = append(out, strings.Join(words, " "))
	}
	return out
}

// memberRules is the decision table; the first matching row wins. A record
// constructor that is not the canonical one falls through to the generic
// constructor row so its mandatory this(...) delegation is preserved.
var memberRules = []rule{
	{kind: javatext.KindEnum, member: javatext.MemberConstructor, act: actRemove},
	{kind: javatext.KindEnum, member: javatext.MemberField, when: instanceOnly, act: actRemove},
	{kind: javatext.KindEnum, member: javatext.MemberMethod, when: isAbstract, act: actSentinelConcrete},
	{kind: javatext.KindRecord, member: javatext.MemberConstructor, when: canonicalRecordCtor, act: actSentinel},
	{anyKind: true, member: javatext.MemberMethod, when: abstractOrNative, act: actDropBody},
	{kind: javatext.KindAnnotation, member: javatext.MemberMethod, act: actKeep},
	{anyKind: true, member: javatext.MemberMethod, when: hasBody, act: actSentinel},
	{anyKind: true, member: javatext.MemberMethod, act: actKeep},
	{anyKind: true, member: javatext.MemberConstructor, act: actConstructor},
	{anyKind: true, member: javatext.MemberStaticInit, act: actRemove},
	{anyKind: true, member: javatext.MemberInstanceInit, act: actRemove},
	{anyKind: true, member: javatext.MemberField, act: actField},
}

func actionFor(decl *javatext.TypeDecl, m *javatext.Member) action {
	for _, r := range memberRules {
		if !r.anyKind && r.kind != decl.Kind {
			continue
		}
		if r.member != m.Kind {
			continue
		}
		if r.when != nil && !r.when(decl, m) {
			continue
		}
		return r.act
	}
	return actKeep
}

// run is the per-unit application state.
type run struct {
	resolver *Resolver
	unit     *javatext.CompilationUnit
	threw    bool
}

func (r *run) transformType(decl *javatext.TypeDecl, name string) {
	for _, m := range decl.Members {
		if m.Kind == javatext.MemberType {
			r.transformType(m.Nested, name+"$"+m.Nested.Name)
		}
	}
	if decl.Kind == javatext.KindEnum {
		for _, c := range decl.Constants {
			c.Args = ""
			c.Body = nil
		}
	}

	kept := decl.Members[:0]
	for _, m := range decl.Members {
		if m.Kind == javatext.MemberType {
			kept = append(kept, m)
			continue
		}
		switch actionFor(decl, m) {
		case actRemove:
			continue
		case actDropBody:
			m.Body = nil
		case actSentinelConcrete:
			m.RemoveModifier("abstract")
			r.sentinel(m)
		case actSentinel:
			r.sentinel(m)
		case actConstructor:
			r.stubConstructor(decl, m, name)
		case actField:
			r.stubField(decl, m)
		}
		kept = append(kept, m)
	}
	decl.Members = kept
}

func (r *run) sentinel(m *javatext.Member) {
	m.Body = javatext.NewBlock(sentinelThrow)
	r.threw = true
}

func (r *run) stubConstructor(decl *javatext.TypeDecl, m *javatext.Member, name string) {
	sc := scope{
		pkg:       r.unit.Package,
		imports:   r.unit.Imports,
		className: name,
		generic:   decl.TypeParams != "",
	}
	if len(decl.Extends) > 0 {
		sc.extendsRef = decl.Extends[0]
	}
	var body string
	if m.Body != nil {
		if len(m.Body.Stmts) > 0 {
			body = strings.Join(m.Body.Stmts, "\n")
		} else {
			body = m.Body.Raw
		}
	}
	del := r.resolver.Delegation(sc, body)
	if del == "" && decl.Kind == javatext.KindRecord {
		// only non-canonical record constructors take this path, and those
		// must delegate; reconstructed bodies carry no call to anchor on
		del = canonicalDelegation(decl)
	}
	var stmts []string
	if del != "" {
		stmts = append(stmts, del)
	}
	stmts = append(stmts, sentinelThrow)
	m.Body = javatext.NewBlock(stmts...)
	r.threw = true
}

// canonicalDelegation renders a this(...) call to the canonical record
// constructor with default arguments for every header component.
func canonicalDelegation(decl *javatext.TypeDecl) string {
	types := paramTypeTexts(decl.RecordHeader)
	args := make([]string, len(types))
	for i, t := range types {
		if rest, ok := strings.CutSuffix(t, "..."); ok {
			t = rest + "[]"
		}
		if primitiveNames[t] {
			args[i] = defaultInit(t)
		} else {
			args[i] = "(" + t + ") null"
		}
	}
	return "this(" + strings.Join(args, ", ") + ");"
}

func (r *run) stubField(decl *javatext.TypeDecl, m *javatext.Member) {
	// interface and annotation fields are implicitly static final
	mustInit := m.HasModifier("static") && m.HasModifier("final") ||
		decl.Kind == javatext.KindInterface || decl.Kind == javatext.KindAnnotation
	for i := range m.Declarators {
		d := &m.Declarators[i]
		switch {
		case d.Init != "" && isConstantLiteral(d.Init):
			// compile-time constant, preserved verbatim
		case d.Init != "":
			d.Init = defaultInit(m.Type + d.Dims)
		case mustInit:
			// the assignment lived in a removed initializer block
			d.Init = defaultInit(m.Type + d.Dims)
		}
	}
}
