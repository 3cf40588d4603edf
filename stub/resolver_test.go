package stub

import (
	"testing"

	"github.com/hytalekt/stubgen/classfile"
	"github.com/hytalekt/stubgen/signature"
)

func TestParseDelegation(t *testing.T) {
	tests := []struct {
		body string
		kw   string
		args string
		ok   bool
	}{
		{"\n        super(a, b);\n        this.x = a;\n    ", "super", "(a, b)", true},
		{"this(1);", "this", "(1)", true},
		{"super();", "super", "()", true},
		{"this.x = 1;", "", "", false},
		{"super.init();", "", "", false},
		{"int a = 1;", "", "", false},
		{"super(f(a, b), \"x);\");", "super", "(f(a, b), \"x);\")", true},
	}
	for _, tt := range tests {
		kw, _, args, ok := parseDelegation(tt.body)
		if ok != tt.ok || kw != tt.kw || args != tt.args {
			t.Errorf("parseDelegation(%q) = %q %q %v, want %q %q %v",
				tt.body, kw, args, ok, tt.kw, tt.args, tt.ok)
		}
	}
}

func TestResolveNameFallbacks(t *testing.T) {
	x := signature.NewIndex()
	x.Add(&classfile.ClassFile{Name: "com/example/Base"})
	x.Add(&classfile.ClassFile{Name: "com/example/Outer$Inner"})
	x.Add(&classfile.ClassFile{Name: "other/pkg/Remote"})
	r := &Resolver{Index: x}

	tests := []struct {
		ref     string
		imports []string
		want    string
		ok      bool
	}{
		{"Base", nil, "com.example.Base", true},
		{"Outer.Inner", nil, "com.example.Outer$Inner", true},
		{"Remote", []string{"other.pkg.Remote"}, "other.pkg.Remote", true},
		{"com.example.Outer.Inner", nil, "com.example.Outer$Inner", true},
		{"Object", nil, "java.lang.Object", true},
		{"Missing", nil, "", false},
	}
	for _, tt := range tests {
		sc := scope{pkg: "com.example", imports: tt.imports}
		got, ok := r.resolveName(sc, tt.ref)
		if got != tt.want || ok != tt.ok {
			t.Errorf("resolveName(%q) = %q %v, want %q %v", tt.ref, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOverloadScoringPicksBestCandidate(t *testing.T) {
	x := signature.NewIndex()
	x.Add(&classfile.ClassFile{
		Name: "com/example/Base",
		Methods: []classfile.Method{
			{Name: "<init>", Descriptor: "(I)V"},
			{Name: "<init>", Descriptor: "(Ljava/lang/String;)V"},
		},
	})
	r := &Resolver{Index: x}
	sc := scope{pkg: "com.example", className: "com.example.Sub", extendsRef: "Base"}

	if got := r.Delegation(sc, `super("hi");`); got != "super((String) null);" {
		t.Errorf("string overload: got %q", got)
	}
	if got := r.Delegation(sc, "super(5);"); got != "super(0);" {
		t.Errorf("int overload: got %q", got)
	}
}

func TestSynthesizedDelegationPicksFewestParams(t *testing.T) {
	x := signature.NewIndex()
	x.Add(&classfile.ClassFile{
		Name: "com/example/Base",
		Methods: []classfile.Method{
			{Name: "<init>", Descriptor: "(IJ)V"},
			{Name: "<init>", Descriptor: "(Z)V"},
		},
	})
	r := &Resolver{Index: x}
	sc := scope{pkg: "com.example", className: "com.example.Sub", extendsRef: "Base"}

	if got := r.Delegation(sc, "this.x = 1;"); got != "super(false);" {
		t.Errorf("got %q", got)
	}
}

func TestGenericThisLeftUntouched(t *testing.T) {
	x := signature.NewIndex()
	x.Add(&classfile.ClassFile{
		Name:      "com/example/Holder",
		Signature: "<T:Ljava/lang/Object;>Ljava/lang/Object;",
		Methods: []classfile.Method{
			{Name: "<init>", Descriptor: "()V"},
			{Name: "<init>", Descriptor: "(Ljava/lang/Object;)V", Signature: "(TT;)V"},
		},
	})
	r := &Resolver{Index: x}
	sc := scope{pkg: "com.example", className: "com.example.Holder", generic: true}

	if got := r.Delegation(sc, "this(value);"); got != "this(value);" {
		t.Errorf("got %q", got)
	}
}

func TestTypeVarFallsBackToBound(t *testing.T) {
	x := signature.NewIndex()
	x.Add(&classfile.ClassFile{
		Name:      "com/example/Layer",
		Signature: "<T:Lcom/example/Entry;>Ljava/lang/Object;",
		Methods: []classfile.Method{
			{Name: "<init>", Descriptor: "(Lcom/example/Entry;)V", Signature: "(TT;)V"},
		},
	})
	r := &Resolver{Index: x}
	// raw extends, no type arguments to substitute from
	sc := scope{pkg: "com.example", className: "com.example.Sub", extendsRef: "Layer"}

	if got := r.Delegation(sc, "super(null);"); got != "super((com.example.Entry) null);" {
		t.Errorf("got %q", got)
	}
}

func TestPrivateNestedTypeArgumentStripped(t *testing.T) {
	x := signature.NewIndex()
	x.Add(&classfile.ClassFile{
		Name:   "com/example/Outer$Secret",
		Access: classfile.FlagPrivate,
	})
	x.Add(&classfile.ClassFile{
		Name: "com/example/Base",
		Methods: []classfile.Method{
			{
				Name:       "<init>",
				Descriptor: "(Ljava/util/List;)V",
				Signature:  "(Ljava/util/List<Lcom/example/Outer$Secret;>;)V",
			},
		},
	})
	r := &Resolver{Index: x}
	sc := scope{pkg: "com.example", className: "com.example.Sub", extendsRef: "Base"}

	if got := r.Delegation(sc, "super(list);"); got != "super((java.util.List) null);" {
		t.Errorf("got %q", got)
	}
}

func TestParseSourceType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "int"},
		{"String[]", "String[]"},
		{"Map<String, List<Integer>>", "Map<String, List<Integer>>"},
		{"? extends Number", "? extends Number"},
		{"?", "?"},
	}
	for _, tt := range tests {
		if got := parseSourceType(tt.in).String(); got != tt.want {
			t.Errorf("parseSourceType(%q).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArgSig(t *testing.T) {
	tests := []struct {
		expr string
		want signature.TypeSig
	}{
		{"true", signature.Primitive("boolean")},
		{`"x"`, signature.Class("java.lang.String")},
		{"'c'", signature.Primitive("char")},
		{"5", signature.Primitive("int")},
		{"5L", signature.Primitive("long")},
		{"2.5f", signature.Primitive("float")},
		{"2.5", signature.Primitive("double")},
		{"-3", signature.Primitive("int")},
		{"null", signature.Object},
		{"someCall(a)", signature.Object},
		{"(Entry) null", signature.Class("Entry")},
		{"(a + b)", signature.Object},
	}
	for _, tt := range tests {
		got := argSig(tt.expr)
		if got.Kind != tt.want.Kind || got.Name != tt.want.Name {
			t.Errorf("argSig(%q) = %+v, want %+v", tt.expr, got, tt.want)
		}
	}
}
