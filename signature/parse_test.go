package signature

import (
	"testing"
)

func TestParseClassSig(t *testing.T) {
	cs, err := ParseClassSig("<T:Ljava/lang/Object;U::Ljava/lang/Comparable<TU;>;>Lcom/example/Base<TT;>;Ljava/io/Serializable;")
	if err != nil {
		t.Fatalf("ParseClassSig: %v", err)
	}
	if len(cs.TypeParams) != 2 {
		t.Fatalf("type params = %d", len(cs.TypeParams))
	}
	if cs.TypeParams[0].Name != "T" || len(cs.TypeParams[0].Bounds) != 1 {
		t.Errorf("T = %+v", cs.TypeParams[0])
	}
	if cs.TypeParams[1].Name != "U" || len(cs.TypeParams[1].Bounds) != 1 {
		t.Errorf("U = %+v", cs.TypeParams[1])
	}
	if cs.Super.Name != "com.example.Base" || len(cs.Super.Args) != 1 {
		t.Errorf("super = %+v", cs.Super)
	}
	if len(cs.Interfaces) != 1 || cs.Interfaces[0].Name != "java.io.Serializable" {
		t.Errorf("interfaces = %+v", cs.Interfaces)
	}
}

func TestParseMethodSig(t *testing.T) {
	ms, err := ParseMethodSig("<X:Ljava/lang/Object;>(TX;Ljava/util/List<+Ljava/lang/Number;>;[I)Ljava/lang/String;^Ljava/io/IOException;")
	if err != nil {
		t.Fatalf("ParseMethodSig: %v", err)
	}
	if len(ms.TypeParams) != 1 || ms.TypeParams[0].Name != "X" {
		t.Errorf("type params = %+v", ms.TypeParams)
	}
	if len(ms.Params) != 3 {
		t.Fatalf("params = %+v", ms.Params)
	}
	if ms.Params[0].Kind != KindTypeVar || ms.Params[0].Name != "X" {
		t.Errorf("param 0 = %+v", ms.Params[0])
	}
	if ms.Params[1].String() != "java.util.List<? extends java.lang.Number>" {
		t.Errorf("param 1 = %q", ms.Params[1].String())
	}
	if ms.Params[2].String() != "int[]" {
		t.Errorf("param 2 = %q", ms.Params[2].String())
	}
	if ms.Return.Name != "java.lang.String" {
		t.Errorf("return = %+v", ms.Return)
	}
	if len(ms.Throws) != 1 || ms.Throws[0].Name != "java.io.IOException" {
		t.Errorf("throws = %+v", ms.Throws)
	}
}

func TestParseTypeSigRendering(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"I", "int"},
		{"[[J", "long[][]"},
		{"Ljava/util/Map<TK;TV;>;", "java.util.Map<K, V>"},
		{"Ljava/util/Map$Entry;", "java.util.Map.Entry"},
		{"Ljava/util/List<*>;", "java.util.List<?>"},
		{"Ljava/util/List<-TE;>;", "java.util.List<? super E>"},
		{"Lcom/example/Outer<TT;>.Inner;", "com.example.Outer.Inner"},
	}
	for _, tt := range tests {
		got, err := ParseTypeSig(tt.sig)
		if err != nil {
			t.Errorf("ParseTypeSig(%q): %v", tt.sig, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseTypeSig(%q).String() = %q, want %q", tt.sig, got.String(), tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, sig := range []string{"", "Ljava/util/List", "Q;", "(I", "<T:"} {
		if _, err := ParseTypeSig(sig); err == nil {
			if _, err := ParseMethodSig(sig); err == nil {
				t.Errorf("no error for %q", sig)
			}
		}
	}
}

func TestSubstituteAndRaw(t *testing.T) {
	list, err := ParseTypeSig("Ljava/util/List<TT;>;")
	if err != nil {
		t.Fatalf("ParseTypeSig: %v", err)
	}
	sub := list.Substitute(map[string]TypeSig{"T": Class("com.example.Entry")})
	if sub.String() != "java.util.List<com.example.Entry>" {
		t.Errorf("substituted = %q", sub.String())
	}
	if list.String() != "java.util.List<T>" {
		t.Errorf("substitution mutated receiver: %q", list.String())
	}
	if raw := sub.Raw(); raw.String() != "java.util.List" {
		t.Errorf("raw = %q", raw.String())
	}
	if !list.HasTypeVars() || sub.HasTypeVars() {
		t.Errorf("HasTypeVars wrong: %v %v", list.HasTypeVars(), sub.HasTypeVars())
	}
}
