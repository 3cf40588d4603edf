package signature

import (
	"testing"

	"github.com/hytalekt/stubgen/classfile"
)

func TestIndexAdd(t *testing.T) {
	x := NewIndex()
	x.Add(&classfile.ClassFile{
		Name:      "com/example/Layer",
		SuperName: "java/lang/Object",
		Signature: "<T:Ljava/lang/Object;>Ljava/lang/Object;",
		Methods: []classfile.Method{
			{Name: "<init>", Descriptor: "()V"},
			{Name: "<init>", Descriptor: "(Ljava/lang/Object;)V", Signature: "(TT;)V"},
			{Name: "size", Descriptor: "()I"},
		},
	})

	if !x.Has("com.example.Layer") || x.Len() != 1 {
		t.Fatalf("class not indexed")
	}
	tps := x.TypeParams("com.example.Layer")
	if len(tps) != 1 || tps[0].Name != "T" {
		t.Errorf("type params = %+v", tps)
	}
	ctors := x.Constructors("com.example.Layer")
	if len(ctors) != 2 {
		t.Fatalf("constructors = %+v", ctors)
	}
	if len(ctors[0].Params) != 0 {
		t.Errorf("no-arg ctor params = %+v", ctors[0].Params)
	}
	if ctors[1].Params[0].Kind != KindTypeVar || ctors[1].Params[0].Name != "T" {
		t.Errorf("generic ctor param = %+v", ctors[1].Params[0])
	}
}

func TestIndexErasedFallback(t *testing.T) {
	x := NewIndex()
	x.Add(&classfile.ClassFile{
		Name: "com/example/Plain",
		Methods: []classfile.Method{
			{Name: "<init>", Descriptor: "(ILjava/lang/String;[J)V"},
		},
	})
	ctors := x.Constructors("com.example.Plain")
	if len(ctors) != 1 || len(ctors[0].Params) != 3 {
		t.Fatalf("ctors = %+v", ctors)
	}
	want := []string{"int", "java.lang.String", "long[]"}
	for i, w := range want {
		if got := ctors[0].Params[i].String(); got != w {
			t.Errorf("param %d = %q, want %q", i, got, w)
		}
	}
}

func TestIndexPrivateBitFromInnerClasses(t *testing.T) {
	x := NewIndex()
	x.Add(&classfile.ClassFile{
		Name:   "com/example/Outer$Secret",
		Access: classfile.FlagPublic, // nested types lose the private bit here
		Inner: []classfile.InnerClass{
			{Inner: "com/example/Outer$Secret", Outer: "com/example/Outer", Access: classfile.FlagPrivate},
		},
	})
	if !x.IsPrivate("com.example.Outer$Secret") {
		t.Errorf("private bit not taken from InnerClasses entry")
	}
	if x.IsPrivate("com.example.Unknown") {
		t.Errorf("unknown class reported private")
	}
}

func TestIndexSuperSignature(t *testing.T) {
	x := NewIndex()
	x.Add(&classfile.ClassFile{
		Name:      "com/example/Sub",
		SuperName: "com/example/Base",
		Signature: "Lcom/example/Base<Ljava/lang/String;>;",
	})
	x.Add(&classfile.ClassFile{
		Name:      "com/example/Top",
		SuperName: "java/lang/Object",
	})

	super := x.SuperSignature("com.example.Sub")
	if super == nil || super.String() != "com.example.Base<java.lang.String>" {
		t.Errorf("super = %+v", super)
	}
	if x.SuperSignature("com.example.Top") != nil {
		t.Errorf("Object superclass should be nil")
	}
}
