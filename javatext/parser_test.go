package javatext

import (
	"strings"
	"testing"
)

func parseOne(t *testing.T, src string) *TypeDecl {
	t.Helper()
	unit, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(unit.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(unit.Types))
	}
	return unit.Types[0]
}

func TestParseHeader(t *testing.T) {
	unit, err := Parse(`package com.example.game;

import java.util.List;
import static java.util.Objects.requireNonNull;

public final class Engine {
}
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if unit.Package != "com.example.game" {
		t.Errorf("package = %q", unit.Package)
	}
	if len(unit.Imports) != 2 || unit.Imports[0] != "java.util.List" {
		t.Errorf("imports = %v", unit.Imports)
	}
	decl := unit.Types[0]
	if decl.Name != "Engine" || decl.Kind != KindClass {
		t.Errorf("decl = %s %s", decl.Kind, decl.Name)
	}
	if !decl.HasModifier("public") || !decl.HasModifier("final") {
		t.Errorf("modifiers = %v", decl.Modifiers)
	}
}

func TestParseClassClauses(t *testing.T) {
	decl := parseOne(t, `
public abstract class Registry<K, V extends Entry<K>> extends Base<K> implements Iterable<V>, AutoCloseable {
}
`)
	if decl.TypeParams != "<K, V extends Entry<K>>" {
		t.Errorf("type params = %q", decl.TypeParams)
	}
	if len(decl.Extends) != 1 || decl.Extends[0] != "Base<K>" {
		t.Errorf("extends = %v", decl.Extends)
	}
	if len(decl.Implements) != 2 || decl.Implements[1] != "AutoCloseable" {
		t.Errorf("implements = %v", decl.Implements)
	}
}

func TestParseMembers(t *testing.T) {
	decl := parseOne(t, `
class Holder {
    private static final int LIMIT = 16, MASK = LIMIT - 1;
    protected java.util.Map<String, java.util.List<Integer>> index;

    Holder(int size) {
        this.index = build(size);
    }

    public <T extends Number> T pick(T[] values, int at) throws IllegalStateException {
        return values[at];
    }

    static {
        System.loadLibrary("holder");
    }
}
`)
	if len(decl.Members) != 5 {
		t.Fatalf("expected 5 members, got %d", len(decl.Members))
	}

	limit := decl.Members[0]
	if limit.Kind != MemberField || limit.Type != "int" {
		t.Errorf("field = %+v", limit)
	}
	if len(limit.Declarators) != 2 {
		t.Fatalf("declarators = %v", limit.Declarators)
	}
	if limit.Declarators[0].Init != "16" || limit.Declarators[1].Init != "LIMIT - 1" {
		t.Errorf("inits = %q, %q", limit.Declarators[0].Init, limit.Declarators[1].Init)
	}

	index := decl.Members[1]
	if index.Type != "java.util.Map<String, java.util.List<Integer>>" {
		t.Errorf("field type = %q", index.Type)
	}
	if index.Name != "index" {
		t.Errorf("field name = %q", index.Name)
	}

	ctor := decl.Members[2]
	if ctor.Kind != MemberConstructor || ctor.Name != "Holder" {
		t.Errorf("ctor = %+v", ctor)
	}
	if ctor.Params != "(int size)" {
		t.Errorf("ctor params = %q", ctor.Params)
	}
	if !strings.Contains(ctor.Body.Raw, "build(size)") {
		t.Errorf("ctor body = %q", ctor.Body.Raw)
	}

	pick := decl.Members[3]
	if pick.Kind != MemberMethod || pick.TypeParams != "<T extends Number>" {
		t.Errorf("method = %+v", pick)
	}
	if pick.Type != "T" || pick.Throws != "IllegalStateException" {
		t.Errorf("method type/throws = %q / %q", pick.Type, pick.Throws)
	}

	init := decl.Members[4]
	if init.Kind != MemberStaticInit {
		t.Errorf("init kind = %v", init.Kind)
	}
}

func TestParseEnum(t *testing.T) {
	decl := parseOne(t, `
public enum Phase {
    @Deprecated
    START("s"),
    RUN("r") {
        int weight() {
            return 2;
        }
    },
    STOP;

    private final String tag;

    Phase(String tag) {
        this.tag = tag;
    }

    Phase() {
        this("?");
    }
}
`)
	if decl.Kind != KindEnum {
		t.Fatalf("kind = %v", decl.Kind)
	}
	if len(decl.Constants) != 3 {
		t.Fatalf("constants = %d", len(decl.Constants))
	}
	if decl.Constants[0].Args != `("s")` || len(decl.Constants[0].Annotations) != 1 {
		t.Errorf("START = %+v", decl.Constants[0])
	}
	if len(decl.Constants[1].Body) != 1 {
		t.Errorf("RUN body members = %d", len(decl.Constants[1].Body))
	}
	if decl.Constants[2].Args != "" {
		t.Errorf("STOP args = %q", decl.Constants[2].Args)
	}
	if len(decl.Members) != 3 {
		t.Errorf("members = %d", len(decl.Members))
	}
	if decl.Members[2].Kind != MemberConstructor || !strings.Contains(decl.Members[2].Body.Raw, `this("?")`) {
		t.Errorf("second ctor = %+v", decl.Members[2])
	}
}

func TestParseRecord(t *testing.T) {
	decl := parseOne(t, `
public record Point(int x, int y) implements Comparable<Point> {
    public Point {
        if (x < 0) throw new IllegalArgumentException();
    }

    public int compareTo(Point o) {
        return Integer.compare(x, o.x);
    }
}
`)
	if decl.Kind != KindRecord || decl.RecordHeader != "(int x, int y)" {
		t.Fatalf("record = %+v", decl)
	}
	compact := decl.Members[0]
	if compact.Kind != MemberConstructor || compact.Params != "" {
		t.Errorf("compact ctor = %+v", compact)
	}
}

func TestParseInterfaceAndAnnotation(t *testing.T) {
	unit, err := Parse(`
public interface Task extends Runnable {
    int priority();

    default String label() {
        return "task";
    }
}

@interface Marker {
    String value() default "";
}
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	iface := unit.Types[0]
	if iface.Kind != KindInterface || len(iface.Extends) != 1 {
		t.Errorf("interface = %+v", iface)
	}
	if iface.Members[0].Body != nil {
		t.Errorf("abstract method has body")
	}
	if !iface.Members[1].HasModifier("default") {
		t.Errorf("default method modifiers = %v", iface.Members[1].Modifiers)
	}

	marker := unit.Types[1]
	if marker.Kind != KindAnnotation {
		t.Fatalf("marker kind = %v", marker.Kind)
	}
	if marker.Members[0].Default != `""` {
		t.Errorf("default = %q", marker.Members[0].Default)
	}
}

func TestParseNestedAndSealed(t *testing.T) {
	decl := parseOne(t, `
public sealed class Shape permits Circle, Square {
    public static final class Circle extends Shape {
        double radius;
    }

    public abstract non-sealed class Square extends Shape {
        abstract double side();
    }
}
`)
	if !decl.HasModifier("sealed") || len(decl.Permits) != 2 {
		t.Fatalf("sealed decl = %+v", decl)
	}
	circle := decl.Members[0]
	if circle.Kind != MemberType || circle.Nested.Name != "Circle" {
		t.Fatalf("nested = %+v", circle)
	}
	square := decl.Members[1].Nested
	if !square.HasModifier("non-sealed") {
		t.Errorf("square modifiers = %v", square.Modifiers)
	}
	if square.Members[0].Body != nil {
		t.Errorf("abstract method has body")
	}
}

func TestParseRejectsStatementSoup(t *testing.T) {
	for _, src := range []string{
		"class A { int x = ; }",
		"class A { void f() { ",
		"if (true) {}",
	} {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", src)
		}
	}
}
