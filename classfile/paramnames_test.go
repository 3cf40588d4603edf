package classfile

import (
	"reflect"
	"testing"
)

func TestParameterNamesFromMethodParameters(t *testing.T) {
	m := &Method{
		Descriptor: "(ILjava/lang/String;)V",
		Parameters: []MethodParameter{{Name: "count"}, {Name: "label"}},
	}
	want := []string{"count", "label"}
	if got := ParameterNames(m, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParameterNamesFromLocalVariableTable(t *testing.T) {
	m := &Method{
		Access:     0, // instance method, receiver in slot 0
		Descriptor: "(IJLjava/lang/String;)V",
		LocalVars: []LocalVar{
			{Slot: 0, StartPC: 0, Name: "this", Descriptor: "Lcom/example/Foo;"},
			{Slot: 1, StartPC: 0, Name: "count", Descriptor: "I"},
			{Slot: 2, StartPC: 0, Name: "stamp", Descriptor: "J"},
			{Slot: 4, StartPC: 0, Name: "label", Descriptor: "Ljava/lang/String;"},
			{Slot: 5, StartPC: 8, Name: "local", Descriptor: "I"},
		},
	}
	want := []string{"count", "stamp", "label"}
	if got := ParameterNames(m, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParameterNamesStaticStartsAtSlotZero(t *testing.T) {
	m := &Method{
		Access:     FlagStatic,
		Descriptor: "(DI)V",
		LocalVars: []LocalVar{
			{Slot: 0, StartPC: 0, Name: "ratio", Descriptor: "D"},
			{Slot: 2, StartPC: 0, Name: "steps", Descriptor: "I"},
		},
	}
	want := []string{"ratio", "steps"}
	if got := ParameterNames(m, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParameterNamesEnumConstructorSkip(t *testing.T) {
	// Color(String name, int ordinal, String label) in bytecode; source
	// declares only label.
	m := &Method{
		Name:       "<init>",
		Descriptor: "(Ljava/lang/String;ILjava/lang/String;)V",
		LocalVars: []LocalVar{
			{Slot: 0, StartPC: 0, Name: "this"},
			{Slot: 1, StartPC: 0, Name: "$enum$name"},
			{Slot: 2, StartPC: 0, Name: "$enum$ordinal"},
			{Slot: 3, StartPC: 0, Name: "label"},
		},
	}
	want := []string{"label"}
	if got := ParameterNames(m, SkipEnumCtor); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParameterNamesInnerConstructorSkip(t *testing.T) {
	m := &Method{
		Name:       "<init>",
		Descriptor: "(Lcom/example/Outer;I)V",
		LocalVars: []LocalVar{
			{Slot: 0, StartPC: 0, Name: "this"},
			{Slot: 1, StartPC: 0, Name: "this$0"},
			{Slot: 2, StartPC: 0, Name: "size"},
		},
	}
	want := []string{"size"}
	if got := ParameterNames(m, SkipInnerCtor); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParameterNamesFallback(t *testing.T) {
	m := &Method{Descriptor: "(IJ)V"}
	want := []string{"param0", "param1"}
	if got := ParameterNames(m, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// partial table still fills gaps positionally
	m = &Method{
		Descriptor: "(II)V",
		LocalVars: []LocalVar{
			{Slot: 1, StartPC: 0, Name: "first"},
		},
	}
	want = []string{"first", "param1"}
	if got := ParameterNames(m, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParameterNamesCountLaw(t *testing.T) {
	m := &Method{Descriptor: "(Ljava/lang/String;IJD[B)V"}
	for skip := 0; skip <= 5; skip++ {
		if got := len(ParameterNames(m, skip)); got != 5-skip {
			t.Errorf("skip %d: len = %d, want %d", skip, got, 5-skip)
		}
	}
}
