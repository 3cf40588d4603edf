package classfile

import (
	"reflect"
	"testing"
)

func TestParamDescriptors(t *testing.T) {
	tests := []struct {
		desc string
		want []string
	}{
		{"()V", nil},
		{"(I)V", []string{"I"}},
		{"(IJLjava/lang/String;)V", []string{"I", "J", "Ljava/lang/String;"}},
		{"([[ILjava/util/List;D)Ljava/lang/Object;", []string{"[[I", "Ljava/util/List;", "D"}},
		{"bogus", nil},
	}
	for _, tt := range tests {
		if got := ParamDescriptors(tt.desc); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParamDescriptors(%q) = %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestReturnDescriptor(t *testing.T) {
	if got := ReturnDescriptor("(I)Ljava/lang/String;"); got != "Ljava/lang/String;" {
		t.Errorf("got %q", got)
	}
	if got := ReturnDescriptor("()V"); got != "V" {
		t.Errorf("got %q", got)
	}
}

func TestDescriptorToSource(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"I", "int"},
		{"Z", "boolean"},
		{"[J", "long[]"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[[Ljava/util/Map$Entry;", "java.util.Map.Entry[][]"},
	}
	for _, tt := range tests {
		if got := DescriptorToSource(tt.desc); got != tt.want {
			t.Errorf("DescriptorToSource(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestIsWideDescriptor(t *testing.T) {
	if !IsWideDescriptor("J") || !IsWideDescriptor("D") || IsWideDescriptor("I") {
		t.Errorf("wide classification wrong")
	}
}
