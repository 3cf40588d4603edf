// Package classfile reads compiled JVM class files into resolved descriptors:
// constant-pool indices are chased at parse time so callers only ever see
// names, descriptors and signatures as strings.
package classfile

import "strings"

const magic = 0xCAFEBABE

type Flags uint16

const (
	FlagPublic     Flags = 0x0001
	FlagPrivate    Flags = 0x0002
	FlagProtected  Flags = 0x0004
	FlagStatic     Flags = 0x0008
	FlagFinal      Flags = 0x0010
	FlagSuper      Flags = 0x0020
	FlagVolatile   Flags = 0x0040
	FlagBridge     Flags = 0x0040
	FlagTransient  Flags = 0x0080
	FlagVarargs    Flags = 0x0080
	FlagNative     Flags = 0x0100
	FlagInterface  Flags = 0x0200
	FlagAbstract   Flags = 0x0400
	FlagSynthetic  Flags = 0x1000
	FlagAnnotation Flags = 0x2000
	FlagEnum       Flags = 0x4000
	FlagModule     Flags = 0x8000
)

func (f Flags) IsPublic() bool     { return f&FlagPublic != 0 }
func (f Flags) IsPrivate() bool    { return f&FlagPrivate != 0 }
func (f Flags) IsProtected() bool  { return f&FlagProtected != 0 }
func (f Flags) IsStatic() bool     { return f&FlagStatic != 0 }
func (f Flags) IsFinal() bool      { return f&FlagFinal != 0 }
func (f Flags) IsVolatile() bool   { return f&FlagVolatile != 0 }
func (f Flags) IsBridge() bool     { return f&FlagBridge != 0 }
func (f Flags) IsTransient() bool  { return f&FlagTransient != 0 }
func (f Flags) IsVarargs() bool    { return f&FlagVarargs != 0 }
func (f Flags) IsNative() bool     { return f&FlagNative != 0 }
func (f Flags) IsInterface() bool  { return f&FlagInterface != 0 }
func (f Flags) IsAbstract() bool   { return f&FlagAbstract != 0 }
func (f Flags) IsSynthetic() bool  { return f&FlagSynthetic != 0 }
func (f Flags) IsAnnotation() bool { return f&FlagAnnotation != 0 }
func (f Flags) IsEnum() bool       { return f&FlagEnum != 0 }
func (f Flags) IsModule() bool     { return f&FlagModule != 0 }

// ClassFile is the resolved form of one .class file. All class names are
// internal (slash-separated, $-nested) unless stated otherwise.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Access       Flags
	Name         string
	SuperName    string
	Interfaces   []string
	Signature    string
	SourceFile   string
	Fields       []Field
	Methods      []Method
	Inner        []InnerClass
	NestMembers  []string
	Components   []RecordComponent
}

// RecordComponent is one entry of the Record attribute, in declaration order.
type RecordComponent struct {
	Name       string
	Descriptor string
	Signature  string
}

type Field struct {
	Access        Flags
	Name          string
	Descriptor    string
	Signature     string
	ConstantValue any // int32, int64, float32, float64 or string; nil when absent
	Annotations   []Annotation
}

type Method struct {
	Access      Flags
	Name        string
	Descriptor  string
	Signature   string
	Exceptions  []string
	Parameters  []MethodParameter // MethodParameters attribute, often absent
	LocalVars   []LocalVar        // debug LocalVariableTable, often absent
	HasCode     bool
	Annotations []Annotation
}

type MethodParameter struct {
	Name   string
	Access Flags
}

// LocalVar is one entry of the debug local-variable table. Slot is the frame
// slot index; long and double occupy two slots.
type LocalVar struct {
	Slot       uint16
	StartPC    uint16
	Name       string
	Descriptor string
}

type InnerClass struct {
	Inner  string
	Outer  string
	Name   string // simple name, empty for anonymous classes
	Access Flags
}

type Annotation struct {
	Type   string // field descriptor form, e.g. Ljava/lang/Deprecated;
	Values map[string]any
}

func (cf *ClassFile) IsInterface() bool {
	return cf.Access.IsInterface() && !cf.Access.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool { return cf.Access.IsAnnotation() }
func (cf *ClassFile) IsEnum() bool       { return cf.Access.IsEnum() }
func (cf *ClassFile) IsModule() bool     { return cf.Access.IsModule() }

// IsRecord reports whether the class was compiled from a record declaration.
func (cf *ClassFile) IsRecord() bool {
	return cf.SuperName == "java/lang/Record"
}

func (cf *ClassFile) Constructors() []*Method {
	var out []*Method
	for i := range cf.Methods {
		if cf.Methods[i].Name == "<init>" {
			out = append(out, &cf.Methods[i])
		}
	}
	return out
}

func (cf *ClassFile) Method(name, descriptor string) *Method {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name == name && (descriptor == "" || m.Descriptor == descriptor) {
			return m
		}
	}
	return nil
}

func (m *Method) IsConstructor() bool       { return m.Name == "<init>" }
func (m *Method) IsStaticInitializer() bool { return m.Name == "<clinit>" }

// SourceName converts an internal class name to its dotted source form.
// Nested-class separators are kept as-is.
func SourceName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// InternalName is the inverse of SourceName for top-level package paths.
func InternalName(source string) string {
	return strings.ReplaceAll(source, ".", "/")
}
