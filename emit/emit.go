// Package emit builds stub source directly from class metadata, with no
// decompiler involved: declarations are reconstructed from descriptors and
// generic signatures, bodies are left empty and filled in by the stub
// transformer afterwards.
package emit

import (
	"strconv"
	"strings"

	"github.com/hytalekt/stubgen/archive"
	"github.com/hytalekt/stubgen/classfile"
	"github.com/hytalekt/stubgen/javatext"
	"github.com/hytalekt/stubgen/signature"
)

// Unit reconstructs the compilation unit of one top-level class, including
// its nested types. Member bodies come back empty; run the unit through the
// stub transformer to get delegation calls and sentinel throws.
func Unit(a *archive.Archive, cls *archive.Class) *javatext.CompilationUnit {
	return &javatext.CompilationUnit{
		Package: cls.Package(),
		Types:   []*javatext.TypeDecl{typeDecl(a, cls)},
	}
}

func typeDecl(a *archive.Archive, cls *archive.Class) *javatext.TypeDecl {
	cf := cls.File
	decl := &javatext.TypeDecl{
		Kind:      typeKind(cls.Kind),
		Name:      cls.SimpleName(),
		Modifiers: classModifiers(cls),
	}

	applyHierarchy(decl, cf)
	if decl.Kind == javatext.KindRecord {
		decl.RecordHeader = recordHeader(cf)
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.Access.IsSynthetic() || strings.ContainsRune(f.Name, '$') {
			continue
		}
		if decl.Kind == javatext.KindEnum && f.Access.IsEnum() {
			decl.Constants = append(decl.Constants, &javatext.EnumConstant{Name: f.Name})
			continue
		}
		if decl.Kind == javatext.KindRecord && !f.Access.IsStatic() {
			continue // component backing fields, covered by the header
		}
		decl.Members = append(decl.Members, fieldMember(f))
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		if member := methodMember(cf, decl.Kind, m); member != nil {
			decl.Members = append(decl.Members, member)
		}
	}

	for _, name := range directNested(a, cls.Name) {
		decl.Members = append(decl.Members, &javatext.Member{
			Kind:   javatext.MemberType,
			Nested: typeDecl(a, a.Class(name)),
		})
	}
	return decl
}

func typeKind(k archive.Kind) javatext.TypeKind {
	switch k {
	case archive.KindInterface:
		return javatext.KindInterface
	case archive.KindEnum:
		return javatext.KindEnum
	case archive.KindRecord:
		return javatext.KindRecord
	case archive.KindAnnotation:
		return javatext.KindAnnotation
	default:
		return javatext.KindClass
	}
}

// classModifiers derives declaration modifiers. Nested types carry their real
// access in the enclosing InnerClasses self-entry, not in the class header.
func classModifiers(cls *archive.Class) []string {
	cf := cls.File
	access := cf.Access
	for _, ic := range cf.Inner {
		if ic.Inner == cf.Name {
			access = ic.Access
			break
		}
	}

	mods := accessModifier(access)
	if cls.IsNested() && access.IsStatic() {
		mods = append(mods, "static")
	}
	switch cls.Kind {
	case archive.KindClass:
		if access.IsAbstract() {
			mods = append(mods, "abstract")
		}
		if access.IsFinal() {
			mods = append(mods, "final")
		}
	case archive.KindRecord:
		// implicitly final
	}
	return mods
}

func accessModifier(f classfile.Flags) []string {
	switch {
	case f.IsPublic():
		return []string{"public"}
	case f.IsProtected():
		return []string{"protected"}
	case f.IsPrivate():
		return []string{"private"}
	}
	return nil
}

// applyHierarchy fills type parameters and the extends/implements clauses
// from the generic signature, falling back to the erased names.
func applyHierarchy(decl *javatext.TypeDecl, cf *classfile.ClassFile) {
	var super string
	var ifaces []string
	if cs, err := signature.ParseClassSig(cf.Signature); cf.Signature != "" && err == nil {
		decl.TypeParams = typeParamsText(cs.TypeParams)
		if !cs.Super.IsObject() {
			super = cs.Super.String()
		}
		for _, t := range cs.Interfaces {
			ifaces = append(ifaces, t.String())
		}
	} else {
		if cf.SuperName != "" && cf.SuperName != "java/lang/Object" {
			super = sourceType(cf.SuperName)
		}
		for _, name := range cf.Interfaces {
			ifaces = append(ifaces, sourceType(name))
		}
	}

	switch decl.Kind {
	case javatext.KindInterface:
		decl.Extends = ifaces
	case javatext.KindAnnotation:
		// java.lang.annotation.Annotation is implicit
	case javatext.KindEnum, javatext.KindRecord:
		decl.Implements = ifaces // Enum/Record superclass is implicit
	default:
		if super != "" {
			decl.Extends = []string{super}
		}
		decl.Implements = ifaces
	}
}

func typeParamsText(tps []signature.TypeParam) string {
	if len(tps) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('<')
	for i, tp := range tps {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tp.Name)
		var bounds []string
		for _, b := range tp.Bounds {
			if !b.IsObject() {
				bounds = append(bounds, b.String())
			}
		}
		if len(bounds) > 0 {
			sb.WriteString(" extends ")
			sb.WriteString(strings.Join(bounds, " & "))
		}
	}
	sb.WriteByte('>')
	return sb.String()
}

func recordHeader(cf *classfile.ClassFile) string {
	parts := make([]string, 0, len(cf.Components))
	for _, rc := range cf.Components {
		parts = append(parts, componentType(rc)+" "+rc.Name)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func componentType(rc classfile.RecordComponent) string {
	if rc.Signature != "" {
		if t, err := signature.ParseTypeSig(rc.Signature); err == nil {
			return t.String()
		}
	}
	return classfile.DescriptorToSource(rc.Descriptor)
}

func fieldMember(f *classfile.Field) *javatext.Member {
	mods := accessModifier(f.Access)
	if f.Access.IsStatic() {
		mods = append(mods, "static")
	}
	if f.Access.IsFinal() {
		mods = append(mods, "final")
	}
	if f.Access.IsVolatile() {
		mods = append(mods, "volatile")
	}
	if f.Access.IsTransient() {
		mods = append(mods, "transient")
	}
	typ := classfile.DescriptorToSource(f.Descriptor)
	if f.Signature != "" {
		if t, err := signature.ParseTypeSig(f.Signature); err == nil {
			typ = t.String()
		}
	}
	return &javatext.Member{
		Kind:        javatext.MemberField,
		Modifiers:   mods,
		Type:        typ,
		Declarators: []javatext.Declarator{{Name: f.Name, Init: constantText(f)}},
	}
}

func methodMember(cf *classfile.ClassFile, kind javatext.TypeKind, m *classfile.Method) *javatext.Member {
	if m.Access.IsSynthetic() || m.Access.IsBridge() || m.IsStaticInitializer() {
		return nil
	}
	if kind == javatext.KindEnum && (m.IsConstructor() || isEnumHelper(cf, m)) {
		return nil
	}

	member := &javatext.Member{Name: m.Name}
	if m.IsConstructor() {
		member.Kind = javatext.MemberConstructor
		member.Name = simpleName(cf.Name)
	} else {
		member.Kind = javatext.MemberMethod
	}

	member.Modifiers = methodModifiers(kind, m)

	paramTypes, ret, throws := methodTypes(m)
	member.Type = ret
	if m.Signature != "" {
		if ms, err := signature.ParseMethodSig(m.Signature); err == nil {
			member.TypeParams = typeParamsText(ms.TypeParams)
		}
	}

	skip := len(classfile.ParamDescriptors(m.Descriptor)) - len(paramTypes)
	if skip == 0 && member.Kind == javatext.MemberConstructor && innerInstanceClass(cf) {
		// generic signatures already omit the outer-instance argument; the
		// erased descriptor does not
		skip = classfile.SkipInnerCtor
		if len(paramTypes) >= skip {
			paramTypes = paramTypes[skip:]
		}
	}
	names := classfile.ParameterNames(m, skip)

	if member.Kind == javatext.MemberConstructor && kind == javatext.KindRecord &&
		m.Descriptor == canonicalDescriptor(cf) {
		// canonical record constructor, printed in compact form
		member.Params = ""
	} else {
		member.Params = paramsText(paramTypes, names, m.Access.IsVarargs())
	}

	if len(throws) == 0 {
		for _, exc := range m.Exceptions {
			throws = append(throws, sourceType(exc))
		}
	}
	member.Throws = strings.Join(throws, ", ")

	switch {
	case m.Access.IsAbstract() || m.Access.IsNative():
		member.Body = nil
	case kind == javatext.KindAnnotation:
		member.Body = nil
	default:
		member.Body = &javatext.Block{}
	}
	return member
}

func methodModifiers(kind javatext.TypeKind, m *classfile.Method) []string {
	mods := accessModifier(m.Access)
	iface := kind == javatext.KindInterface || kind == javatext.KindAnnotation
	if iface && !m.Access.IsStatic() && !m.Access.IsPrivate() && m.HasCode {
		mods = append(mods, "default")
	}
	if !iface && m.Access.IsAbstract() {
		mods = append(mods, "abstract")
	}
	if m.Access.IsStatic() {
		mods = append(mods, "static")
	}
	if m.Access.IsFinal() {
		mods = append(mods, "final")
	}
	if m.Access.IsNative() {
		mods = append(mods, "native")
	}
	return mods
}

// methodTypes recovers parameter, return and throws source types from the
// generic signature when present, the erased descriptor otherwise. Signature
// parameter lists omit compiler-added leading arguments.
func methodTypes(m *classfile.Method) (params []string, ret string, throws []string) {
	if m.Signature != "" {
		if ms, err := signature.ParseMethodSig(m.Signature); err == nil {
			for _, t := range ms.Params {
				params = append(params, t.String())
			}
			for _, t := range ms.Throws {
				throws = append(throws, t.String())
			}
			return params, ms.Return.String(), throws
		}
	}
	for _, d := range classfile.ParamDescriptors(m.Descriptor) {
		params = append(params, classfile.DescriptorToSource(d))
	}
	ret = classfile.DescriptorToSource(classfile.ReturnDescriptor(m.Descriptor))
	return params, ret, nil
}

func paramsText(types, names []string, varargs bool) string {
	parts := make([]string, 0, len(types))
	for i, t := range types {
		name := "param" + strconv.Itoa(i)
		if i < len(names) {
			name = names[i]
		}
		if varargs && i == len(types)-1 && strings.HasSuffix(t, "[]") {
			t = strings.TrimSuffix(t, "[]") + "..."
		}
		parts = append(parts, t+" "+name)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// canonicalDescriptor is the descriptor of the record's canonical
// constructor, built from the component list.
func canonicalDescriptor(cf *classfile.ClassFile) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, rc := range cf.Components {
		sb.WriteString(rc.Descriptor)
	}
	sb.WriteString(")V")
	return sb.String()
}

// innerInstanceClass reports whether the class is a non-static nested type,
// whose constructors carry a hidden outer-instance parameter.
func innerInstanceClass(cf *classfile.ClassFile) bool {
	if !strings.ContainsRune(cf.Name, '$') {
		return false
	}
	for _, ic := range cf.Inner {
		if ic.Inner == cf.Name {
			return !ic.Access.IsStatic() && !ic.Access.IsInterface() && !ic.Access.IsEnum()
		}
	}
	return false
}

// isEnumHelper matches the compiler-generated values() and valueOf(String)
// members of an enum.
func isEnumHelper(cf *classfile.ClassFile, m *classfile.Method) bool {
	switch m.Name {
	case "values":
		return m.Descriptor == "()[L"+cf.Name+";"
	case "valueOf":
		return m.Descriptor == "(Ljava/lang/String;)L"+cf.Name+";"
	}
	return false
}

// directNested lists the immediate nested types of a class, in archive order.
// Anonymous and local classes (numeric segments) are skipped.
func directNested(a *archive.Archive, parent string) []string {
	var out []string
	prefix := parent + "$"
	for _, name := range a.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := name[len(prefix):]
		if strings.ContainsRune(rest, '$') || rest == "" || rest[0] >= '0' && rest[0] <= '9' {
			continue
		}
		out = append(out, name)
	}
	return out
}

func simpleName(internal string) string {
	name := internal
	if i := strings.LastIndexByte(name, '$'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func sourceType(internal string) string {
	return strings.ReplaceAll(classfile.SourceName(internal), "$", ".")
}

func constantText(f *classfile.Field) string {
	switch v := f.ConstantValue.(type) {
	case int32:
		switch f.Descriptor {
		case "Z":
			if v != 0 {
				return "true"
			}
			return "false"
		case "C":
			return charLiteral(rune(v))
		}
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10) + "L"
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32) + "f"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return stringLiteral(v)
	}
	return ""
}

func charLiteral(r rune) string {
	switch r {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	}
	if r >= 0x20 && r < 0x7F {
		return "'" + string(r) + "'"
	}
	var sb strings.Builder
	sb.WriteByte('\'')
	uEscape(&sb, r)
	sb.WriteByte('\'')
	return sb.String()
}

// stringLiteral renders a Java string literal. Non-ASCII and control
// characters become \uXXXX escapes, astral runes a surrogate pair, since
// Java has no \x or \U escape forms.
func stringLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			switch {
			case r >= 0x20 && r < 0x7F:
				sb.WriteRune(r)
			case r > 0xFFFF:
				r -= 0x10000
				uEscape(&sb, 0xD800+(r>>10))
				uEscape(&sb, 0xDC00+(r&0x3FF))
			default:
				uEscape(&sb, r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func uEscape(sb *strings.Builder, r rune) {
	sb.WriteString(`\u`)
	hex := strconv.FormatInt(int64(r), 16)
	for len(hex) < 4 {
		hex = "0" + hex
	}
	sb.WriteString(hex)
}
