package javatext

import (
	"strings"
)

const indentUnit = "    "

// Print renders a compilation unit back to Java source.
func Print(unit *CompilationUnit) string {
	var sb strings.Builder
	if unit.Package != "" {
		sb.WriteString("package ")
		sb.WriteString(unit.Package)
		sb.WriteString(";\n\n")
	}
	if len(unit.Imports) > 0 {
		for _, imp := range unit.Imports {
			sb.WriteString("import ")
			sb.WriteString(imp)
			sb.WriteString(";\n")
		}
		sb.WriteByte('\n')
	}
	for i, decl := range unit.Types {
		if i > 0 {
			sb.WriteByte('\n')
		}
		printType(&sb, decl, 0)
	}
	return sb.String()
}

func printType(sb *strings.Builder, decl *TypeDecl, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	for _, ann := range decl.Annotations {
		sb.WriteString(ind)
		sb.WriteString(ann)
		sb.WriteByte('\n')
	}
	sb.WriteString(ind)
	for _, mod := range decl.Modifiers {
		sb.WriteString(mod)
		sb.WriteByte(' ')
	}
	sb.WriteString(decl.Kind.String())
	sb.WriteByte(' ')
	sb.WriteString(decl.Name)
	sb.WriteString(decl.TypeParams)
	sb.WriteString(decl.RecordHeader)
	writeTypeList(sb, "extends", decl.Extends)
	writeTypeList(sb, "implements", decl.Implements)
	writeTypeList(sb, "permits", decl.Permits)
	sb.WriteString(" {\n")

	if decl.Kind == KindEnum {
		if len(decl.Constants) > 0 {
			printConstants(sb, decl.Constants, depth+1)
		} else if len(decl.Members) > 0 {
			// a constant-less enum body still needs the separator
			sb.WriteString(strings.Repeat(indentUnit, depth+1))
			sb.WriteString(";\n")
		}
		if len(decl.Members) > 0 {
			sb.WriteByte('\n')
		}
	}
	for i, m := range decl.Members {
		if i > 0 {
			sb.WriteByte('\n')
		}
		printMember(sb, m, depth+1)
	}
	sb.WriteString(ind)
	sb.WriteString("}\n")
}

func writeTypeList(sb *strings.Builder, keyword string, list []string) {
	if len(list) == 0 {
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(keyword)
	sb.WriteByte(' ')
	sb.WriteString(strings.Join(list, ", "))
}

func printConstants(sb *strings.Builder, constants []*EnumConstant, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	for i, c := range constants {
		for _, ann := range c.Annotations {
			sb.WriteString(ind)
			sb.WriteString(ann)
			sb.WriteByte('\n')
		}
		sb.WriteString(ind)
		sb.WriteString(c.Name)
		sb.WriteString(c.Args)
		if len(c.Body) > 0 {
			sb.WriteString(" {\n")
			for j, m := range c.Body {
				if j > 0 {
					sb.WriteByte('\n')
				}
				printMember(sb, m, depth+1)
			}
			sb.WriteString(ind)
			sb.WriteString("}")
		}
		if i < len(constants)-1 {
			sb.WriteString(",\n")
		} else {
			sb.WriteString(";\n")
		}
	}
}

func printMember(sb *strings.Builder, m *Member, depth int) {
	if m.Kind == MemberType {
		printType(sb, m.Nested, depth)
		return
	}
	ind := strings.Repeat(indentUnit, depth)
	for _, ann := range m.Annotations {
		sb.WriteString(ind)
		sb.WriteString(ann)
		sb.WriteByte('\n')
	}
	sb.WriteString(ind)
	for _, mod := range m.Modifiers {
		sb.WriteString(mod)
		sb.WriteByte(' ')
	}

	switch m.Kind {
	case MemberStaticInit, MemberInstanceInit:
		printBlock(sb, m.Body, depth)
	case MemberField:
		sb.WriteString(m.Type)
		sb.WriteByte(' ')
		for i, d := range m.Declarators {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Name)
			sb.WriteString(d.Dims)
			if d.Init != "" {
				sb.WriteString(" = ")
				sb.WriteString(d.Init)
			}
		}
		sb.WriteString(";\n")
	case MemberConstructor, MemberMethod:
		if m.TypeParams != "" {
			sb.WriteString(m.TypeParams)
			sb.WriteByte(' ')
		}
		if m.Kind == MemberMethod {
			sb.WriteString(m.Type)
			sb.WriteByte(' ')
		}
		sb.WriteString(m.Name)
		switch {
		case m.Params != "":
			sb.WriteString(m.Params)
		case m.Kind == MemberConstructor:
			// compact record constructor, no parameter list
		default:
			sb.WriteString("()")
		}
		if m.Throws != "" {
			sb.WriteString(" throws ")
			sb.WriteString(m.Throws)
		}
		switch {
		case m.Default != "":
			sb.WriteString(" default ")
			sb.WriteString(m.Default)
			sb.WriteString(";\n")
		case m.Body == nil:
			sb.WriteString(";\n")
		default:
			sb.WriteByte(' ')
			printBlock(sb, m.Body, depth)
		}
	}
}

func printBlock(sb *strings.Builder, b *Block, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	if b == nil {
		sb.WriteString("{\n")
		sb.WriteString(ind)
		sb.WriteString("}\n")
		return
	}
	if len(b.Stmts) > 0 {
		sb.WriteString("{\n")
		inner := strings.Repeat(indentUnit, depth+1)
		for _, stmt := range b.Stmts {
			sb.WriteString(inner)
			sb.WriteString(stmt)
			sb.WriteByte('\n')
		}
		sb.WriteString(ind)
		sb.WriteString("}\n")
		return
	}
	raw := strings.TrimRight(b.Raw, " \t\n")
	if strings.TrimSpace(raw) == "" {
		sb.WriteString("{\n")
		sb.WriteString(ind)
		sb.WriteString("}\n")
		return
	}
	sb.WriteString("{")
	sb.WriteString(raw)
	sb.WriteByte('\n')
	sb.WriteString(ind)
	sb.WriteString("}\n")
}
