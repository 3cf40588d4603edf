package stub

import (
	"strings"

	"github.com/hytalekt/stubgen/signature"
)

// The marker exception every stubbed body throws. Generated output imports it
// from the companion runtime package.
const (
	SentinelClass  = "GeneratedStubException"
	SentinelImport = "io.github.hytalekt.stubs.GeneratedStubException"
)

const sentinelThrow = "throw new " + SentinelClass + "();"

// defaultInit is the initializer a non-constant field of the given declared
// source type falls back to.
func defaultInit(typeText string) string {
	if strings.ContainsAny(typeText, "[<") {
		return "null"
	}
	switch typeText {
	case "boolean":
		return "false"
	case "char":
		return "'\\0'"
	case "long":
		return "0L"
	case "float":
		return "0.0f"
	case "double":
		return "0.0"
	case "byte", "short", "int":
		return "0"
	default:
		return "null"
	}
}

// defaultArg renders the default argument expression for one resolved
// delegation-call parameter: zero values for primitives, a typed null cast
// otherwise so overload selection stays unambiguous.
func defaultArg(t signature.TypeSig) string {
	if t.Kind == signature.KindPrimitive {
		return defaultInit(t.Name)
	}
	return "(" + renderType(t) + ") null"
}

// renderType renders a signature as source text, shortening direct java.lang
// members to their simple name the way generated code is expected to read.
func renderType(t signature.TypeSig) string {
	var sb strings.Builder
	renderInto(&sb, t)
	return sb.String()
}

func renderInto(sb *strings.Builder, t signature.TypeSig) {
	switch t.Kind {
	case signature.KindPrimitive, signature.KindTypeVar:
		sb.WriteString(t.Name)
	case signature.KindClass:
		sb.WriteString(displayName(t.Name))
		if len(t.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				renderInto(sb, a)
			}
			sb.WriteByte('>')
		}
	case signature.KindArray:
		if t.Elem != nil {
			renderInto(sb, *t.Elem)
		}
		for i := 0; i < t.Dims; i++ {
			sb.WriteString("[]")
		}
	case signature.KindWildcard:
		switch t.Variance {
		case '+':
			sb.WriteString("? extends ")
			renderInto(sb, *t.Elem)
		case '-':
			sb.WriteString("? super ")
			renderInto(sb, *t.Elem)
		default:
			sb.WriteByte('?')
		}
	}
}

func displayName(binary string) string {
	name := strings.ReplaceAll(binary, "$", ".")
	if rest, ok := strings.CutPrefix(name, "java.lang."); ok && !strings.Contains(rest, ".") {
		return rest
	}
	return name
}

// isConstantLiteral reports whether a field initializer is a plain literal
// (number, string, char or boolean) eligible for verbatim preservation.
func isConstantLiteral(init string) bool {
	s := strings.TrimSpace(init)
	if s == "" {
		return false
	}
	switch s {
	case "true", "false":
		return true
	}
	switch s[0] {
	case '"':
		return isStringLiteral(s)
	case '\'':
		return isCharLiteral(s)
	}
	return isNumberLiteral(s)
}

func isStringLiteral(s string) bool {
	if len(s) < 2 || s[len(s)-1] != '"' {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return false
		}
	}
	return true
}

func isCharLiteral(s string) bool {
	if len(s) < 3 || s[len(s)-1] != '\'' {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		switch s[i] {
		case '\\':
			i++
		case '\'':
			return false
		}
	}
	return true
}

func isNumberLiteral(s string) bool {
	i := 0
	if s[i] == '-' || s[i] == '+' {
		i++
	}
	if i >= len(s) || s[i] < '0' || s[i] > '9' {
		return false
	}
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			// hex digits double as the f/d/e/L-ish suffix letters
		case c == '.' || c == '_' || c == 'x' || c == 'X':
		case c == 'l' || c == 'L':
		case c == '+' || c == '-':
			// exponent sign
		default:
			return false
		}
	}
	return true
}
