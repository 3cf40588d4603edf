package emit

import (
	"strings"

	"github.com/hytalekt/stubgen/stub"
)

// SentinelPath is the output-relative source path of the sentinel exception.
var SentinelPath = strings.ReplaceAll(stub.SentinelImport, ".", "/") + ".java"

// SentinelSource is the source of the runtime exception every stubbed body
// throws. It is written once per generated tree so the stubs compile without
// any extra dependency.
func SentinelSource() string {
	pkg := stub.SentinelImport[:strings.LastIndexByte(stub.SentinelImport, '.')]
	var sb strings.Builder
	sb.WriteString("package " + pkg + ";\n\n")
	sb.WriteString("/**\n")
	sb.WriteString(" * Thrown by every generated stub body. Stub sources preserve the API of\n")
	sb.WriteString(" * the original archive but carry no behavior.\n")
	sb.WriteString(" */\n")
	sb.WriteString("public class " + stub.SentinelClass + " extends RuntimeException {\n\n")
	sb.WriteString("    public " + stub.SentinelClass + "() {\n")
	sb.WriteString("        super(\"Attempted to use a stub! Make sure hytale-stubs isn't shaded and is only being used as a reference implementation!\");\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
	return sb.String()
}
