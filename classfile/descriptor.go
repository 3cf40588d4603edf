package classfile

import "strings"

var primitiveNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// ParamDescriptors splits a method descriptor into its raw parameter
// descriptors, e.g. "(I[Ljava/lang/String;)V" -> ["I", "[Ljava/lang/String;"].
func ParamDescriptors(desc string) []string {
	if len(desc) == 0 || desc[0] != '(' {
		return nil
	}
	var out []string
	i := 1
	for i < len(desc) && desc[i] != ')' {
		start := i
		for i < len(desc) && desc[i] == '[' {
			i++
		}
		if i >= len(desc) {
			return out
		}
		if desc[i] == 'L' {
			end := strings.IndexByte(desc[i:], ';')
			if end < 0 {
				return out
			}
			i += end + 1
		} else {
			i++
		}
		out = append(out, desc[start:i])
	}
	return out
}

// ReturnDescriptor returns the raw return descriptor of a method descriptor.
func ReturnDescriptor(desc string) string {
	i := strings.IndexByte(desc, ')')
	if i < 0 || i+1 >= len(desc) {
		return "V"
	}
	return desc[i+1:]
}

// DescriptorToSource renders a single field descriptor as Java source text,
// e.g. "[Ljava/lang/String;" -> "java.lang.String[]".
func DescriptorToSource(desc string) string {
	dims := 0
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}
	rest := desc[dims:]
	var base string
	if len(rest) > 0 && rest[0] == 'L' {
		base = SourceName(strings.TrimSuffix(rest[1:], ";"))
		base = strings.ReplaceAll(base, "$", ".")
	} else if len(rest) > 0 {
		base = primitiveNames[rest[0]]
	}
	return base + strings.Repeat("[]", dims)
}

// IsWideDescriptor reports whether the descriptor's value occupies two frame
// slots (long or double).
func IsWideDescriptor(desc string) bool {
	return desc == "J" || desc == "D"
}
