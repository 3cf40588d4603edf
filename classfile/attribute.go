package classfile

import "encoding/binary"

func u16(b []byte, off int) uint16 {
	if off+2 > len(b) {
		return 0
	}
	return binary.BigEndian.Uint16(b[off : off+2])
}

func attrSignature(info []byte, cp pool) string {
	if len(info) < 2 {
		return ""
	}
	return cp.utf8(u16(info, 0))
}

func attrExceptions(info []byte, cp pool) []string {
	if len(info) < 2 {
		return nil
	}
	count := int(u16(info, 0))
	out := make([]string, 0, count)
	for i := 0; i < count && 2+i*2+2 <= len(info); i++ {
		out = append(out, cp.className(u16(info, 2+i*2)))
	}
	return out
}

func attrClassList(info []byte, cp pool) []string {
	if len(info) < 2 {
		return nil
	}
	count := int(u16(info, 0))
	out := make([]string, 0, count)
	for i := 0; i < count && 2+i*2+2 <= len(info); i++ {
		out = append(out, cp.className(u16(info, 2+i*2)))
	}
	return out
}

func attrInnerClasses(info []byte, cp pool) []InnerClass {
	if len(info) < 2 {
		return nil
	}
	count := int(u16(info, 0))
	out := make([]InnerClass, 0, count)
	off := 2
	for i := 0; i < count && off+8 <= len(info); i++ {
		out = append(out, InnerClass{
			Inner:  cp.className(u16(info, off)),
			Outer:  cp.className(u16(info, off+2)),
			Name:   cp.utf8(u16(info, off+4)),
			Access: Flags(u16(info, off+6)),
		})
		off += 8
	}
	return out
}

func attrRecordComponents(info []byte, cp pool) []RecordComponent {
	if len(info) < 2 {
		return nil
	}
	count := int(u16(info, 0))
	out := make([]RecordComponent, 0, count)
	off := 2
	for i := 0; i < count && off+6 <= len(info); i++ {
		rc := RecordComponent{
			Name:       cp.utf8(u16(info, off)),
			Descriptor: cp.utf8(u16(info, off+2)),
		}
		attrs := int(u16(info, off+4))
		off += 6
		for j := 0; j < attrs && off+6 <= len(info); j++ {
			name := cp.utf8(u16(info, off))
			length := int(binary.BigEndian.Uint32(info[off+2 : off+6]))
			off += 6
			if off+length > len(info) {
				return out
			}
			if name == "Signature" {
				rc.Signature = attrSignature(info[off:off+length], cp)
			}
			off += length
		}
		out = append(out, rc)
	}
	return out
}

func attrMethodParameters(info []byte, cp pool) []MethodParameter {
	if len(info) < 1 {
		return nil
	}
	count := int(info[0])
	out := make([]MethodParameter, 0, count)
	off := 1
	for i := 0; i < count && off+4 <= len(info); i++ {
		out = append(out, MethodParameter{
			Name:   cp.utf8(u16(info, off)),
			Access: Flags(u16(info, off+2)),
		})
		off += 4
	}
	return out
}

// attrCodeLocalVars digs the LocalVariableTable out of a Code attribute.
// The bytecode itself and the exception table are skipped over.
func attrCodeLocalVars(info []byte, cp pool) []LocalVar {
	if len(info) < 8 {
		return nil
	}
	codeLen := int(binary.BigEndian.Uint32(info[4:8]))
	off := 8 + codeLen
	if off+2 > len(info) {
		return nil
	}
	off += 2 + int(u16(info, off))*8 // exception table
	if off+2 > len(info) {
		return nil
	}
	attrCount := int(u16(info, off))
	off += 2

	var vars []LocalVar
	for i := 0; i < attrCount; i++ {
		if off+6 > len(info) {
			return vars
		}
		name := cp.utf8(u16(info, off))
		length := int(binary.BigEndian.Uint32(info[off+2 : off+6]))
		off += 6
		if off+length > len(info) {
			return vars
		}
		if name == "LocalVariableTable" {
			table := info[off : off+length]
			count := int(u16(table, 0))
			p := 2
			for j := 0; j < count && p+10 <= len(table); j++ {
				vars = append(vars, LocalVar{
					StartPC:    u16(table, p),
					Name:       cp.utf8(u16(table, p+4)),
					Descriptor: cp.utf8(u16(table, p+6)),
					Slot:       u16(table, p+8),
				})
				p += 10
			}
		}
		off += length
	}
	return vars
}

func attrAnnotations(info []byte, cp pool) []Annotation {
	if len(info) < 2 {
		return nil
	}
	count := int(u16(info, 0))
	out := make([]Annotation, 0, count)
	off := 2
	for i := 0; i < count; i++ {
		var ann Annotation
		ann, off = readAnnotation(info, off, cp)
		if ann.Type == "" {
			break
		}
		out = append(out, ann)
	}
	return out
}

func readAnnotation(info []byte, off int, cp pool) (Annotation, int) {
	if off+4 > len(info) {
		return Annotation{}, len(info)
	}
	ann := Annotation{Type: cp.utf8(u16(info, off))}
	pairs := int(u16(info, off+2))
	off += 4
	for i := 0; i < pairs; i++ {
		if off+2 > len(info) {
			return ann, len(info)
		}
		name := cp.utf8(u16(info, off))
		off += 2
		var v any
		v, off = readElementValue(info, off, cp)
		if ann.Values == nil {
			ann.Values = make(map[string]any)
		}
		ann.Values[name] = v
	}
	return ann, off
}

func readElementValue(info []byte, off int, cp pool) (any, int) {
	if off >= len(info) {
		return nil, len(info)
	}
	tag := info[off]
	off++
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		v := cp.constant(u16(info, off))
		if tag == 's' {
			v = cp.utf8(u16(info, off))
		}
		return v, off + 2
	case 'c':
		return cp.utf8(u16(info, off)), off + 2
	case 'e':
		// enum constant: type + name
		if off+4 > len(info) {
			return nil, len(info)
		}
		return cp.utf8(u16(info, off)) + "." + cp.utf8(u16(info, off+2)), off + 4
	case '@':
		return readAnnotation(info, off, cp)
	case '[':
		count := int(u16(info, off))
		off += 2
		vals := make([]any, 0, count)
		for i := 0; i < count; i++ {
			var v any
			v, off = readElementValue(info, off, cp)
			vals = append(vals, v)
		}
		return vals, off
	}
	return nil, off
}
