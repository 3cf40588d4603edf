package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) u1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) u2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) u4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil || n < 0 {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

// pool is the raw constant pool: one flat entry per slot, 1-based like the
// class file itself (index 0 unused).
type poolEntry struct {
	tag  uint8
	str  string
	i64  int64
	f64  float64
	ref1 uint16
	ref2 uint16
}

type pool []poolEntry

const (
	tagUtf8          = 1
	tagInteger       = 3
	tagFloat         = 4
	tagLong          = 5
	tagDouble        = 6
	tagClass         = 7
	tagString        = 8
	tagFieldref      = 9
	tagMethodref     = 10
	tagIfaceRef      = 11
	tagNameAndType   = 12
	tagMethodHandle  = 15
	tagMethodType    = 16
	tagDynamic       = 17
	tagInvokeDynamic = 18
	tagModule        = 19
	tagPackage       = 20
)

func (p pool) utf8(i uint16) string {
	if int(i) >= len(p) || p[i].tag != tagUtf8 {
		return ""
	}
	return p[i].str
}

func (p pool) className(i uint16) string {
	if int(i) >= len(p) || p[i].tag != tagClass {
		return ""
	}
	return p.utf8(p[i].ref1)
}

func (p pool) constant(i uint16) any {
	if int(i) >= len(p) {
		return nil
	}
	switch e := p[i]; e.tag {
	case tagInteger:
		return int32(e.i64)
	case tagLong:
		return e.i64
	case tagFloat:
		return float32(math.Float32frombits(uint32(e.i64)))
	case tagDouble:
		return e.f64
	case tagString:
		return p.utf8(e.ref1)
	}
	return nil
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	if m := r.u4(); r.err != nil || m != magic {
		if r.err != nil {
			return nil, fmt.Errorf("read magic: %w", r.err)
		}
		return nil, fmt.Errorf("invalid magic number: 0x%X", m)
	}

	cf := &ClassFile{
		MinorVersion: r.u2(),
		MajorVersion: r.u2(),
	}

	cp, err := readPool(r)
	if err != nil {
		return nil, err
	}

	cf.Access = Flags(r.u2())
	cf.Name = cp.className(r.u2())
	cf.SuperName = cp.className(r.u2())

	ifaceCount := r.u2()
	for i := uint16(0); i < ifaceCount; i++ {
		cf.Interfaces = append(cf.Interfaces, cp.className(r.u2()))
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class header: %w", r.err)
	}

	fieldCount := r.u2()
	for i := uint16(0); i < fieldCount; i++ {
		f, err := readField(r, cp)
		if err != nil {
			return nil, fmt.Errorf("read field %d: %w", i, err)
		}
		cf.Fields = append(cf.Fields, *f)
	}

	methodCount := r.u2()
	for i := uint16(0); i < methodCount; i++ {
		m, err := readMethod(r, cp)
		if err != nil {
			return nil, fmt.Errorf("read method %d: %w", i, err)
		}
		cf.Methods = append(cf.Methods, *m)
	}

	attrCount := r.u2()
	for i := uint16(0); i < attrCount; i++ {
		name, info := readAttr(r, cp)
		if r.err != nil {
			return nil, fmt.Errorf("read class attribute %d: %w", i, r.err)
		}
		switch name {
		case "Signature":
			cf.Signature = attrSignature(info, cp)
		case "SourceFile":
			if len(info) >= 2 {
				cf.SourceFile = cp.utf8(binary.BigEndian.Uint16(info))
			}
		case "InnerClasses":
			cf.Inner = attrInnerClasses(info, cp)
		case "NestMembers":
			cf.NestMembers = attrClassList(info, cp)
		case "Record":
			cf.Components = attrRecordComponents(info, cp)
		}
	}

	return cf, nil
}

func readPool(r *reader) (pool, error) {
	count := r.u2()
	if r.err != nil {
		return nil, fmt.Errorf("read constant pool count: %w", r.err)
	}
	cp := make(pool, count)
	for i := uint16(1); i < count; i++ {
		e := &cp[i]
		e.tag = r.u1()
		switch e.tag {
		case tagUtf8:
			e.str = decodeModifiedUtf8(r.bytes(int(r.u2())))
		case tagInteger, tagFloat:
			e.i64 = int64(r.u4())
		case tagLong:
			high, low := r.u4(), r.u4()
			e.i64 = int64(high)<<32 | int64(low)
			i++ // longs and doubles take two slots
		case tagDouble:
			high, low := r.u4(), r.u4()
			e.f64 = math.Float64frombits(uint64(high)<<32 | uint64(low))
			i++
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.ref1 = r.u2()
		case tagFieldref, tagMethodref, tagIfaceRef, tagNameAndType,
			tagDynamic, tagInvokeDynamic:
			e.ref1 = r.u2()
			e.ref2 = r.u2()
		case tagMethodHandle:
			r.u1()
			e.ref1 = r.u2()
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at %d", e.tag, i)
		}
		if r.err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, r.err)
		}
	}
	return cp, nil
}

func readField(r *reader, cp pool) (*Field, error) {
	f := &Field{
		Access:     Flags(r.u2()),
		Name:       cp.utf8(r.u2()),
		Descriptor: cp.utf8(r.u2()),
	}
	attrCount := r.u2()
	for i := uint16(0); i < attrCount; i++ {
		name, info := readAttr(r, cp)
		switch name {
		case "Signature":
			f.Signature = attrSignature(info, cp)
		case "ConstantValue":
			if len(info) >= 2 {
				f.ConstantValue = cp.constant(binary.BigEndian.Uint16(info))
			}
		case "RuntimeVisibleAnnotations":
			f.Annotations = attrAnnotations(info, cp)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return f, nil
}

func readMethod(r *reader, cp pool) (*Method, error) {
	m := &Method{
		Access:     Flags(r.u2()),
		Name:       cp.utf8(r.u2()),
		Descriptor: cp.utf8(r.u2()),
	}
	attrCount := r.u2()
	for i := uint16(0); i < attrCount; i++ {
		name, info := readAttr(r, cp)
		switch name {
		case "Signature":
			m.Signature = attrSignature(info, cp)
		case "Exceptions":
			m.Exceptions = attrExceptions(info, cp)
		case "MethodParameters":
			m.Parameters = attrMethodParameters(info, cp)
		case "Code":
			m.HasCode = true
			m.LocalVars = attrCodeLocalVars(info, cp)
		case "RuntimeVisibleAnnotations":
			m.Annotations = attrAnnotations(info, cp)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}

func readAttr(r *reader, cp pool) (string, []byte) {
	name := cp.utf8(r.u2())
	length := r.u4()
	return name, r.bytes(int(length))
}

func decodeModifiedUtf8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			runes = append(runes, rune(c&0x0F)<<12|rune(b[i+1]&0x3F)<<6|rune(b[i+2]&0x3F))
			i += 3
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
