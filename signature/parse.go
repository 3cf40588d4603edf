package signature

import (
	"fmt"
	"strings"
)

// ClassSig is a parsed class-level Signature attribute.
type ClassSig struct {
	TypeParams []TypeParam
	Super      TypeSig
	Interfaces []TypeSig
}

// MethodSig is a parsed method-level Signature attribute.
type MethodSig struct {
	TypeParams []TypeParam
	Params     []TypeSig
	Return     TypeSig
	Throws     []TypeSig
}

type sigParser struct {
	s   string
	pos int
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) next() byte {
	c := p.peek()
	p.pos++
	return c
}

func (p *sigParser) expect(c byte) error {
	if got := p.next(); got != c {
		return fmt.Errorf("signature %q: expected %q at %d, got %q", p.s, c, p.pos-1, got)
	}
	return nil
}

func (p *sigParser) identifier() string {
	start := p.pos
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case '.', ';', '[', '/', '<', '>', ':':
			return p.s[start:p.pos]
		}
		p.pos++
	}
	return p.s[start:]
}

// ParseClassSig parses a class Signature attribute:
// [TypeParams] SuperclassSig SuperinterfaceSig*
func ParseClassSig(sig string) (*ClassSig, error) {
	p := &sigParser{s: sig}
	cs := &ClassSig{}
	var err error
	if p.peek() == '<' {
		cs.TypeParams, err = p.typeParams()
		if err != nil {
			return nil, err
		}
	}
	cs.Super, err = p.refType()
	if err != nil {
		return nil, err
	}
	for p.pos < len(sig) {
		iface, err := p.refType()
		if err != nil {
			return nil, err
		}
		cs.Interfaces = append(cs.Interfaces, iface)
	}
	return cs, nil
}

// ParseMethodSig parses a method Signature attribute:
// [TypeParams] ( JavaTypeSig* ) Result ThrowsSig*
func ParseMethodSig(sig string) (*MethodSig, error) {
	p := &sigParser{s: sig}
	ms := &MethodSig{}
	var err error
	if p.peek() == '<' {
		ms.TypeParams, err = p.typeParams()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	for p.peek() != ')' && p.pos < len(sig) {
		t, err := p.javaType()
		if err != nil {
			return nil, err
		}
		ms.Params = append(ms.Params, t)
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	if p.peek() == 'V' {
		p.next()
		ms.Return = Primitive("void")
	} else {
		ms.Return, err = p.javaType()
		if err != nil {
			return nil, err
		}
	}
	for p.peek() == '^' {
		p.next()
		t, err := p.refType()
		if err != nil {
			return nil, err
		}
		ms.Throws = append(ms.Throws, t)
	}
	return ms, nil
}

// ParseTypeSig parses a single field/type signature.
func ParseTypeSig(sig string) (TypeSig, error) {
	p := &sigParser{s: sig}
	return p.javaType()
}

// FromDescriptor converts an erased field descriptor, which is a degenerate
// signature with no type arguments or variables.
func FromDescriptor(desc string) TypeSig {
	t, err := ParseTypeSig(desc)
	if err != nil {
		return Object
	}
	return t
}

func (p *sigParser) typeParams() ([]TypeParam, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var params []TypeParam
	for p.peek() != '>' && p.pos < len(p.s) {
		tp := TypeParam{Name: p.identifier()}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		// Class bound may be empty (interface-only bounds).
		if p.peek() != ':' && p.peek() != '>' {
			b, err := p.refType()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, b)
		}
		for p.peek() == ':' {
			p.next()
			b, err := p.refType()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, b)
		}
		params = append(params, tp)
	}
	if err := p.expect('>'); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *sigParser) javaType() (TypeSig, error) {
	switch c := p.peek(); c {
	case 'B':
		p.next()
		return Primitive("byte"), nil
	case 'C':
		p.next()
		return Primitive("char"), nil
	case 'D':
		p.next()
		return Primitive("double"), nil
	case 'F':
		p.next()
		return Primitive("float"), nil
	case 'I':
		p.next()
		return Primitive("int"), nil
	case 'J':
		p.next()
		return Primitive("long"), nil
	case 'S':
		p.next()
		return Primitive("short"), nil
	case 'Z':
		p.next()
		return Primitive("boolean"), nil
	default:
		return p.refType()
	}
}

func (p *sigParser) refType() (TypeSig, error) {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		p.next()
		name := p.identifier()
		if err := p.expect(';'); err != nil {
			return TypeSig{}, err
		}
		return TypeSig{Kind: KindTypeVar, Name: name}, nil
	case '[':
		dims := 0
		for p.peek() == '[' {
			p.next()
			dims++
		}
		elem, err := p.javaType()
		if err != nil {
			return TypeSig{}, err
		}
		return TypeSig{Kind: KindArray, Elem: &elem, Dims: dims}, nil
	}
	return TypeSig{}, fmt.Errorf("signature %q: unexpected %q at %d", p.s, p.peek(), p.pos)
}

func (p *sigParser) classType() (TypeSig, error) {
	if err := p.expect('L'); err != nil {
		return TypeSig{}, err
	}
	var name strings.Builder
	var args []TypeSig
	for {
		name.WriteString(p.identifier())
		switch p.peek() {
		case '/':
			p.next()
			name.WriteByte('.')
		case '<':
			parsed, err := p.typeArgs()
			if err != nil {
				return TypeSig{}, err
			}
			// Arguments on the innermost simple type win; earlier ones on
			// enclosing types are rare and folded away.
			args = parsed
		case '.':
			p.next()
			name.WriteByte('$')
			args = nil
		case ';':
			p.next()
			return TypeSig{Kind: KindClass, Name: name.String(), Args: args}, nil
		default:
			return TypeSig{}, fmt.Errorf("signature %q: unterminated class type at %d", p.s, p.pos)
		}
	}
}

func (p *sigParser) typeArgs() ([]TypeSig, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var args []TypeSig
	for p.peek() != '>' && p.pos < len(p.s) {
		switch p.peek() {
		case '*':
			p.next()
			args = append(args, TypeSig{Kind: KindWildcard, Variance: '*'})
		case '+', '-':
			v := p.next()
			bound, err := p.refType()
			if err != nil {
				return nil, err
			}
			args = append(args, TypeSig{Kind: KindWildcard, Variance: v, Elem: &bound})
		default:
			t, err := p.refType()
			if err != nil {
				return nil, err
			}
			args = append(args, t)
		}
	}
	if err := p.expect('>'); err != nil {
		return nil, err
	}
	return args, nil
}
