package javatext

import (
	"strings"
)

var modifierWords = map[string]bool{
	"public": true, "protected": true, "private": true,
	"static": true, "final": true, "abstract": true,
	"native": true, "synchronized": true, "transient": true,
	"volatile": true, "strictfp": true, "default": true,
	"sealed": true,
}

type parser struct {
	src string
	lex *lexer
}

// Parse turns sanitized Java source into a compilation unit. Anything the
// declaration grammar cannot account for is an error; callers fall back to
// emitting the original text.
func Parse(src string) (*CompilationUnit, error) {
	p := &parser{src: src, lex: newLexer(src)}
	unit := &CompilationUnit{}

	for {
		t := p.lex.peek()
		switch {
		case t.kind == tokenEOF:
			return unit, nil
		case t.isIdent("package"):
			p.lex.next()
			unit.Package = p.qualifiedUntilSemi()
		case t.isIdent("import"):
			p.lex.next()
			unit.Imports = append(unit.Imports, p.qualifiedUntilSemi())
		case t.is(";"):
			p.lex.next()
		default:
			decl, err := p.typeDecl()
			if err != nil {
				return nil, err
			}
			unit.Types = append(unit.Types, decl)
		}
	}
}

func (p *parser) qualifiedUntilSemi() string {
	var sb strings.Builder
	prevIdent := false
	for {
		t := p.lex.next()
		if t.kind == tokenEOF || t.is(";") {
			return sb.String()
		}
		if prevIdent && t.kind == tokenIdent {
			sb.WriteByte(' ') // "import static" keeps its space
		}
		sb.WriteString(t.text)
		prevIdent = t.kind == tokenIdent
	}
}

// annotationsAndModifiers consumes leading annotations and modifier keywords.
// atInterface reports that the stream stopped at `@interface`.
func (p *parser) annotationsAndModifiers() (anns, mods []string, atInterface bool, err error) {
	for {
		t := p.lex.peek()
		switch {
		case t.is("@"):
			p.lex.next()
			if p.lex.peek().isIdent("interface") {
				return anns, mods, true, nil
			}
			ann, err := p.annotationText()
			if err != nil {
				return nil, nil, false, err
			}
			anns = append(anns, ann)
		case t.kind == tokenIdent && modifierWords[t.text]:
			p.lex.next()
			mods = append(mods, t.text)
		case t.isIdent("non"):
			// non-sealed arrives as three tokens
			p.lex.next()
			if !p.lex.next().is("-") || !p.lex.next().isIdent("sealed") {
				return nil, nil, false, p.lex.errorf("malformed non-sealed modifier")
			}
			mods = append(mods, "non-sealed")
		default:
			return anns, mods, false, nil
		}
	}
}

func (p *parser) annotationText() (string, error) {
	var sb strings.Builder
	sb.WriteByte('@')
	name := p.lex.next()
	if name.kind != tokenIdent {
		return "", p.lex.errorf("expected annotation name, got %q", name.text)
	}
	sb.WriteString(name.text)
	for p.lex.peek().is(".") {
		p.lex.next()
		sb.WriteByte('.')
		sb.WriteString(p.lex.next().text)
	}
	if t := p.lex.peek(); t.is("(") {
		end := matchBalanced(p.src, t.start)
		if end < 0 {
			return "", p.lex.errorf("unbalanced annotation arguments")
		}
		sb.WriteString(p.src[t.start:end])
		p.lex.seek(end)
	}
	return sb.String(), nil
}

func (p *parser) typeDecl() (*TypeDecl, error) {
	anns, mods, atInterface, err := p.annotationsAndModifiers()
	if err != nil {
		return nil, err
	}
	return p.typeDeclAfterModifiers(anns, mods, atInterface)
}

func (p *parser) typeDeclAfterModifiers(anns, mods []string, atInterface bool) (*TypeDecl, error) {
	decl := &TypeDecl{Annotations: anns, Modifiers: mods}

	kw := p.lex.next()
	switch {
	case atInterface && kw.isIdent("interface"):
		decl.Kind = KindAnnotation
	case kw.isIdent("class"):
		decl.Kind = KindClass
	case kw.isIdent("interface"):
		decl.Kind = KindInterface
	case kw.isIdent("enum"):
		decl.Kind = KindEnum
	case kw.isIdent("record"):
		decl.Kind = KindRecord
	default:
		return nil, p.lex.errorf("expected type declaration, got %q", kw.text)
	}

	name := p.lex.next()
	if name.kind != tokenIdent {
		return nil, p.lex.errorf("expected type name, got %q", name.text)
	}
	decl.Name = name.text

	if t := p.lex.peek(); t.is("<") {
		end := matchAngles(p.src, t.start)
		if end < 0 {
			return nil, p.lex.errorf("unbalanced type parameters of %s", decl.Name)
		}
		decl.TypeParams = p.src[t.start:end]
		p.lex.seek(end)
	}

	if decl.Kind == KindRecord {
		t := p.lex.peek()
		if !t.is("(") {
			return nil, p.lex.errorf("expected record header of %s", decl.Name)
		}
		end := matchBalanced(p.src, t.start)
		if end < 0 {
			return nil, p.lex.errorf("unbalanced record header of %s", decl.Name)
		}
		decl.RecordHeader = p.src[t.start:end]
		p.lex.seek(end)
	}

	for {
		t := p.lex.peek()
		switch {
		case t.isIdent("extends"):
			p.lex.next()
			decl.Extends = p.typeList()
		case t.isIdent("implements"):
			p.lex.next()
			decl.Implements = p.typeList()
		case t.isIdent("permits"):
			p.lex.next()
			decl.Permits = p.typeList()
		case t.is("{"):
			p.lex.next()
			if decl.Kind == KindEnum {
				if err := p.enumBody(decl); err != nil {
					return nil, err
				}
				return decl, nil
			}
			members, err := p.memberList(decl.Name)
			if err != nil {
				return nil, err
			}
			decl.Members = members
			return decl, nil
		default:
			return nil, p.lex.errorf("unexpected %q in declaration of %s", t.text, decl.Name)
		}
	}
}

// typeList reads a comma-separated list of type references, stopping before
// the next clause keyword or the body brace.
func (p *parser) typeList() []string {
	var list []string
	for {
		ref := p.typeRef()
		if ref != "" {
			list = append(list, ref)
		}
		if p.lex.peek().is(",") {
			p.lex.next()
			continue
		}
		return list
	}
}

var typeStopWords = map[string]bool{
	"extends": true, "implements": true, "permits": true, "throws": true,
}

// typeRef reads one type reference as raw text: optional type annotations, a
// qualified name, optional generic arguments, optional array suffix. Returns
// "" when no type reference starts here.
func (p *parser) typeRef() string {
	start := -1
	for p.lex.peek().is("@") {
		if start < 0 {
			start = p.lex.peek().start
		}
		p.lex.next()
		if _, err := p.annotationText(); err != nil {
			return ""
		}
	}
	t := p.lex.peek()
	if t.kind != tokenIdent || typeStopWords[t.text] {
		return ""
	}
	if start < 0 {
		start = t.start
	}
	end := t.end
	p.lex.next()
	for {
		n := p.lex.peek()
		switch {
		case n.is("."):
			p.lex.next()
			id := p.lex.next()
			if id.kind != tokenIdent {
				return strings.TrimSpace(p.src[start:end])
			}
			end = id.end
		case n.is("<"):
			close := matchAngles(p.src, n.start)
			if close < 0 {
				return strings.TrimSpace(p.src[start:end])
			}
			p.lex.seek(close)
			end = close
		case n.is("["):
			p.lex.next()
			if !p.lex.peek().is("]") {
				p.lex.seek(n.start)
				return strings.TrimSpace(p.src[start:end])
			}
			end = p.lex.next().end
		default:
			return strings.TrimSpace(p.src[start:end])
		}
	}
}

// memberList parses members until the closing brace of the enclosing body,
// which it consumes.
func (p *parser) memberList(enclosingName string) ([]*Member, error) {
	var members []*Member
	for {
		t := p.lex.peek()
		switch {
		case t.kind == tokenEOF:
			return nil, p.lex.errorf("unexpected end of input in body of %s", enclosingName)
		case t.is("}"):
			p.lex.next()
			return members, nil
		case t.is(";"):
			p.lex.next()
		default:
			m, err := p.member(enclosingName)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
	}
}

func (p *parser) member(enclosingName string) (*Member, error) {
	anns, mods, atInterface, err := p.annotationsAndModifiers()
	if err != nil {
		return nil, err
	}

	t := p.lex.peek()

	// initializer block
	if t.is("{") {
		body, err := p.rawBlock()
		if err != nil {
			return nil, err
		}
		kind := MemberInstanceInit
		if hasString(mods, "static") {
			kind = MemberStaticInit
		}
		return &Member{Kind: kind, Modifiers: mods, Body: body}, nil
	}

	// nested type
	if atInterface || t.isIdent("class") || t.isIdent("interface") || t.isIdent("enum") || t.isIdent("record") {
		nested, err := p.typeDeclAfterModifiers(anns, mods, atInterface)
		if err != nil {
			return nil, err
		}
		return &Member{Kind: MemberType, Nested: nested}, nil
	}

	m := &Member{Annotations: anns, Modifiers: mods}

	// generic method type parameters
	if t.is("<") {
		end := matchAngles(p.src, t.start)
		if end < 0 {
			return nil, p.lex.errorf("unbalanced method type parameters")
		}
		m.TypeParams = p.src[t.start:end]
		p.lex.seek(end)
	}

	first := p.typeRef()
	if first == "" {
		return nil, p.lex.errorf("expected member declaration, got %q", p.lex.peek().text)
	}

	next := p.lex.peek()

	// constructor: the "type" we just read is the enclosing type's name
	if simpleTypeName(first) == enclosingName {
		if next.is("(") {
			m.Kind = MemberConstructor
			m.Name = first
			return m, p.finishExecutable(m)
		}
		if next.is("{") {
			// compact record constructor
			m.Kind = MemberConstructor
			m.Name = first
			m.Body, err = p.rawBlock()
			return m, err
		}
	}

	m.Type = first
	name := p.lex.next()
	if name.kind != tokenIdent {
		return nil, p.lex.errorf("expected member name after %q, got %q", first, name.text)
	}
	m.Name = name.text

	if p.lex.peek().is("(") {
		m.Kind = MemberMethod
		return m, p.finishExecutable(m)
	}

	m.Kind = MemberField
	return m, p.fieldDeclarators(m)
}

// finishExecutable parses the parameter list, throws clause and body (or
// annotation-member default) shared by methods and constructors.
func (p *parser) finishExecutable(m *Member) error {
	open := p.lex.peek()
	end := matchBalanced(p.src, open.start)
	if end < 0 {
		return p.lex.errorf("unbalanced parameter list of %s", m.Name)
	}
	m.Params = p.src[open.start:end]
	p.lex.seek(end)

	if p.lex.peek().isIdent("throws") {
		p.lex.next()
		m.Throws = strings.Join(p.typeList(), ", ")
	}

	if p.lex.peek().isIdent("default") {
		p.lex.next()
		m.Default = strings.TrimSpace(p.rawUntilSemi())
		return nil
	}

	t := p.lex.next()
	switch {
	case t.is(";"):
		m.Body = nil
	case t.is("{"):
		p.lex.seek(t.start)
		var err error
		m.Body, err = p.rawBlock()
		return err
	default:
		return p.lex.errorf("expected body of %s, got %q", m.Name, t.text)
	}
	return nil
}

func (p *parser) fieldDeclarators(m *Member) error {
	d := Declarator{Name: m.Name}
	for {
		for p.lex.peek().is("[") {
			p.lex.next()
			if !p.lex.next().is("]") {
				return p.lex.errorf("malformed array suffix on field %s", d.Name)
			}
			d.Dims += "[]"
		}
		if p.lex.peek().is("=") {
			p.lex.next()
			d.Init = p.initText()
			if d.Init == "" {
				return p.lex.errorf("missing initializer of field %s", d.Name)
			}
		}
		m.Declarators = append(m.Declarators, d)

		t := p.lex.next()
		switch {
		case t.is(";"):
			return nil
		case t.is(","):
			name := p.lex.next()
			if name.kind != tokenIdent {
				return p.lex.errorf("expected field name, got %q", name.text)
			}
			d = Declarator{Name: name.text}
		default:
			return p.lex.errorf("unexpected %q in field declaration of %s", t.text, m.Name)
		}
	}
}

// initText captures a field initializer up to the next top-level ',' or ';',
// balancing parens, brackets, braces and generic argument lists.
func (p *parser) initText() string {
	start := p.lex.peek().start
	depth := 0
	for {
		t := p.lex.peek()
		if t.kind == tokenEOF {
			return strings.TrimSpace(p.src[start:t.start])
		}
		if t.kind == tokenPunct {
			switch t.text {
			case "(", "[", "{":
				if end := matchBalanced(p.src, t.start); end > 0 {
					p.lex.seek(end)
					continue
				}
				depth++ // unbalanced; best effort
			case "<":
				if end := matchAngles(p.src, t.start); end > 0 {
					p.lex.seek(end)
					continue
				}
			case ",", ";":
				if depth == 0 {
					return strings.TrimSpace(p.src[start:t.start])
				}
			case ")", "]", "}":
				if depth > 0 {
					depth--
				}
			}
		}
		p.lex.next()
	}
}

func (p *parser) rawUntilSemi() string {
	text := p.initText()
	if p.lex.peek().is(";") {
		p.lex.next()
	}
	return text
}

// rawBlock consumes a balanced brace block, returning its inner text.
func (p *parser) rawBlock() (*Block, error) {
	open := p.lex.peek()
	if !open.is("{") {
		return nil, p.lex.errorf("expected block, got %q", open.text)
	}
	end := matchBalanced(p.src, open.start)
	if end < 0 {
		return nil, p.lex.errorf("unbalanced block")
	}
	inner := p.src[open.start+1 : end-1]
	p.lex.seek(end)
	return &Block{Raw: inner}, nil
}

func (p *parser) enumBody(decl *TypeDecl) error {
	for {
		t := p.lex.peek()
		switch {
		case t.kind == tokenEOF:
			return p.lex.errorf("unexpected end of input in enum %s", decl.Name)
		case t.is(";"):
			p.lex.next()
			members, err := p.memberList(decl.Name)
			if err != nil {
				return err
			}
			decl.Members = members
			return nil
		case t.is("}"):
			p.lex.next()
			return nil
		case t.is(","):
			p.lex.next()
		default:
			c, err := p.enumConstant(decl.Name)
			if err != nil {
				return err
			}
			decl.Constants = append(decl.Constants, c)
		}
	}
}

func (p *parser) enumConstant(enumName string) (*EnumConstant, error) {
	anns, _, _, err := p.annotationsAndModifiers()
	if err != nil {
		return nil, err
	}
	name := p.lex.next()
	if name.kind != tokenIdent {
		return nil, p.lex.errorf("expected enum constant in %s, got %q", enumName, name.text)
	}
	c := &EnumConstant{Annotations: anns, Name: name.text}

	if t := p.lex.peek(); t.is("(") {
		end := matchBalanced(p.src, t.start)
		if end < 0 {
			return nil, p.lex.errorf("unbalanced arguments of enum constant %s", c.Name)
		}
		c.Args = p.src[t.start:end]
		p.lex.seek(end)
	}
	if p.lex.peek().is("{") {
		p.lex.next()
		body, err := p.memberList(enumName)
		if err != nil {
			return nil, err
		}
		c.Body = body
	}
	return c, nil
}

func simpleTypeName(ref string) string {
	// strip generic arguments and qualifiers
	if i := strings.IndexByte(ref, '<'); i >= 0 {
		ref = ref[:i]
	}
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		ref = ref[i+1:]
	}
	return ref
}
