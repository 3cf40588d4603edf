package javatext

import "fmt"

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenString
	tokenChar
	tokenPunct
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
	line  int
}

func (t token) is(text string) bool { return t.text == text }

func (t token) isIdent(text string) bool { return t.kind == tokenIdent && t.text == text }

type lexer struct {
	src    string
	pos    int
	line   int
	peeked *token
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", l.line, fmt.Sprintf(format, args...))
}

func (l *lexer) skipBlanks() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.pos += 2
			for l.pos+1 < len(l.src) && !(l.src[l.pos] == '*' && l.src[l.pos+1] == '/') {
				if l.src[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
			l.pos += 2
		default:
			return
		}
	}
}

func (l *lexer) peek() token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

func (l *lexer) next() token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

func (l *lexer) scan() token {
	l.skipBlanks()
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, start: l.pos, end: l.pos, line: l.line}
	}
	start := l.pos
	line := l.line
	c := l.src[l.pos]
	switch {
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return token{tokenIdent, l.src[start:l.pos], start, l.pos, line}
	case c >= '0' && c <= '9':
		for l.pos < len(l.src) && (isIdentPart(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		return token{tokenNumber, l.src[start:l.pos], start, l.pos, line}
	case c == '"':
		l.pos = skipStringLit(l.src, l.pos)
		return token{tokenString, l.src[start:l.pos], start, l.pos, line}
	case c == '\'':
		l.pos = skipCharLit(l.src, l.pos)
		return token{tokenChar, l.src[start:l.pos], start, l.pos, line}
	default:
		l.pos++
		return token{tokenPunct, l.src[start:l.pos], start, l.pos, line}
	}
}

// seek repositions the lexer at an absolute offset, discarding lookahead.
func (l *lexer) seek(pos int) {
	l.pos = pos
	l.peeked = nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func skipStringLit(s string, i int) int {
	if i+2 < len(s) && s[i+1] == '"' && s[i+2] == '"' {
		for j := i + 3; j+2 < len(s); j++ {
			if s[j] == '"' && s[j+1] == '"' && s[j+2] == '"' {
				return j + 3
			}
		}
		return len(s)
	}
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"', '\n':
			return j + 1
		}
	}
	return len(s)
}

func skipCharLit(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '\'', '\n':
			return j + 1
		}
	}
	return len(s)
}

// matchBalanced returns the offset just past the closer matching the opener
// at src[open] ('(', '[' or '{'), or -1 when unbalanced. Literals and
// comments are skipped.
func matchBalanced(src string, open int) int {
	openCh := src[open]
	var closeCh byte
	switch openCh {
	case '(':
		closeCh = ')'
	case '[':
		closeCh = ']'
	case '{':
		closeCh = '}'
	default:
		return -1
	}
	l := newLexer(src)
	l.seek(open)
	depth := 0
	for {
		t := l.next()
		if t.kind == tokenEOF {
			return -1
		}
		if t.kind != tokenPunct {
			continue
		}
		switch t.text[0] {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return t.end
			}
		}
	}
}

// matchAngles returns the offset just past the '>' matching the '<' at
// src[open], or -1. Gives up at ';' or '{' since generic argument lists never
// cross those.
func matchAngles(src string, open int) int {
	l := newLexer(src)
	l.seek(open)
	depth := 0
	for {
		t := l.next()
		if t.kind == tokenEOF {
			return -1
		}
		if t.kind != tokenPunct {
			continue
		}
		switch t.text[0] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return t.end
			}
		case ';', '{':
			return -1
		}
	}
}
