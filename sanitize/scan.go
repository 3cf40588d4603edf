package sanitize

// The sanitizer never parses; it scans. Everything here works on raw text
// while treating string/char literals and comments as opaque, because the
// decompiled input is full of braces and angle brackets inside both.

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokPunct
	tokString
	tokChar
	tokNumber
)

type token struct {
	kind       tokenKind
	text       string
	start, end int
}

type scanner struct {
	src string
	pos int
}

func (sc *scanner) skipBlanks() {
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			sc.pos++
		case c == '/' && sc.pos+1 < len(sc.src) && sc.src[sc.pos+1] == '/':
			for sc.pos < len(sc.src) && sc.src[sc.pos] != '\n' {
				sc.pos++
			}
		case c == '/' && sc.pos+1 < len(sc.src) && sc.src[sc.pos+1] == '*':
			sc.pos += 2
			for sc.pos+1 < len(sc.src) && !(sc.src[sc.pos] == '*' && sc.src[sc.pos+1] == '/') {
				sc.pos++
			}
			sc.pos += 2
		default:
			return
		}
	}
}

func (sc *scanner) next() (token, bool) {
	sc.skipBlanks()
	if sc.pos >= len(sc.src) {
		return token{}, false
	}
	start := sc.pos
	c := sc.src[sc.pos]
	switch {
	case isIdentStart(c):
		for sc.pos < len(sc.src) && isIdentPart(sc.src[sc.pos]) {
			sc.pos++
		}
		return token{tokIdent, sc.src[start:sc.pos], start, sc.pos}, true
	case c >= '0' && c <= '9':
		for sc.pos < len(sc.src) && (isIdentPart(sc.src[sc.pos]) || sc.src[sc.pos] == '.') {
			sc.pos++
		}
		return token{tokNumber, sc.src[start:sc.pos], start, sc.pos}, true
	case c == '"':
		sc.pos = skipString(sc.src, sc.pos)
		return token{tokString, sc.src[start:sc.pos], start, sc.pos}, true
	case c == '\'':
		sc.pos = skipChar(sc.src, sc.pos)
		return token{tokChar, sc.src[start:sc.pos], start, sc.pos}, true
	default:
		sc.pos++
		return token{tokPunct, sc.src[start:sc.pos], start, sc.pos}, true
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// skipString returns the index just past a double-quoted literal starting at
// i. Text blocks (""" ... """) are handled too.
func skipString(s string, i int) int {
	if i+2 < len(s) && s[i+1] == '"' && s[i+2] == '"' {
		// text block
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

func skipChar(s string, i int) int {
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

// matchDelim returns the index of the closer matching the opener at s[i]
// (one of '(', '[', '{'), or -1 when the text is unbalanced.
func matchDelim(s string, i int) int {
	open := s[i]
	var close byte
	switch open {
	case '(':
		close = ')'
	case '[':
		close = ']'
	case '{':
		close = '}'
	default:
		return -1
	}
	depth := 0
	sc := &scanner{src: s, pos: i}
	for {
		tok, ok := sc.next()
		if !ok {
			return -1
		}
		if tok.kind != tokPunct {
			continue
		}
		switch tok.text[0] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return tok.start
			}
		}
	}
}

// matchAngle returns the index of the '>' matching the '<' at s[i]. It gives
// up (-1) at a ';' or '{' since no generic argument list crosses those.
func matchAngle(s string, i int) int {
	depth := 0
	sc := &scanner{src: s, pos: i}
	for {
		tok, ok := sc.next()
		if !ok {
			return -1
		}
		if tok.kind != tokPunct {
			continue
		}
		switch tok.text[0] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return tok.start
			}
		case ';', '{':
			return -1
		}
	}
}

// edit is a pending replacement of src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

func applyEdits(src string, edits []edit) string {
	if len(edits) == 0 {
		return src
	}
	var out []byte
	last := 0
	for _, e := range edits {
		if e.start < last {
			continue // overlapping edit, first one wins
		}
		out = append(out, src[last:e.start]...)
		out = append(out, e.text...)
		last = e.end
	}
	out = append(out, src[last:]...)
	return string(out)
}
