package javatext

import "strings"

// Balanced returns the offset just past the closer matching the opener at
// src[open] ('(', '[' or '{'), skipping literals and comments, or -1 when the
// text is unbalanced.
func Balanced(src string, open int) int {
	return matchBalanced(src, open)
}

// SplitArgs splits a parenthesized argument list into its top-level argument
// texts. The surrounding parens may be included or not; an empty list yields
// nil.
func SplitArgs(list string) []string {
	s := strings.TrimSpace(list)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var args []string
	l := newLexer(s)
	start := 0
	depth := 0
	for {
		t := l.next()
		if t.kind == tokenEOF {
			break
		}
		if t.kind != tokenPunct {
			continue
		}
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case "<":
			// generic arguments carry commas that must not split
			if end := matchAngles(s, t.start); end > 0 {
				l.seek(end)
			}
		case ",":
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:t.start]))
				start = t.end
			}
		}
	}
	args = append(args, strings.TrimSpace(s[start:]))
	return args
}

// FirstWord returns the first identifier token of the text and the offset just
// past it, skipping comments and whitespace. Returns "" when the text does not
// start with an identifier.
func FirstWord(src string) (string, int) {
	l := newLexer(src)
	t := l.next()
	if t.kind != tokenIdent {
		return "", 0
	}
	return t.text, t.end
}
