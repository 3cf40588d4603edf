// Package sanitize repairs decompiler artifacts in reconstructed Java source
// before structural parsing. Every stage is a whole-text rewrite that passes
// its input through unchanged when it cannot find a matching delimiter;
// malformed leftovers are caught later at the parse boundary.
package sanitize

import "strings"

type stage func(string) string

var stages = []stage{
	replaceAssertionFlags,
	dropInterfaceStaticInits,
	replaceTypeSwitchBootstrap,
	replaceSwitchExprValues,
	emptyLabeledSwitches,
	replaceCaseNullSwitches,
}

// Clean runs every repair stage in order. Best effort: never fails.
func Clean(src string) string {
	for _, s := range stages {
		src = s(src)
	}
	return src
}

// replaceAssertionFlags rewrites the compiler-synthesized assertion flag the
// decompiler leaves behind ($assertionsDisabled) as a literal boolean.
func replaceAssertionFlags(src string) string {
	if !strings.Contains(src, "$assertionsDisabled") {
		return src
	}
	var edits []edit
	sc := &scanner{src: src}
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		if tok.kind == tokIdent && tok.text == "$assertionsDisabled" {
			edits = append(edits, edit{tok.start, tok.end, "true"})
		}
	}
	return applyEdits(src, edits)
}

// dropInterfaceStaticInits removes static initializer blocks nested directly
// inside interface bodies, where they are not legal.
func dropInterfaceStaticInits(src string) string {
	if !strings.Contains(src, "interface") {
		return src
	}
	var edits []edit
	sc := &scanner{src: src}
	var prev token
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		// @interface bodies hold annotation members, not initializers.
		if tok.kind == tokIdent && tok.text == "interface" && prev.text != "@" {
			if e := cutStaticBlocks(src, sc.pos); e != nil {
				edits = append(edits, e...)
			}
		}
		prev = tok
	}
	return applyEdits(src, edits)
}

func cutStaticBlocks(src string, from int) []edit {
	body := strings.IndexByte(src[from:], '{')
	if body < 0 {
		return nil
	}
	open := from + body
	close := matchDelim(src, open)
	if close < 0 {
		return nil
	}

	var edits []edit
	sc := &scanner{src: src, pos: open + 1}
	for sc.pos < close {
		tok, ok := sc.next()
		if !ok || tok.start >= close {
			break
		}
		switch {
		case tok.kind == tokPunct && tok.text == "{":
			// nested body of a default method or inner type
			end := matchDelim(src, tok.start)
			if end < 0 {
				return edits
			}
			sc.pos = end + 1
		case tok.kind == tokIdent && tok.text == "static":
			next, ok := sc.next()
			if !ok {
				return edits
			}
			if next.kind == tokPunct && next.text == "{" {
				end := matchDelim(src, next.start)
				if end < 0 {
					return edits
				}
				edits = append(edits, edit{tok.start, end + 1, ""})
				sc.pos = end + 1
			}
		}
	}
	return edits
}

// replaceTypeSwitchBootstrap rewrites opaque pattern-switch bootstrap calls,
// which reference no real type, as a neutral integer literal. The call nests
// generics and further calls, so the span is found by balanced angle-bracket
// and paren scanning rather than by pattern matching.
func replaceTypeSwitchBootstrap(src string) string {
	if !strings.Contains(src, "typeSwitch") {
		return src
	}
	var edits []edit
	sc := &scanner{src: src}
	exprStart := -1
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		if tok.kind == tokIdent {
			if exprStart < 0 {
				exprStart = tok.start
			}
			if strings.Contains(tok.text, "typeSwitch") {
				end := bootstrapCallEnd(src, tok.end)
				if end > 0 {
					edits = append(edits, edit{exprStart, end, "0"})
					sc.pos = end
				}
				exprStart = -1
			}
			continue
		}
		// a dot keeps a qualified name going, anything else resets it
		if !(tok.kind == tokPunct && tok.text == ".") {
			exprStart = -1
		}
	}
	return applyEdits(src, edits)
}

func bootstrapCallEnd(src string, from int) int {
	sc := &scanner{src: src, pos: from}
	tok, ok := sc.next()
	if !ok {
		return -1
	}
	if tok.kind == tokPunct && tok.text == "<" {
		close := matchAngle(src, tok.start)
		if close < 0 {
			return -1
		}
		sc.pos = close + 1
		tok, ok = sc.next()
		if !ok {
			return -1
		}
	}
	if tok.kind != tokPunct || tok.text != "(" {
		return -1
	}
	close := matchDelim(src, tok.start)
	if close < 0 {
		return -1
	}
	return close + 1
}

// replaceSwitchExprValues rewrites switch expressions used as values (return
// operand, assignment right-hand side, or cast operand) as a null literal.
func replaceSwitchExprValues(src string) string {
	return rewriteSwitches(src, func(src string, prev token, start, end int) *edit {
		if isValueContext(src, prev) {
			return &edit{start, end, "null"}
		}
		return nil
	})
}

// emptyLabeledSwitches replaces labeled switch statements with an empty block.
func emptyLabeledSwitches(src string) string {
	return rewriteSwitches(src, func(src string, prev token, start, end int) *edit {
		if prev.kind == tokPunct && prev.text == ":" {
			return &edit{start, end, "{}"}
		}
		return nil
	})
}

// replaceCaseNullSwitches neutralizes switch statements carrying a
// `case null` arm: as a return operand or assignment RHS the whole switch
// becomes null, otherwise its body becomes an empty block.
func replaceCaseNullSwitches(src string) string {
	return rewriteSwitches(src, func(src string, prev token, start, end int) *edit {
		body := strings.IndexByte(src[start:end], '{')
		if body < 0 || !hasCaseNull(src[start+body:end]) {
			return nil
		}
		if isValueContext(src, prev) {
			return &edit{start, end, "null"}
		}
		return &edit{start + body, end, "{}"}
	})
}

func hasCaseNull(body string) bool {
	sc := &scanner{src: body}
	var prev token
	for {
		tok, ok := sc.next()
		if !ok {
			return false
		}
		if tok.kind == tokIdent && tok.text == "null" && prev.text == "case" {
			return true
		}
		prev = tok
	}
}

// rewriteSwitches finds each switch keyword with its selector parens and body
// braces and lets decide produce a replacement covering the whole span.
// Unbalanced spans are skipped.
func rewriteSwitches(src string, decide func(src string, prev token, start, end int) *edit) string {
	if !strings.Contains(src, "switch") {
		return src
	}
	var edits []edit
	sc := &scanner{src: src}
	var prev token
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		if tok.kind == tokIdent && tok.text == "switch" {
			end := switchSpanEnd(src, tok.end)
			if end > 0 {
				if e := decide(src, prev, tok.start, end); e != nil {
					edits = append(edits, *e)
					sc.pos = end
				}
			}
		}
		prev = tok
	}
	return applyEdits(src, edits)
}

// switchSpanEnd returns the index just past the switch body's closing brace,
// or -1 when selector or body cannot be matched.
func switchSpanEnd(src string, from int) int {
	sc := &scanner{src: src, pos: from}
	tok, ok := sc.next()
	if !ok || tok.text != "(" {
		return -1
	}
	selEnd := matchDelim(src, tok.start)
	if selEnd < 0 {
		return -1
	}
	sc.pos = selEnd + 1
	tok, ok = sc.next()
	if !ok || tok.text != "{" {
		return -1
	}
	bodyEnd := matchDelim(src, tok.start)
	if bodyEnd < 0 {
		return -1
	}
	return bodyEnd + 1
}

// isValueContext reports whether a switch preceded by prev is consumed as a
// value: a return operand, an assignment right-hand side, or a cast operand.
func isValueContext(src string, prev token) bool {
	switch {
	case prev.kind == tokIdent && (prev.text == "return" || prev.text == "yield"):
		return true
	case prev.kind == tokPunct && prev.text == "=":
		return true
	case prev.kind == tokPunct && prev.text == ")":
		return isCastBefore(src, prev.start)
	}
	return false
}

// isCastBefore checks whether the paren group closing at closeIdx is a cast:
// its contents read like a type and nothing directly precedes it that would
// make it a call or grouping.
func isCastBefore(src string, closeIdx int) bool {
	depth := 0
	open := -1
	for i := closeIdx; i >= 0; i-- {
		switch src[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				open = i
			}
		}
		if open >= 0 {
			break
		}
	}
	if open < 0 {
		return false
	}
	// token before the open paren must not end an expression
	for i := open - 1; i >= 0; i-- {
		c := src[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		if isIdentPart(c) || c == ')' || c == ']' || c == '"' || c == '\'' {
			return false
		}
		break
	}
	sc := &scanner{src: src[open+1 : closeIdx]}
	for {
		tok, ok := sc.next()
		if !ok {
			return true
		}
		switch tok.kind {
		case tokIdent:
			// fine, part of a type name
		case tokPunct:
			switch tok.text {
			case ".", "<", ">", "[", "]", ",", "?", "&":
			default:
				return false
			}
		default:
			return false
		}
	}
}
