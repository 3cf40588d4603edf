// Package stub rewrites parsed declarations so every member body collapses to
// a sentinel throw, reconstructing constructor delegation calls from the
// signature index along the way.
package stub

import (
	"strings"

	"github.com/hytalekt/stubgen/javatext"
	"github.com/hytalekt/stubgen/signature"
)

// Resolver reconstructs constructor delegation calls. It only ever reads the
// index, so one value serves any number of concurrent workers.
type Resolver struct {
	Index *signature.Index
}

// scope is the declaration context a constructor is resolved in.
type scope struct {
	pkg        string
	imports    []string
	className  string // canonical name of the declaring class
	extendsRef string // raw extends clause text, "" when none
	generic    bool   // declaring class has type parameters
}

// Delegation returns the delegation statement the stubbed constructor body
// should open with, or "" when none applies. The decompiled body's own
// super()/this() call, when present, anchors overload selection; when absent
// and the class has a known non-Object superclass, a call is synthesized.
func (r *Resolver) Delegation(sc scope, body string) string {
	kw, raw, argsText, ok := parseDelegation(body)
	if !ok {
		return r.synthesize(sc)
	}
	if kw == "this" {
		if sc.generic {
			// no concrete substitution is derivable for a generic
			// class delegating to itself
			return raw
		}
		return r.rewrite(kw, raw, argsText, sc.className, nil)
	}
	target, subst, ok := r.superTarget(sc)
	if !ok {
		return raw
	}
	return r.rewrite(kw, raw, argsText, target, subst)
}

// parseDelegation extracts a leading super(...)/this(...) statement from a raw
// constructor body.
func parseDelegation(body string) (kw, raw, argsText string, ok bool) {
	word, end := javatext.FirstWord(body)
	if word != "super" && word != "this" {
		return "", "", "", false
	}
	open := end
	for open < len(body) && (body[open] == ' ' || body[open] == '\t' || body[open] == '\n' || body[open] == '\r') {
		open++
	}
	if open >= len(body) || body[open] != '(' {
		return "", "", "", false
	}
	close := javatext.Balanced(body, open)
	if close < 0 {
		return "", "", "", false
	}
	semi := close
	for semi < len(body) && (body[semi] == ' ' || body[semi] == '\t') {
		semi++
	}
	if semi >= len(body) || body[semi] != ';' {
		return "", "", "", false
	}
	start := end - len(word)
	return word, strings.TrimSpace(body[start : semi+1]), body[open:close], true
}

func (r *Resolver) synthesize(sc scope) string {
	target, subst, ok := r.superTarget(sc)
	if !ok {
		return ""
	}
	ctors := r.Index.Constructors(target)
	if len(ctors) == 0 {
		return ""
	}
	best := ctors[0]
	for _, c := range ctors[1:] {
		if len(c.Params) < len(best.Params) {
			best = c
		}
	}
	return r.renderCall("super", best.Params, target, subst)
}

// rewrite matches the existing call against the target's constructors and
// re-renders every argument as a type-correct default. An unmatchable call is
// kept verbatim.
func (r *Resolver) rewrite(kw, raw, argsText, target string, subst map[string]signature.TypeSig) string {
	args := javatext.SplitArgs(argsText)
	var candidates []signature.CtorSig
	for _, c := range r.Index.Constructors(target) {
		if len(c.Params) == len(args) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return raw
	}
	chosen := candidates[0]
	if len(candidates) > 1 {
		sigs := make([]signature.TypeSig, len(args))
		for i, a := range args {
			sigs[i] = argSig(a)
		}
		best := scoreCall(sigs, chosen.Params)
		for _, c := range candidates[1:] {
			// ties keep the earlier candidate in declaration order
			if s := scoreCall(sigs, c.Params); s > best {
				best, chosen = s, c
			}
		}
	}
	return r.renderCall(kw, chosen.Params, target, subst)
}

func (r *Resolver) renderCall(kw string, params []signature.TypeSig, target string, subst map[string]signature.TypeSig) string {
	tps := r.Index.TypeParams(target)
	rendered := make([]string, len(params))
	for i, p := range params {
		t := p
		if subst != nil {
			t = t.Substitute(subst)
		}
		t = boundFallback(t, tps)
		t = r.stripPrivate(t)
		rendered[i] = defaultArg(t)
	}
	return kw + "(" + strings.Join(rendered, ", ") + ");"
}

// superTarget resolves the extends clause to an indexed class and builds the
// type-parameter substitution its supplied type arguments induce.
func (r *Resolver) superTarget(sc scope) (string, map[string]signature.TypeSig, bool) {
	if sc.extendsRef == "" {
		return "", nil, false
	}
	ref := parseSourceType(sc.extendsRef)
	target, ok := r.resolveName(sc, ref.Name)
	if !ok || target == "java.lang.Object" {
		return "", nil, false
	}
	tps := r.Index.TypeParams(target)
	var subst map[string]signature.TypeSig
	if len(tps) > 0 && len(ref.Args) > 0 {
		subst = make(map[string]signature.TypeSig, len(tps))
		for i, tp := range tps {
			if i < len(ref.Args) && ref.Args[i].Kind != signature.KindWildcard {
				subst[tp.Name] = ref.Args[i]
			}
		}
	}
	return target, subst, true
}

// resolveName maps a source-level type reference to its canonical index key:
// literal import match first, then same-package nesting with dots folded to
// '$', then a plain same-package sibling, then the text itself with successive
// nesting split points.
func (r *Resolver) resolveName(sc scope, ref string) (string, bool) {
	if ref == "Object" || ref == "java.lang.Object" {
		return "java.lang.Object", true
	}
	parts := strings.Split(ref, ".")
	for _, imp := range sc.imports {
		if strings.HasPrefix(imp, "static ") || !strings.HasSuffix(imp, "."+parts[0]) {
			continue
		}
		name := imp
		for _, p := range parts[1:] {
			name += "$" + p
		}
		if r.Index.Has(name) {
			return name, true
		}
	}
	if cand := joinPkg(sc.pkg, strings.Join(parts, "$")); r.Index.Has(cand) {
		return cand, true
	}
	if cand := joinPkg(sc.pkg, ref); r.Index.Has(cand) {
		return cand, true
	}
	if r.Index.Has(ref) {
		return ref, true
	}
	for i := len(parts) - 1; i >= 1; i-- {
		cand := strings.Join(parts[:i], ".") + "$" + strings.Join(parts[i:], "$")
		if r.Index.Has(cand) {
			return cand, true
		}
	}
	return "", false
}

func joinPkg(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// boundFallback replaces type variables that survived substitution with their
// declared bound, class bound first, erased to stay finite for F-bounded
// parameters. Variables foreign to the target's parameter list erase to
// Object.
func boundFallback(t signature.TypeSig, tps []signature.TypeParam) signature.TypeSig {
	if !t.HasTypeVars() {
		return t
	}
	m := make(map[string]signature.TypeSig, len(tps))
	for _, tp := range tps {
		b := signature.Object
		if len(tp.Bounds) > 0 {
			b = tp.Bounds[0].Raw()
		}
		m[tp.Name] = b
	}
	out := t.Substitute(m)
	if out.HasTypeVars() {
		out = eraseVars(out)
	}
	return out
}

func eraseVars(t signature.TypeSig) signature.TypeSig {
	switch t.Kind {
	case signature.KindTypeVar:
		return signature.Object
	case signature.KindClass:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]signature.TypeSig, len(t.Args))
		for i, a := range t.Args {
			args[i] = eraseVars(a)
		}
		return signature.TypeSig{Kind: signature.KindClass, Name: t.Name, Args: args}
	case signature.KindArray:
		if t.Elem == nil {
			return t
		}
		e := eraseVars(*t.Elem)
		return signature.TypeSig{Kind: signature.KindArray, Elem: &e, Dims: t.Dims}
	case signature.KindWildcard:
		if t.Elem == nil {
			return t
		}
		e := eraseVars(*t.Elem)
		return signature.TypeSig{Kind: signature.KindWildcard, Variance: t.Variance, Elem: &e}
	}
	return t
}

// stripPrivate collapses any parameterization that mentions a private nested
// type to the raw form, since such a reference cannot appear outside its
// declaring scope.
func (r *Resolver) stripPrivate(t signature.TypeSig) signature.TypeSig {
	switch t.Kind {
	case signature.KindClass:
		if len(t.Args) == 0 {
			return t
		}
		for _, a := range t.Args {
			if r.refersPrivate(a) {
				return t.Raw()
			}
		}
		args := make([]signature.TypeSig, len(t.Args))
		for i, a := range t.Args {
			args[i] = r.stripPrivate(a)
		}
		return signature.TypeSig{Kind: signature.KindClass, Name: t.Name, Args: args}
	case signature.KindArray:
		if t.Elem == nil {
			return t
		}
		e := r.stripPrivate(*t.Elem)
		return signature.TypeSig{Kind: signature.KindArray, Elem: &e, Dims: t.Dims}
	case signature.KindWildcard:
		if t.Elem == nil {
			return t
		}
		e := r.stripPrivate(*t.Elem)
		return signature.TypeSig{Kind: signature.KindWildcard, Variance: t.Variance, Elem: &e}
	}
	return t
}

func (r *Resolver) refersPrivate(t signature.TypeSig) bool {
	switch t.Kind {
	case signature.KindClass:
		if r.Index.IsPrivate(t.Name) {
			return true
		}
		for _, a := range t.Args {
			if r.refersPrivate(a) {
				return true
			}
		}
	case signature.KindArray, signature.KindWildcard:
		if t.Elem != nil {
			return r.refersPrivate(*t.Elem)
		}
	}
	return false
}

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "short": true, "char": true,
	"int": true, "long": true, "float": true, "double": true,
}

// parseSourceType reads a source-level type reference (as it appears in an
// extends clause or a cast) into a TypeSig. Names stay as written; simple
// names are not resolved against imports.
func parseSourceType(text string) signature.TypeSig {
	s := strings.TrimSpace(text)
	if s == "?" {
		return signature.TypeSig{Kind: signature.KindWildcard, Variance: '*'}
	}
	if after, ok := strings.CutPrefix(s, "? extends "); ok {
		e := parseSourceType(after)
		return signature.TypeSig{Kind: signature.KindWildcard, Variance: '+', Elem: &e}
	}
	if after, ok := strings.CutPrefix(s, "? super "); ok {
		e := parseSourceType(after)
		return signature.TypeSig{Kind: signature.KindWildcard, Variance: '-', Elem: &e}
	}
	dims := 0
	for strings.HasSuffix(s, "[]") {
		s = strings.TrimSpace(s[:len(s)-2])
		dims++
	}
	var args []signature.TypeSig
	if i := strings.IndexByte(s, '<'); i >= 0 && strings.HasSuffix(s, ">") {
		for _, a := range javatext.SplitArgs("(" + s[i+1:len(s)-1] + ")") {
			args = append(args, parseSourceType(a))
		}
		s = strings.TrimSpace(s[:i])
	}
	var t signature.TypeSig
	if primitiveNames[s] {
		t = signature.Primitive(s)
	} else {
		t = signature.Class(s, args...)
	}
	if dims > 0 {
		elem := t
		return signature.TypeSig{Kind: signature.KindArray, Elem: &elem, Dims: dims}
	}
	return t
}

// argSig guesses the type of a delegation-call argument expression, feeding
// overload scoring. Anything untypeable becomes the Object placeholder.
func argSig(expr string) signature.TypeSig {
	e := strings.TrimSpace(expr)
	switch {
	case e == "":
		return signature.Object
	case e == "true" || e == "false":
		return signature.Primitive("boolean")
	case e == "null":
		return signature.Object
	case e[0] == '"':
		return signature.Class("java.lang.String")
	case e[0] == '\'':
		return signature.Primitive("char")
	case e[0] == '(':
		if end := javatext.Balanced(e, 0); end > 0 {
			inner := strings.TrimSpace(e[1 : end-1])
			if looksLikeType(inner) {
				return parseSourceType(inner)
			}
		}
		return signature.Object
	case e[0] >= '0' && e[0] <= '9',
		e[0] == '-' && len(e) > 1 && e[1] >= '0' && e[1] <= '9':
		return numberSig(e)
	default:
		return signature.Object
	}
}

func numberSig(e string) signature.TypeSig {
	switch e[len(e)-1] {
	case 'L', 'l':
		return signature.Primitive("long")
	case 'f', 'F':
		if !strings.HasPrefix(e, "0x") && !strings.HasPrefix(e, "-0x") {
			return signature.Primitive("float")
		}
	case 'd', 'D':
		if !strings.HasPrefix(e, "0x") && !strings.HasPrefix(e, "-0x") {
			return signature.Primitive("double")
		}
	}
	if strings.ContainsRune(e, '.') {
		return signature.Primitive("double")
	}
	return signature.Primitive("int")
}

func looksLikeType(s string) bool {
	if s == "" || !(s[0] == '_' || s[0] == '$' || s[0] >= 'A' && s[0] <= 'Z' || s[0] >= 'a' && s[0] <= 'z') {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9':
		case c == '.' || c == '<' || c == '>' || c == '[' || c == ']' || c == ',' || c == '?' || c == '&' || c == ' ':
		default:
			return false
		}
	}
	return true
}
