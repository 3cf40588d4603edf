package stub

import (
	"strings"

	"github.com/hytalekt/stubgen/signature"
)

// Candidate scoring for delegation-call overload disambiguation. A pure
// symbolic comparison between the rough type guessed from an argument
// expression and a candidate parameter signature; higher is better.
const (
	scoreExact   = 4
	scoreArray   = 2 // bonus on top of the element score
	scoreWeak    = 1
	scoreNoMatch = 0
)

// scoreCall sums per-position scores; argument counts are assumed equal.
func scoreCall(args, params []signature.TypeSig) int {
	total := 0
	for i := range args {
		total += scoreArg(args[i], params[i])
	}
	return total
}

func scoreArg(arg, param signature.TypeSig) int {
	switch param.Kind {
	case signature.KindPrimitive:
		if arg.Kind == signature.KindPrimitive && arg.Name == param.Name {
			return scoreExact
		}
		if arg.Kind == signature.KindPrimitive && widens(arg.Name, param.Name) {
			return scoreWeak
		}
		return scoreNoMatch
	case signature.KindArray:
		if arg.Kind == signature.KindArray && param.Elem != nil && arg.Elem != nil {
			s := scoreArg(*arg.Elem, *param.Elem)
			if s > 0 && arg.Dims == param.Dims {
				return s + scoreArray
			}
			return s
		}
		if arg.IsObject() {
			return scoreWeak
		}
		return scoreNoMatch
	case signature.KindClass:
		if arg.Kind == signature.KindClass {
			if sameClassName(arg.Name, param.Name) {
				return scoreExact
			}
			// a null or untypeable argument matches any reference weakly
			if arg.IsObject() || param.IsObject() {
				return scoreWeak
			}
		}
		return scoreNoMatch
	case signature.KindTypeVar:
		// an erased Object-typed argument is the usual shape of a
		// type-variable parameter at the call site
		if arg.IsObject() {
			return scoreWeak
		}
		return scoreNoMatch
	default:
		return scoreNoMatch
	}
}

// sameClassName compares a source-level (possibly simple) name with a binary
// dotted name: exact match, or simple-name match when the argument side lacks
// a package qualifier.
func sameClassName(argName, paramName string) bool {
	if argName == paramName {
		return true
	}
	if !strings.ContainsAny(argName, ".$") {
		return argName == simpleName(paramName)
	}
	return false
}

func simpleName(binary string) string {
	name := binary
	if i := strings.LastIndexByte(name, '$'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// widens reports whether a value of primitive kind from fits into to without a
// cast, the usual shape of an int literal passed for a long or double slot.
func widens(from, to string) bool {
	order := map[string]int{
		"byte": 1, "short": 2, "char": 2, "int": 3, "long": 4, "float": 5, "double": 6,
	}
	f, t := order[from], order[to]
	return f > 0 && t > 0 && f < t
}
