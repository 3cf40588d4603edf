package classfile

import (
	"fmt"
	"sort"
)

// Synthetic leading-parameter counts for constructors whose descriptors carry
// compiler-added arguments not present in source.
const (
	SkipEnumCtor  = 2 // implicit name + ordinal
	SkipInnerCtor = 1 // implicit outer-instance reference
)

// ParameterNames recovers source-level parameter names for a method.
// MethodParameters metadata wins when the archive retained it; otherwise the
// debug local-variable table is walked slot by slot. skipSynthetic leading
// parameters (enum constructor name/ordinal, inner-class outer reference) are
// dropped from the result. Missing names fall back to param0, param1, ...
func ParameterNames(m *Method, skipSynthetic int) []string {
	descs := ParamDescriptors(m.Descriptor)
	if skipSynthetic > len(descs) {
		skipSynthetic = len(descs)
	}
	descs = descs[skipSynthetic:]

	names := make([]string, len(descs))
	fromMeta := namesFromMethodParameters(m, skipSynthetic, len(descs))
	fromTable := namesFromLocalVars(m, skipSynthetic, descs)
	for i := range names {
		switch {
		case i < len(fromMeta) && fromMeta[i] != "":
			names[i] = fromMeta[i]
		case i < len(fromTable) && fromTable[i] != "":
			names[i] = fromTable[i]
		default:
			names[i] = fmt.Sprintf("param%d", i)
		}
	}
	return names
}

func namesFromMethodParameters(m *Method, skip, want int) []string {
	if len(m.Parameters) == 0 {
		return nil
	}
	params := m.Parameters
	if skip < len(params) {
		params = params[skip:]
	} else {
		return nil
	}
	names := make([]string, 0, want)
	for _, p := range params {
		if len(names) == want {
			break
		}
		names = append(names, p.Name)
	}
	return names
}

// namesFromLocalVars walks the debug table by slot arithmetic: instance
// methods start at slot 1 (slot 0 is the receiver), statics at slot 0; each
// skipped synthetic parameter and each recovered one advances by 2 for
// long/double and 1 otherwise.
func namesFromLocalVars(m *Method, skip int, descs []string) []string {
	if len(m.LocalVars) == 0 {
		return nil
	}

	vars := make([]LocalVar, len(m.LocalVars))
	copy(vars, m.LocalVars)
	sort.Slice(vars, func(i, j int) bool { return vars[i].Slot < vars[j].Slot })

	bySlot := make(map[uint16]LocalVar, len(vars))
	for _, v := range vars {
		// Parameters are live from pc 0; later entries for the same slot are
		// ordinary locals reusing it.
		if v.StartPC == 0 {
			if _, seen := bySlot[v.Slot]; !seen {
				bySlot[v.Slot] = v
			}
		}
	}

	slot := 0
	if !m.Access.IsStatic() {
		slot = 1
	}
	all := ParamDescriptors(m.Descriptor)
	for i := 0; i < skip && i < len(all); i++ {
		slot += slotWidth(all[i])
	}

	names := make([]string, len(descs))
	for i, d := range descs {
		if v, ok := bySlot[uint16(slot)]; ok {
			names[i] = v.Name
		}
		slot += slotWidth(d)
	}
	return names
}

func slotWidth(desc string) int {
	if IsWideDescriptor(desc) {
		return 2
	}
	return 1
}
