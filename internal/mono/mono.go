// Package mono expands function templates over variant types into
// concrete function instances, one per type tuple.
package mono

import (
	"fmt"
	"io"
	"strings"

	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/collect"
	"github.com/tokynblast/minis/internal/types"
)

// FuncInstance is one concrete function ready for emission.
type FuncInstance struct {
	Name      string
	Ret       string // surface type
	Params    []collect.Param
	Body      *ast.Block
	ClassName string // owning class for lowered methods, "" otherwise
}

// Monomorphize expands every template in the module, in declaration
// order. Bodies are shared by reference across instances. A one-time
// warning is printed to warn for non-experimental variant<> usage; the
// latch lives on the module so compilations stay isolated.
func Monomorphize(m *collect.Module, warn io.Writer) []*FuncInstance {
	var instances []*FuncInstance
	for _, t := range m.Templates {
		instances = append(instances, Instantiate(t, m, warn)...)
	}
	return instances
}

// Instantiate enumerates the Cartesian product of the distinct variant
// lists among the template's return and parameter types, left-to-right
// (see expandTypeChoices), and produces one instance per combination.
func Instantiate(t *collect.FuncTemplate, m *collect.Module, warn io.Writer) []*FuncInstance {
	if usesPlainVariant(t) && m.WarnVariantOnce() {
		fmt.Fprintln(warn, "warning: variant<> is experimental; use !variant<> to suppress this warning")
	}

	choices := make([]ast.TypeChoice, 0, len(t.Params)+1)
	choices = append(choices, t.Ret)
	for _, p := range t.Params {
		choices = append(choices, p.Type)
	}

	combos := expandTypeChoices(choices)
	instances := make([]*FuncInstance, 0, len(combos))

	for _, combo := range combos {
		inst := &FuncInstance{
			Ret:  combo[0],
			Body: t.Body,
		}
		for i, p := range t.Params {
			inst.Params = append(inst.Params, collect.Param{Type: combo[i+1], Name: p.Name})
		}
		if t.HasVariant {
			inst.Name = MangleName(t.Name, combo)
		} else {
			inst.Name = t.Name
		}
		instances = append(instances, inst)
	}

	return instances
}

func usesPlainVariant(t *collect.FuncTemplate) bool {
	if t.Ret.IsVariant() && !t.Ret.Experimental {
		return true
	}
	for _, p := range t.Params {
		if p.Type.IsVariant() && !p.Type.Experimental {
			return true
		}
	}
	return false
}

// expandTypeChoices enumerates the Cartesian product of the distinct
// variant lists, left-to-right. Positions that spell the same variant
// list advance together, so a function generic over one list yields one
// instance per element rather than one per tuple.
func expandTypeChoices(choices []ast.TypeChoice) [][]string {
	type axis struct {
		types []string
	}

	var axes []axis
	axisByKey := map[string]int{}
	position := make([]int, len(choices)) // axis index, or -1 for a single type

	for i, c := range choices {
		if !c.IsVariant() {
			position[i] = -1
			continue
		}
		key := strings.Join(c.Variant, "|")
		idx, ok := axisByKey[key]
		if !ok {
			idx = len(axes)
			axes = append(axes, axis{types: c.Variant})
			axisByKey[key] = idx
		}
		position[i] = idx
	}

	counters := make([]int, len(axes))
	var results [][]string

	for {
		combo := make([]string, len(choices))
		for i, c := range choices {
			if position[i] < 0 {
				combo[i] = c.Single
			} else {
				combo[i] = axes[position[i]].types[counters[position[i]]]
			}
		}
		results = append(results, combo)

		// Advance the axis counters as one odometer, left-to-right.
		carry := len(axes) - 1
		for carry >= 0 {
			counters[carry]++
			if counters[carry] < len(axes[carry].types) {
				break
			}
			counters[carry] = 0
			carry--
		}
		if carry < 0 {
			break
		}
	}

	return results
}

// MangleName builds the instance symbol `_minis__BASE__T0__T1__...__Tn`
// where T0 is the return type and T1..Tn the parameter types, spelled as
// their IR types.
func MangleName(base string, combo []string) string {
	parts := make([]string, len(combo))
	for i, t := range combo {
		parts[i] = types.LLVMType(t)
	}
	return fmt.Sprintf("_minis__%s__%s", base, strings.Join(parts, "__"))
}
