// Package builtin implements spec.md §6's "From the built-in library"
// peer: named host modules (Bool, Nat, Int, Char, String, List, Map,
// Ordering, Debug), each contributing global type definitions and external-process
// definitions the checker treats exactly like user definitions (spec.md §6:
// "The checker treats these identically to user definitions; the runtime
// evaluates them by spawning a host task bound to that channel").
//
// Grounded on _examples/original_source/src/par/builtin.rs's module roster
// and per-module builder functions (nat_add, bool_and, ...), each of which
// constructs a types.Type literal and a host function in lockstep; the
// concrete op set (Bool/Ordering/Nat/Int/Char/String/List/Map/Debug) matches
// src/par/builtin/{debug,list,map,os}.rs's module list, scaled down to the
// closed, testable subset SPEC_FULL.md §4 calls for. The manifest-driven
// cross-check in builtin.go's Install is modeled on how funvibe-funxy keeps
// its own module configuration (gopkg.in/yaml.v3-parsed) separate from Go
// logic elsewhere in its module-loading path.
package builtin

import (
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

func g(module, ident string) name.Global { return name.Global{Module: module, Ident: ident} }

func boolType() types.Type {
	return types.Either{Branches: map[string]types.Type{"true": types.Break{}, "false": types.Break{}}}
}

func orderingType() types.Type {
	return types.Either{Branches: map[string]types.Type{
		"less": types.Break{}, "equal": types.Break{}, "greater": types.Break{},
	}}
}

// listType builds recursive { either { .end !, .item (elem) self } }
// parameterized over elem (the List<a> module of SPEC_FULL.md §4
// "Supplemented features").
func listType(elem types.Type) types.Type {
	return types.Recursive{
		Label: "list",
		Body: types.Either{Branches: map[string]types.Type{
			"end":  types.Break{},
			"item": types.Pair{First: elem, Second: types.Self_{Label: "list"}},
		}},
	}
}

// mapType builds the Map<k, v> protocol from
// original_source/src/par/builtin/map.rs: an iterative external choice
// between replaying the whole table as a list and probing one entry, where
// probing removes the key, reports .ok value / .err, and then accepts
// .put/.delete before offering the map again.
func mapType(k, v types.Type) types.Type {
	boxed := types.Box{Inner: v}
	return types.Iterative{
		Label: "map",
		Body: types.Choice{Branches: map[string]types.Type{
			"list": listRef(types.Pair{First: k, Second: boxed}),
			"entry": types.Function{Param: k, Result: types.Pair{
				First: types.Either{Branches: map[string]types.Type{
					"ok":  boxed,
					"err": types.Break{},
				}},
				Second: types.Choice{Branches: map[string]types.Type{
					"put":    types.Function{Param: boxed, Result: types.Self_{Label: "map"}},
					"delete": types.Self_{Label: "map"},
				}},
			}},
		}},
	}
}

// typeDefs returns the global type definitions this library installs:
// Bool.Bool, Ordering.Ordering, List.List<a>, and Map.Map<k, v>.
func typeDefs() []*types.Def {
	return []*types.Def{
		{Global: g("Bool", "Bool"), Body: boolType()},
		{Global: g("Ordering", "Ordering"), Body: orderingType()},
		{Global: g("List", "List"), Params: []string{"a"}, Body: listType(types.Var{Name: "a"})},
		{Global: g("Map", "Map"), Params: []string{"k", "v"}, Body: mapType(types.Var{Name: "k"}, types.Var{Name: "v"})},
	}
}

func boolRef() types.Type     { return types.NameRef{Global: g("Bool", "Bool")} }
func orderingRef() types.Type { return types.NameRef{Global: g("Ordering", "Ordering")} }
func listRef(elem types.Type) types.Type {
	return types.NameRef{Global: g("List", "List"), Args: []types.Type{elem}}
}
func mapRef(k, v types.Type) types.Type {
	return types.NameRef{Global: g("Map", "Map"), Args: []types.Type{k, v}}
}

func nat() types.Type   { return types.Primitive{Kind: types.Nat} }
func intT() types.Type  { return types.Primitive{Kind: types.Int} }
func charT() types.Type { return types.Primitive{Kind: types.Char} }
func strT() types.Type  { return types.Primitive{Kind: types.StringKind} }
func brk() types.Type   { return types.Break{} }

func fn(a, b types.Type) types.Type { return types.Function{Param: a, Result: b} }

// ret wraps a scalar result the way this runtime's Send-then-Break
// convention requires (spec.md §6 pretty-printing: "(a)!" for Pair(a,
// Break)), matching internal/runtime/runtime_test.go's
// TestSendThenBreakReadsBack and avoiding the unresolved question of
// linking a bare bottom-out Primitive with no continuation at all.
func ret(t types.Type) types.Type { return types.Pair{First: t, Second: types.Break{}} }
