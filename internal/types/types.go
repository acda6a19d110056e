// Package types implements the session type algebra of spec.md §3/§4.1: the
// closed set of type variants, duality, substitution, validation,
// coinductive assignability, fixpoint unrolling and ascendant tracking, and
// pretty-printing.
//
// Grounded on funvibe-funxy/internal/typesystem/types.go's closed Type
// interface (struct-per-variant, String()/Apply(Subst)/FreeTypeVariables())
// and typesystem/unify.go's coinductive visited-pair walk, adapted here from
// unification to one-directional equirecursive subtyping (AssignableTo).
package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/par/internal/name"
)

// Type is the closed interface every session type variant implements.
type Type interface {
	fmt.Stringer
	isType()
}

// Primitive represents spec.md §3's base data kinds.
type PrimitiveKind int

const (
	Nat PrimitiveKind = iota
	Int
	StringKind
	Char
	Byte
	Bytes
)

func (p PrimitiveKind) String() string {
	switch p {
	case Nat:
		return "Nat"
	case Int:
		return "Int"
	case StringKind:
		return "String"
	case Char:
		return "Char"
	case Byte:
		return "Byte"
	case Bytes:
		return "Bytes"
	default:
		return "?Primitive"
	}
}

type Primitive struct{ Kind PrimitiveKind }

func (Primitive) isType()          {}
func (t Primitive) String() string { return t.Kind.String() }

type DualPrimitive struct{ Kind PrimitiveKind }

func (DualPrimitive) isType()          {}
func (t DualPrimitive) String() string { return "dual " + t.Kind.String() }

// Var is a bound type variable.
type Var struct{ Name string }

func (Var) isType()          {}
func (t Var) String() string { return t.Name }

type DualVar struct{ Name string }

func (DualVar) isType()          {}
func (t DualVar) String() string { return "dual " + t.Name }

// NameRef references a global type definition with a type-argument vector.
// (Named NameRef, not Name, to avoid colliding with the sibling name
// package.)
type NameRef struct {
	Global name.Global
	Args   []Type
}

func (NameRef) isType() {}
func (t NameRef) String() string {
	if len(t.Args) == 0 {
		return t.Global.String()
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Global.String(), strings.Join(parts, ", "))
}

type DualNameRef struct {
	Global name.Global
	Args   []Type
}

func (DualNameRef) isType() {}
func (t DualNameRef) String() string {
	return "dual " + (NameRef{Global: t.Global, Args: t.Args}).String()
}

// Box marks a nonlinear (duplicable) type.
type Box struct{ Inner Type }

func (Box) isType()          {}
func (t Box) String() string { return "box " + t.Inner.String() }

type DualBox struct{ Inner Type }

func (DualBox) isType()          {}
func (t DualBox) String() string { return "dual box " + t.Inner.String() }

// Pair is send-then-continue.
type Pair struct{ First, Second Type }

func (Pair) isType() {}
func (t Pair) String() string {
	// Pretty-printing convention, spec.md §6: "(a) b" or "(a, b, ...)!" when
	// the tail is Break.
	elems := flattenPair(t)
	if _, ok := elems.tail.(Break); ok {
		parts := make([]string, len(elems.items))
		for i, e := range elems.items {
			parts[i] = e.String()
		}
		return fmt.Sprintf("(%s)!", strings.Join(parts, ", "))
	}
	if len(elems.items) == 1 {
		return fmt.Sprintf("(%s) %s", elems.items[0].String(), elems.tail.String())
	}
	parts := make([]string, len(elems.items))
	for i, e := range elems.items {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s) %s", strings.Join(parts, ", "), elems.tail.String())
}

type flatChain struct {
	items []Type
	tail  Type
}

func flattenPair(t Pair) flatChain {
	items := []Type{t.First}
	tail := t.Second
	for {
		p, ok := tail.(Pair)
		if !ok {
			break
		}
		items = append(items, p.First)
		tail = p.Second
	}
	return flatChain{items: items, tail: tail}
}

func flattenFunc(t Function) flatChain {
	items := []Type{t.Param}
	tail := t.Result
	for {
		f, ok := tail.(Function)
		if !ok {
			break
		}
		items = append(items, f.Param)
		tail = f.Result
	}
	return flatChain{items: items, tail: tail}
}

// Function is receive-then-continue, dual to Pair.
type Function struct{ Param, Result Type }

func (Function) isType() {}
func (t Function) String() string {
	elems := flattenFunc(t)
	if _, ok := elems.tail.(Continue); ok {
		parts := make([]string, len(elems.items))
		for i, e := range elems.items {
			parts[i] = e.String()
		}
		return fmt.Sprintf("[%s]?", strings.Join(parts, ", "))
	}
	parts := make([]string, len(elems.items))
	for i, e := range elems.items {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s] %s", strings.Join(parts, ", "), elems.tail.String())
}

// Either is a labelled sum (internal choice: the introducer picks).
type Either struct{ Branches map[string]Type }

func (Either) isType() {}
func (t Either) String() string {
	return fmt.Sprintf("either { %s }", formatBranches(t.Branches, "."))
}

// Choice is a labelled product (external choice: the eliminator picks).
type Choice struct{ Branches map[string]Type }

func (Choice) isType() {}
func (t Choice) String() string {
	return fmt.Sprintf("{ %s }", formatChoiceBranches(t.Branches))
}

func sortedLabels(m map[string]Type) []string {
	labels := make([]string, 0, len(m))
	for l := range m {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func formatBranches(m map[string]Type, prefix string) string {
	labels := sortedLabels(m)
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s%s %s", prefix, l, m[l].String())
	}
	return strings.Join(parts, ", ")
}

func formatChoiceBranches(m map[string]Type) string {
	labels := sortedLabels(m)
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf(".%s => %s", l, m[l].String())
	}
	return strings.Join(parts, ", ")
}

// Break and Continue are terminal units, dual to each other.
type Break struct{}

func (Break) isType()          {}
func (Break) String() string { return "!" }

type Continue struct{}

func (Continue) isType()          {}
func (Continue) String() string { return "?" }

// Recursive and Iterative are fixpoint types. Asc is the ascendant set: the
// loop-IDs whose bodies the current type was produced by unfolding.
type Recursive struct {
	Asc   map[string]bool
	Label string
	Body  Type
}

func (Recursive) isType() {}
func (t Recursive) String() string {
	if t.Label == "" {
		return "recursive " + t.Body.String()
	}
	return fmt.Sprintf("recursive:%s %s", t.Label, t.Body.String())
}

type Iterative struct {
	Asc   map[string]bool
	Label string
	Body  Type
}

func (Iterative) isType() {}
func (t Iterative) String() string {
	if t.Label == "" {
		return "iterative " + t.Body.String()
	}
	return fmt.Sprintf("iterative:%s %s", t.Label, t.Body.String())
}

// Self_ and DualSelf are occurrences of the enclosing fixpoint.
type Self_ struct{ Label string }

func (Self_) isType()          {}
func (t Self_) String() string { return "self:" + t.Label }

type DualSelf struct{ Label string }

func (DualSelf) isType()          {}
func (t DualSelf) String() string { return "dual self:" + t.Label }

// Exists and Forall quantify over types.
type Exists struct {
	Var  string
	Body Type
}

func (Exists) isType()          {}
func (t Exists) String() string { return fmt.Sprintf("(type %s) %s", t.Var, t.Body.String()) }

type Forall struct {
	Var  string
	Body Type
}

func (Forall) isType()          {}
func (t Forall) String() string { return fmt.Sprintf("[type %s] %s", t.Var, t.Body.String()) }

// AscWith returns a copy of asc with label added.
func AscWith(asc map[string]bool, label string) map[string]bool {
	out := make(map[string]bool, len(asc)+1)
	for k := range asc {
		out[k] = true
	}
	out[label] = true
	return out
}

// AscWithout returns a copy of asc with label removed.
func AscWithout(asc map[string]bool, label string) map[string]bool {
	out := make(map[string]bool, len(asc))
	for k := range asc {
		if k != label {
			out[k] = true
		}
	}
	return out
}

// AscSubset reports whether every label of a is present in b (a ⊆ b).
func AscSubset(a, b map[string]bool) bool {
	for k, v := range a {
		if v && !b[k] {
			return false
		}
	}
	return true
}
