package types

import (
	"fmt"

	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
)

// Def is one installed global type definition.
type Def struct {
	Span   name.Span
	Global name.Global
	Params []string // type-parameter names, in declaration order
	Body   Type
}

// Defs is the read-only global table of installed type definitions,
// interned at program load (spec.md §3 "Lifecycle") and shared thereafter.
type Defs struct {
	byKey map[string]*Def
}

func defKey(g name.Global) string { return g.Module + "\x00" + g.Ident }

// NewDefs builds a Defs table from a list of definitions, without yet
// validating them (see Validate).
func NewDefs(defs []*Def) *Defs {
	d := &Defs{byKey: make(map[string]*Def, len(defs))}
	for _, def := range defs {
		d.byKey[defKey(def.Global)] = def
	}
	return d
}

// Resolve looks up a global type name.
func (d *Defs) Resolve(g name.Global) (*Def, bool) {
	def, ok := d.byKey[defKey(g)]
	return def, ok
}

// Unfold substitutes a NameRef's arguments into its definition's body,
// checking arity. It is the single point where Name/DualName references are
// expanded one level.
func Unfold(defs *Defs, g name.Global, args []Type) (Type, error) {
	def, ok := defs.Resolve(g)
	if !ok {
		return nil, &diagnostics.TypeNameNotDefinedError{At: g.Span, Name: g.String()}
	}
	if len(def.Params) != len(args) {
		return nil, &diagnostics.WrongNumberOfTypeArgsError{
			At: g.Span, Name: g.String(), Expected: len(def.Params), Got: len(args),
		}
	}
	body := def.Body
	for i, p := range def.Params {
		body = Substitute(body, p, args[i])
	}
	return body, nil
}

// UnfoldOneLevel expands a NameRef or DualNameRef at the top, leaving every
// other variant untouched. This is the "unfold through Name transparently"
// step used throughout the checker (spec.md §4.3).
func UnfoldOneLevel(defs *Defs, t Type) (Type, error) {
	switch x := t.(type) {
	case NameRef:
		return Unfold(defs, x.Global, x.Args)
	case DualNameRef:
		body, err := Unfold(defs, x.Global, x.Args)
		if err != nil {
			return nil, err
		}
		return Dual(body), nil
	default:
		return t, nil
	}
}

// Validate implements spec.md §4.1 "Validation": type-argument arity,
// acyclic Name dependency graph through non-fixpoint positions, Self_
// binder-label matching, and no Self_ in a negative position of its binder.
func Validate(defs *Defs) []error {
	var errs []error
	for _, def := range defs.byKey {
		errs = append(errs, validateArity(defs, def.Body)...)
		errs = append(errs, validateCycles(defs, def)...)
		errs = append(errs, validateSelf(def.Body, nil)...)
	}
	return errs
}

func validateArity(defs *Defs, t Type) []error {
	var errs []error
	switch x := t.(type) {
	case NameRef:
		if def, ok := defs.Resolve(x.Global); ok {
			if len(def.Params) != len(x.Args) {
				errs = append(errs, &diagnostics.WrongNumberOfTypeArgsError{
					At: x.Global.Span, Name: x.Global.String(), Expected: len(def.Params), Got: len(x.Args),
				})
			}
		} else {
			errs = append(errs, &diagnostics.TypeNameNotDefinedError{At: x.Global.Span, Name: x.Global.String()})
		}
		for _, a := range x.Args {
			errs = append(errs, validateArity(defs, a)...)
		}
	case DualNameRef:
		errs = append(errs, validateArity(defs, NameRef{Global: x.Global, Args: x.Args})...)
	case Box:
		errs = append(errs, validateArity(defs, x.Inner)...)
	case DualBox:
		errs = append(errs, validateArity(defs, x.Inner)...)
	case Pair:
		errs = append(errs, validateArity(defs, x.First)...)
		errs = append(errs, validateArity(defs, x.Second)...)
	case Function:
		errs = append(errs, validateArity(defs, x.Param)...)
		errs = append(errs, validateArity(defs, x.Result)...)
	case Either:
		for _, l := range sortedLabels(x.Branches) {
			errs = append(errs, validateArity(defs, x.Branches[l])...)
		}
	case Choice:
		for _, l := range sortedLabels(x.Branches) {
			errs = append(errs, validateArity(defs, x.Branches[l])...)
		}
	case Recursive:
		errs = append(errs, validateArity(defs, x.Body)...)
	case Iterative:
		errs = append(errs, validateArity(defs, x.Body)...)
	case Exists:
		errs = append(errs, validateArity(defs, x.Body)...)
	case Forall:
		errs = append(errs, validateArity(defs, x.Body)...)
	}
	return errs
}

// validateCycles rejects a dependency cycle through Name references that
// never passes through Recursive/Iterative (which break the cycle, since
// they are only unfolded on demand, not eagerly).
func validateCycles(defs *Defs, start *Def) []error {
	visiting := map[string]bool{defKey(start.Global): true}
	path := []string{start.Global.String()}
	var walk func(t Type) []error
	walk = func(t Type) []error {
		switch x := t.(type) {
		case NameRef:
			key := defKey(x.Global)
			if visiting[key] {
				cycle := append(append([]string{}, path...), x.Global.String())
				return []error{&diagnostics.DependencyCycleError{At: x.Global.Span, Cycle: cycle}}
			}
			def, ok := defs.Resolve(x.Global)
			if !ok {
				return nil
			}
			visiting[key] = true
			path = append(path, x.Global.String())
			errs := walk(def.Body)
			path = path[:len(path)-1]
			delete(visiting, key)
			return errs
		case DualNameRef:
			return walk(NameRef{Global: x.Global, Args: x.Args})
		case Box:
			return walk(x.Inner)
		case DualBox:
			return walk(x.Inner)
		case Pair:
			return append(walk(x.First), walk(x.Second)...)
		case Function:
			return append(walk(x.Param), walk(x.Result)...)
		case Either:
			var errs []error
			for _, l := range sortedLabels(x.Branches) {
				errs = append(errs, walk(x.Branches[l])...)
			}
			return errs
		case Choice:
			var errs []error
			for _, l := range sortedLabels(x.Branches) {
				errs = append(errs, walk(x.Branches[l])...)
			}
			return errs
		case Recursive:
			return nil // fixpoints stop eager expansion
		case Iterative:
			return nil
		case Exists:
			return walk(x.Body)
		case Forall:
			return walk(x.Body)
		default:
			return nil
		}
	}
	return walk(start.Body)
}

// validateSelf tracks which labels appear positively/negatively and rejects
// Self_(l) in a negative position of its own binder, and any Self_/DualSelf
// with no enclosing binder of that label.
func validateSelf(t Type, bound []string) []error {
	var errs []error
	var walk func(t Type, bound []string, neg bool)
	isBound := func(bound []string, l string) bool {
		for _, b := range bound {
			if b == l {
				return true
			}
		}
		return false
	}
	walk = func(t Type, bound []string, neg bool) {
		switch x := t.(type) {
		case Self_:
			if !isBound(bound, x.Label) {
				errs = append(errs, &diagnostics.NoMatchingFixpointError{Label: x.Label})
				return
			}
			if neg {
				errs = append(errs, &diagnostics.SelfInNegativePositionError{Label: x.Label})
			}
		case DualSelf:
			if !isBound(bound, x.Label) {
				errs = append(errs, &diagnostics.NoMatchingFixpointError{Label: x.Label})
				return
			}
			if !neg {
				errs = append(errs, &diagnostics.SelfInNegativePositionError{Label: x.Label})
			}
		case Box:
			walk(x.Inner, bound, neg)
		case DualBox:
			walk(x.Inner, bound, !neg)
		case Pair:
			walk(x.First, bound, neg)
			walk(x.Second, bound, neg)
		case Function:
			walk(x.Param, bound, !neg)
			walk(x.Result, bound, neg)
		case Either:
			for _, l := range sortedLabels(x.Branches) {
				walk(x.Branches[l], bound, neg)
			}
		case Choice:
			for _, l := range sortedLabels(x.Branches) {
				walk(x.Branches[l], bound, neg)
			}
		case Recursive:
			walk(x.Body, append(append([]string{}, bound...), x.Label), neg)
		case Iterative:
			walk(x.Body, append(append([]string{}, bound...), x.Label), neg)
		case Exists:
			walk(x.Body, bound, neg)
		case Forall:
			walk(x.Body, bound, neg)
		case NameRef:
			for _, a := range x.Args {
				walk(a, bound, neg)
			}
		case DualNameRef:
			for _, a := range x.Args {
				walk(a, bound, neg)
			}
		}
	}
	walk(t, bound, false)
	return errs
}

// String implements a readable dump of the whole table, for debugging.
func (d *Defs) String() string {
	return fmt.Sprintf("Defs(%d definitions)", len(d.byKey))
}
