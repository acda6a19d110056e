package types

// Dual implements spec.md §4.1. It is a structural involution:
// Dual(Dual(t)) ≡ t for every t.
func Dual(t Type) Type {
	switch v := t.(type) {
	case Primitive:
		return DualPrimitive{Kind: v.Kind}
	case DualPrimitive:
		return Primitive{Kind: v.Kind}
	case Var:
		return DualVar{Name: v.Name}
	case DualVar:
		return Var{Name: v.Name}
	case NameRef:
		return DualNameRef{Global: v.Global, Args: v.Args}
	case DualNameRef:
		return NameRef{Global: v.Global, Args: v.Args}
	case Box:
		return DualBox{Inner: v.Inner}
	case DualBox:
		return Box{Inner: v.Inner}
	case Pair:
		// Pair(t,u) becomes Function(t, dual(u)): the first argument is not
		// dualized, only the continuation is.
		return Function{Param: v.First, Result: Dual(v.Second)}
	case Function:
		return Pair{First: v.Param, Second: Dual(v.Result)}
	case Either:
		return Choice{Branches: dualBranches(v.Branches)}
	case Choice:
		return Either{Branches: dualBranches(v.Branches)}
	case Break:
		return Continue{}
	case Continue:
		return Break{}
	case Recursive:
		// Preserve asc/label; every Self_(label) inside the body becomes
		// DualSelf(label) so the closed fixpoint stays coherent.
		return Iterative{Asc: v.Asc, Label: v.Label, Body: dualizeSelf(v.Body, v.Label)}
	case Iterative:
		return Recursive{Asc: v.Asc, Label: v.Label, Body: dualizeSelf(v.Body, v.Label)}
	case Self_:
		return DualSelf{Label: v.Label}
	case DualSelf:
		return Self_{Label: v.Label}
	case Exists:
		return Forall{Var: v.Var, Body: Dual(v.Body)}
	case Forall:
		return Exists{Var: v.Var, Body: Dual(v.Body)}
	default:
		panic("types.Dual: unhandled type variant")
	}
}

func dualBranches(m map[string]Type) map[string]Type {
	out := make(map[string]Type, len(m))
	for l, t := range m {
		out[l] = Dual(t)
	}
	return out
}

// dualizeSelf replaces every Self_(label)/DualSelf(label) occurrence inside
// body with its dual, stopping at a nested fixpoint that rebinds the same
// label (shadowing).
func dualizeSelf(body Type, label string) Type {
	return mapSelf(body, label, func(isDual bool) Type {
		if isDual {
			return Self_{Label: label}
		}
		return DualSelf{Label: label}
	})
}

// mapSelf walks t, invoking replace(isDual) at every Self_(label)/
// DualSelf(label) occurrence not shadowed by a nested same-label binder, and
// substituting its result.
func mapSelf(t Type, label string, replace func(isDual bool) Type) Type {
	switch v := t.(type) {
	case Self_:
		if v.Label == label {
			return replace(false)
		}
		return v
	case DualSelf:
		if v.Label == label {
			return replace(true)
		}
		return v
	case Box:
		return Box{Inner: mapSelf(v.Inner, label, replace)}
	case DualBox:
		return DualBox{Inner: mapSelf(v.Inner, label, replace)}
	case Pair:
		return Pair{First: mapSelf(v.First, label, replace), Second: mapSelf(v.Second, label, replace)}
	case Function:
		return Function{Param: mapSelf(v.Param, label, replace), Result: mapSelf(v.Result, label, replace)}
	case Either:
		return Either{Branches: mapSelfBranches(v.Branches, label, replace)}
	case Choice:
		return Choice{Branches: mapSelfBranches(v.Branches, label, replace)}
	case Recursive:
		if v.Label == label {
			return v // shadowed: inner self refers to the inner binder
		}
		return Recursive{Asc: v.Asc, Label: v.Label, Body: mapSelf(v.Body, label, replace)}
	case Iterative:
		if v.Label == label {
			return v
		}
		return Iterative{Asc: v.Asc, Label: v.Label, Body: mapSelf(v.Body, label, replace)}
	case Exists:
		return Exists{Var: v.Var, Body: mapSelf(v.Body, label, replace)}
	case Forall:
		return Forall{Var: v.Var, Body: mapSelf(v.Body, label, replace)}
	case NameRef:
		return NameRef{Global: v.Global, Args: mapSelfSlice(v.Args, label, replace)}
	case DualNameRef:
		return DualNameRef{Global: v.Global, Args: mapSelfSlice(v.Args, label, replace)}
	default:
		return t
	}
}

func mapSelfBranches(m map[string]Type, label string, replace func(isDual bool) Type) map[string]Type {
	out := make(map[string]Type, len(m))
	for l, t := range m {
		out[l] = mapSelf(t, label, replace)
	}
	return out
}

func mapSelfSlice(ts []Type, label string, replace func(isDual bool) Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = mapSelf(t, label, replace)
	}
	return out
}
