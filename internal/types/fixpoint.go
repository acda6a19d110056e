package types

// ExpandRecursive implements spec.md §4.1 "expand_recursive": returns r's
// body with every Self_(r.Label) replaced by r itself (every DualSelf(r.Label)
// replaced by Dual(r), an Iterative). The re-wrapped occurrences carry r's
// own ascendant set unchanged: Asc only ever grows at a Begin command, which
// inserts the begin's label before unrolling (spec.md §4.1 "Ascendant
// tracking for totality").
func ExpandRecursive(r Recursive) Type {
	return mapSelf(r.Body, r.Label, func(isDual bool) Type {
		if isDual {
			return Dual(r)
		}
		return r
	})
}

// ExpandIterative is the symmetric unrolling for Iterative.
func ExpandIterative(it Iterative) Type {
	return mapSelf(it.Body, it.Label, func(isDual bool) Type {
		if isDual {
			return Dual(it)
		}
		return it
	})
}

// Expand unrolls whichever fixpoint variant t is; it is a no-op on any other
// type.
func Expand(t Type) Type {
	switch x := t.(type) {
	case Recursive:
		return ExpandRecursive(x)
	case Iterative:
		return ExpandIterative(x)
	default:
		return t
	}
}

// InvalidateAscendant removes label from the ascendant set of every
// Recursive/Iterative anywhere inside t. The checker applies it to every
// binding in the linear context when it enters a new `begin label`, so that
// unfoldings produced under an older binder of the same label cannot satisfy
// the new binder's descent requirement (spec.md §4.1
// "invalidate_ascendent").
func InvalidateAscendant(t Type, label string) Type {
	switch x := t.(type) {
	case Box:
		return Box{Inner: InvalidateAscendant(x.Inner, label)}
	case DualBox:
		return DualBox{Inner: InvalidateAscendant(x.Inner, label)}
	case Pair:
		return Pair{First: InvalidateAscendant(x.First, label), Second: InvalidateAscendant(x.Second, label)}
	case Function:
		return Function{Param: InvalidateAscendant(x.Param, label), Result: InvalidateAscendant(x.Result, label)}
	case Either:
		return Either{Branches: invalidateBranches(x.Branches, label)}
	case Choice:
		return Choice{Branches: invalidateBranches(x.Branches, label)}
	case Recursive:
		return Recursive{Asc: AscWithout(x.Asc, label), Label: x.Label, Body: InvalidateAscendant(x.Body, label)}
	case Iterative:
		return Iterative{Asc: AscWithout(x.Asc, label), Label: x.Label, Body: InvalidateAscendant(x.Body, label)}
	case Exists:
		return Exists{Var: x.Var, Body: InvalidateAscendant(x.Body, label)}
	case Forall:
		return Forall{Var: x.Var, Body: InvalidateAscendant(x.Body, label)}
	case NameRef:
		return NameRef{Global: x.Global, Args: invalidateSlice(x.Args, label)}
	case DualNameRef:
		return DualNameRef{Global: x.Global, Args: invalidateSlice(x.Args, label)}
	default:
		return t
	}
}

func invalidateBranches(m map[string]Type, label string) map[string]Type {
	out := make(map[string]Type, len(m))
	for l, t := range m {
		out[l] = InvalidateAscendant(t, label)
	}
	return out
}

func invalidateSlice(ts []Type, label string) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = InvalidateAscendant(t, label)
	}
	return out
}

// UnfoldFull repeatedly unfolds NameRef/DualNameRef references (via defs)
// until the outermost constructor is not a Name, used wherever the checker
// needs to "see through" aliases before matching on a type's shape.
func UnfoldFull(defs *Defs, t Type) (Type, error) {
	for {
		switch t.(type) {
		case NameRef, DualNameRef:
			next, err := UnfoldOneLevel(defs, t)
			if err != nil {
				return nil, err
			}
			t = next
		default:
			return t, nil
		}
	}
}
