package types

// Substitute implements t[v := u] (spec.md §4.1): free Var(v)/DualVar(v) are
// replaced by u / Dual(u) respectively. Substitution is capture-avoiding
// with respect to Exists/Forall binders (the binder shadows), and threads
// into NameRef's argument vector.
func Substitute(t Type, v string, u Type) Type {
	switch x := t.(type) {
	case Var:
		if x.Name == v {
			return u
		}
		return x
	case DualVar:
		if x.Name == v {
			return Dual(u)
		}
		return x
	case NameRef:
		return NameRef{Global: x.Global, Args: substSlice(x.Args, v, u)}
	case DualNameRef:
		return DualNameRef{Global: x.Global, Args: substSlice(x.Args, v, u)}
	case Box:
		return Box{Inner: Substitute(x.Inner, v, u)}
	case DualBox:
		return DualBox{Inner: Substitute(x.Inner, v, u)}
	case Pair:
		return Pair{First: Substitute(x.First, v, u), Second: Substitute(x.Second, v, u)}
	case Function:
		return Function{Param: Substitute(x.Param, v, u), Result: Substitute(x.Result, v, u)}
	case Either:
		return Either{Branches: substBranches(x.Branches, v, u)}
	case Choice:
		return Choice{Branches: substBranches(x.Branches, v, u)}
	case Recursive:
		return Recursive{Asc: x.Asc, Label: x.Label, Body: Substitute(x.Body, v, u)}
	case Iterative:
		return Iterative{Asc: x.Asc, Label: x.Label, Body: Substitute(x.Body, v, u)}
	case Exists:
		if x.Var == v {
			return x // shadowed
		}
		return Exists{Var: x.Var, Body: Substitute(x.Body, v, u)}
	case Forall:
		if x.Var == v {
			return x
		}
		return Forall{Var: x.Var, Body: Substitute(x.Body, v, u)}
	default:
		// Primitive, DualPrimitive, Break, Continue, Self_, DualSelf carry
		// no type variables.
		return t
	}
}

func substSlice(ts []Type, v string, u Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Substitute(t, v, u)
	}
	return out
}

func substBranches(m map[string]Type, v string, u Type) map[string]Type {
	out := make(map[string]Type, len(m))
	for l, t := range m {
		out[l] = Substitute(t, v, u)
	}
	return out
}

// FreeVars returns the free type variables of t (both Var and DualVar
// occurrences, by name), deduplicated.
func FreeVars(t Type) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Type)
	walk = func(t Type) {
		switch x := t.(type) {
		case Var:
			if !seen[x.Name] {
				seen[x.Name] = true
				out = append(out, x.Name)
			}
		case DualVar:
			if !seen[x.Name] {
				seen[x.Name] = true
				out = append(out, x.Name)
			}
		case NameRef:
			for _, a := range x.Args {
				walk(a)
			}
		case DualNameRef:
			for _, a := range x.Args {
				walk(a)
			}
		case Box:
			walk(x.Inner)
		case DualBox:
			walk(x.Inner)
		case Pair:
			walk(x.First)
			walk(x.Second)
		case Function:
			walk(x.Param)
			walk(x.Result)
		case Either:
			for _, l := range sortedLabels(x.Branches) {
				walk(x.Branches[l])
			}
		case Choice:
			for _, l := range sortedLabels(x.Branches) {
				walk(x.Branches[l])
			}
		case Recursive:
			walk(x.Body)
		case Iterative:
			walk(x.Body)
		case Exists:
			inner := FreeVars(x.Body)
			for _, n := range inner {
				if n != x.Var && !seen[n] {
					seen[n] = true
					out = append(out, n)
				}
			}
		case Forall:
			inner := FreeVars(x.Body)
			for _, n := range inner {
				if n != x.Var && !seen[n] {
					seen[n] = true
					out = append(out, n)
				}
			}
		}
	}
	walk(t)
	return out
}
