package types

// assumedPair is a (label-of-s, label-of-t) pair already assumed equal by
// the coinductive AssignableTo walk, keyed the way spec.md §4.1 describes.
type assumedPair struct{ sLabel, tLabel string }

// AssignableTo implements spec.md §4.1's coinductive assignable_to(s, t):
// decides whether a value of type s may be used where t is expected.
func AssignableTo(defs *Defs, s, t Type) (bool, error) {
	return assignable(defs, s, t, map[assumedPair]bool{})
}

func assignable(defs *Defs, s, t Type, assumed map[assumedPair]bool) (bool, error) {
	// Unfold Name on either side transparently.
	s, err := UnfoldFull(defs, s)
	if err != nil {
		return false, err
	}
	t, err = UnfoldFull(defs, t)
	if err != nil {
		return false, err
	}

	sRec, sIsRec := s.(Recursive)
	tRec, tIsRec := t.(Recursive)
	sIter, sIsIter := s.(Iterative)
	tIter, tIsIter := t.(Iterative)

	switch {
	case sIsRec && tIsRec:
		if !AscSubset(tRec.Asc, sRec.Asc) {
			return false, nil
		}
		pair := assumedPair{sRec.Label, tRec.Label}
		if assumed[pair] {
			return true, nil
		}
		return assignable(defs, sRec.Body, tRec.Body, withAssumed(assumed, pair))
	case sIsIter && tIsIter:
		if !AscSubset(tIter.Asc, sIter.Asc) {
			return false, nil
		}
		pair := assumedPair{sIter.Label, tIter.Label}
		if assumed[pair] {
			return true, nil
		}
		return assignable(defs, sIter.Body, tIter.Body, withAssumed(assumed, pair))
	case tIsRec:
		// x ≤ Recursive{...}: unroll the right. Recursive values may always
		// be consumed in their unfolded form.
		return assignable(defs, s, ExpandRecursive(tRec), assumed)
	case sIsIter:
		// Iterative{...} ≤ x: unroll the left. Iterative continuations may
		// always be provided in their unfolded form.
		return assignable(defs, ExpandIterative(sIter), t, assumed)
	}

	switch sv := s.(type) {
	case Primitive:
		tv, ok := t.(Primitive)
		return ok && tv.Kind == sv.Kind, nil
	case DualPrimitive:
		tv, ok := t.(DualPrimitive)
		return ok && tv.Kind == sv.Kind, nil
	case Var:
		tv, ok := t.(Var)
		return ok && tv.Name == sv.Name, nil
	case DualVar:
		tv, ok := t.(DualVar)
		return ok && tv.Name == sv.Name, nil
	case Box:
		// Box inherits the assignability of its contents; a duplicable value
		// may also be used once where the bare type is expected, so the Box
		// layer on the left is droppable. The reverse never holds: an unboxed
		// value cannot promise duplicability.
		if tv, ok := t.(Box); ok {
			return assignable(defs, sv.Inner, tv.Inner, assumed)
		}
		return assignable(defs, sv.Inner, t, assumed)
	case DualBox:
		tv, ok := t.(DualBox)
		if !ok {
			return false, nil
		}
		return assignable(defs, sv.Inner, tv.Inner, assumed)
	case Pair:
		tv, ok := t.(Pair)
		if !ok {
			return false, nil
		}
		ok1, err := assignable(defs, sv.First, tv.First, assumed)
		if err != nil || !ok1 {
			return false, err
		}
		return assignable(defs, sv.Second, tv.Second, assumed)
	case Function:
		tv, ok := t.(Function)
		if !ok {
			return false, nil
		}
		// Contravariant argument: t.Param ≤ s.Param.
		ok1, err := assignable(defs, tv.Param, sv.Param, assumed)
		if err != nil || !ok1 {
			return false, err
		}
		return assignable(defs, sv.Result, tv.Result, assumed)
	case Either:
		tv, ok := t.(Either)
		if !ok {
			return false, nil
		}
		// Every branch of s must be present in t and pointwise ≤; additional
		// branches in t are forbidden (an either is an upper bound).
		if len(sv.Branches) != len(tv.Branches) {
			return false, nil
		}
		for l, st := range sv.Branches {
			tt, ok := tv.Branches[l]
			if !ok {
				return false, nil
			}
			ok1, err := assignable(defs, st, tt, assumed)
			if err != nil || !ok1 {
				return false, err
			}
		}
		return true, nil
	case Choice:
		tv, ok := t.(Choice)
		if !ok {
			return false, nil
		}
		// Dual direction: every branch of t must be present in s.
		if len(sv.Branches) != len(tv.Branches) {
			return false, nil
		}
		for l, tt := range tv.Branches {
			st, ok := sv.Branches[l]
			if !ok {
				return false, nil
			}
			ok1, err := assignable(defs, st, tt, assumed)
			if err != nil || !ok1 {
				return false, err
			}
		}
		return true, nil
	case Break:
		_, ok := t.(Break)
		return ok, nil
	case Continue:
		_, ok := t.(Continue)
		return ok, nil
	case Self_:
		tv, ok := t.(Self_)
		if !ok {
			return false, nil
		}
		return assumed[assumedPair{sv.Label, tv.Label}], nil
	case DualSelf:
		tv, ok := t.(DualSelf)
		if !ok {
			return false, nil
		}
		return assumed[assumedPair{sv.Label, tv.Label}], nil
	case Exists:
		tv, ok := t.(Exists)
		if !ok {
			return false, nil
		}
		freshBody := Substitute(tv.Body, tv.Var, Var{Name: sv.Var})
		return assignable(defs, sv.Body, freshBody, assumed)
	case Forall:
		tv, ok := t.(Forall)
		if !ok {
			return false, nil
		}
		freshBody := Substitute(tv.Body, tv.Var, Var{Name: sv.Var})
		return assignable(defs, sv.Body, freshBody, assumed)
	default:
		return false, nil
	}
}

func withAssumed(assumed map[assumedPair]bool, pair assumedPair) map[assumedPair]bool {
	out := make(map[assumedPair]bool, len(assumed)+1)
	for k, v := range assumed {
		out[k] = v
	}
	out[pair] = true
	return out
}
