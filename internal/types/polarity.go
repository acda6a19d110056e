package types

// IsPositive implements spec.md §3 "Polarities": Pair, Either, Break,
// Primitive are positive (their introducing side runs first); Function,
// Choice, Continue are negative; Box and fixpoints inherit from their body,
// DualBox flips it; Name is resolved via defs. Composite positives count as
// positive only when every component is (a Pair carrying a Function is not
// plain data), which is what makes IsLinear below line up with which values
// can be dropped or re-read.
func IsPositive(defs *Defs, t Type) (bool, error) {
	t, err := UnfoldFull(defs, t)
	if err != nil {
		return false, err
	}
	switch x := t.(type) {
	case Primitive, Break, Self_:
		return true, nil
	case DualPrimitive, Function, Choice, Continue, Var, DualSelf:
		return false, nil
	case DualVar:
		// The dual of a variable is negative-side unknown; its eliminating
		// side has already committed to running first.
		return true, nil
	case Box:
		return IsPositive(defs, x.Inner)
	case DualBox:
		pos, err := IsPositive(defs, x.Inner)
		return !pos, err
	case Pair:
		pos, err := IsPositive(defs, x.First)
		if err != nil || !pos {
			return false, err
		}
		return IsPositive(defs, x.Second)
	case Either:
		for _, branch := range x.Branches {
			pos, err := IsPositive(defs, branch)
			if err != nil || !pos {
				return false, err
			}
		}
		return true, nil
	case Recursive:
		return IsPositive(defs, x.Body)
	case Iterative:
		return IsPositive(defs, x.Body)
	case Exists:
		return IsPositive(defs, x.Body)
	case Forall:
		return IsPositive(defs, x.Body)
	default:
		return false, nil
	}
}

// IsNegative is the complement of IsPositive.
func IsNegative(defs *Defs, t Type) (bool, error) {
	pos, err := IsPositive(defs, t)
	return !pos, err
}

// IsLinear decides whether a binding of type t must be used exactly once:
// is_linear(t) == ¬is_positive(t) (spec.md §8). A fully positive type is
// plain data — its introducing side has already run to completion by the
// time the value is held, so re-reading or dropping it owes nothing to a
// peer. Anything with a negative component still has a protocol to run and
// stays a single-use obligation.
func IsLinear(defs *Defs, t Type) (bool, error) {
	pos, err := IsPositive(defs, t)
	return !pos, err
}
