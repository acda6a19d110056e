package builtin

import (
	"strconv"

	"github.com/funvibe/par/internal/runtime"
	"github.com/funvibe/par/internal/types"
)

// natOps/intOps are grounded on
// _examples/original_source/src/par/builtin.rs's Nat/Int module builders
// (nat_add, nat_sub, nat_equals, nat_compare, ...), narrowed to the op set
// prelude.yaml lists.

func natOps() map[string]declared {
	binNat := fn(nat(), fn(nat(), ret(nat())))
	cmpNat := fn(nat(), fn(nat(), orderingRef()))
	eqNat := fn(nat(), fn(nat(), boolRef()))

	return map[string]declared{
		"Nat.Add": {binNat, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoNat(h)
			if err != nil {
				return err
			}
			sendNatFinal(h, a+b)
			return nil
		}},
		"Nat.Sub": {binNat, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoNat(h)
			if err != nil {
				return err
			}
			if b > a {
				sendNatFinal(h, 0)
			} else {
				sendNatFinal(h, a-b)
			}
			return nil
		}},
		"Nat.Mul": {binNat, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoNat(h)
			if err != nil {
				return err
			}
			sendNatFinal(h, a*b)
			return nil
		}},
		"Nat.Equals": {eqNat, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoNat(h)
			if err != nil {
				return err
			}
			sendBool(h, a == b)
			return nil
		}},
		"Nat.Compare": {cmpNat, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoNat(h)
			if err != nil {
				return err
			}
			switch {
			case a < b:
				sendOrdering(h, -1)
			case a > b:
				sendOrdering(h, 1)
			default:
				sendOrdering(h, 0)
			}
			return nil
		}},
		"Nat.ToString": {fn(nat(), ret(strT())), func(rt *runtime.Runtime, h *runtime.Handle) error {
			n, err := recvNat(h)
			if err != nil {
				return err
			}
			sendStringFinal(h, strconv.FormatUint(n, 10))
			return nil
		}},
	}
}

func intOps() map[string]declared {
	binInt := fn(intT(), fn(intT(), ret(intT())))
	cmpInt := fn(intT(), fn(intT(), orderingRef()))
	eqInt := fn(intT(), fn(intT(), boolRef()))

	return map[string]declared{
		"Int.Add": {binInt, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoInt(h)
			if err != nil {
				return err
			}
			sendIntFinal(h, a+b)
			return nil
		}},
		"Int.Sub": {binInt, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoInt(h)
			if err != nil {
				return err
			}
			sendIntFinal(h, a-b)
			return nil
		}},
		"Int.Mul": {binInt, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoInt(h)
			if err != nil {
				return err
			}
			sendIntFinal(h, a*b)
			return nil
		}},
		"Int.Negate": {fn(intT(), ret(intT())), func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, err := recvInt(h)
			if err != nil {
				return err
			}
			sendIntFinal(h, -a)
			return nil
		}},
		"Int.Equals": {eqInt, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoInt(h)
			if err != nil {
				return err
			}
			sendBool(h, a == b)
			return nil
		}},
		"Int.Compare": {cmpInt, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoInt(h)
			if err != nil {
				return err
			}
			switch {
			case a < b:
				sendOrdering(h, -1)
			case a > b:
				sendOrdering(h, 1)
			default:
				sendOrdering(h, 0)
			}
			return nil
		}},
		"Int.ToString": {fn(intT(), ret(strT())), func(rt *runtime.Runtime, h *runtime.Handle) error {
			n, err := recvInt(h)
			if err != nil {
				return err
			}
			sendStringFinal(h, strconv.FormatInt(n, 10))
			return nil
		}},
	}
}

func recvTwoNat(h *runtime.Handle) (uint64, uint64, error) {
	a, err := recvNat(h)
	if err != nil {
		return 0, 0, err
	}
	b, err := recvNat(h)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func recvTwoInt(h *runtime.Handle) (int64, int64, error) {
	a, err := recvInt(h)
	if err != nil {
		return 0, 0, err
	}
	b, err := recvInt(h)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// declared pairs an external op's checker-facing type with its
// runtime-facing implementation, installed together by Install so the two
// can never drift out of sync with each other.
type declared struct {
	Type types.Type
	Impl runtime.External
}
