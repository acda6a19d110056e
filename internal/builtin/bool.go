package builtin

import "github.com/funvibe/par/internal/runtime"

// boolOps is grounded on _examples/original_source/src/par/builtin.rs's
// bool_and/bool_or/bool_not/bool_equals, which operate directly on the
// Either-shaped Bool (no Primitive payload -- a Bool value IS the choice of
// label).
func boolOps() map[string]declared {
	binBool := fn(boolRef(), fn(boolRef(), boolRef()))

	return map[string]declared{
		"Bool.And": {binBool, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoBool(h)
			if err != nil {
				return err
			}
			sendBool(h, a && b)
			return nil
		}},
		"Bool.Or": {binBool, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoBool(h)
			if err != nil {
				return err
			}
			sendBool(h, a || b)
			return nil
		}},
		"Bool.Not": {fn(boolRef(), boolRef()), func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, err := recvBool(h)
			if err != nil {
				return err
			}
			sendBool(h, !a)
			return nil
		}},
		"Bool.Equals": {binBool, func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoBool(h)
			if err != nil {
				return err
			}
			sendBool(h, a == b)
			return nil
		}},
	}
}

func recvTwoBool(h *runtime.Handle) (bool, bool, error) {
	a, err := recvBool(h)
	if err != nil {
		return false, false, err
	}
	b, err := recvBool(h)
	if err != nil {
		return false, false, err
	}
	return a, b, nil
}
