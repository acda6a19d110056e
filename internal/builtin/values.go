package builtin

import (
	"fmt"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/runtime"
)

// The helpers below adapt runtime.Value <-> calculus.Literal payloads for
// the external process bodies in this package, the same narrow boundary
// _examples/original_source/src/par/builtin.rs crosses with its own
// handle.receive().nat()/string()-style accessors.

func recvNat(h *runtime.Handle) (uint64, error) {
	v, err := h.Receive()
	if err != nil {
		return 0, err
	}
	lit, ok := v.(runtime.Literal)
	if !ok {
		return 0, fmt.Errorf("builtin: expected a Nat, got %T", v)
	}
	n, ok := lit.Literal.(calculus.NatLiteral)
	if !ok {
		return 0, fmt.Errorf("builtin: expected a Nat, got %T", lit.Literal)
	}
	return n.Value, nil
}

func recvInt(h *runtime.Handle) (int64, error) {
	v, err := h.Receive()
	if err != nil {
		return 0, err
	}
	lit, ok := v.(runtime.Literal)
	if !ok {
		return 0, fmt.Errorf("builtin: expected an Int, got %T", v)
	}
	n, ok := lit.Literal.(calculus.IntLiteral)
	if !ok {
		return 0, fmt.Errorf("builtin: expected an Int, got %T", lit.Literal)
	}
	return n.Value, nil
}

func recvString(h *runtime.Handle) (string, error) {
	v, err := h.Receive()
	if err != nil {
		return "", err
	}
	lit, ok := v.(runtime.Literal)
	if !ok {
		return "", fmt.Errorf("builtin: expected a String, got %T", v)
	}
	s, ok := lit.Literal.(calculus.StringLiteral)
	if !ok {
		return "", fmt.Errorf("builtin: expected a String, got %T", lit.Literal)
	}
	return s.Value, nil
}

func recvChar(h *runtime.Handle) (rune, error) {
	v, err := h.Receive()
	if err != nil {
		return 0, err
	}
	lit, ok := v.(runtime.Literal)
	if !ok {
		return 0, fmt.Errorf("builtin: expected a Char, got %T", v)
	}
	c, ok := lit.Literal.(calculus.CharLiteral)
	if !ok {
		return 0, fmt.Errorf("builtin: expected a Char, got %T", lit.Literal)
	}
	return c.Value, nil
}

// recvBool consumes a Bool argument off the main handle's Function layer.
// Bool is Either-shaped (a protocol type, not a Primitive), so the value
// Receive hands back is itself a delegated channel: Sub wraps it so Case can
// run on that sub-session instead of the main object.
func recvBool(h *runtime.Handle) (bool, error) {
	v, err := h.Receive()
	if err != nil {
		return false, err
	}
	sub, err := h.Sub(v)
	if err != nil {
		return false, err
	}
	return caseBool(sub)
}

func caseBool(h *runtime.Handle) (bool, error) {
	label, err := h.Case()
	if err != nil {
		return false, err
	}
	switch label {
	case "true":
		if err := h.ContinueRecv(); err != nil {
			return false, err
		}
		return true, nil
	case "false":
		if err := h.ContinueRecv(); err != nil {
			return false, err
		}
		return false, nil
	default:
		return false, fmt.Errorf("builtin: expected a Bool, got label %q", label)
	}
}

func sendBool(h *runtime.Handle, v bool) {
	if v {
		h.Signal("true")
	} else {
		h.Signal("false")
	}
	h.Break()
}

// sendNatFinal/sendIntFinal/sendStringFinal deliver a scalar result and
// immediately terminate the session (Send then Break), the convention this
// runtime uses for a definition whose declared type ends "(Scalar)!" --
// see internal/runtime/runtime_test.go's TestSendThenBreakReadsBack and
// types.go's ret() helper.
func sendNatFinal(h *runtime.Handle, v uint64) {
	h.Send(runtime.Literal{Literal: calculus.NatLiteral{Value: v}})
	h.Break()
}

func sendIntFinal(h *runtime.Handle, v int64) {
	h.Send(runtime.Literal{Literal: calculus.IntLiteral{Value: v}})
	h.Break()
}

func sendStringFinal(h *runtime.Handle, v string) {
	h.Send(runtime.Literal{Literal: calculus.StringLiteral{Value: v}})
	h.Break()
}

func sendOrdering(h *runtime.Handle, cmp int) {
	switch {
	case cmp < 0:
		h.Signal("less")
	case cmp > 0:
		h.Signal("greater")
	default:
		h.Signal("equal")
	}
	h.Break()
}
