package builtin

import (
	"github.com/funvibe/par/internal/runtime"
	"github.com/funvibe/par/internal/types"
)

// listOps is grounded on _examples/original_source/src/par/builtin/list.rs's
// readback_list traversal and types.go's listType shape for List<a>:
// recursive { either { .end !, .item (a) self } }. Both ops are [type a]-quantified;
// System F erasure (internal/runtime/eval.go's SendType/ReceiveType case)
// means the host implementation never touches the channel for that type
// argument, so it goes straight to receiving the List<a> value itself.
func listOps() map[string]declared {
	elem := types.Var{Name: "a"}

	lengthTy := types.Forall{Var: "a", Body: fn(listRef(elem), ret(nat()))}
	concatTy := types.Forall{Var: "a", Body: fn(listRef(elem), fn(listRef(elem), listRef(elem)))}

	return map[string]declared{
		"List.Length": {lengthTy, func(rt *runtime.Runtime, h *runtime.Handle) error {
			v, err := h.Receive()
			if err != nil {
				return err
			}
			list, err := h.Sub(v)
			if err != nil {
				return err
			}
			n, err := listLength(list)
			if err != nil {
				return err
			}
			sendNatFinal(h, n)
			return nil
		}},
		"List.Concat": {concatTy, func(rt *runtime.Runtime, h *runtime.Handle) error {
			av, err := h.Receive()
			if err != nil {
				return err
			}
			a, err := h.Sub(av)
			if err != nil {
				return err
			}
			bv, err := h.Receive()
			if err != nil {
				return err
			}
			b, err := h.Sub(bv)
			if err != nil {
				return err
			}
			items, err := drainList(a)
			if err != nil {
				return err
			}
			// Concat's result type is List<a> itself, not Pair(List<a>,
			// Break): the object channel IS the combined list, so the
			// continuation plays out directly on h (the same pattern
			// sendBool uses when Bool is the object's own remaining type).
			return appendList(h, items, b)
		}},
	}
}

// listLength drains every .item branch, following self through each
// continuation, until .end.
func listLength(list *runtime.Handle) (uint64, error) {
	var n uint64
	for {
		label, err := list.Case()
		if err != nil {
			return 0, err
		}
		switch label {
		case "end":
			if err := list.ContinueRecv(); err != nil {
				return 0, err
			}
			return n, nil
		case "item":
			if _, err := list.Receive(); err != nil {
				return 0, err
			}
			n++
		default:
			return 0, &labelError{label}
		}
	}
}

// drainList reads a.Handle's items eagerly into memory (case .item, receive
// the element, keep going; stop at .end), the way List.Concat's first
// argument must be fully consumed before the combined list can be produced.
func drainList(a *runtime.Handle) ([]runtime.Value, error) {
	var items []runtime.Value
	for {
		label, err := a.Case()
		if err != nil {
			return nil, err
		}
		if label == "end" {
			if err := a.ContinueRecv(); err != nil {
				return nil, err
			}
			return items, nil
		}
		if label != "item" {
			return nil, &labelError{label}
		}
		v, err := a.Receive()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

// appendList replays items onto out, then signals .item/self for every
// element remaining on b, finally relaying b's own .end.
func appendList(out *runtime.Handle, items []runtime.Value, b *runtime.Handle) error {
	for _, v := range items {
		out.Signal("item")
		out.Send(v)
	}
	for {
		label, err := b.Case()
		if err != nil {
			return err
		}
		switch label {
		case "end":
			if err := b.ContinueRecv(); err != nil {
				return err
			}
			out.Signal("end")
			out.Break()
			return nil
		case "item":
			v, err := b.Receive()
			if err != nil {
				return err
			}
			out.Signal("item")
			out.Send(v)
		default:
			return &labelError{label}
		}
	}
}

type labelError struct{ label string }

func (e *labelError) Error() string { return "builtin: unexpected label " + e.label }
