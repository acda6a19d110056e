package builtin

import (
	"sort"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/runtime"
	"github.com/funvibe/par/internal/types"
)

// mapOps is grounded on _examples/original_source/src/par/builtin/map.rs:
// Map.String/Map.Int/Map.Nat each consume a List<(k) box v> of entries and
// then provide the Map<k, v> protocol — `.list` replays the entries in key
// order as a list, `.entry` removes a key, reports `.ok value` / `.err`,
// and waits for `.put`/`.delete` to decide what the key maps to next.
func mapOps() map[string]declared {
	v := types.Var{Name: "v"}
	boxedV := types.Box{Inner: v}
	entryOf := func(k types.Type) types.Type {
		return types.Pair{First: k, Second: boxedV}
	}
	newTy := func(k types.Type) types.Type {
		return types.Forall{Var: "v", Body: fn(listRef(entryOf(k)), mapRef(k, v))}
	}

	return map[string]declared{
		"Map.String": {newTy(strT()), func(rt *runtime.Runtime, h *runtime.Handle) error {
			return mapNew(h, stringKey)
		}},
		"Map.Int": {newTy(intT()), func(rt *runtime.Runtime, h *runtime.Handle) error {
			return mapNew(h, intKey)
		}},
		"Map.Nat": {newTy(nat()), func(rt *runtime.Runtime, h *runtime.Handle) error {
			return mapNew(h, natKey)
		}},
	}
}

// keyKind adapts one scalar key type: reading it off a handle as a
// Go-comparable value, rendering it back to a wire literal, and ordering it
// for the `.list` replay (map.rs keeps a BTreeMap for the same reason).
type keyKind struct {
	read func(h *runtime.Handle) (any, error)
	lit  func(k any) calculus.Literal
	less func(a, b any) bool
}

var (
	stringKey = keyKind{
		read: func(h *runtime.Handle) (any, error) { return recvString(h) },
		lit:  func(k any) calculus.Literal { return calculus.StringLiteral{Value: k.(string)} },
		less: func(a, b any) bool { return a.(string) < b.(string) },
	}
	intKey = keyKind{
		read: func(h *runtime.Handle) (any, error) { return recvInt(h) },
		lit:  func(k any) calculus.Literal { return calculus.IntLiteral{Value: k.(int64)} },
		less: func(a, b any) bool { return a.(int64) < b.(int64) },
	}
	natKey = keyKind{
		read: func(h *runtime.Handle) (any, error) { return recvNat(h) },
		lit:  func(k any) calculus.Literal { return calculus.NatLiteral{Value: k.(uint64)} },
		less: func(a, b any) bool { return a.(uint64) < b.(uint64) },
	}
)

// mapNew drains the entry list into a key-indexed table, a later entry for
// the same key replacing the earlier one (map.rs erases the old value),
// then provides the map protocol on the main handle.
func mapNew(h *runtime.Handle, key keyKind) error {
	lv, err := h.Receive()
	if err != nil {
		return err
	}
	list, err := h.Sub(lv)
	if err != nil {
		return err
	}
	vals := map[any]runtime.Value{}
	for {
		label, err := list.Case()
		if err != nil {
			return err
		}
		if label == "end" {
			if err := list.ContinueRecv(); err != nil {
				return err
			}
			break
		}
		if label != "item" {
			return &labelError{label}
		}
		ev, err := list.Receive()
		if err != nil {
			return err
		}
		entry, err := h.Sub(ev)
		if err != nil {
			return err
		}
		k, err := key.read(entry)
		if err != nil {
			return err
		}
		// The rest of the entry session is the value.
		vals[k] = entry.Rest()
	}
	return provideMap(h, key, vals)
}

func provideMap(h *runtime.Handle, key keyKind, vals map[any]runtime.Value) error {
	for {
		label, err := h.Case()
		if err != nil {
			return err
		}
		switch label {
		case "list":
			keys := make([]any, 0, len(vals))
			for k := range vals {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool { return key.less(keys[i], keys[j]) })
			for _, k := range keys {
				k, v := k, vals[k]
				h.Signal("item")
				h.Send(h.Fork(func(p *runtime.Handle) error {
					p.Send(runtime.Literal{Literal: key.lit(k)})
					return p.Link(v)
				}))
			}
			h.Signal("end")
			h.Break()
			return nil

		case "entry":
			k, err := key.read(h)
			if err != nil {
				return err
			}
			removed, had := vals[k]
			delete(vals, k)
			h.Send(h.Fork(func(res *runtime.Handle) error {
				if had {
					res.Signal("ok")
					return res.Link(removed)
				}
				res.Signal("err")
				res.Break()
				return nil
			}))
			next, err := h.Case()
			if err != nil {
				return err
			}
			switch next {
			case "put":
				nv, err := h.Receive()
				if err != nil {
					return err
				}
				vals[k] = nv
			case "delete":
				// Already removed.
			default:
				return &labelError{next}
			}

		default:
			return &labelError{label}
		}
	}
}
