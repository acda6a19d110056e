package runtime

import "github.com/funvibe/par/internal/name"

// Env is the runtime binding environment. It is a persistent (copy-on-write)
// map: internal/check has already proved every binding is used the number
// of times its type permits, so the runtime never needs to track
// consumption itself -- it only ever needs to REBIND a channel's object name
// to the fresh continuation channel a command produces.
type Env struct {
	vals map[name.Internal]Value
}

func NewEnv() *Env { return &Env{vals: map[name.Internal]Value{}} }

func (e *Env) get(n name.Internal) (Value, bool) {
	v, ok := e.vals[n]
	return v, ok
}

// with returns a new Env identical to e except n now maps to v.
func (e *Env) with(n name.Internal, v Value) *Env {
	out := make(map[name.Internal]Value, len(e.vals)+1)
	for k, val := range e.vals {
		out[k] = val
	}
	out[n] = v
	return &Env{vals: out}
}
