package check

import (
	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// freeNames returns the names a process reads from its enclosing scope, in
// first-use order: every Reference and Do object not bound within the
// process itself. It is the capture set of a Fork (spec.md §4.4 "capture"),
// derived here from the body since the desugared calculus carries no
// explicit capture list.
func freeNames(p calculus.Process) []name.Internal {
	var out []name.Internal
	seen := map[name.Internal]bool{}
	collectProcess(p, map[name.Internal]bool{}, seen, &out)
	return out
}

func note(n name.Internal, bound, seen map[name.Internal]bool, out *[]name.Internal) {
	if bound[n] || seen[n] {
		return
	}
	seen[n] = true
	*out = append(*out, n)
}

func withBound(bound map[name.Internal]bool, n name.Internal) map[name.Internal]bool {
	out := make(map[name.Internal]bool, len(bound)+1)
	for k := range bound {
		out[k] = true
	}
	out[n] = true
	return out
}

func collectProcess(p calculus.Process, bound, seen map[name.Internal]bool, out *[]name.Internal) {
	switch x := p.(type) {
	case calculus.Let:
		collectExpression(x.Value, bound, seen, out)
		collectProcess(x.Then, withBound(bound, x.Name), seen, out)
	case calculus.Do:
		note(x.Object, bound, seen, out)
		collectCommand(x.Command, bound, seen, out)
	case calculus.Telltypes:
		collectProcess(x.Then, bound, seen, out)
	}
}

func collectCommand(cmd calculus.Command, bound, seen map[name.Internal]bool, out *[]name.Internal) {
	switch x := cmd.(type) {
	case calculus.Link:
		collectExpression(x.Value, bound, seen, out)
	case calculus.Send:
		collectExpression(x.Value, bound, seen, out)
		collectProcess(x.Then, bound, seen, out)
	case calculus.Receive:
		collectProcess(x.Then, withBound(bound, x.Param), seen, out)
	case calculus.Signal:
		collectProcess(x.Then, bound, seen, out)
	case calculus.Case:
		for _, b := range x.Branches {
			collectProcess(b.Then, bound, seen, out)
		}
		if x.Fallthrough != nil {
			collectProcess(x.Fallthrough, bound, seen, out)
		}
	case calculus.ContinueCmd:
		collectProcess(x.Then, bound, seen, out)
	case calculus.Begin:
		collectProcess(x.Body, bound, seen, out)
	case calculus.SendType:
		collectProcess(x.Then, bound, seen, out)
	case calculus.ReceiveType:
		collectProcess(x.Then, bound, seen, out)
	}
}

func collectExpression(e calculus.Expression, bound, seen map[name.Internal]bool, out *[]name.Internal) {
	switch x := e.(type) {
	case calculus.Reference:
		note(x.Name, bound, seen, out)
	case calculus.Fork:
		collectProcess(x.Process, withBound(bound, x.Channel), seen, out)
	}
}

// captureInto moves the fork body's free variables from the parent context
// into the child's: linear bindings transfer outright (the child now owns
// the obligation), nonlinear data is copied so the parent may keep reading
// it. Names absent from the parent are left for globalType to resolve.
func (c *Checker) captureInto(parent, child *Context, f calculus.Fork) error {
	for _, n := range freeNames(f.Process) {
		if n.Equal(f.Channel) {
			continue
		}
		t, ok := parent.peek(n)
		if !ok {
			continue
		}
		linear, err := types.IsLinear(c.Defs, t)
		if err != nil {
			return err
		}
		if linear {
			parent.take(f.At, n)
		}
		child.forcePut(n, t)
	}
	return nil
}
