package runtime

import (
	"fmt"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
)

func evalExpression(rt *Runtime, task *Task, env *Env, e calculus.Expression) (Value, error) {
	switch x := e.(type) {
	case calculus.Reference:
		if v, ok := env.get(x.Name); ok {
			return v, nil
		}
		if body, ok := rt.Globals[x.Name.String()]; ok {
			return evalExpression(rt, task, NewEnv(), body)
		}
		if fn, ok := rt.Externals[x.Name.String()]; ok {
			a, b := NewChannelPair()
			child := newTask()
			task.own(a)
			h := NewHandle(rt, child, b)
			rt.spawn(func() error {
				err := fn(rt, h)
				if err != nil {
					child.abortAll(err)
				}
				return err
			})
			return ChannelEnd{Chan: a}, nil
		}
		return nil, &diagnostics.RuntimeNameNotDefinedError{Name: x.Name.String()}

	case calculus.PrimitiveExpr:
		return Literal{x.Value}, nil

	case calculus.Fork:
		a, b := NewChannelPair()
		child := childOf(task)
		child.own(b)
		task.own(a)
		// The child sees the parent's bindings plus its own channel: Env is
		// copy-on-write, and the checker has already proved each linear
		// binding moves to exactly one side, so sharing the snapshot is the
		// capture step.
		cenv := env.with(x.Channel, ChannelEnd{Chan: b})
		rt.spawn(func() error {
			err := evalProcess(rt, child, cenv, x.Process)
			if err != nil {
				child.abortAll(err)
			}
			return err
		})
		return ChannelEnd{Chan: a}, nil

	default:
		return nil, &diagnostics.SyntaxError{At: e.Span(), Message: "unrecognized expression form at runtime"}
	}
}

func evalProcess(rt *Runtime, task *Task, env *Env, p calculus.Process) error {
	switch x := p.(type) {
	case calculus.Let:
		v, err := evalExpression(rt, task, env, x.Value)
		if err != nil {
			return err
		}
		return evalProcess(rt, task, env.with(x.Name, v), x.Then)

	case calculus.Do:
		v, ok := env.get(x.Object)
		if !ok {
			return &diagnostics.RuntimeNameNotDefinedError{Name: x.Object.String()}
		}
		ce, ok := v.(ChannelEnd)
		if !ok {
			return &diagnostics.IncompatibleOperationError{Requested: "channel", Got: fmt.Sprintf("%T", v)}
		}
		return evalCommand(rt, task, env, x.Object, ce.Chan, x.Command)

	case calculus.Telltypes:
		return evalProcess(rt, task, env, x.Then)

	default:
		return &diagnostics.SyntaxError{At: p.Span(), Message: "unrecognized process form at runtime"}
	}
}

// evalCommand implements the seven interaction primitives of spec.md §4.4
// against object's current channel end ch.
func evalCommand(rt *Runtime, task *Task, env *Env, object name.Internal, ch *Channel, cmd calculus.Command) error {
	switch x := cmd.(type) {
	case calculus.Link:
		v, err := evalExpression(rt, task, env, x.Value)
		if err != nil {
			return err
		}
		ce, ok := v.(ChannelEnd)
		if !ok {
			return &diagnostics.IncompatibleOperationError{Requested: "channel", Got: fmt.Sprintf("%T", v)}
		}
		task.disown(ch)
		task.disown(ce.Chan)
		return proxy(ch, ce.Chan)

	case calculus.Send:
		v, err := evalExpression(rt, task, env, x.Value)
		if err != nil {
			return err
		}
		if ce, ok := v.(ChannelEnd); ok {
			// Ownership of a delegated session moves with the message.
			task.disown(ce.Chan)
		}
		mine, theirs := NewChannelPair()
		task.own(mine)
		task.disown(ch)
		ch.send(MsgSend{Value: v, Cont: theirs})
		return evalProcess(rt, task, env.with(object, ChannelEnd{Chan: mine}), x.Then)

	case calculus.Receive:
		m := ch.recv()
		sm, ok := m.(MsgSend)
		if !ok {
			return incompatible("send", m)
		}
		task.disown(ch)
		task.own(sm.Cont)
		if ce, ok := sm.Value.(ChannelEnd); ok {
			task.own(ce.Chan)
		}
		env2 := env.with(x.Param, sm.Value).with(object, ChannelEnd{Chan: sm.Cont})
		return evalProcess(rt, task, env2, x.Then)

	case calculus.Signal:
		mine, theirs := NewChannelPair()
		task.own(mine)
		task.disown(ch)
		ch.send(MsgSignal{Label: x.Label, Cont: theirs})
		return evalProcess(rt, task, env.with(object, ChannelEnd{Chan: mine}), x.Then)

	case calculus.Case:
		m := ch.recv()
		sig, ok := m.(MsgSignal)
		if !ok {
			return incompatible("signal", m)
		}
		task.disown(ch)
		task.own(sig.Cont)
		env2 := env.with(object, ChannelEnd{Chan: sig.Cont})
		for _, b := range x.Branches {
			if b.Label == sig.Label {
				return evalProcess(rt, task, env2, b.Then)
			}
		}
		if x.Fallthrough != nil {
			return evalProcess(rt, task, env2, x.Fallthrough)
		}
		return &diagnostics.InvalidBranchError{Label: sig.Label, Type: "received at runtime"}

	case calculus.BreakCmd:
		task.disown(ch)
		ch.send(MsgBreak{})
		return nil

	case calculus.ContinueCmd:
		m := ch.recv()
		if _, ok := m.(MsgBreak); !ok {
			return incompatible("break", m)
		}
		task.disown(ch)
		return evalProcess(rt, task, env, x.Then)

	case calculus.Begin:
		var loopFn loopFunc
		loopFn = func(t *Task, env *Env, ch *Channel) error {
			t.loopPoints[x.Label] = loopFn
			return evalProcess(rt, t, env.with(object, ChannelEnd{Chan: ch}), x.Body)
		}
		return loopFn(task, env, ch)

	case calculus.Loop:
		fn, ok := task.loopPoints[x.Label]
		if !ok {
			return &diagnostics.NoSuchLoopPointError{Label: x.Label}
		}
		return fn(task, env, ch)

	case calculus.SendType, calculus.ReceiveType:
		// Type arguments are erased at runtime (standard for a System
		// F-style polymorphic calculus): no value crosses the channel, so
		// the object's current channel end carries straight through.
		then := sendOrReceiveTypeThen(cmd)
		return evalProcess(rt, task, env, then)

	default:
		return &diagnostics.SyntaxError{Message: "unrecognized command form at runtime"}
	}
}

func sendOrReceiveTypeThen(cmd calculus.Command) calculus.Process {
	switch x := cmd.(type) {
	case calculus.SendType:
		return x.Then
	case calculus.ReceiveType:
		return x.Then
	default:
		panic("unreachable")
	}
}

func incompatible(requested string, got Message) error {
	if em, ok := got.(MsgError); ok {
		return em.Err
	}
	return &diagnostics.IncompatibleOperationError{Requested: requested, Got: fmt.Sprintf("%T", got)}
}

// proxy implements the `link` primitive: exactly one of the two fused
// peers sends next (their types are dual), and its message already carries
// the fresh continuation channel for whatever follows, so relaying that one
// message rethreads the session directly between the peers and the proxy's
// own pair is spent.
func proxy(a, b *Channel) error {
	var m Message
	select {
	case m = <-a.in:
		b.out <- m
	case m = <-b.in:
		a.out <- m
	}
	if em, ok := m.(MsgError); ok {
		return em.Err
	}
	return nil
}
