package runtime

import "github.com/funvibe/par/internal/diagnostics"

// External is a host-implemented process bound to a single channel end: the
// runtime counterpart of spec.md §6 "a host function that plays the role of
// a process on a single channel". internal/builtin registers one of these
// per operation a built-in module exports; the checker trusts the
// Declared type that accompanies it instead of checking a calculus body,
// since there is no desugared process to check.
type External func(rt *Runtime, h *Handle) error

// Handle is the host-facing counterpart of the seven interaction primitives
// dispatched in eval.go, exported so internal/builtin's external process
// implementations can drive a channel end without reaching into this
// package's unexported Channel plumbing. It mirrors evalCommand's behavior
// exactly (same direct-send/direct-receive protocol, no Swap negotiation,
// since a host function's direction at each step is fixed by its own type
// signature) so a built-in reads exactly like a hand-desugared process.
type Handle struct {
	rt   *Runtime
	task *Task
	ch   *Channel
}

// NewHandle wraps ch for a host task owned by task.
func NewHandle(rt *Runtime, task *Task, ch *Channel) *Handle {
	task.own(ch)
	return &Handle{rt: rt, task: task, ch: ch}
}

// Send delivers v and advances the handle to the continuation channel
// (spec.md §4.4 send_to, positive side).
func (h *Handle) Send(v Value) {
	if ce, ok := v.(ChannelEnd); ok {
		// Ownership of a delegated session moves with the message.
		h.task.disown(ce.Chan)
	}
	mine, theirs := NewChannelPair()
	h.task.own(mine)
	h.task.disown(h.ch)
	h.ch.send(MsgSend{Value: v, Cont: theirs})
	h.ch = mine
}

// Receive awaits a value and advances the handle (spec.md §4.4
// receive_from).
func (h *Handle) Receive() (Value, error) {
	m := h.ch.recv()
	sm, ok := m.(MsgSend)
	if !ok {
		return nil, incompatible("send", m)
	}
	h.task.disown(h.ch)
	h.task.own(sm.Cont)
	if ce, ok := sm.Value.(ChannelEnd); ok {
		h.task.own(ce.Chan)
	}
	h.ch = sm.Cont
	return sm.Value, nil
}

// Signal chooses label and advances the handle (spec.md §4.4 signal_in).
func (h *Handle) Signal(label string) {
	mine, theirs := NewChannelPair()
	h.task.own(mine)
	h.task.disown(h.ch)
	h.ch.send(MsgSignal{Label: label, Cont: theirs})
	h.ch = mine
}

// Case awaits a chosen label and advances the handle (spec.md §4.4
// case_of).
func (h *Handle) Case() (string, error) {
	m := h.ch.recv()
	sig, ok := m.(MsgSignal)
	if !ok {
		return "", incompatible("signal", m)
	}
	h.task.disown(h.ch)
	h.task.own(sig.Cont)
	h.ch = sig.Cont
	return sig.Label, nil
}

// Break sends the terminal message (spec.md §4.4 break_to). The handle must
// not be used afterward.
func (h *Handle) Break() {
	h.task.disown(h.ch)
	h.ch.send(MsgBreak{})
}

// ContinueRecv awaits the peer's Break (spec.md §4.4 continue_from).
func (h *Handle) ContinueRecv() error {
	m := h.ch.recv()
	if _, ok := m.(MsgBreak); !ok {
		return incompatible("break", m)
	}
	h.task.disown(h.ch)
	return nil
}

// Sub wraps a received Value that is itself a delegated channel (any
// protocol-typed argument: Either/Choice/Pair/Function/..., as opposed to a
// bare Primitive literal) as its own Handle sharing this host task's
// ownership bookkeeping, so a built-in can Case/Receive/Signal on an
// argument's session independently of its own object channel.
func (h *Handle) Sub(v Value) (*Handle, error) {
	ce, ok := v.(ChannelEnd)
	if !ok {
		return nil, ErrExpectedChannel(v)
	}
	return NewHandle(h.rt, h.task, ce.Chan), nil
}

// Fork spawns a host-driven sub-session the way evalExpression's Fork case
// spawns a desugared one, returning the caller-facing end as a Value. Used
// by built-ins like Map whose results are themselves delegated channels
// (spec.md §3 "every send also transfers the rest of the session").
func (h *Handle) Fork(fn func(*Handle) error) Value {
	a, b := NewChannelPair()
	child := newTask()
	h.task.own(a)
	childHandle := NewHandle(h.rt, child, b)
	h.rt.spawn(func() error {
		err := fn(childHandle)
		if err != nil {
			child.abortAll(err)
		}
		return err
	})
	return ChannelEnd{Chan: a}
}

// Link splices a delegated session onto this handle's own channel, the
// host-side counterpart of the Link command: exactly one of the two fused
// peers sends next, and relaying that message rethreads the session
// directly between them. The handle must not be used afterward.
func (h *Handle) Link(v Value) error {
	ce, ok := v.(ChannelEnd)
	if !ok {
		return ErrExpectedChannel(v)
	}
	h.task.disown(h.ch)
	h.task.disown(ce.Chan)
	return proxy(h.ch, ce.Chan)
}

// Rest releases the handle's remaining session as a transferable Value, for
// built-ins that store a sub-session (a map value, say) to relay later.
func (h *Handle) Rest() Value {
	h.task.disown(h.ch)
	return ChannelEnd{Chan: h.ch}
}

// Abort propagates err to every endpoint this handle's task still owns
// (spec.md §5 "Cancellation & timeouts" / §7.4 drain-on-error).
func (h *Handle) Abort(err error) { h.task.abortAll(err) }

// ErrExpectedChannel is returned by built-ins that receive a non-channel
// Value where a delegated session was expected.
func ErrExpectedChannel(got Value) error {
	return &diagnostics.IncompatibleOperationError{Requested: "channel", Got: typeNameOf(got)}
}

func typeNameOf(v Value) string {
	switch v.(type) {
	case Literal:
		return "Literal"
	case ChannelEnd:
		return "ChannelEnd"
	default:
		return "?"
	}
}
