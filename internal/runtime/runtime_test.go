package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/name"
)

func TestSendThenBreakReadsBack(t *testing.T) {
	rt := New(context.Background(), nil)
	a, b := NewChannelPair()
	task := newTask()
	task.own(a)
	object := name.NewObject("")
	env := NewEnv().with(object, ChannelEnd{Chan: a})

	proc := calculus.Do{Object: object, Command: calculus.Send{
		Value: calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: 7}},
		Then:  calculus.Do{Object: object, Command: calculus.BreakCmd{}},
	}}
	rt.spawn(func() error { return evalProcess(rt, task, env, proc) })

	node, err := readbackChannel(b)
	if err != nil {
		t.Fatalf("readback: %v", err)
	}
	if got, want := String(node), "(7) !"; got != want {
		t.Errorf("readback string = %q, want %q", got, want)
	}
	if err := rt.Wait(); err != nil {
		t.Fatalf("task error: %v", err)
	}
}

// TestBeginLoopReexecutesBody drives a Begin/Loop producer through a
// control channel: two "more" signals each cause one more element to be
// produced before "stop" ends the session, exercising both the loop-point
// registration and its re-invocation.
func TestBeginLoopReexecutesBody(t *testing.T) {
	rt := New(context.Background(), nil)

	ctrlDriver, ctrlConsumer := NewChannelPair()
	resultProducer, resultReader := NewChannelPair()

	ctrlName := name.NewObject("ctrl")
	resultName := name.NewObject("result")

	body := calculus.Do{Object: ctrlName, Command: calculus.Case{
		Branches: []calculus.CaseBranch{
			{Label: "more", Then: calculus.Do{Object: resultName, Command: calculus.Send{
				Value: calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: 1}},
				Then:  calculus.Do{Object: ctrlName, Command: calculus.Loop{Label: "loop"}},
			}}},
			{Label: "stop", Then: calculus.Do{Object: ctrlName, Command: calculus.ContinueCmd{
				Then: calculus.Do{Object: resultName, Command: calculus.BreakCmd{}},
			}}},
		},
	}}
	proc := calculus.Do{Object: ctrlName, Command: calculus.Begin{Label: "loop", Body: body}}

	task := newTask()
	task.own(ctrlConsumer)
	task.own(resultProducer)
	env := NewEnv().with(ctrlName, ChannelEnd{Chan: ctrlConsumer}).with(resultName, ChannelEnd{Chan: resultProducer})
	rt.spawn(func() error { return evalProcess(rt, task, env, proc) })

	// The driver plays the raw wire protocol: each signal hands over a fresh
	// continuation pair, and the session ends with a Break after "stop".
	rt.spawn(func() error {
		cur := ctrlDriver
		for i := 0; i < 2; i++ {
			mine, theirs := NewChannelPair()
			cur.send(MsgSignal{Label: "more", Cont: theirs})
			cur = mine
		}
		mine, theirs := NewChannelPair()
		cur.send(MsgSignal{Label: "stop", Cont: theirs})
		mine.send(MsgBreak{})
		return nil
	})

	node, err := readbackChannel(resultReader)
	if err != nil {
		t.Fatalf("readback: %v", err)
	}
	if got, want := String(node), "(1) (1) !"; got != want {
		t.Errorf("readback string = %q, want %q", got, want)
	}
	if err := rt.Wait(); err != nil {
		t.Fatalf("task error: %v", err)
	}
}

func TestLoopWithoutBeginFails(t *testing.T) {
	rt := New(context.Background(), nil)
	a, _ := NewChannelPair()
	task := newTask()
	object := name.NewObject("")
	env := NewEnv().with(object, ChannelEnd{Chan: a})
	err := evalProcess(rt, task, env, calculus.Do{Object: object, Command: calculus.Loop{Label: "nope"}})
	if err == nil {
		t.Fatal("expected a NoSuchLoopPoint error")
	}
}

// TestAbortReachesForkedChild drives the real Fork codepath: the parent
// owns the value end of the pair it forked, so draining the parent's
// endpoints on failure must fault the child instead of leaving it blocked
// on a receive forever.
func TestAbortReachesForkedChild(t *testing.T) {
	rt := New(context.Background(), nil)
	task := newTask()
	obj := name.NewObject("")

	fork := calculus.Fork{
		Channel: obj,
		Process: calculus.Do{Object: obj, Command: calculus.Receive{
			Param: name.NewOriginal("x"),
			Then:  calculus.Do{Object: obj, Command: calculus.BreakCmd{}},
		}},
	}
	v, err := evalExpression(rt, task, NewEnv(), fork)
	if err != nil {
		t.Fatalf("fork: %v", err)
	}
	ce, ok := v.(ChannelEnd)
	if !ok {
		t.Fatalf("expected a ChannelEnd value, got %T", v)
	}
	if !task.owned[ce.Chan] {
		t.Fatal("the forking task must own the value end it was handed")
	}

	task.abortAll(errors.New("boom"))
	if err := rt.Wait(); err == nil {
		t.Fatal("expected the forked child to observe the abort")
	}
}
