package runtime

import "github.com/google/uuid"

// loopFunc re-enters a Begin body: the invoking task re-registers it under
// its own label and runs the body against the given environment and object
// channel.
type loopFunc func(t *Task, env *Env, obj *Channel) error

// Task is one running process: the goroutine a Fork spawned, or the
// program's single top-level task. owned tracks every channel end this
// task still has an outstanding obligation on, so an error can drain them
// (spec.md §7.4 "error propagation by draining") instead of leaving a peer
// blocked forever. loopPoints is inherited by forked children (spec.md §4.4
// "split() ... inherits loop points").
type Task struct {
	ID         uuid.UUID
	owned      map[*Channel]bool
	loopPoints map[string]loopFunc
}

func newTask() *Task {
	return &Task{ID: uuid.New(), owned: map[*Channel]bool{}, loopPoints: map[string]loopFunc{}}
}

// childOf creates the task for a forked process, inheriting the parent's
// loop points but owning nothing yet.
func childOf(parent *Task) *Task {
	t := newTask()
	for l, fn := range parent.loopPoints {
		t.loopPoints[l] = fn
	}
	return t
}

func (t *Task) own(c *Channel)    { t.owned[c] = true }
func (t *Task) disown(c *Channel) { delete(t.owned, c) }

// abortAll drains every still-owned channel so no peer is left blocked on a
// dead session (spec.md §7.4, §9's drain worklist). For each endpoint it
// faults the peer with a MsgError, then consumes any message already
// delivered to this side; continuation channels and delegated sessions
// embedded in a consumed message join the worklist, since this task now
// owes their peers a resolution too. All channel cells are one-message
// buffers, so both halves are non-blocking: a peer awaiting a message gets
// the error, and a peer that already sent has long since moved on.
func (t *Task) abortAll(err error) {
	work := make([]*Channel, 0, len(t.owned))
	for c := range t.owned {
		work = append(work, c)
	}
	t.owned = map[*Channel]bool{}
	for len(work) > 0 {
		c := work[len(work)-1]
		work = work[:len(work)-1]
		select {
		case c.out <- MsgError{Err: err}:
		default:
		}
		select {
		case m := <-c.in:
			switch msg := m.(type) {
			case MsgSend:
				if ce, ok := msg.Value.(ChannelEnd); ok {
					work = append(work, ce.Chan)
				}
				work = append(work, msg.Cont)
			case MsgSignal:
				work = append(work, msg.Cont)
			}
		default:
		}
	}
}
