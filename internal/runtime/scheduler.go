package runtime

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/diagnostics"
)

// Runtime is the shared, read-only program table plus the errgroup every
// Fork's task joins, so a single Run call can wait for the whole tree of
// concurrently running processes and collect every error it produced
// (spec.md §7.4 "Multiple"). errgroup.Group only ever surfaces the first
// error from Wait, so every spawned task's error is additionally appended to
// errs under mu for full aggregation.
type Runtime struct {
	Globals   map[string]calculus.Expression // bare ident -> desugared body
	Externals map[string]External            // bare ident -> host-implemented process (spec.md §6)
	// Logf, when set, receives task-failure lines; nil (the default) keeps
	// the hot path silent. log.Printf satisfies it.
	Logf func(format string, args ...any)
	grp  *errgroup.Group
	ctx  context.Context
	mu   sync.Mutex
	errs []error
}

// New builds a Runtime ready to execute definitions against globals (the
// checked program's top-level bodies, keyed the same way as
// internal/check.Checker.Definitions). Externals may be attached afterward
// via WithExternals; a nil map is treated as empty.
func New(ctx context.Context, globals map[string]calculus.Expression) *Runtime {
	grp, ctx := errgroup.WithContext(ctx)
	return &Runtime{Globals: globals, grp: grp, ctx: ctx}
}

// WithExternals attaches the built-in library's host processes (spec.md §6
// "From the built-in library") and returns rt for chaining.
func (rt *Runtime) WithExternals(externals map[string]External) *Runtime {
	rt.Externals = externals
	return rt
}

func (rt *Runtime) spawn(fn func() error) {
	rt.grp.Go(func() error {
		err := fn()
		if err != nil {
			if rt.Logf != nil {
				rt.Logf("task failed: %v", err)
			}
			rt.mu.Lock()
			rt.errs = append(rt.errs, err)
			rt.mu.Unlock()
		}
		return err
	})
}

// Wait blocks until every spawned task has finished, returning a
// MultipleError if more than one failed (spec.md §7.4) or the single error
// otherwise.
func (rt *Runtime) Wait() error {
	rt.grp.Wait()
	rt.mu.Lock()
	defer rt.mu.Unlock()
	switch len(rt.errs) {
	case 0:
		return nil
	case 1:
		return rt.errs[0]
	default:
		return &diagnostics.MultipleError{Errors: append([]error{}, rt.errs...)}
	}
}

// Run evaluates a top-level definition's body and reads its result back to
// completion. The readback happens on the calling goroutine while the
// spawned task tree is still producing -- draining the entry's channel is
// what lets those tasks finish -- and only then does Run join them via Wait.
// externals may be nil.
func Run(ctx context.Context, globals map[string]calculus.Expression, externals map[string]External, entry string) (RBNode, error) {
	rt := New(ctx, globals).WithExternals(externals)
	body, ok := globals[entry]
	if !ok {
		return nil, &diagnostics.RuntimeNameNotDefinedError{Name: entry}
	}
	task := newTask()
	v, err := evalExpression(rt, task, NewEnv(), body)
	if err != nil {
		task.abortAll(err)
		rt.Wait()
		return nil, err
	}
	node, rbErr := ReadbackValue(v)
	waitErr := rt.Wait()
	if rbErr != nil {
		return nil, rbErr
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return node, nil
}
