package check

import (
	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// checkProcess implements spec.md §4.3's check_process: there is no "target
// type" for a process (unlike an expression), only the obligation that it
// runs ctx to completion.
func (c *Checker) checkProcess(ctx *Context, p calculus.Process) error {
	switch x := p.(type) {
	case calculus.Let:
		var t types.Type
		var err error
		if x.Annotation != nil {
			err = c.checkExpression(ctx, x.Value, x.Annotation)
			t = x.Annotation
		} else {
			t, err = c.inferExpression(ctx, x.Value)
		}
		if err != nil {
			return err
		}
		if err := ctx.put(c.Defs, x.At, x.Name, t); err != nil {
			return err
		}
		return c.checkProcess(ctx, x.Then)

	case calculus.Do:
		objType, err := ctx.take(x.At, x.Object)
		if err != nil {
			return err
		}
		_, err = c.checkCommand(ctx, x.Object, objType, x.Command, c.checkProcessAnalyze)
		return err

	case calculus.Telltypes:
		// Diagnostic-only: records the context snapshot for the host to
		// print, with no effect on checking (spec.md §9 Open Questions).
		c.recordSnapshot(ctx, x.At)
		return c.checkProcess(ctx, x.Then)

	default:
		return &diagnostics.SyntaxError{At: p.Span(), Message: "unrecognized process form"}
	}
}

func (c *Checker) recordSnapshot(ctx *Context, at name.Span) {
	var lines []string
	for _, n := range ctx.remaining() {
		if t, ok := ctx.peek(n); ok {
			lines = append(lines, n.String()+": "+t.String())
		}
	}
	c.TypeSnapshots[at] = lines
}
