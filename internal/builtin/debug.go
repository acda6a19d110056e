package builtin

import (
	"log"

	"github.com/funvibe/par/internal/runtime"
)

// debugOps is grounded on
// _examples/original_source/src/par/builtin/debug.rs's Debug.Log (a
// println! of the received string followed by break_()). SPEC_FULL.md §2's
// ambient logging convention (a log.Printf-style sink matching the
// teacher's structured-logging habit elsewhere) is the reason this goes
// through log.Printf rather than fmt.Println.
func debugOps() map[string]declared {
	return map[string]declared{
		"Debug.Log": {fn(strT(), brk()), func(rt *runtime.Runtime, h *runtime.Handle) error {
			s, err := recvString(h)
			if err != nil {
				return err
			}
			log.Printf("%s", s)
			h.Break()
			return nil
		}},
	}
}
