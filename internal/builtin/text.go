package builtin

import (
	"github.com/funvibe/par/internal/runtime"
)

// charOps/stringOps are grounded on
// _examples/original_source/src/par/builtin.rs's char_to_string/char_equals
// and string_concat/string_length/string_equals, narrowed to the op set
// prelude.yaml lists.

func charOps() map[string]declared {
	return map[string]declared{
		"Char.ToString": {fn(charT(), ret(strT())), func(rt *runtime.Runtime, h *runtime.Handle) error {
			c, err := recvChar(h)
			if err != nil {
				return err
			}
			sendStringFinal(h, string(c))
			return nil
		}},
		"Char.Equals": {fn(charT(), fn(charT(), boolRef())), func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, err := recvChar(h)
			if err != nil {
				return err
			}
			b, err := recvChar(h)
			if err != nil {
				return err
			}
			sendBool(h, a == b)
			return nil
		}},
	}
}

func stringOps() map[string]declared {
	return map[string]declared{
		"String.Concat": {fn(strT(), fn(strT(), ret(strT()))), func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoString(h)
			if err != nil {
				return err
			}
			sendStringFinal(h, a+b)
			return nil
		}},
		"String.Length": {fn(strT(), ret(nat())), func(rt *runtime.Runtime, h *runtime.Handle) error {
			s, err := recvString(h)
			if err != nil {
				return err
			}
			sendNatFinal(h, uint64(len([]rune(s))))
			return nil
		}},
		"String.Equals": {fn(strT(), fn(strT(), boolRef())), func(rt *runtime.Runtime, h *runtime.Handle) error {
			a, b, err := recvTwoString(h)
			if err != nil {
				return err
			}
			sendBool(h, a == b)
			return nil
		}},
	}
}

func recvTwoString(h *runtime.Handle) (string, string, error) {
	a, err := recvString(h)
	if err != nil {
		return "", "", err
	}
	b, err := recvString(h)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}
