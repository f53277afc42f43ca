package interpreter

import (
	"fmt"
	"strings"
)

// EOFPolicy decides what Input does once the input stream is exhausted.
type EOFPolicy int

const (
	// EOFLeave keeps the current cell unchanged.
	EOFLeave EOFPolicy = iota
	// EOFZero stores 0 in the current cell.
	EOFZero
	// EOFError stops execution with ErrUnexpectedEOF.
	EOFError
)

func (p EOFPolicy) String() string {
	switch p {
	case EOFLeave:
		return "leave"
	case EOFZero:
		return "zero"
	case EOFError:
		return "error"
	default:
		return fmt.Sprintf("EOFPolicy(%d)", int(p))
	}
}

// ParseEOFPolicy accepts the names produced by String. An empty value
// selects EOFLeave.
func ParseEOFPolicy(value string) (EOFPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "leave":
		return EOFLeave, nil
	case "zero":
		return EOFZero, nil
	case "error":
		return EOFError, nil
	default:
		return EOFLeave, fmt.Errorf("interpreter: unknown eof policy %q (expected leave, zero or error)", value)
	}
}
