package world

import "fmt"

// InvariantError is the panic value raised when a caller breaks a contract of
// the world core: non-finite coordinates, a non-positive viewport, an inverted
// window extent or a duplicated entity identity.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "world invariant violated: " + e.Msg
}

// Invariantf panics with an *InvariantError when cond is false.
func Invariantf(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}
