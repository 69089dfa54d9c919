// -----------------------------------------------------------------------
// Panic Guard - converts panics in worker functions into errors
// -----------------------------------------------------------------------

package common

import (
	"fmt"
	"runtime"

	"github.com/ternarybob/arbor"
)

// PanicError wraps a recovered panic value
type PanicError struct {
	Name  string
	Value interface{}
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Name, e.Value)
}

// RunGuarded runs fn and converts a panic into a *PanicError.
// Used for agent goroutines so one misbehaving agent fails its own
// request instead of the whole process.
//
// Example:
//
//	g.Go(func() error {
//	    return common.RunGuarded(logger, "ratio_agent", func() error { ... })
//	})
func RunGuarded(logger arbor.ILogger, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			stackTrace := string(buf[:n])

			if logger != nil {
				logger.Error().
					Str("goroutine", name).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", stackTrace).
					Msg("Recovered from panic")
			}

			err = &PanicError{Name: name, Value: r, Stack: stackTrace}
		}
	}()

	return fn()
}
