// Package internal carries helpers shared by the parsort subpackages.
package internal

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
)

type runtimeError struct{ error }

func (runtimeError) RuntimeError() {}

// WrapPanic adds stack trace information to a recovered panic, so that a
// panic recovered on a worker goroutine and rethrown on the submitting
// goroutine still points at the code that caused it. Error values stay
// errors, and runtime errors stay runtime errors.
func WrapPanic(p interface{}) interface{} {
	if p != nil {
		s := fmt.Sprintf("%v\n%s\nrethrown at", p, debug.Stack())
		if _, isError := p.(error); isError {
			r := errors.New(s)
			if _, isRuntimeError := p.(runtime.Error); isRuntimeError {
				return runtimeError{r}
			}
			return r
		}
		return s
	}
	return nil
}
