package ed

import (
	"fmt"
	"runtime/debug"
)

// PanicError records a handler that panicked while an event was being fired.
type PanicError struct {
	EventType string
	// Value is what the handler panicked with.
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("ed: handler for event %q panicked: %v", e.EventType, e.Value)
}

// Unwrap returns the panic value when the handler panicked with an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func call(eventType string, h Handler, target Source) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{
				EventType: eventType,
				Value:     v,
				Stack:     debug.Stack(),
			}
		}
	}()
	h(target)
	return nil
}
