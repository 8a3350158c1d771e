package proto

import "fmt"

// MalformedEventError marks an inbound frame that cannot be dispatched:
// broken JSON, an unknown event name or a missing required field. The
// router drops such events without answering, the connection stays open.
type MalformedEventError struct {
	Message string
}

func NewMalformedEventError(format string, args ...interface{}) error {
	return &MalformedEventError{
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event: %s", e.Message)
}

func IsMalformedEventError(e error) bool {
	_, ok := e.(*MalformedEventError)
	return ok
}
