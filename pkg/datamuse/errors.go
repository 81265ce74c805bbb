package datamuse

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a caller-supplied value outside what Datamuse accepts.
	ErrInvalidArgument = errors.New("datamuse: invalid argument")
	// ErrTransport is matched by every *TransportError.
	ErrTransport = errors.New("datamuse: transport failure")
)

// TransportError describes a lookup that never produced a usable body: a malformed URL,
// an I/O failure, or a non-2xx status from the service.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("datamuse: GET %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("datamuse: GET %s: %v", e.URL, e.Err)
}

// Unwrap exposes both ErrTransport and the underlying cause to errors.Is / errors.As.
func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
