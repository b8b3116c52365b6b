package errs

import "fmt"

// ResponseFailure is returned by the transport when the API answered with
// an error status. Body is the raw, undecoded response body.
type ResponseFailure struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *ResponseFailure) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// NetworkFailure is returned by the transport when a request was sent but
// no response arrived.
type NetworkFailure struct {
	Method string
	Path   string
	Cause  error
}

func (e *NetworkFailure) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: no response: %v", e.Method, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s %s: no response", e.Method, e.Path)
}

func (e *NetworkFailure) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
