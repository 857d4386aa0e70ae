package api

import (
	"errors"
	"fmt"
)

// ErrorKind tags why a backend call failed.
type ErrorKind int

const (
	// KindTransport means the request never produced a response.
	KindTransport ErrorKind = iota
	// KindStatus means the backend answered with a non-2xx status.
	KindStatus
	// KindDecode means the response body was not the expected JSON.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// RequestError is returned by every Client method that fails.
type RequestError struct {
	Method     string
	Path       string
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Body != "" {
			return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("%s %s: backend returned %d", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %s error: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of a RequestError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind, true
	}
	return 0, false
}
