package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPage = errors.New("catalog: page must be >= 1")
	ErrTransport   = errors.New("catalog: transport failure")
	ErrStatus      = errors.New("catalog: unexpected status")
	ErrMalformed   = errors.New("catalog: malformed response")
)

// StatusError carries the HTTP status of a non-2xx listing response.
type StatusError struct {
	Page int
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: page %d: unexpected status %d", e.Page, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }
