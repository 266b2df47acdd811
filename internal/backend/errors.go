package backend

import (
	"errors"
	"fmt"

	dErrors "memberportal/pkg/domain-errors"
)

// Error is a failed backend call. Status is zero when no response arrived.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("backend %s: %s (status %d)", e.Op, e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// Message returns the backend's own message when err is a backend error,
// and err's text otherwise.
func Message(err error) string {
	if be, ok := AsError(err); ok && be.Message != "" {
		return be.Message
	}
	return err.Error()
}

// ToDomain maps a backend failure onto a coded error for HTTP responses.
func ToDomain(err error, message string) error {
	be, ok := AsError(err)
	if !ok {
		return dErrors.Wrap(err, dErrors.CodeInternal, message)
	}
	switch {
	case be.Status == 0:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, message)
	case be.Status == 404:
		return dErrors.Wrap(err, dErrors.CodeNotFound, be.Message)
	case be.Status >= 400 && be.Status < 500:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, be.Message)
	}
	return dErrors.Wrap(err, dErrors.CodeUpstream, message)
}
