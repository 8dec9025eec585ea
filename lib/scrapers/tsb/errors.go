package tsb

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidContent is wrapped by ParseError, a fetched page could not be parsed.
	ErrInvalidContent = errors.New("tsb returned an invalid document")
	// ErrInvalidDom means the home page had no signon form.
	ErrInvalidDom = errors.New("tsb returned an unsupported dom")
	// ErrMissingSequenceID means the dashboard had no nextSequenceID input.
	ErrMissingSequenceID = errors.New("missing a sequence id needed to continue")
	// ErrMissingCustomerNumber means the dashboard had no customer number.
	ErrMissingCustomerNumber = errors.New("missing a customer number needed to continue")
	// ErrBadCredentials is only returned when ClientOptions.DetectRejectedLogin is set.
	ErrBadCredentials = errors.New("tsb rejected the credentials")
)

// TransportError is returned when a request could not be made or the server
// answered with a non 2xx status.
type TransportError struct {
	Method string
	URL    string
	// StatusCode is 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error contacting tsb: %s %s: %s", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("error contacting tsb: %s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a page failed to parse, it always matches
// ErrInvalidContent with errors.Is.
type ParseError struct {
	Page string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: page %s: %s", ErrInvalidContent, e.Page, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidContent, e.Err}
}

// LoginError records the step of the login at which an error occurred.
type LoginError struct {
	State LoginState
	Err   error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("tsb: login: %s: %s", e.State, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
