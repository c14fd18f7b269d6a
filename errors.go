package jsonclient

import (
	"bytes"
	"errors"
	"io"
	"net/http"
)

var (
	// ErrEmptyURL indicates an operation was called without a target URL.
	ErrEmptyURL = errors.New("empty URL")
	// ErrMissingBody indicates Post was called without a request body.
	ErrMissingBody = errors.New("missing request body")
)

var _ error = &HTTPError{}

// HTTPError reports a response with a status code other than 200. It carries the response body so
// callers can inspect any error details returned by the server.
type HTTPError struct {
	Status     string
	Body       []byte
	StatusCode int
}

func newHTTPError(resp *http.Response) *HTTPError {
	var body bytes.Buffer
	if resp.Body != nil {
		_, _ = io.Copy(&body, resp.Body)
	}
	return &HTTPError{
		Status:     resp.Status,
		Body:       body.Bytes(),
		StatusCode: resp.StatusCode,
	}
}

func (e *HTTPError) Error() string {
	return "unexpected http status: " + e.Status
}

var _ error = &ErrInvalidJSON{}

// ErrInvalidJSON reports a 200 response whose body could not be decoded. Body contains the part of
// the response read before decoding failed.
type ErrInvalidJSON struct {
	Err  error
	Body []byte
}

func (e *ErrInvalidJSON) Error() string {
	return "parse: " + e.Err.Error()
}

func (e *ErrInvalidJSON) Is(target error) bool {
	var err *ErrInvalidJSON
	return errors.As(target, &err)
}

func (e *ErrInvalidJSON) Unwrap() error {
	return e.Err
}
