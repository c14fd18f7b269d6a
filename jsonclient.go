package jsonclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Client performs JSON requests through a borrowed HTTP transport. The transport is owned by the
// caller: Client never modifies or closes it. A nil HTTPClient falls back to http.DefaultClient.
type Client struct {
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c == nil || c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// Call sends a method request to target and decodes the JSON response into T. A nil payload sends
// no request content; any other payload is serialized as JSON with content type application/json.
//
// A response with a status code other than 200 is returned as an [*HTTPError] carrying the status
// and response body. A 200 response with a malformed body is returned as an [*ErrInvalidJSON].
func Call[T any](ctx context.Context, c *Client, method, target string, payload any, opts ...RequestOption) (T, error) {
	var response T
	req, err := newRequest(ctx, method, target, payload, opts...)
	if err != nil {
		return response, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return response, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return response, newHTTPError(resp)
	}

	var body bytes.Buffer
	if err = json.NewDecoder(io.TeeReader(resp.Body, &body)).Decode(&response); err != nil {
		err = &ErrInvalidJSON{
			Err:  err,
			Body: body.Bytes(),
		}
	}
	return response, err
}

// Get sends a GET request to target and decodes the JSON response into T.
//
// Any response with a status code other than 200 yields T's zero value and a nil error: the status
// code and body are discarded. Use [Call] to receive them as an [*HTTPError] instead.
func Get[T any](ctx context.Context, c *Client, target string, opts ...RequestOption) (T, error) {
	response, err := Call[T](ctx, c, http.MethodGet, target, nil, opts...)
	return response, discardHTTPError(err)
}

// Post serializes payload as JSON and sends it in a POST request to target, decoding the JSON
// response into T. payload must not be nil; use [Call] with http.MethodPost to send a bodyless
// POST request.
//
// Like [Get], any response with a status code other than 200 yields T's zero value and a nil error.
func Post[T any](ctx context.Context, c *Client, target string, payload any, opts ...RequestOption) (T, error) {
	var response T
	if payload == nil {
		return response, ErrMissingBody
	}
	response, err := Call[T](ctx, c, http.MethodPost, target, payload, opts...)
	return response, discardHTTPError(err)
}

func discardHTTPError(err error) error {
	var httpError *HTTPError
	if errors.As(err, &httpError) {
		return nil
	}
	return err
}

func newRequest(ctx context.Context, method, target string, payload any, opts ...RequestOption) (*http.Request, error) {
	if target == "" {
		return nil, ErrEmptyURL
	}

	var options requestOptions
	for _, opt := range opts {
		opt(&options)
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, options.buildTarget(target), body)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	options.apply(req)
	return req, nil
}
