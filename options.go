package jsonclient

import (
	"net/http"
	"strings"
)

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

// A Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// WithQueryParam appends a query parameter to the target URL. Parameters are rendered in the order
// they are added, as key=value pairs joined by "&", with a single "?" separating them from the
// path. Duplicate keys are allowed and all pairs are serialized.
//
// Values are not percent-encoded: callers must pre-encode keys or values containing reserved
// characters.
func WithQueryParam(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.query = append(o.query, Param{Key: key, Value: value})
	}
}

// WithQuery appends all params, in order. It follows the same rules as [WithQueryParam].
func WithQuery(params ...Param) RequestOption {
	return func(o *requestOptions) {
		o.query = append(o.query, params...)
	}
}

// WithBearerToken sets an "Authorization: Bearer <token>" header. An empty token sets no header.
func WithBearerToken(token string) RequestOption {
	return func(o *requestOptions) {
		o.token = token
	}
}

// WithHeader adds a header to the request. Headers are added, not overwritten, so the same key may
// be given multiple times to send a multi-valued header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		o.headers.Add(key, value)
	}
}

// WithHeaders adds all headers in the given map to the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		for key, value := range headers {
			o.headers.Add(key, value)
		}
	}
}

type requestOptions struct {
	token   string
	query   []Param
	headers http.Header
}

func (o requestOptions) buildTarget(target string) string {
	if len(o.query) == 0 {
		return target
	}
	var sb strings.Builder
	sb.WriteString(target)
	for i, param := range o.query {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(param.Key)
		sb.WriteByte('=')
		sb.WriteString(param.Value)
	}
	return sb.String()
}

func (o requestOptions) apply(req *http.Request) {
	for key, values := range o.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}
}
