/*
Package jsonclient is a thin façade over an injected [net/http.Client] to perform GET and POST
requests and decode JSON responses into typed results.

The package does not manage the transport: connection pooling, TLS, proxying and timeouts are all
the responsibility of the http.Client provided by the caller. Each operation is a single,
independent request/response exchange; concurrent calls are safe as long as the underlying
transport is.

[Get] and [Post] preserve a peculiar contract: any response with a status code other than 200
yields the result type's zero value and a nil error. Callers that need the status code and
response body of a failed request should use [Call], which reports them as an [*HTTPError].

Authentication helpers (token sources and a decorating [net/http.RoundTripper]) live in the
[github.com/clambin/jsonclient/auth] package.
*/
package jsonclient
