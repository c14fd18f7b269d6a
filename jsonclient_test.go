package jsonclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/clambin/go-common/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type systemStatus struct {
	Version string `json:"version"`
	Healthy bool   `json:"healthy"`
}

var fakeAPIServer = testutils.TestServer{Responses: map[string]testutils.PathResponse{
	"/status": {
		http.MethodGet:  testutils.Response{Body: systemStatus{Version: "1.2.3", Healthy: true}, StatusCode: http.StatusOK},
		http.MethodPost: testutils.Response{Body: systemStatus{Version: "1.2.3", Healthy: true}, StatusCode: http.StatusOK},
	},
	"/missing":  {http.MethodGet: testutils.Response{StatusCode: http.StatusNotFound}},
	"/teapot":   {http.MethodPost: testutils.Response{StatusCode: http.StatusTeapot}},
	"/internal": {http.MethodGet: testutils.Response{StatusCode: http.StatusInternalServerError}},
}}

func TestGet(t *testing.T) {
	ts := httptest.NewServer(&fakeAPIServer)
	t.Cleanup(ts.Close)

	c := Client{HTTPClient: ts.Client()}
	status, err := Get[systemStatus](t.Context(), &c, ts.URL+"/status")
	require.NoError(t, err)
	assert.Equal(t, systemStatus{Version: "1.2.3", Healthy: true}, status)
}

func TestGet_non200(t *testing.T) {
	ts := httptest.NewServer(&fakeAPIServer)
	t.Cleanup(ts.Close)

	c := Client{HTTPClient: ts.Client()}
	for _, path := range []string{"/missing", "/internal"} {
		status, err := Get[systemStatus](t.Context(), &c, ts.URL+path)
		require.NoError(t, err)
		assert.Zero(t, status)
	}
}

func TestGet_emptyURL(t *testing.T) {
	var hit bool
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hit = true }))
	t.Cleanup(ts.Close)

	c := Client{HTTPClient: ts.Client()}
	_, err := Get[systemStatus](t.Context(), &c, "")
	assert.ErrorIs(t, err, ErrEmptyURL)
	assert.False(t, hit)
}

func TestGet_invalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(ts.Close)

	c := Client{HTTPClient: ts.Client()}
	_, err := Get[systemStatus](t.Context(), &c, ts.URL)
	var invalidJSON *ErrInvalidJSON
	require.ErrorAs(t, err, &invalidJSON)
	assert.Equal(t, []byte(`not json`), invalidJSON.Body)
}

func TestGet_transportError(t *testing.T) {
	ts := httptest.NewServer(&fakeAPIServer)
	target := ts.URL
	ts.Close()

	var c Client
	_, err := Get[systemStatus](t.Context(), &c, target+"/status")
	assert.Error(t, err)
}

func TestPost(t *testing.T) {
	var received struct {
		contentType string
		body        string
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.contentType = r.Header.Get("Content-Type")
		buf, _ := io.ReadAll(r.Body)
		received.body = string(buf)
		_, _ = w.Write([]byte(`{"version":"1.2.3","healthy":true}`))
	}))
	t.Cleanup(ts.Close)

	c := Client{HTTPClient: ts.Client()}
	status, err := Post[systemStatus](t.Context(), &c, ts.URL, systemStatus{Version: "0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, systemStatus{Version: "1.2.3", Healthy: true}, status)
	assert.Equal(t, "application/json", received.contentType)
	assert.Equal(t, `{"version":"0.0.1","healthy":false}`, received.body)
}

func TestPost_non200(t *testing.T) {
	ts := httptest.NewServer(&fakeAPIServer)
	t.Cleanup(ts.Close)

	c := Client{HTTPClient: ts.Client()}
	status, err := Post[systemStatus](t.Context(), &c, ts.URL+"/teapot", systemStatus{})
	require.NoError(t, err)
	assert.Zero(t, status)
}

func TestPost_missingBody(t *testing.T) {
	var hit bool
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hit = true }))
	t.Cleanup(ts.Close)

	c := Client{HTTPClient: ts.Client()}
	_, err := Post[systemStatus](t.Context(), &c, ts.URL, nil)
	assert.ErrorIs(t, err, ErrMissingBody)
	assert.False(t, hit)
}

func TestCall_non200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such record"}`))
	}))
	t.Cleanup(ts.Close)

	c := Client{HTTPClient: ts.Client()}
	_, err := Call[systemStatus](t.Context(), &c, http.MethodGet, ts.URL, nil)
	var httpError *HTTPError
	require.ErrorAs(t, err, &httpError)
	assert.Equal(t, http.StatusNotFound, httpError.StatusCode)
	assert.Equal(t, []byte(`{"error":"no such record"}`), httpError.Body)
}

func TestCall_noBodyPost(t *testing.T) {
	var received struct {
		contentType   string
		contentLength int64
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.contentType = r.Header.Get("Content-Type")
		received.contentLength = r.ContentLength
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(ts.Close)

	c := Client{HTTPClient: ts.Client()}
	_, err := Call[systemStatus](t.Context(), &c, http.MethodPost, ts.URL, nil)
	require.NoError(t, err)
	assert.Empty(t, received.contentType)
	assert.Zero(t, received.contentLength)
}

func TestClient_defaultTransport(t *testing.T) {
	ts := httptest.NewServer(&fakeAPIServer)
	t.Cleanup(ts.Close)

	// a zero Client falls back to http.DefaultClient
	var c Client
	status, err := Get[systemStatus](t.Context(), &c, ts.URL+"/status")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", status.Version)
}

func TestClient_contextCancelled(t *testing.T) {
	ts := httptest.NewServer(&fakeAPIServer)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	c := Client{HTTPClient: ts.Client()}
	_, err := Get[systemStatus](ctx, &c, ts.URL+"/status")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrInvalidJSON(t *testing.T) {
	wrapped := errors.New("unexpected character")
	err := &ErrInvalidJSON{Err: wrapped, Body: []byte("not json")}
	assert.Equal(t, "parse: unexpected character", err.Error())
	assert.ErrorIs(t, err, wrapped)
}
