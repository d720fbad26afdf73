package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = rt.target.Scheme
	out.URL.Host = rt.target.Host
	out.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func clientFor(t *testing.T, status int, body string) *http.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return &http.Client{Transport: redirectTransport{target: target}}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := log.StandardLogger().Out
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestRunSuccessExitsZero(t *testing.T) {
	logs := captureLogs(t)

	var stdout bytes.Buffer
	code := run(clientFor(t, http.StatusOK, `[{"sponsor":"Acme","host":"a.example.com:8080"}]`), &stdout)

	assert.Equal(t, 0, code)
	assert.Equal(t, "Acme: a.example.com:8080\n", stdout.String())
	assert.Contains(t, logs.String(), "request_id=")
	assert.NotContains(t, stdout.String(), "request_id")
}

func TestRunFailureExitsNonZero(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
	}{
		"http error":    {http.StatusServiceUnavailable, `[{"sponsor":"Acme","host":"a.example.com:8080"}]`},
		"malformed":     {http.StatusOK, `not json`},
		"missing field": {http.StatusOK, `[{"sponsor":"Acme"}]`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			logs := captureLogs(t)

			var stdout bytes.Buffer
			code := run(clientFor(t, tt.status, tt.body), &stdout)

			assert.NotEqual(t, 0, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, logs.String(), "Failed to list servers")
		})
	}
}
