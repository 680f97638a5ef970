package store_test

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/store"
	"github.com/arxiv/canonical/pkg/canon/uri"
	"github.com/arxiv/canonical/pkg/util/xhttp"
)

func insecureClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // test-only trust of an ephemeral local TLS server
		},
	}
}

func TestHTTPSourceRejectsUntrustedHost(t *testing.T) {
	h := store.NewHTTP("arxiv.org", http.DefaultClient)
	u := uri.MustParse("https://evil.example/2901.00345v1.pdf")
	assert.False(t, h.CanResolve(u))
	_, err := h.Load(context.Background(), u)
	assert.Error(t, err)
}

func TestHTTPSourceFetchesOK(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	h := store.NewHTTP(hostOf(srv.URL), insecureClient()).WithClock(clock.NewMock())
	u := uri.MustParse(srv.URL)
	stream, err := h.Load(context.Background(), u)
	require.NoError(t, err)
	r, err := stream.Reader(context.Background())
	require.NoError(t, err)
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(raw))
}

func TestHTTPSourceRetriesOn503ThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	mockClock := clock.NewMock()
	h := store.NewHTTP(hostOf(srv.URL), insecureClient()).
		WithClock(mockClock).
		WithRetryPolicy(5, time.Millisecond)

	done := make(chan struct{})
	var raw []byte
	var fetchErr error
	go func() {
		defer close(done)
		stream, err := h.Load(context.Background(), uri.MustParse(srv.URL))
		if err != nil {
			fetchErr = err
			return
		}
		r, err := stream.Reader(context.Background())
		if err != nil {
			fetchErr = err
			return
		}
		raw, fetchErr = io.ReadAll(r)
	}()

	for i := 0; i < 10; i++ {
		mockClock.Add(time.Second)
		select {
		case <-done:
			i = 10
		default:
		}
	}
	<-done

	require.NoError(t, fetchErr)
	assert.Equal(t, "ok", string(raw))
	assert.Equal(t, 3, attempts)
}

// TestHTTPSourceDumpModeIsOffByDefault confirms a plain fetch never
// writes to a dump writer installed via WithDumpWriter unless
// WithDumpMode is also called.
func TestHTTPSourceDumpModeIsOffByDefault(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	h := store.NewHTTP(hostOf(srv.URL), insecureClient()).
		WithClock(clock.NewMock()).
		WithDumpWriter(&buf)

	stream, err := h.Load(context.Background(), uri.MustParse(srv.URL))
	require.NoError(t, err)
	_, err = stream.Reader(context.Background())
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

// TestHTTPSourceDumpModeLogsRequestAndResponse covers the xhttp.DumpTransport
// wiring: once WithDumpMode is turned on, every request/response round
// trip through this HTTP source is written to the configured writer.
func TestHTTPSourceDumpModeLogsRequestAndResponse(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	h := store.NewHTTP(hostOf(srv.URL), insecureClient()).
		WithClock(clock.NewMock()).
		WithDumpMode(xhttp.DumpRequest | xhttp.DumpResponse).
		WithDumpWriter(&buf)

	stream, err := h.Load(context.Background(), uri.MustParse(srv.URL))
	require.NoError(t, err)
	r, err := stream.Reader(context.Background())
	require.NoError(t, err)
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(raw))

	dumped := buf.String()
	assert.True(t, strings.Contains(dumped, "--> GET"), "expected a request dump line, got: %s", dumped)
	assert.True(t, strings.Contains(dumped, "<-- GET"), "expected a response dump line, got: %s", dumped)
	assert.True(t, strings.Contains(dumped, "[body redacted]"), "expected bodies to be redacted since DumpRequestBody/DumpResponseBody weren't set")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return u.Host
}
