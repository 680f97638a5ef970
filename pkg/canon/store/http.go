package store

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cast"

	"github.com/arxiv/canonical/pkg/canon/uri"
	"github.com/arxiv/canonical/pkg/errdefs"
	"github.com/arxiv/canonical/pkg/util/xhttp"
	"github.com/arxiv/canonical/pkg/xlog"
)

// retryableStatus is the set of response codes a trusted-mirror fetch
// retries with exponential backoff.
var retryableStatus = map[int]struct{}{
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// HTTP is a Source that dereferences https:// URIs against a single
// trusted host: retries with exponential backoff on 5xx, and honors a "Refresh" header
// by waiting the requested number of seconds before retrying the same
// request (used by the legacy mirror to signal "try again shortly").
type HTTP struct {
	client      xhttp.Client
	trustedHost string
	maxRetries  int
	backoff     time.Duration
	clock       clock.Clock
	dump        *xhttp.DumpTransport
}

// NewHTTP returns an HTTP source trusting only requests to host, which
// may be given bare ("mirror.example.org") or as a URL. client
// defaults to http.DefaultClient. When client is a *http.Client, its
// transport is wrapped in a xhttp.DumpTransport (disabled by default,
// see WithDumpMode) so a caller can turn on request/response logging for
// one HTTP source without touching the global http.DefaultTransport.
func NewHTTP(host string, client xhttp.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	if parsed, _, err := xhttp.ParseHostScheme(host); err == nil && parsed != "" {
		host = parsed
	}
	h := &HTTP{
		client:      client,
		trustedHost: host,
		maxRetries:  3,
		backoff:     time.Second,
		clock:       clock.New(),
	}
	if hc, ok := client.(*http.Client); ok {
		inner := hc.Transport
		if inner == nil {
			inner = http.DefaultTransport
		}
		dump := xhttp.NewDumpTransport(inner)
		dump.DefaultMode = 0
		wrapped := *hc
		wrapped.Transport = dump
		h.client = &wrapped
		h.dump = dump
	}
	return h
}

// WithClock overrides the clock used for backoff/Refresh sleeps, for
// deterministic tests.
func (h *HTTP) WithClock(c clock.Clock) *HTTP {
	h.clock = c
	return h
}

// WithRetryPolicy overrides the retry count and base backoff duration.
func (h *HTTP) WithRetryPolicy(maxRetries int, backoff time.Duration) *HTTP {
	h.maxRetries = maxRetries
	h.backoff = backoff
	return h
}

// WithDumpMode turns on request/response dumping for this source. It is
// a no-op when the client passed to NewHTTP wasn't a *http.Client (and
// so has nothing for this HTTP source to wrap).
func (h *HTTP) WithDumpMode(mode xhttp.DumpMode) *HTTP {
	if h.dump != nil {
		h.dump.DefaultMode = mode
	}
	return h
}

// WithDumpWriter redirects dumped requests/responses to w instead of
// os.Stdout.
func (h *HTTP) WithDumpWriter(w io.Writer) *HTTP {
	if h.dump != nil {
		h.dump.Out = w
	}
	return h
}

// CanResolve reports whether u is an https:// URI addressed to this
// source's trusted host.
func (h *HTTP) CanResolve(u uri.URI) bool {
	return u.Scheme() == uri.SchemeHTTPS && u.Host() == h.trustedHost
}

// Load fetches u lazily: no request is made until the returned Stream is
// first read.
func (h *HTTP) Load(ctx context.Context, u uri.URI) (*Stream, error) {
	if !h.CanResolve(u) {
		return nil, errdefs.Newf(errdefs.ErrResolution, "%s: not a trusted https URI for %s", u, h.trustedHost)
	}
	return NewStream(func(ctx context.Context) (io.ReadCloser, error) {
		return h.fetch(ctx, u)
	}), nil
}

func (h *HTTP) fetch(ctx context.Context, u uri.URI) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			h.clock.Sleep(h.backoff * time.Duration(1<<uint(attempt-1))) //nolint:gosec // bounded by maxRetries
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if refresh := resp.Header.Get("Refresh"); refresh != "" {
			if seconds, err := cast.ToIntE(refresh); err == nil {
				resp.Body.Close()
				xlog.C(ctx).Debugf("%s: honoring Refresh: %ds", u, seconds)
				h.clock.Sleep(time.Duration(seconds) * time.Second)
				attempt--
				continue
			}
		}

		if resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		}

		if _, retryable := retryableStatus[resp.StatusCode]; retryable {
			resp.Body.Close()
			lastErr = errdefs.Newf(errdefs.ErrUnavailable, "%s: status %d", u, resp.StatusCode)
			continue
		}

		defer resp.Body.Close()
		return nil, errdefs.NewE(ErrDoesNotExist, xhttp.Success(resp))
	}
	return nil, errdefs.Newf(errdefs.ErrResolution, "%s: exhausted %d retries: %v", u, h.maxRetries, lastErr)
}

var _ Source = (*HTTP)(nil)
