package xhttp

import "net/http"

// Client is the one-method subset of *http.Client the adapters in this
// module depend on, so tests can substitute a stub transport.
type Client interface {
	Do(*http.Request) (*http.Response, error)
}
