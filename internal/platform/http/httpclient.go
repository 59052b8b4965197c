// Package http builds the HTTP client used for exchange API calls.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns an HTTP client configured for exchange API
// calls. http.DefaultClient has no timeout, so every outbound call goes
// through this client; the overall request timeout comes from the
// exchange configuration and is the pipeline's only liveness guard.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
