// service/httpclient.go
package service

import (
	"net"
	"net/http"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct{ *http.Client }

// NewHTTPClient returns a client whose dial and TLS handshake are bounded by
// connectTimeout and whose wait for response headers is bounded by
// readTimeout. No overall client timeout is set; body reads are bounded by
// the caller.
func NewHTTPClient(connectTimeout, readTimeout time.Duration) *DefaultHTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
		// Compressed resources are decoded by the engine, never by the transport.
		DisableCompression: true,
	}
	return &DefaultHTTPClient{Client: &http.Client{Transport: transport}}
}
