package provider

import (
	"net"
	"net/http"
	"time"
)

const (
	DefaultConnectTimeout = 60 * time.Second
	DefaultRequestTimeout = 180 * time.Second
	defaultKeepAlive      = 30 * time.Second
	defaultIdleTimeout    = 90 * time.Second
)

// NewHTTPClient returns the client every adapter sends model calls through.
// connectTimeout bounds dialing and the TLS handshake, requestTimeout bounds
// the whole exchange including reading the body. Zero values use the defaults.
func NewHTTPClient(connectTimeout, requestTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   connectTimeout,
				KeepAlive: defaultKeepAlive,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       defaultIdleTimeout,
			TLSHandshakeTimeout:   connectTimeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
