// Package http provides the outbound HTTP client used for the price feed.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates an HTTP client for calling the price feed.
//
// Settings:
//   - Proxy: honours HTTP_PROXY / HTTPS_PROXY
//   - Dialer.Timeout: TCP connect timeout, shorter than the default
//   - TLSHandshakeTimeout: upper bound for the HTTPS handshake
//   - ResponseHeaderTimeout: a hung upstream cannot hold a request forever
//   - Client.Timeout: whole-request timeout from config; 0 disables it
//
// The feed redirects once (script.google.com -> googleusercontent.com), so the
// default redirect policy is kept.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: responseHeaderTimeout(timeout),
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

func responseHeaderTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	return timeout
}
