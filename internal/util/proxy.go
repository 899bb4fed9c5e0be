package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the proxy function for outbound HTTP clients. Explicit
// proxy URLs win; with none configured the standard environment variables
// (HTTP_PROXY etc.) apply.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
