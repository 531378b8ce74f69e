// Package network provides a pre-configured, optimized HTTP client for concurrent segment downloads.
package network

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gcourse-cli/gcourse/auth"
	"github.com/gcourse-cli/gcourse/constant"
	"github.com/gcourse-cli/gcourse/key"
	"github.com/spf13/viper"
)

// Socket-level timeouts. There is deliberately no whole-request deadline:
// a long video download is legitimate, a stalled socket is not.
const (
	connectTimeout = 10 * time.Second
	readTimeout    = 60 * time.Second
)

// Client is the singleton HTTP client shared across the application.
// It is configured with increased concurrency limits tailored for parallel segment fetching.
var Client = &http.Client{
	Transport: &sessionTransport{base: newTransport()},
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = (&net.Dialer{Timeout: connectTimeout}).DialContext
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = readTimeout
	return t
}

// sessionTransport injects the default User-Agent and, when configured, the stored
// platform session cookie into outgoing requests. CDN hosts never receive the cookie.
type sessionTransport struct {
	base http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", constant.UserAgent)
	}

	if viper.GetBool(key.NetworkSessionAttach) && req.Header.Get("Cookie") == "" {
		if s, err := auth.GetSession(); err == nil && s.Host != "" && hostMatches(req.URL.Hostname(), s.Host) {
			req.Header.Set("Cookie", s.Cookie)
		}
	}

	if viper.GetBool(key.NetworkSpoofTLS) && req.URL.Scheme == "https" {
		return spoofed().RoundTrip(req)
	}

	return t.base.RoundTrip(req)
}

// hostMatches reports whether host equals the session host or is one of its subdomains.
func hostMatches(host, sessionHost string) bool {
	host = strings.ToLower(host)
	sessionHost = strings.ToLower(sessionHost)
	return host == sessionHost || strings.HasSuffix(host, "."+sessionHost)
}
