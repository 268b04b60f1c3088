// Package network holds the HTTP client used for release lookups.
package network

import (
	"net/http"
	"time"

	"github.com/maboroshi-cli/maboroshi/constant"
)

// Client is shared by everything that talks HTTP.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: &userAgent{next: newTransport()},
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 15 * time.Second
	return t
}

// userAgent names the application on every request; GitHub rejects anonymous agents.
type userAgent struct {
	next http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", constant.Maboroshi+"/"+constant.Version)
	}
	return u.next.RoundTrip(req)
}
