// Package netx answers "is the backend reachable right now".
package netx

import (
	"context"
	"net"
	"net/url"
	"time"
)

// Reachability reports network availability.
type Reachability interface {
	Online(ctx context.Context) bool
}

// Dialer probes reachability with a short TCP dial to a fixed address.
type Dialer struct {
	Addr    string
	Timeout time.Duration
}

// ForURL builds a Dialer for the host of rawURL, defaulting the port from the
// scheme.
func ForURL(rawURL string) (*Dialer, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return &Dialer{Addr: net.JoinHostPort(u.Hostname(), port), Timeout: time.Second}, nil
}

// Online reports whether a TCP connection to Addr succeeds within Timeout.
func (d *Dialer) Online(ctx context.Context) bool {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", d.Addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Always is a Reachability with a fixed answer.
type Always bool

func (a Always) Online(context.Context) bool { return bool(a) }
