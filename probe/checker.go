package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	defaultCheckPort    = 443
	defaultCheckTimeout = 2 * time.Second
)

// Checker performs one reachability measurement against a fixed target.
//
// A Check that completes returns the measured [Signal]; an unreachable host
// is a valid reading (a zero-flag signal), not an error. Check returns an
// error only when the probe itself could not run, for example because the
// target address is malformed.
type Checker interface {
	Check(ctx context.Context) (Signal, error)
}

// NetChecker is a [Checker] that measures reachability by opening a TCP
// connection to the target host.
//
// A successful dial sets [FlagReachable]. A timed-out dial yields a
// zero-flag reading qualified with [FlagTransient]; a refused or otherwise
// failed dial yields a plain zero-flag reading. Only a malformed target is
// reported as an error.
type NetChecker struct {
	host    string
	port    int
	timeout time.Duration
	dialer  *net.Dialer
}

// NewNetChecker creates a [NetChecker] for the given host.
//
// The host may be a hostname or IP address, optionally with an explicit
// ":port"; without one, port 443 is dialed. A non-positive timeout falls
// back to 2 seconds. Returns an error if the host is empty or malformed.
func NewNetChecker(host string, timeout time.Duration) (*NetChecker, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("target host cannot be empty")
	}

	port := defaultCheckPort
	if h, p, err := net.SplitHostPort(host); err == nil {
		parsed, perr := strconv.Atoi(p)
		if perr != nil || parsed < 1 || parsed > 65535 {
			return nil, fmt.Errorf("invalid port in target host %q", host)
		}
		host, port = h, parsed
	}
	if host == "" || strings.ContainsAny(host, " /") {
		return nil, fmt.Errorf("invalid target host %q", host)
	}

	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}

	return &NetChecker{
		host:    host,
		port:    port,
		timeout: timeout,
		dialer:  &net.Dialer{},
	}, nil
}

// Host returns the hostname or address this checker dials.
func (c *NetChecker) Host() string {
	return c.host
}

// Check dials the target once and converts the outcome into a [Signal].
func (c *NetChecker) Check(ctx context.Context) (Signal, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addr := net.JoinHostPort(c.host, strconv.Itoa(c.port))
	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err == nil {
		_ = conn.Close()
		return FlagReachable, nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FlagTransient, nil
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsTemporary {
		return FlagTransient, nil
	}

	// refused, no route, resolution failure: a definitive "not reachable"
	return 0, nil
}

// CheckerFunc adapts a function to the [Checker] interface.
type CheckerFunc func(ctx context.Context) (Signal, error)

// Check calls f.
func (f CheckerFunc) Check(ctx context.Context) (Signal, error) {
	return f(ctx)
}
