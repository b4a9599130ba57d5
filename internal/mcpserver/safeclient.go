package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"
)

const (
	maxRedirects = 10
	dialTimeout  = 10 * time.Second
)

// isBlockedIP reports addresses a tool call must not reach: private,
// loopback, link-local and unspecified.
func isBlockedIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

// publicDialer only connects to hosts whose every address is public.
type publicDialer struct {
	net.Dialer
	resolver *net.Resolver
}

// resolve returns the addresses of host, failing if any of them is blocked.
func (d *publicDialer) resolve(ctx context.Context, host string) ([]net.IPAddr, error) {
	addrs, err := d.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("host %s has no addresses", host)
	}
	if i := slices.IndexFunc(addrs, func(a net.IPAddr) bool { return isBlockedIP(a.IP) }); i >= 0 {
		return nil, fmt.Errorf("blocked request to private/loopback IP: %s (%s)", host, addrs[i].IP)
	}
	return addrs, nil
}

func (d *publicDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	addrs, err := d.resolve(ctx, host)
	if err != nil {
		return nil, err
	}
	// Dial the checked address so a second lookup cannot swap it.
	return d.Dialer.DialContext(ctx, network, net.JoinHostPort(addrs[0].IP.String(), port))
}

func (d *publicDialer) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.New("too many redirects fetching spec")
	}
	_, err := d.resolve(req.Context(), req.URL.Hostname())
	return err
}

// newHTTPClient returns the client shared by every fetch of one tool call.
// Unless allowPrivate is set, neither the spec URL, its redirects nor its
// $ref targets may resolve to a private address.
func newHTTPClient(timeout time.Duration, allowPrivate bool) *http.Client {
	if allowPrivate {
		return &http.Client{Timeout: timeout}
	}
	d := &publicDialer{
		Dialer:   net.Dialer{Timeout: dialTimeout},
		resolver: net.DefaultResolver,
	}
	return &http.Client{
		Timeout:       timeout,
		Transport:     &http.Transport{DialContext: d.DialContext},
		CheckRedirect: d.checkRedirect,
	}
}
