// Package clientip resolves the originating client address, used to
// key the credential rate limiter.
package clientip

import (
	"net/http"
	"net/netip"
	"strings"
)

// Get returns the client IP for the request. Proxy headers win over
// the socket address: X-Forwarded-For first, then X-Real-IP, then
// RemoteAddr. Returns an empty string only if nothing parses.
func Get(r *http.Request) string {
	// Proxies append to the forwarded chain, so the leftmost entry
	// that parses is the original client.
	for part := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if ip, ok := normalize(part); ok {
			return ip
		}
	}

	if ip, ok := normalize(r.Header.Get("X-Real-IP")); ok {
		return ip
	}

	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().String()
	}

	// RemoteAddr without a port, seen with some test clients.
	ip, _ := normalize(r.RemoteAddr)
	return ip
}

// normalize parses and canonicalizes an address so equivalent
// spellings map to one rate limit key.
func normalize(s string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return addr.String(), true
}
