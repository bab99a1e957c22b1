package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ProxyTrust lists the reverse proxies whose X-Forwarded-For and X-Real-IP
// headers are believed. A nil or empty ProxyTrust ignores those headers.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies reads a comma-separated list of IPs and CIDRs.
// Invalid entries are logged and skipped.
func ParseTrustedProxies(s string) *ProxyTrust {
	p := &ProxyTrust{}
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if prefix, err := netip.ParsePrefix(entry); err == nil {
			p.prefixes = append(p.prefixes, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			p.prefixes = append(p.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}

		slog.Warn("ignoring invalid trusted proxy", "value", entry)
	}
	return p
}

func (p *ProxyTrust) trusted(ip string) bool {
	if p == nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the address of the client that made the request. The
// X-Forwarded-For chain is walked from the right, skipping trusted proxies,
// and only when the direct peer is itself trusted.
func (p *ProxyTrust) ClientIP(r *http.Request) string {
	ip := remoteIP(r)
	if !p.trusted(ip) {
		return ip
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			ip = hop
			if !p.trusted(hop) {
				break
			}
		}
		return ip
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return ip
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
