package metadata

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"

	"kycmint/pkg/requestcontext"
)

// MaxXFFHeaderLength bounds X-Forwarded-For / X-Real-IP values we are willing to parse.
const MaxXFFHeaderLength = 500

// Config lists the proxy networks allowed to set forwarding headers.
// With no trusted proxies the direct peer address is always used.
type Config struct {
	TrustedProxies []netip.Prefix
}

// ParseTrustedProxies parses a list of CIDR strings, ignoring blanks.
func ParseTrustedProxies(cidrs []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, raw := range cidrs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			return nil, fmt.Errorf("parse trusted proxy %q: %w", raw, err)
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}

// Middleware resolves client metadata for logging and audit enrichment.
type Middleware struct {
	config Config
}

func NewMiddleware(cfg *Config) *Middleware {
	m := &Middleware{}
	if cfg != nil {
		m.config = *cfg
	}
	return m
}

// Handler stores the client IP, raw User-Agent and a coarse client label in the context.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent := r.Header.Get("User-Agent")

		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientIP(r), userAgent)
		ctx = requestcontext.WithClientLabel(ctx, ClientLabel(userAgent))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) clientIP(r *http.Request) string {
	remote := peerAddr(r.RemoteAddr)
	if !remote.IsValid() {
		return "unknown"
	}
	if !m.trusted(remote) {
		return remote.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && len(xff) <= MaxXFFHeaderLength {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
		return remote.String()
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" && len(xri) <= MaxXFFHeaderLength {
		if addr, err := netip.ParseAddr(strings.TrimSpace(xri)); err == nil {
			return addr.String()
		}
	}
	return remote.String()
}

func (m *Middleware) trusted(addr netip.Addr) bool {
	for _, prefix := range m.config.TrustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func peerAddr(remoteAddr string) netip.Addr {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return addr.Unmap()
}

// ClientLabel reduces a User-Agent to "browser/os/form", e.g. "chrome/macos/desktop".
// Crawlers collapse to "bot" and an empty User-Agent to "unknown".
func ClientLabel(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "unknown"
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		return "bot"
	}

	browser, _ := ua.Browser()
	os := ua.OSInfo().Name
	form := "desktop"
	if ua.Mobile() {
		form = "mobile"
	}
	return strings.Join([]string{labelPart(browser), labelPart(os), form}, "/")
}

func labelPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return strings.ReplaceAll(s, " ", "-")
}
