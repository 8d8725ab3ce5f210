package util

import (
	"net"
	"net/http"
	"strings"
)

// WithAllowedHosts rejects requests whose Host header is not listed.
// An entry of "*" allows any host; a leading dot (".example.com") matches the
// domain and all of its subdomains. An empty list disables the check.
func WithAllowedHosts(hosts []string, next http.Handler) http.Handler {
	patterns := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if h == "*" {
			return next
		}
		patterns = append(patterns, h)
	}
	if len(patterns) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hostAllowed(requestHost(r.Host), patterns) {
			LoggerFromContext(r.Context()).Warn("disallowed host", "host", r.Host)
			http.Error(w, "Bad Request (400)", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestHost(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if host, _, err := net.SplitHostPort(raw); err == nil {
		return host
	}
	return strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
}

func hostAllowed(host string, patterns []string) bool {
	if host == "" {
		return false
	}
	host = strings.TrimSuffix(host, ".")
	for _, p := range patterns {
		if strings.HasPrefix(p, ".") {
			if host == p[1:] || strings.HasSuffix(host, p) {
				return true
			}
			continue
		}
		if host == p {
			return true
		}
	}
	return false
}
