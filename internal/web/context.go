package web

import (
	"net"
	"net/http"

	"github.com/JonMunkholm/sheetquiz/internal/core"
)

// clientIP returns the address TrustedRealIP resolved for r, or the host
// part of RemoteAddr when the middleware did not run.
func clientIP(r *http.Request) string {
	if ip := core.ClientIPFromContext(r.Context()); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
