package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
)

// deviceID derives the stable device identity for a request: sha256 over
// the client IP and User-Agent, hex encoded. RealIP middleware runs
// before this, so RemoteAddr already names the actual client.
func deviceID(r *http.Request) string {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	sum := sha256.Sum256([]byte(ip + r.UserAgent()))
	return hex.EncodeToString(sum[:])
}
