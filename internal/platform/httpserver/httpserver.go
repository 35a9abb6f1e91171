// Package httpserver constructs the process's HTTP server. The API serves
// small JSON payloads, so the timeouts below guard against slow clients
// rather than large transfers.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server for the given address and handler. WriteTimeout is
// left unset; per-request deadlines come from the Timeout middleware.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
