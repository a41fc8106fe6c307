package http

import (
	"context"
	"net"
	"net/http"
	"time"
)

// NewServer builds the API server. Request contexts derive from a base
// context that Shutdown cancels, so long-lived SSE streams end instead of
// holding shutdown until its deadline.
func NewServer(addr string, handler http.Handler) *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	server.RegisterOnShutdown(cancel)
	return server
}
