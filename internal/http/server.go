package http

import (
	"log"
	"net"
	"net/http"
	"time"
)

// Start binds the local API port and serves until the listener dies.
func Start(addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("api listening on http://%s", addr)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.Serve(ln)
}
