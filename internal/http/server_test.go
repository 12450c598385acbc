package http

import (
	"net"
	"net/http"
	"testing"
)

func TestStartReportsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	if err := Start(ln.Addr().String(), http.NewServeMux()); err == nil {
		t.Fatal("expected an error binding an already-bound port")
	}
}
