// A simple HTTP server with orderly shutdown, built on net/http.

package httpsrv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"hplcollect/utils/status"
)

const (
	serverShutdownTimeoutSec = 10
)

type Server struct {
	log    status.Logger
	failed func(error)
	stop   chan bool
	server *http.Server
}

// Create a server that will be listening on `port` (on all interfaces) and serving `handler`.  It
// will call `failed` if the server returns a failure code.  The server is not started by this.
func New(log status.Logger, port int, handler http.Handler, failed func(error)) *Server {
	return &Server{
		log:    log,
		failed: failed,
		stop:   make(chan bool, 1),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start the server.  This blocks the current goroutine until the server exits, so typical usage
// would be `go s.Start()`.  To force the server to shut down, call s.Stop().  When the server
// exits, it will call s.failed if there was an error.
func (s *Server) Start() {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err == nil {
		err = s.Serve(ln)
	}
	s.exited(err)
}

// Like Start but on an existing listener and without the exit handling.  Returns the result of
// http.Server.Serve.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Infof("Listening on %s", ln.Addr())
	return s.server.Serve(ln)
}

func (s *Server) exited(err error) {
	if err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(err.Error())
			s.log.Error("SERVER NOT RUNNING")
			if s.failed != nil {
				s.failed(err)
			}
		} else {
			s.log.Info(err.Error())
		}
	}
	s.stop <- true
}

// Cause the server to shut down and wait for it to stop.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeoutSec*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.log.Warning(err.Error())
	}
	<-s.stop
}
