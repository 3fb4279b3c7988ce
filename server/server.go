package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"datafeed/logging"
)

const (
	StatusStarting     = "starting"
	StatusRunning      = "running"
	StatusShuttingDown = "shutting_down"
	StatusStopped      = "stopped"
)

type ServerOptions struct {
	Host              string
	Port              int64
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type Server struct {
	http     *http.Server
	opts     ServerOptions
	status   atomic.Value
	listener net.Listener
	done     chan struct{}
}

// BackendServer builds the HTTP server. The router is constructed here, so
// every Server owns its own routes.
func BackendServer(opts ServerOptions, deps RouterDeps) *Server {
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 2 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		opts: opts,
		done: make(chan struct{}),
	}
	s.status.Store(StatusStarting)

	if deps.Status == nil {
		deps.Status = s.Status
	}

	s.http = &http.Server{
		Addr:              net.JoinHostPort(opts.Host, strconv.FormatInt(opts.Port, 10)),
		Handler:           BackendRouting(deps),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
	}

	return s
}

func (s *Server) Status() string {
	return s.status.Load().(string)
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Addr is the bound address once Start returned, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.http.Addr
}

func (s *Server) FullHost() string {
	return fmt.Sprintf("http://%s", s.Addr())
}

// Start binds the listener and serves in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		s.status.Store(StatusStopped)
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	s.listener = ln
	s.status.Store(StatusRunning)

	go func() {
		defer close(s.done)
		log := logging.GetLogger("server")
		log.Info().Str("address", s.FullHost()).Msg("Server listening")
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server stopped unexpectedly")
		}
		s.status.Store(StatusStopped)
	}()

	return nil
}

// Stop gracefully shuts down the server, waiting up to ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	s.status.Store(StatusShuttingDown)

	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	if s.listener != nil {
		<-s.done
	}
	s.status.Store(StatusStopped)
	return err
}
