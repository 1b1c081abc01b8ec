package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/niels/rawhttpd/pkg/accesslog"
	"github.com/niels/rawhttpd/pkg/config"
	"github.com/niels/rawhttpd/pkg/logging"
	"github.com/niels/rawhttpd/pkg/router"
	"github.com/niels/rawhttpd/pkg/wire"
	"github.com/niels/rawhttpd/pkg/wirelog"
	"github.com/rs/zerolog"
)

// highlight renders dumped messages; replaced in tests
var highlight = wirelog.Highlight

// Server accepts TCP connections and answers exactly one request on each.
//
// Every connection gets its own goroutine and its own read buffer. The
// request is read with a single Read of at most ReadBufferSize bytes, so a
// request larger than the buffer fails to parse. There are no timeouts and
// no limit on the number of concurrent connections.
type Server struct {
	addr           string
	readBufferSize int
	router         *router.Router
	recorder       accesslog.Recorder
	wireLog        *wirelog.Logger
	dump           io.Writer
	dumpMu         sync.Mutex
	logger         zerolog.Logger
	conns          sync.WaitGroup
}

// Option configures optional server collaborators
type Option func(*Server)

// WithRecorder sets the access log recorder
func WithRecorder(r accesslog.Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// WithWireLog records raw exchanges to l
func WithWireLog(l *wirelog.Logger) Option {
	return func(s *Server) {
		s.wireLog = l
	}
}

// WithDump prints every exchange, syntax highlighted, to w
func WithDump(w io.Writer) Option {
	return func(s *Server) {
		s.dump = w
	}
}

// New creates a server for the listener settings in cfg that dispatches
// through r
func New(cfg *config.Config, r *router.Router, opts ...Option) *Server {
	s := &Server{
		addr:           cfg.Address(),
		readBufferSize: cfg.Server.ReadBufferSize,
		router:         r,
		recorder:       accesslog.Nop{},
		logger:         logging.WithComponent("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe binds the configured address and serves until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes ln and
// returns nil. Connections already accepted keep running; use Wait to
// block until they finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-stop:
		}
	}()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Listening")

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info().Msg("Stopped accepting connections")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("listener closed: %w", err)
			}
			delay = nextAcceptDelay(delay)
			s.logger.Warn().Err(err).Dur("retry_in", delay).Msg("Accept failed")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0

		s.conns.Add(1)
		go s.handle(conn)
	}
}

// Accept failures back off from minAcceptDelay, doubling up to maxAcceptDelay
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	if prev*2 > maxAcceptDelay {
		return maxAcceptDelay
	}
	return prev * 2
}

// Wait blocks until every accepted connection has been handled
func (s *Server) Wait() {
	s.conns.Wait()
}

// handle owns conn: it reads once, answers at most once and closes it
func (s *Server) handle(conn net.Conn) {
	defer s.conns.Done()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	logger := logging.WithConnection(remote)
	start := time.Now()

	buf := make([]byte, s.readBufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		logger.Debug().Err(err).Msg("Read failed")
		s.recorder.Rejected(remote, err)
		return
	}
	raw := buf[:n]

	req, err := wire.Parse(raw)
	if err != nil {
		logger.Warn().Err(err).Int("bytes", n).Msg("Dropping malformed request")
		s.recorder.Rejected(remote, err)
		s.record(remote, raw, nil)
		return
	}
	logger.Debug().Stringer("request", req).Msg("Parsed request")

	w := newResponseWriter(conn, s.capturing())
	err = s.router.Dispatch(req).Serve(w, req)
	if err != nil {
		logger.Error().Err(err).Str("endpoint", req.Endpoint()).Msg("Handler failed")
	}

	s.recorder.Served(accesslog.Entry{
		Remote:  remote,
		Method:  req.Method(),
		Path:    req.Path(),
		Status:  w.Status(),
		Bytes:   w.Written(),
		Elapsed: time.Since(start),
		Err:     err,
	})
	s.record(remote, raw, w.Captured())
}

func (s *Server) capturing() bool {
	return s.wireLog.Enabled() || s.dump != nil
}

// record sends an exchange to the wire log and the console dump
func (s *Server) record(remote string, request, response []byte) {
	if s.wireLog.Enabled() {
		if err := s.wireLog.LogExchange(remote, request, response); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to write wire log")
		}
	}

	if s.dump == nil {
		return
	}
	s.dumpMu.Lock()
	defer s.dumpMu.Unlock()
	fmt.Fprintf(s.dump, "--- %s request ---\n", remote)
	if err := highlight(s.dump, request); err != nil {
		s.logger.Debug().Err(err).Msg("Failed to dump request")
	}
	fmt.Fprintf(s.dump, "\n--- %s response ---\n", remote)
	if err := highlight(s.dump, response); err != nil {
		s.logger.Debug().Err(err).Msg("Failed to dump response")
	}
	fmt.Fprintln(s.dump)
}
