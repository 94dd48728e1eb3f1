package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/dannybabbev/totem/internal/infrastructure/config"
)

// Logger defines the logging interface used by the server.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Handler turns one raw JSON request into one raw JSON response.
// Satisfied by *router.Router.
type Handler interface {
	HandleRaw(raw []byte) []byte
}

// socketPermissions lets any local user talk to the daemon, matching
// the expectation that short-lived CLI clients run as other users.
const socketPermissions = 0666

// readChunkSize is the per-read buffer size while accumulating a request.
const readChunkSize = 4096

// Server accepts connections on the unix socket and speaks the
// one-request-per-connection protocol: connect, send one JSON object,
// receive one JSON object, close.
//
// Each connection is served on its own goroutine; concurrency control
// lives below in the registry's per-module locks, not here.
type Server struct {
	cfg     config.SocketConfig
	handler Handler
	logger  Logger

	listener net.Listener
	wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a server bound to nothing; call Start to listen.
//
// Parameters:
//   - cfg: Socket section of totem.yaml
//   - handler: Request handler, typically the router
//   - logger: Server logger; nil for no logging
func New(cfg config.SocketConfig, handler Handler, logger Logger) *Server {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// Start binds the unix socket and begins accepting connections.
//
// A stale socket file from a previous run is removed first. Inability
// to bind is process-fatal and returned to the caller; everything
// after that is contained per connection.
//
// Returns:
//   - error: If the socket cannot be bound
func (s *Server) Start() error {
	// Remove stale socket from an unclean shutdown.
	if _, err := os.Stat(s.cfg.Path); err == nil {
		if err := os.Remove(s.cfg.Path); err != nil {
			return fmt.Errorf("removing stale socket: %w", err)
		}
		s.logger.Warn("removed stale socket", "path", s.cfg.Path)
	}

	listener, err := net.Listen("unix", s.cfg.Path)
	if err != nil {
		return fmt.Errorf("binding socket %s: %w", s.cfg.Path, err)
	}

	if err := os.Chmod(s.cfg.Path, socketPermissions); err != nil {
		listener.Close() //nolint:errcheck // Best effort cleanup on error path
		return fmt.Errorf("setting socket permissions: %w", err)
	}

	s.listener = listener
	s.logger.Info("listening", "socket", s.cfg.Path)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop serves connections until the listener closes.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isClosed() {
				return
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// handleConn reads one request, dispatches it and writes one response.
// Transport faults are isolated to this connection.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close() //nolint:errcheck // One-shot connection

	if timeout := s.cfg.GetReadTimeout(); timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout)) //nolint:errcheck // Deadline is advisory
	}

	raw, err := s.readRequest(conn)
	if err != nil {
		s.logger.Debug("request read failed", "error", err)
		s.writeError(conn, err)
		return
	}

	resp := s.handler.HandleRaw(raw)

	if _, err := conn.Write(resp); err != nil {
		s.logger.Debug("response write failed", "error", err)
	}
}

// readRequest accumulates bytes until the buffer is one complete JSON
// value. Clients may send the object in multiple writes; a closed
// write side (EOF) also terminates the read.
func (s *Server) readRequest(conn net.Conn) ([]byte, error) {
	maxBytes := s.cfg.MaxRequestBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}

	var buf []byte
	chunk := make([]byte, readChunkSize)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if len(buf) > maxBytes {
				return nil, fmt.Errorf("request exceeds %d bytes", maxBytes)
			}
			if json.Valid(buf) {
				return buf, nil
			}
		}
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil, err
			}
			// EOF with a complete value is a normal end of request.
			if len(buf) > 0 && json.Valid(buf) {
				return buf, nil
			}
			return nil, fmt.Errorf("reading request: %w", err)
		}
	}
}

// writeError best-effort reports a transport-level failure to the
// client in the protocol's response shape.
func (s *Server) writeError(conn net.Conn, err error) {
	resp, marshalErr := json.Marshal(map[string]any{
		"ok":    false,
		"error": err.Error(),
	})
	if marshalErr != nil {
		return
	}
	_, _ = conn.Write(resp) //nolint:errcheck // Connection may already be gone
}

// Close stops accepting connections, waits for in-flight handlers and
// removes the socket file. The socket file is removed last so clients
// see connection refused rather than file-not-found races during
// drain.
//
// Returns:
//   - error: If removing the socket file fails
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.listener != nil {
		s.listener.Close() //nolint:errcheck // Unblocks the accept loop
	}
	s.wg.Wait()

	if err := os.Remove(s.cfg.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing socket: %w", err)
	}

	s.logger.Info("server stopped", "socket", s.cfg.Path)
	return nil
}

// isClosed reports whether Close has begun.
func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
