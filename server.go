package bwire

import (
	"context"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

// ServerOptions configure a [Server].
type ServerOptions struct {
	// Logger is informed about errors and resolved requests. Defaults to the standard logger.
	Logger Logger
	// ReadChunkSize is the size of each read from a connection. Defaults to 1024.
	ReadChunkSize int
	// MaxRequestSize bounds the bytes read for one request. Defaults to 1 MiB.
	MaxRequestSize int
	// ReadTimeout bounds reading the request, zero means no deadline.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing the response, zero means no deadline.
	WriteTimeout time.Duration
	// Static serves GET requests that match no route but whose path contains a '.'.
	Static StaticSource
}

const (
	DefaultReadChunkSize  = 1024
	DefaultMaxRequestSize = 1 << 20
)

func (o ServerOptions) withDefaults() ServerOptions {
	if o.Logger == nil {
		o.Logger = NewStdLogger(nil)
	}
	if o.ReadChunkSize <= 0 {
		o.ReadChunkSize = DefaultReadChunkSize
	}
	if o.MaxRequestSize <= 0 {
		o.MaxRequestSize = DefaultMaxRequestSize
	}
	return o
}

// Server accepts connections and answers one request on each, routing by method and path template.
type Server struct {
	opts        ServerOptions
	routes      *RouteTable
	reverser    *Reverser
	middlewares struct {
		captured bool
		buffered []Middleware
	}

	mu        sync.Mutex
	listeners map[net.Listener]struct{}
	closed    bool
	active    atomic.Int64
}

// NewServer creates a new Server with default settings.
func NewServer() *Server {
	return NewServerWith(ServerOptions{}, NewRouteTable(), NewReverser())
}

// NewServerWith creates a Server with custom settings.
func NewServerWith(opts ServerOptions, routes *RouteTable, reverser *Reverser) *Server {
	return &Server{
		opts:      opts.withDefaults(),
		routes:    routes,
		reverser:  reverser,
		listeners: make(map[net.Listener]struct{}),
	}
}

// Routes returns the server's route table.
func (s *Server) Routes() *RouteTable { return s.routes }

// Reverse returns the path based on the name and parameter values.
func (s *Server) Reverse(name string, vals ...string) (string, error) {
	return s.reverser.Reverse(name, vals...)
}

// Use allows providing of middleware.
func (s *Server) Use(mw ...Middleware) {
	s.ensureNoUseAfterHandle()
	s.middlewares.buffered = append(s.middlewares.buffered, mw...)
}

// HandleFunc handles the request given the pattern using a function.
func (s *Server) HandleFunc(pattern string, handler HandlerFunc, name ...string) {
	s.Handle(pattern, handler, name...)
}

// Handle registers handler for a pattern of the form "METHOD /path/{param}". It panics if the pattern is invalid,
// route templates are fixed at startup and a bad one is a programming error.
func (s *Server) Handle(pattern string, handler Handler, name ...string) {
	method, tmpl, ok := strings.Cut(pattern, " ")
	if !ok {
		panic("bwire: pattern must have the form \"METHOD /path\", got: " + pattern)
	}

	s.handle(Method(method), strings.TrimSpace(tmpl), Wrap(handler, s.middlewares.buffered...), name...)
}

func (s *Server) handle(method Method, tmpl string, handler Handler, name ...string) {
	s.middlewares.captured = true

	if len(name) > 0 {
		tmpl = s.reverser.Named(name[0], tmpl)
	}

	if err := s.routes.Insert(method, tmpl, handler); err != nil {
		panic("bwire: " + err.Error())
	}
}

func (s *Server) ensureNoUseAfterHandle() {
	if s.middlewares.captured {
		panic("bwire: cannot call Use() after calling Handle")
	}
}

// Serve accepts connections from l and serves each on its own goroutine. It returns [ErrServerClosed] after
// [Server.Shutdown] and the context's error when ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	if !s.trackListener(l, true) {
		return ErrServerClosed
	}
	defer s.trackListener(l, false)

	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	for {
		conn, err := l.Accept()
		if err != nil {
			if s.shuttingDown() {
				return ErrServerClosed
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "bwire: accept")
		}

		s.active.Add(1)
		go func() {
			defer s.active.Add(-1)
			s.ServeConn(ctx, conn)
		}()
	}
}

// Shutdown stops all listeners and waits for connections that are being served to finish, or for ctx to be done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	var err error
	for l := range s.listeners {
		if cerr := l.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = errors.CombineErrors(err, cerr)
		}
	}
	s.mu.Unlock()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for s.active.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return err
}

func (s *Server) trackListener(l net.Listener, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !add {
		delete(s.listeners, l)
		return true
	}

	if s.closed {
		return false
	}

	s.listeners[l] = struct{}{}
	return true
}

func (s *Server) shuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
