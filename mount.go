package bwire

import (
	"context"
	"strings"
)

// Mount mounts a Handler on a sub-path. The pattern is either a bare prefix ("/api"), which mounts for every method,
// or has a method ("GET /api"). The mounted handler receives requests with the prefix stripped from the path.
// Middleware registered via [Server.Use] sees the original path, the strip happens after middleware.
func (s *Server) Mount(pattern string, handler Handler) {
	methods, prefix := Methods, pattern
	if method, path, ok := strings.Cut(pattern, " "); ok {
		methods, prefix = []Method{Method(method)}, strings.TrimSpace(path)
	}

	prefix = strings.TrimSuffix(prefix, "/")
	wrapped := Wrap(stripPrefix(prefix, handler), s.middlewares.buffered...)

	for _, m := range methods {
		if prefix != "" {
			s.handle(m, prefix, wrapped)
		}
		s.handle(m, prefix+"/", wrapped)
		s.handle(m, prefix+"/{rest...}", wrapped)
	}
}

// MountFunc mounts a HandlerFunc on a sub-path, see [Server.Mount].
func (s *Server) MountFunc(pattern string, handler HandlerFunc) {
	s.Mount(pattern, handler)
}

func stripPrefix(prefix string, handler Handler) Handler {
	return HandlerFunc(func(ctx context.Context, r *Request) (*Response, error) {
		rl := r.RequestLine
		rl.Path = trimmedOrRoot(rl.Path, prefix)
		rl.RawPath = trimmedOrRoot(rl.RawPath, prefix)

		r2 := &Request{
			RequestLine: rl,
			Header:      r.Header,
			Body:        r.Body,
			conn:        r.conn,
		}

		return handler.ServeWire(ctx, r2)
	})
}

func trimmedOrRoot(p, prefix string) string {
	p = strings.TrimPrefix(p, prefix)
	if p == "" {
		return "/"
	}
	return p
}
