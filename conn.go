package bwire

import (
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ServeConn reads one request from conn, dispatches it and writes the response. The connection is closed when it
// returns. Errors never escape: they are logged, and answered on the connection where that is still possible.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	if s.opts.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}

	raw, err := s.readRequest(conn)
	switch {
	case errors.Is(err, ErrEmptyRequest):
		return
	case errors.Is(err, ErrRequestTooLarge):
		s.opts.Logger.LogParseError(err)
		s.writeUnresolved(conn, errorResponse(NewError(CodeRequestEntityTooLarge, err)))
		return
	case err != nil:
		s.opts.Logger.LogParseError(err)
		return
	}

	req, err := ParseRequest(raw, conn)
	if err != nil {
		s.opts.Logger.LogParseError(err)
		s.writeUnresolved(conn, InternalServerError())
		return
	}

	res := s.dispatch(ctx, req)

	if s.opts.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}

	if err := req.Resolve(res); err != nil {
		s.opts.Logger.LogResolveError(err)
		return
	}

	s.opts.Logger.LogResolved(req.RemoteAddr(), req.Path, res.Status)
}

// dispatch finds the handler for req and runs it through the middleware.
func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	h, ok := s.routes.Resolve(req.Method, routePath(req.RawPath))
	if !ok {
		h = Wrap(HandlerFunc(s.serveMiss), s.middlewares.buffered...)
	}

	return Serve(ctx, h, req, s.opts.Logger)
}

// serveMiss answers requests that match no route: file-like GET paths are looked up in the static source, all other
// requests are not found.
func (s *Server) serveMiss(ctx context.Context, r *Request) (*Response, error) {
	if s.opts.Static == nil || !isStaticCandidate(r.Method, r.Path) {
		return NotFound(), nil
	}

	res, found, err := serveStatic(ctx, s.opts.Static, r.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "serve static %q", r.Path)
	} else if !found {
		return NotFound(), nil
	}

	return res, nil
}

// readRequest reads until the header block is complete and, when the headers announce a Content-Length, until the
// body has arrived as well. Bytes beyond the announced body are discarded. Without a Content-Length the request is
// everything that arrived together with the header block.
func (s *Server) readRequest(conn net.Conn) ([]byte, error) {
	chunk := make([]byte, s.opts.ReadChunkSize)
	want := -1

	var raw []byte
	for {
		n, err := conn.Read(chunk)
		raw = append(raw, chunk[:n]...)

		if len(raw) > s.opts.MaxRequestSize {
			return nil, errors.Wrapf(ErrRequestTooLarge, "more than %d bytes", s.opts.MaxRequestSize)
		}

		if want < 0 {
			if end := headerEnd(raw); end >= 0 {
				size, announced := contentLength(raw[:end])
				switch {
				case !announced:
					return raw, nil
				case size > s.opts.MaxRequestSize-end:
					return nil, errors.Wrapf(ErrRequestTooLarge, "announced body of %d bytes", size)
				}
				want = end + size
			}
		}

		if want >= 0 && len(raw) >= want {
			return raw[:want], nil
		}

		switch {
		case errors.Is(err, io.EOF) && len(raw) == 0:
			return nil, ErrEmptyRequest
		case errors.Is(err, io.EOF):
			return raw, nil
		case err != nil:
			return nil, errors.Wrap(err, "bwire: read request")
		}
	}
}

// contentLength returns the body length announced in a raw header block and whether a valid one was announced.
func contentLength(rawHead []byte) (int, bool) {
	head, _ := Frame(rawHead)
	lines := strings.Split(string(head), "\n")
	if len(lines) < 2 {
		return 0, false
	}

	for key, val := range ParseHeaders(lines[1:]) {
		if !strings.EqualFold(key, "Content-Length") {
			continue
		}

		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}

	return 0, false
}

// writeUnresolved writes res for a connection on which no request could be parsed.
func (s *Server) writeUnresolved(conn net.Conn, res *Response) {
	data, err := res.Serialize()
	if err != nil {
		s.opts.Logger.LogResolveError(err)
		return
	}

	if s.opts.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}

	if _, err := conn.Write(data); err != nil {
		s.opts.Logger.LogResolveError(errors.Wrap(err, "bwire: write response"))
	}
}
