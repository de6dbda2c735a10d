package bwire

import (
	"net"
	"strings"
	"sync"

	"github.com/advdv/bwire/jsonval"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// RequestLine holds the decoded first line of a request.
type RequestLine struct {
	Method   string
	Path     string
	RawPath  string
	Protocol string
	Queries  map[string]string
}

// ParseRequestLine decodes "METHOD PATH PROTOCOL". The path may carry a query string after the first '?', which is
// split on '&' and then on the first '='. Pairs without '=' are dropped. Queries is nil when there was no '?'.
func ParseRequestLine(line string) (RequestLine, error) {
	var rl RequestLine

	fields := strings.Fields(line)
	switch {
	case len(fields) < 1:
		return rl, &RequestParseError{Line: line, err: ErrNoMethod}
	case len(fields) < 2:
		return rl, &RequestParseError{Line: line, err: ErrNoPath}
	case len(fields) < 3:
		return rl, &RequestParseError{Line: line, err: ErrNoProtocol}
	}

	rl.Method, rl.Protocol = fields[0], fields[2]

	path, query, hasQuery := strings.Cut(fields[1], "?")
	rl.RawPath, rl.Path = path, DecodePath(path)

	if hasQuery {
		rl.Queries = map[string]string{}
		for _, pair := range strings.Split(query, "&") {
			if key, val, ok := strings.Cut(pair, "="); ok {
				rl.Queries[key] = val
			}
		}
	}

	return rl, nil
}

// Request is a single parsed request together with the connection it arrived on. Apart from the resolve guard it is
// not modified after construction.
type Request struct {
	RequestLine
	Header Header
	Body   []byte

	conn net.Conn

	mu       sync.Mutex
	resolved bool
}

// ParseRequest frames raw and decodes it into a request that answers over conn. Conn may be nil for requests that
// are only inspected, resolving such a request fails.
func ParseRequest(raw []byte, conn net.Conn) (*Request, error) {
	head, body := Frame(raw)

	lines := strings.Split(string(head), "\n")
	if len(head) == 0 {
		return nil, &RequestParseError{err: ErrNoMethod}
	}

	rl, err := ParseRequestLine(lines[0])
	if err != nil {
		return nil, err
	}

	return &Request{
		RequestLine: rl,
		Header:      ParseHeaders(lines[1:]),
		Body:        body,
		conn:        conn,
	}, nil
}

// Query returns the query value for key and whether it was present.
func (r *Request) Query(key string) (string, bool) {
	v, ok := r.Queries[key]
	return v, ok
}

// Segments returns the encoded, non-empty path segments.
func (r *Request) Segments() []string {
	return lo.Compact(strings.Split(r.RawPath, "/"))
}

// Segment returns the i-th encoded path segment. Empty segments are not counted.
func (r *Request) Segment(i int) (string, bool) {
	segs := r.Segments()
	if i < 0 || i >= len(segs) {
		return "", false
	}
	return segs[i], true
}

// DecodedSegment returns the i-th path segment with reserved characters percent-decoded.
func (r *Request) DecodedSegment(i int) (string, bool) {
	seg, ok := r.Segment(i)
	if !ok {
		return "", false
	}
	return DecodePath(seg), true
}

// JSON parses the body as a JSON object.
func (r *Request) JSON() (jsonval.Object, error) {
	obj, err := jsonval.Parse(r.Body)
	if err != nil {
		return nil, NewError(CodeBadRequest, errors.Wrap(err, "decode body"))
	}
	return obj, nil
}

// RemoteAddr returns the address of the peer, or an empty string when there is no connection.
func (r *Request) RemoteAddr() string {
	if r.conn == nil || r.conn.RemoteAddr() == nil {
		return ""
	}
	return r.conn.RemoteAddr().String()
}

// Resolved reports whether a response was written for this request.
func (r *Request) Resolved() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved
}

// Resolve serializes res and writes it to the request's connection. A request can be resolved once, a second call
// fails with [ErrAlreadyResolved]. A response without a status fails with [ErrStatusNotSet] and nothing is written.
func (r *Request) Resolve(res *Response) error {
	if !r.mu.TryLock() {
		return ErrResolveLockBusy
	}
	defer r.mu.Unlock()

	if r.resolved {
		return ErrAlreadyResolved
	}

	data, err := res.Serialize()
	if err != nil {
		return err
	}

	if r.conn == nil {
		return errors.New("bwire: request has no connection to resolve on")
	}

	if _, err := r.conn.Write(data); err != nil {
		return errors.Wrap(err, "bwire: write response")
	}

	r.resolved = true
	return nil
}
