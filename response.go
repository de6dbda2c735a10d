package bwire

import (
	"bytes"
	"strconv"
)

// DefaultProtocol is the protocol written on every response unless changed.
const DefaultProtocol = "HTTP/1.1"

// Response is built by handlers and serialized once when the request is resolved. A zero status means the response
// is not ready to be written.
type Response struct {
	Protocol     string
	Status       uint16
	ReasonPhrase string
	Header       Header
	Body         []byte
}

// NewResponse inits a response with the given status line.
func NewResponse(status uint16, reason string) *Response {
	return &Response{
		Protocol:     DefaultProtocol,
		Status:       status,
		ReasonPhrase: reason,
		Header:       Header{},
	}
}

// Empty returns a response without a status. It must be given one before it can be serialized.
func Empty() *Response { return NewResponse(0, "") }

// OK returns a 200 response.
func OK() *Response { return NewResponse(200, "OK") }

// NotFound returns a 404 response.
func NotFound() *Response { return NewResponse(uint16(CodeNotFound), "Not Found") }

// InternalServerError returns a 500 response.
func InternalServerError() *Response {
	return NewResponse(uint16(CodeInternalServerError), "Internal Server Error")
}

// BadRequest returns a 400 response with text as its body.
func BadRequest(text string) *Response {
	return NewResponse(uint16(CodeBadRequest), "Bad Request").SetBodyString(text)
}

func (r *Response) SetStatus(status uint16) *Response {
	r.Status = status
	return r
}

func (r *Response) SetReasonPhrase(reason string) *Response {
	r.ReasonPhrase = reason
	return r
}

// AddHeader sets a header, replacing an earlier value with the same name.
func (r *Response) AddHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = Header{}
	}
	r.Header.Set(key, value)
	return r
}

func (r *Response) SetContentType(mime string) *Response {
	return r.AddHeader("Content-Type", mime)
}

func (r *Response) SetBody(body []byte) *Response {
	r.Body = body
	return r
}

func (r *Response) SetBodyString(body string) *Response {
	return r.SetBody([]byte(body))
}

// Serialize returns the wire form of the response: the status line, one line per header in name order, a blank line
// and the body. It fails with [ErrStatusNotSet] when no status was set.
func (r *Response) Serialize() ([]byte, error) {
	if r.Status == 0 {
		return nil, ErrStatusNotSet
	}

	proto := r.Protocol
	if proto == "" {
		proto = DefaultProtocol
	}

	var buf bytes.Buffer
	buf.Grow(64 + len(r.Body))

	buf.WriteString(proto)
	buf.WriteByte(' ')
	buf.WriteString(strconv.FormatUint(uint64(r.Status), 10))
	buf.WriteByte(' ')
	buf.WriteString(r.ReasonPhrase)
	buf.WriteString("\r\n")

	for _, key := range r.Header.Keys() {
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(r.Header[key])
		buf.WriteString("\r\n")
	}

	buf.WriteString("\r\n")
	buf.Write(r.Body)

	return buf.Bytes(), nil
}
