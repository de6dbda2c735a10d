package jsonval

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

var (
	ErrFormat       = errors.New("not enclosed in braces")
	ErrMissingColon = errors.New("member without a colon")
	ErrUnterminated = errors.New("unterminated string or container")
	ErrEmptyValue   = errors.New("empty value")
)

// SyntaxError describes malformed input. Kind is one of the Err* sentinels of this package.
type SyntaxError struct {
	Kind error
	Near string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jsonval: %v near %q", e.Kind, e.Near)
}

func (e *SyntaxError) Unwrap() error { return e.Kind }

func syntaxError(kind error, near []byte) error {
	const maxNear = 32
	if len(near) > maxNear {
		near = near[:maxNear]
	}
	return &SyntaxError{Kind: kind, Near: string(near)}
}

// Parse decodes a document whose top level is an object. When a key repeats the last value wins.
func Parse(b []byte) (Object, error) {
	return parseObject(compact(b))
}

// ParseValue decodes a document with any value at the top level.
func ParseValue(b []byte) (Value, error) {
	return parseValue(compact(b))
}

// compact drops every space, tab, CR and LF that is not inside a string.
func compact(b []byte) []byte {
	out := make([]byte, 0, len(b))
	inString, escaped := false, false

	for _, c := range b {
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ' ' || c == '\t' || c == '\r' || c == '\n'):
			continue
		}
		out = append(out, c)
	}

	return out
}

func parseObject(b []byte) (Object, error) {
	if len(b) < 2 || b[0] != '{' || b[len(b)-1] != '}' {
		return nil, syntaxError(ErrFormat, b)
	}

	members, err := split(b[1 : len(b)-1])
	if err != nil {
		return nil, err
	}

	obj := make(Object, len(members))
	for _, m := range members {
		colon := indexUnquoted(m, ':')
		if colon < 0 {
			return nil, syntaxError(ErrMissingColon, m)
		}

		val, err := parseValue(m[colon+1:])
		if err != nil {
			return nil, err
		}

		obj[unescape(m[:colon])] = val
	}

	return obj, nil
}

func parseArray(b []byte) (Array, error) {
	if b[len(b)-1] != ']' {
		return nil, syntaxError(ErrUnterminated, b)
	}

	elems, err := split(b[1 : len(b)-1])
	if err != nil {
		return nil, err
	}

	arr := make(Array, 0, len(elems))
	for _, e := range elems {
		val, err := parseValue(e)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}

	return arr, nil
}

func parseValue(b []byte) (Value, error) {
	switch {
	case len(b) == 0:
		return nil, syntaxError(ErrEmptyValue, b)
	case b[0] == '{':
		return parseObject(b)
	case b[0] == '[':
		return parseArray(b)
	case b[0] == '"' && (len(b) < 2 || b[len(b)-1] != '"'):
		return nil, syntaxError(ErrUnterminated, b)
	default:
		return Scalar(unescape(b)), nil
	}
}

// split cuts b at every comma that is outside strings and nested containers. Empty parts are dropped.
func split(b []byte) ([][]byte, error) {
	var parts [][]byte
	depth, start := 0, 0
	inString, escaped := false, false

	for i, c := range b {
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth < 0 {
				return nil, syntaxError(ErrUnterminated, b[start:])
			}
		case c == ',' && depth == 0:
			parts = append(parts, b[start:i])
			start = i + 1
		}
	}

	if inString || depth != 0 {
		return nil, syntaxError(ErrUnterminated, b[start:])
	}

	parts = append(parts, b[start:])
	return lo.Filter(parts, func(p []byte, _ int) bool { return len(p) > 0 }), nil
}

func indexUnquoted(b []byte, sep byte) int {
	inString, escaped := false, false
	for i, c := range b {
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == sep:
			return i
		}
	}
	return -1
}

// unescape drops unescaped quotes and decodes escape sequences. Unknown escapes are kept as written.
func unescape(b []byte) string {
	var sb strings.Builder
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c == '"' {
			continue
		}
		if c != '\\' || i+1 == len(b) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch b[i] {
		case '"', '\\', '/':
			sb.WriteByte(b[i])
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'u':
			if r, ok := hexRune(b[i+1:]); ok {
				sb.WriteRune(r)
				i += 4
				continue
			}
			sb.WriteString(`\u`)
		default:
			sb.WriteByte('\\')
			sb.WriteByte(b[i])
		}
	}
	return sb.String()
}

func hexRune(b []byte) (rune, bool) {
	if len(b) < 4 {
		return 0, false
	}
	n, err := strconv.ParseUint(string(b[:4]), 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, false
	}
	return rune(n), true
}
