package jsonval

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Marshal encodes v with object keys in sorted order. Every scalar is written as a string, so Parse(Marshal(v))
// yields v again.
func Marshal(v Value) []byte {
	var buf bytes.Buffer
	write(&buf, v)
	return buf.Bytes()
}

func write(buf *bytes.Buffer, v Value) {
	switch v := v.(type) {
	case Object:
		keys := lo.Keys(v)
		slices.Sort(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			quote(buf, k)
			buf.WriteByte(':')
			write(buf, v[k])
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			write(buf, e)
		}
		buf.WriteByte(']')
	case Scalar:
		quote(buf, string(v))
	case nil:
		buf.WriteString(`""`)
	}
}

func quote(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			buf.WriteByte('\\')
			buf.WriteRune(r)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
