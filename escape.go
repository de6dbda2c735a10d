package bwire

import "strings"

// reserved holds the characters that are percent-decoded in path segments and percent-encoded by [EncodePath].
const reserved = ":/?#[]@!$&'()*+,;=% "

const upperhex = "0123456789ABCDEF"

// DecodePath percent-decodes the reserved and unsafe characters in s. Escapes of other characters and malformed
// escapes are kept as they are. Decoding happens in a single left-to-right pass so "%2525" becomes "%25".
func DecodePath(s string) string {
	return decode(s, false)
}

// routePath is the path that routes are matched against: raw decoded like [DecodePath] except that an encoded slash
// stays encoded, so it never splits a segment in two.
func routePath(raw string) string {
	return decode(raw, true)
}

func decode(s string, keepSlash bool) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if c := hi<<4 | lo; ok1 && ok2 && strings.IndexByte(reserved, c) >= 0 && (c != '/' || !keepSlash) {
				sb.WriteByte(c)
				i += 2
				continue
			}
		}
		sb.WriteByte(s[i])
	}

	return sb.String()
}

// EncodePath percent-encodes the reserved and unsafe characters in s. It is the inverse of [DecodePath].
func EncodePath(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(reserved, c) < 0 {
			sb.WriteByte(c)
			continue
		}

		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}

	return sb.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
