package bwire

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Header maps header names to values. Names are case-sensitive and unique, a later occurrence of a name replaces an
// earlier one.
type Header map[string]string

// ParseHeaders builds a header map from the lines of a header block that follow the request line. Each line is split
// on its first colon and both sides are trimmed. Lines without a colon are ignored.
func ParseHeaders(lines []string) Header {
	hdr := make(Header, len(lines))
	for _, line := range lines {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		hdr[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}

	return hdr
}

// Get returns the value for key, or an empty string.
func (h Header) Get(key string) string { return h[key] }

// Set sets the value for key.
func (h Header) Set(key, value string) { h[key] = value }

// Del removes key.
func (h Header) Del(key string) { delete(h, key) }

// Keys returns the header names in sorted order.
func (h Header) Keys() []string {
	keys := lo.Keys(h)
	slices.Sort(keys)
	return keys
}
