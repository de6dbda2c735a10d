package bwire

import "bytes"

// Frame splits a raw request buffer into its header block and its body. Carriage returns and NUL bytes (the
// zero-padding of a fixed size read) are dropped first, after which the first blank line separates the two. When
// there is no blank line the whole buffer is treated as headers and the body is nil.
func Frame(raw []byte) (head, body []byte) {
	buf := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b == '\r' || b == 0 {
			continue
		}
		buf = append(buf, b)
	}

	idx := bytes.Index(buf, []byte("\n\n"))
	if idx < 0 {
		return bytes.TrimSuffix(buf, []byte("\n")), nil
	}

	head, body = buf[:idx], buf[idx+2:]
	if len(body) == 0 {
		body = nil
	}

	return head, body
}

// headerEnd reports the offset in raw just past the blank line that ends the header block, using the same rules as
// [Frame]: CR and NUL bytes are invisible. It returns -1 if the header block is not complete yet.
func headerEnd(raw []byte) int {
	prevLF := false
	for i, b := range raw {
		switch b {
		case '\r', 0:
			continue
		case '\n':
			if prevLF {
				return i + 1
			}
			prevLF = true
		default:
			prevLF = false
		}
	}

	return -1
}
