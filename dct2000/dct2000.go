// Package dct2000 locates the variable-length DCT2000 pseudo-header
// that some capture formats prepend ahead of the real payload, so the
// fuzzer (§4.5) and other byte-mutating stages know how many extra
// bytes to skip beyond the caller's own SkipPrefix.
package dct2000

import "bytes"

// HeaderLen scans past six NUL-terminated strings followed by two
// trailing context bytes, per §4.5, and returns the total header
// length in bytes. If fewer than six NULs are found before the end of
// payload, HeaderLen returns 0 (not a DCT2000 frame, or truncated).
func HeaderLen(payload []byte) int {
	pos := 0
	for i := 0; i < 6; i++ {
		idx := bytes.IndexByte(payload[pos:], 0)
		if idx < 0 {
			return 0
		}
		pos += idx + 1
	}
	if pos+2 > len(payload) {
		return 0
	}
	return pos + 2
}
