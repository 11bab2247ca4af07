// Package radiotap locates the variable-length radiotap metadata header
// some captures prepend ahead of an 802.11 frame, so the duplicate
// detector's --skip-radiotap-header mode (§4.3) knows how many extra
// bytes to skip beyond its own ignored_prefix.
package radiotap

import "encoding/binary"

// headerPrefixLen is the fixed version/pad/length prefix every radiotap
// header starts with, before its variable-length present-flags/fields.
const headerPrefixLen = 4

// HeaderLen reads the radiotap header's own declared length field (the
// little-endian uint16 at byte offset 2) and returns it, or 0 if payload
// is too short to even contain the fixed prefix.
func HeaderLen(payload []byte) int {
	if len(payload) < headerPrefixLen {
		return 0
	}
	return int(binary.LittleEndian.Uint16(payload[2:4]))
}
