// Package vlan implements the §1 VLAN-stripping helper: a thin,
// format-specific hook invoked by the pipeline's VlanStrip stage. It
// only understands 802.1Q-tagged Ethernet, the single link-layer
// encapsulation spec.md §1 calls out for this hook.
package vlan

import "github.com/capfix/capfix/pkt"

// dot1qTagLen is the size of an 802.1Q tag: 2 bytes TPID (0x8100) +
// 2 bytes TCI (priority/CFI/VLAN id), spliced in after the 12-byte
// src+dst MAC addresses and before the original EtherType.
const (
	macAddrPairLen = 12
	dot1qTagLen    = 4
	minTaggedFrame = macAddrPairLen + dot1qTagLen + 2 // + EtherType
)

// EthertypeDot1Q is the TPID marking an 802.1Q tagged frame.
const EthertypeDot1Q = 0x8100

// Strip removes a single 802.1Q tag from an Ethernet frame, if present,
// shifting the EtherType and payload left by 4 bytes. Non-Ethernet
// encaps and untagged frames are returned unchanged. encapIsEthernet is
// supplied by the caller (capio.EncapTag comparison lives with the
// capture-format package, not here, to keep this hook format-library
// agnostic per §1).
func Strip(payload []byte, caplen int, encapIsEthernet bool) (newPayload []byte, newCaplen int, stripped bool) {
	if !encapIsEthernet || caplen < minTaggedFrame {
		return payload, caplen, false
	}

	tpid := int(payload[macAddrPairLen])<<8 | int(payload[macAddrPairLen+1])
	if tpid != EthertypeDot1Q {
		return payload, caplen, false
	}

	// shift EtherType+payload left over the 4-byte tag
	copy(payload[macAddrPairLen:], payload[macAddrPairLen+dot1qTagLen:caplen])
	newCaplen = caplen - dot1qTagLen
	return payload[:newCaplen], newCaplen, true
}

// AdjustLen mirrors the caplen reduction onto the reported length when
// the pipeline's -L flag is also active, flooring at zero (same rule as
// chop.Spec.AdjLen).
func AdjustLen(length int, stripped bool) int {
	if !stripped {
		return length
	}
	length -= dot1qTagLen
	if length < 0 {
		length = 0
	}
	return length
}

// record is unused here; kept only so godoc cross-references resolve
// for readers following the pipeline's VlanStrip stage doc comment.
var _ pkt.Record
