package pcapfile

import "github.com/capfix/capfix/capio"

// LINKTYPE_* values, a small subset of the tcpdump link-layer type
// registry — enough for the encapsulations this module actually
// manipulates (Ethernet for vlan.Strip; raw IP and null/loopback as
// common passthrough cases).
const (
	LinktypeNull      = 0
	LinktypeEthernet  = 1
	LinktypeRaw       = 101
	LinktypeDCT2000   = 153 // Catapult DCT2000, see dct2000.HeaderLen
	LinktypeRadiotap  = 127 // IEEE 802.11 + radiotap header, see radiotap.HeaderLen
	LinktypeIPv4      = 228
	LinktypeIPv6      = 229
)

// TypeClassic identifies this package's file format to capio.Registry
// and to the -F CLI flag.
const TypeClassic capio.TypeTag = 1

// Registry returns a capio.Registry populated with the classic-pcap
// file type and the link types this module understands, for
// list_types()/list_encaps() and -F/-T name resolution.
func Registry() *capio.Registry {
	r := capio.NewRegistry()
	r.RegisterType(TypeClassic, "pcap")
	r.RegisterEncap(capio.EncapTag(LinktypeNull), "null")
	r.RegisterEncap(capio.EncapTag(LinktypeEthernet), "ether")
	r.RegisterEncap(capio.EncapTag(LinktypeRaw), "raw")
	r.RegisterEncap(capio.EncapTag(LinktypeDCT2000), "dct2000")
	r.RegisterEncap(capio.EncapTag(LinktypeRadiotap), "radiotap")
	r.RegisterEncap(capio.EncapTag(LinktypeIPv4), "ipv4")
	r.RegisterEncap(capio.EncapTag(LinktypeIPv6), "ipv6")
	return r
}

// IsEthernet reports whether tag is the Ethernet link type, the one
// encapsulation vlan.Strip knows how to handle.
func IsEthernet(tag capio.EncapTag) bool {
	return tag == capio.EncapTag(LinktypeEthernet)
}

// IsDCT2000 reports whether tag is Catapult DCT2000, the encapsulation
// whose pseudo-header dct2000.HeaderLen knows how to skip.
func IsDCT2000(tag capio.EncapTag) bool {
	return tag == capio.EncapTag(LinktypeDCT2000)
}

// IsRadiotap reports whether tag is 802.11-plus-radiotap, the
// encapsulation whose variable-length header radiotap.HeaderLen knows
// how to measure.
func IsRadiotap(tag capio.EncapTag) bool {
	return tag == capio.EncapTag(LinktypeRadiotap)
}
