package dhcpopt

import "net/netip"

// Version distinguishes DHCPv4 from DHCPv6 packets.
type Version uint8

// Supported protocol versions.
const (
	V4 Version = 4
	V6 Version = 6
)

// Packet is the external-facing decoded packet structure: raw bytes,
// interface identity, source/destination endpoints, decoded option state,
// and version-specific header fields.
type Packet struct {
	// Options is the decoded option state. Nil if parsing failed before an
	// [OptionState] could be allocated.
	Options *OptionState

	// Raw is the packet's raw bytes, as received.
	Raw []byte

	// Iface is the name of the interface the packet arrived on (or will be
	// sent on).
	Iface string

	// Src and Dst are the packet's endpoints.
	Src, Dst netip.AddrPort

	// Version selects which header fields below are meaningful.
	Version Version

	// MessageType is the DHCPv4 message type byte (option 53's value), or
	// the DHCPv6 message type byte. Zero if unknown.
	MessageType byte

	// TransactionID is the DHCPv6 3-byte transaction ID. Unused for v4.
	TransactionID [3]byte

	// IsRelay reports whether this is a DHCPv6 relay-forward/relay-reply
	// message.
	IsRelay bool

	// HopCount is the DHCPv6 relay hop count. Meaningful only if IsRelay.
	HopCount byte

	// LinkAddr and PeerAddr are the DHCPv6 relay link/peer addresses.
	// Meaningful only if IsRelay.
	LinkAddr, PeerAddr Addr

	// Valid reports whether the packet was well-formed enough to act on.
	Valid bool
}
