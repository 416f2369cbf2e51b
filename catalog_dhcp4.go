package dhcpopt

import "github.com/google/gopacket/layers"

// DHCPv4 option codes referenced directly by the engine's control flow
// (overload handling, priority-list construction, message-type extraction).
// Named after their RFC 2132 option numbers; full descriptors for these and
// the rest of the well-known codes are registered by
// [RegisterWellKnownDHCPv4]. Where dhcpsvc's package names
// a code through gopacket/layers, this engine reuses that constant instead
// of re-declaring the RFC number by hand; the remaining codes below have no
// layers.DHCPOpt* equivalent dhcpsvc actually reaches for, so they stay
// as plain RFC-numbered constants (see DESIGN.md).
const (
	OptSubnetMask = uint32(layers.DHCPOptSubnetMask)
	OptRouters = uint32(layers.DHCPOptRouter)
	OptDomainNameServers = uint32(layers.DHCPOptDNS)
	OptHostName = uint32(layers.DHCPOptHostname)
	OptDomainName = uint32(layers.DHCPOptDomainName)
	OptBroadcastAddress = uint32(layers.DHCPOptBroadcastAddr)
	OptVendorEncapsulated = uint32(layers.DHCPOptVendorOption)
	OptRequestedAddress = uint32(layers.DHCPOptRequestIP)
	OptLeaseTime = uint32(layers.DHCPOptLeaseTime)
	OptServerIdentifier = uint32(layers.DHCPOptServerID)
	OptParameterRequestList = uint32(layers.DHCPOptParamsRequest)
	OptMessageType = uint32(layers.DHCPOptMessageType)
	OptRenewalTime = uint32(layers.DHCPOptT1)
	OptRebindingTime = uint32(layers.DHCPOptT2)

	OptOverload = 52
	OptMessage = 56
	OptMaxMessageSize = 57
	OptVendorClassIdentifier = 60
	OptClientIdentifier = 61
	OptFQDN = 81
	OptRelayAgentInformation = 82
	OptSubnetSelection = 118
	OptAssociatedIP = 192
)

// DHCPv4 message types (option 53 values) the engine's partial-parse
// tolerance rule inspects directly.
const (
	MsgTypeDiscover = uint32(layers.DHCPMsgTypeDiscover)
	MsgTypeOffer = uint32(layers.DHCPMsgTypeOffer)
	MsgTypeRequest = uint32(layers.DHCPMsgTypeRequest)
	MsgTypeDecline = uint32(layers.DHCPMsgTypeDecline)
	MsgTypeAck = uint32(layers.DHCPMsgTypeAck)
	MsgTypeNak = uint32(layers.DHCPMsgTypeNak)
	MsgTypeRelease = uint32(layers.DHCPMsgTypeRelease)
	MsgTypeInform = uint32(layers.DHCPMsgTypeInform)
)

// dhcpv4MagicCookie marks the start of the DHCP option stream in an IPv4
// datagram.
var dhcpv4MagicCookie = [4]byte{0x63, 0x82, 0x53, 0x63}

// UniverseDHCPv4 is the name of the root DHCPv4 option namespace.
const UniverseDHCPv4 = "dhcp"

// NewDHCPv4Universe returns the (unregistered) DHCPv4 root universe
// descriptor: 1-byte tag and length, END=255, PAD=0, non-concatenating,
// hashed storage. Grounded on wire format description.
func NewDHCPv4Universe() (u *Universe) {
	return &Universe{
		Name: UniverseDHCPv4,
		TagSize: 1,
		LengthSize: 1,
		EndTag: 255,
		PadTag: 0,
		HasPadTag: true,
		ConcatDuplicates: false,
		Discipline: DisciplineHashed,
	}
}

// wellKnownDHCPv4Options lists (code, name, format) for the RFC 2132 options
// the engine's own control flow or assembler priority list inspects by
// name, plus a representative sample of the rest of the well-known space.
// Hosts may register additional descriptors via [Catalog.Register].
var wellKnownDHCPv4Options = []struct {
	name string
	format string
	code uint32
}{
	{code: OptSubnetMask, name: "subnet-mask", format: "I"},
	{code: OptRouters, name: "routers", format: "Ia"},
	{code: OptDomainNameServers, name: "domain-name-servers", format: "Ia"},
	{code: 7, name: "log-servers", format: "Ia"},
	{code: 9, name: "lpr-servers", format: "Ia"},
	{code: OptHostName, name: "host-name", format: "t"},
	{code: 13, name: "boot-size", format: "S"},
	{code: OptDomainName, name: "domain-name", format: "t"},
	{code: 23, name: "default-ip-ttl", format: "B"},
	{code: OptBroadcastAddress, name: "broadcast-address", format: "I"},
	{code: 35, name: "arp-cache-timeout", format: "L"},
	{code: 38, name: "tcp-keepalive-interval", format: "L"},
	{code: OptVendorEncapsulated, name: "vendor-encapsulated-options", format: "E.vendor-encapsulated."},
	{code: 44, name: "netbios-name-servers", format: "Ia"},
	{code: 46, name: "netbios-node-type", format: "B"},
	{code: OptRequestedAddress, name: "dhcp-requested-address", format: "I"},
	{code: OptLeaseTime, name: "dhcp-lease-time", format: "T"},
	{code: OptOverload, name: "dhcp-option-overload", format: "B"},
	{code: OptMessageType, name: "dhcp-message-type", format: "N.msg-type-v4."},
	{code: OptServerIdentifier, name: "dhcp-server-identifier", format: "I"},
	{code: OptParameterRequestList, name: "dhcp-parameter-request-list", format: "Ba"},
	{code: OptMessage, name: "dhcp-message", format: "t"},
	{code: OptMaxMessageSize, name: "dhcp-max-message-size", format: "S"},
	{code: OptRenewalTime, name: "dhcp-renewal-time", format: "L"},
	{code: OptRebindingTime, name: "dhcp-rebinding-time", format: "L"},
	{code: OptVendorClassIdentifier, name: "vendor-class-identifier", format: "X"},
	{code: OptClientIdentifier, name: "dhcp-client-identifier", format: "X"},
	{code: 77, name: "user-class", format: "X"},
	{code: OptFQDN, name: "fqdn", format: "e.fqdn."},
	{code: OptRelayAgentInformation, name: "agent-information", format: "E.agent."},
	{code: OptSubnetSelection, name: "subnet-selection", format: "I"},
	{code: OptAssociatedIP, name: "associated-ip", format: "Ia"},
}

// RegisterWellKnownDHCPv4 registers the DHCPv4 root universe and its
// well-known option descriptors into reg and cat.
func RegisterWellKnownDHCPv4(reg *Registry, cat *Catalog) (err error) {
	u := NewDHCPv4Universe()
	if err = reg.Register(u); err != nil {
		return err
	}

	for _, o := range wellKnownDHCPv4Options {
		d := &Descriptor{Universe: UniverseDHCPv4, Code: o.code, Name: o.name, FormatStr: o.format}
		if err = cat.Register(d); err != nil {
			return err
		}
	}

	return nil
}
