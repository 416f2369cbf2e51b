package dhcpopt

import "github.com/google/gopacket/layers"

// DHCPv6 option codes the engine's own control flow inspects. gopacket/layers declares no per-option-code constants
// for DHCPv6 (only the DHCPv6Option/DHCPv6Options wire types), so these stay
// plain RFC 8415 option numbers (see DESIGN.md).
const (
	OptV6ClientID = 1
	OptV6ServerID = 2
	OptV6IANA = 3
	OptV6IATA = 4
	OptV6IAAddr = 5
	OptV6ORO = 6
	OptV6Preference = 7
	OptV6ElapsedTime = 8
	OptV6StatusCode = 13
	OptV6VendorClass = 16
	OptV6VendorOpts = 17
	OptV6InterfaceID = 18
	OptV6ReconfMsg = 19
	OptV6DNSServers = 23
	OptV6DomainList = 24
	OptV6ClientFQDN = 39
)

// DHCPv6 message types. The subset dhcpsvc's package names
// through gopacket/layers is reused here; RELAY-FORW/RELAY-REPL and the
// three server-to-client types it never references (ADVERTISE, REPLY,
// RECONFIGURE) stay as plain RFC 8415 numbers (see DESIGN.md).
const (
	MsgTypeV6Solicit = uint32(layers.DHCPv6MsgTypeSolicit)
	MsgTypeV6Advertise = 2
	MsgTypeV6Request = uint32(layers.DHCPv6MsgTypeRequest)
	MsgTypeV6Confirm = uint32(layers.DHCPv6MsgTypeConfirm)
	MsgTypeV6Renew = uint32(layers.DHCPv6MsgTypeRenew)
	MsgTypeV6Rebind = uint32(layers.DHCPv6MsgTypeRebind)
	MsgTypeV6Reply = 7
	MsgTypeV6Release = uint32(layers.DHCPv6MsgTypeRelease)
	MsgTypeV6Decline = uint32(layers.DHCPv6MsgTypeDecline)
	MsgTypeV6Reconfigure = 10
	MsgTypeV6InformationRequest = uint32(layers.DHCPv6MsgTypeInformationRequest)
	MsgTypeV6RelayForw = 12
	MsgTypeV6RelayRepl = 13
)

// UniverseDHCPv6 is the name of the root DHCPv6 option namespace.
const UniverseDHCPv6 = "dhcpv6"

// NewDHCPv6Universe returns the (unregistered) DHCPv6 root universe: 2-byte
// tag and length, no terminator or pad tag (the stream ends when the buffer
// is exhausted), hashed storage, duplicates chained rather than
// concatenated.
func NewDHCPv6Universe() (u *Universe) {
	return &Universe{
		Name: UniverseDHCPv6,
		TagSize: 2,
		LengthSize: 2,
		EndTag: noEndTag,
		ConcatDuplicates: false,
		Discipline: DisciplineHashed,
	}
}

// noEndTag is an out-of-range sentinel for universes with no wire
// terminator tag (DHCPv6 options run to the end of the buffer): no tag
// width the engine supports can ever decode to this value.
const noEndTag uint32 = 0xFFFFFFFF

var wellKnownDHCPv6Options = []struct {
	name string
	format string
	code uint32
}{
	{code: OptV6ClientID, name: "client-id", format: "X"},
	{code: OptV6ServerID, name: "server-id", format: "X"},
	{code: OptV6IANA, name: "ia-na", format: "X"},
	{code: OptV6IATA, name: "ia-ta", format: "X"},
	{code: OptV6IAAddr, name: "iaaddr", format: "X"},
	{code: OptV6ORO, name: "oro", format: "Sa"},
	{code: OptV6Preference, name: "preference", format: "B"},
	{code: OptV6ElapsedTime, name: "elapsed-time", format: "S"},
	{code: OptV6StatusCode, name: "status-code", format: "St"},
	{code: OptV6VendorClass, name: "vendor-class", format: "Lx"},
	{code: OptV6VendorOpts, name: "vendor-opts", format: "e.vsio."},
	{code: OptV6InterfaceID, name: "interface-id", format: "X"},
	{code: OptV6ReconfMsg, name: "reconf-msg", format: "B"},
	{code: OptV6DNSServers, name: "dns-servers", format: "X"},
	{code: OptV6DomainList, name: "domain-search-list", format: "D"},
	{code: OptV6ClientFQDN, name: "fqdn", format: "e.fqdn."},
}

// RegisterWellKnownDHCPv6 registers the DHCPv6 root universe and its
// well-known option descriptors into reg and cat.
func RegisterWellKnownDHCPv6(reg *Registry, cat *Catalog) (err error) {
	u := NewDHCPv6Universe()
	if err = reg.Register(u); err != nil {
		return err
	}

	for _, o := range wellKnownDHCPv6Options {
		d := &Descriptor{Universe: UniverseDHCPv6, Code: o.code, Name: o.name, FormatStr: o.format}
		if err = cat.Register(d); err != nil {
			return err
		}
	}

	return nil
}
