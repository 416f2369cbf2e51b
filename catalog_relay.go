package dhcpopt

// UniverseAgent is the name of the relay-agent-information (v4 option 82)
// sub-universe. Preserved bit-exact as presented by the relay; never
// reordered under client PRL control; always emitted last in the main
// buffer.
const UniverseAgent = "agent"

// Relay-agent-information sub-option codes (RFC 3046).
const (
	AgentCircuitID = 1
	AgentRemoteID = 2
)

// NewAgentUniverse returns the (unregistered) relay-agent-information
// sub-universe: 1-byte tag/length, hashed storage, non-concatenating (each
// sub-option code appears at most once per relayed packet in practice, but
// the universe does not require it).
func NewAgentUniverse() (u *Universe) {
	return &Universe{
		Name: UniverseAgent,
		TagSize: 1,
		LengthSize: 1,
		EndTag: noEndTag,
		Discipline: DisciplineHashed,
	}
}

var agentSubOptions = []struct {
	name string
	format string
	code uint32
}{
	{code: AgentCircuitID, name: "circuit-id", format: "X"},
	{code: AgentRemoteID, name: "remote-id", format: "X"},
}

// RegisterWellKnownAgent registers the relay-agent-information sub-universe
// and its well-known sub-option descriptors into reg and cat.
func RegisterWellKnownAgent(reg *Registry, cat *Catalog) (err error) {
	u := NewAgentUniverse()
	if err = reg.Register(u); err != nil {
		return err
	}

	for _, o := range agentSubOptions {
		d := &Descriptor{Universe: UniverseAgent, Code: o.code, Name: o.name, FormatStr: o.format}
		if err = cat.Register(d); err != nil {
			return err
		}
	}

	return nil
}

// UniverseVendorEncapsulated is the name of the vendor-encapsulated-options
// (v4 option 43) sub-universe.
const UniverseVendorEncapsulated = "vendor-encapsulated"

// NewVendorEncapsulatedUniverse returns the (unregistered)
// vendor-encapsulated-options sub-universe: 1-byte tag/length, hashed
// storage, site-defined contents.
func NewVendorEncapsulatedUniverse() (u *Universe) {
	return &Universe{
		Name: UniverseVendorEncapsulated,
		TagSize: 1,
		LengthSize: 1,
		EndTag: noEndTag,
		Discipline: DisciplineHashed,
	}
}

// RegisterVendorEncapsulated registers an empty vendor-encapsulated-options
// universe into reg; hosts add their own vendor-specific descriptors via
// [Catalog.Register].
func RegisterVendorEncapsulated(reg *Registry) (err error) {
	return reg.Register(NewVendorEncapsulatedUniverse())
}
