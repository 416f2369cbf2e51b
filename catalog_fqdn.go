package dhcpopt

// UniverseFQDN is the name of the canonical FQDN (v4 option 81 / v6 option
// 39) sub-universe. Unlike the wire TLV universes, its entries are never
// produced by the generic [Parser.parseInto] walk: [decodeFQDN] builds them
// directly from the option's fixed wire layout.
const UniverseFQDN = "fqdn"

// FQDN sub-option codes, synthetic (there is no wire tag/length for these;
// they exist only as [OptionCache] entries within the "fqdn" universe).
const (
	FQDNEncoded = 1
	FQDNServerUpdate = 2
	FQDNNoClientUpdate = 3
	FQDNRcode1 = 4
	FQDNRcode2 = 5
	FQDNHostname = 6
	FQDNDomainname = 7
	FQDNWhole = 8
)

// NewFQDNUniverse returns the (unregistered) FQDN sub-universe: ordered
// (linked) storage, since the canonical sub-entries must be emitted in a
// fixed, meaningful order rather than by hash bucket. TagSize/LengthSize
// describe the synthetic sub-entries' own in-memory bookkeeping only; the
// real option 81 / v6 option 39 wire payload is rebuilt by [encodeFQDN] via
// [Universe.Encapsulate], never by the generic TLV walk.
func NewFQDNUniverse() (u *Universe) {
	u = &Universe{
		Name: UniverseFQDN,
		TagSize: 1,
		LengthSize: 1,
		EndTag: noEndTag,
		Discipline: DisciplineLinked,
	}

	u.Encapsulate = func(state *OptionState, scope EvalScope) (payload []byte) {
		return encodeFQDN(u, state, scope)
	}

	return u
}

var fqdnSubOptions = []struct {
	name string
	format string
	code uint32
}{
	{code: FQDNEncoded, name: "encoded", format: "f"},
	{code: FQDNServerUpdate, name: "server-update", format: "f"},
	{code: FQDNNoClientUpdate, name: "no-client-update", format: "f"},
	{code: FQDNRcode1, name: "rcode1", format: "B"},
	{code: FQDNRcode2, name: "rcode2", format: "B"},
	{code: FQDNHostname, name: "hostname", format: "t"},
	{code: FQDNDomainname, name: "domainname", format: "t"},
	{code: FQDNWhole, name: "fqdn", format: "d"},
}

// RegisterWellKnownFQDN registers the FQDN sub-universe and its canonical
// sub-option descriptors into reg and cat.
func RegisterWellKnownFQDN(reg *Registry, cat *Catalog) (err error) {
	u := NewFQDNUniverse()
	if err = reg.Register(u); err != nil {
		return err
	}

	for _, o := range fqdnSubOptions {
		d := &Descriptor{Universe: UniverseFQDN, Code: o.code, Name: o.name, FormatStr: o.format}
		if err = cat.Register(d); err != nil {
			return err
		}
	}

	return nil
}
