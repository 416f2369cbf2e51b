package dhcpopt

// Engine bundles a frozen [Registry] and its [Catalog], the minimal pair
// every [Parser] and [Assembler] needs. Construct one with [NewEngine]
// rather than registering universes by hand, unless a caller genuinely
// wants a non-standard universe set.
type Engine struct {
	Registry *Registry
	Catalog *Catalog
}

// NewEngine builds and freezes a [Registry] carrying every universe this
// package knows about out of the box (DHCPv4, DHCPv6, FQDN, VSIO,
// relay-agent-information, vendor-encapsulated-options), along with a
// [Catalog] of their well-known option descriptors. Hosts add
// site-specific or vendor descriptors to e.Catalog via [Catalog.Register]
// before freezing their own configuration, since the registry itself locks
// universes, not descriptors.
func NewEngine() (e *Engine, err error) {
	reg := NewRegistry()
	cat := NewCatalog()

	registrars := []func(*Registry, *Catalog) error{
		RegisterWellKnownDHCPv4,
		RegisterWellKnownDHCPv6,
		RegisterWellKnownFQDN,
		RegisterWellKnownAgent,
		func(r *Registry, c *Catalog) error { return RegisterVendorEncapsulated(r) },
		func(r *Registry, c *Catalog) error { return RegisterVSIO(r) },
	}

	for _, register := range registrars {
		if err = register(reg, cat); err != nil {
			return nil, err
		}
	}

	wireEncapsulation(reg, cat)

	reg.Freeze()

	return &Engine{Registry: reg, Catalog: cat}, nil
}

// wireEncapsulation sets each universe's [Universe.EncOpt] to the first
// descriptor, across every registered universe, whose format encapsulates
// it. This is informational (error messages, introspection); the
// assembler itself discovers encapsulating descriptors per-universe via
// [Catalog.ByUniverse] so that a sub-universe reachable from more than one
// enclosing option (e.g. "fqdn" from both DHCPv4 option 81 and DHCPv6
// option 39) still gets assembled correctly from each side.
func wireEncapsulation(reg *Registry, cat *Catalog) {
	for idx := 0; idx < reg.Len(); idx++ {
		outer, ok := reg.ByIndex(idx)
		if !ok {
			continue
		}

		for _, d := range cat.ByUniverse(outer.Name) {
			space, _, hasEncap := d.Format.Encapsulation()
			if !hasEncap {
				continue
			}

			sub, ok := reg.ByName(space)
			if ok && sub.EncOpt == nil {
				sub.EncOpt = d
			}
		}
	}
}
