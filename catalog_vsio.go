package dhcpopt

// UniverseVSIO is the name of the Vendor-Specific Information Option
// sub-universe : the common 2-byte tag/length suboption syntax
// shared by every enterprise's vendor options, carried inside DHCPv6 option
// 17 as `<enterprise-id:4><TLV-stream>`.
const UniverseVSIO = "vsio"

// NewVSIOUniverse returns the (unregistered) VSIO sub-universe: 2-byte
// tag/length, hashed storage, site/vendor defined contents.
func NewVSIOUniverse() (u *Universe) {
	return &Universe{
		Name: UniverseVSIO,
		TagSize: 2,
		LengthSize: 2,
		EndTag: noEndTag,
		Discipline: DisciplineHashed,
	}
}

// RegisterVSIO registers an empty VSIO universe into reg; hosts add their
// own enterprise-specific descriptors via [Catalog.Register].
func RegisterVSIO(reg *Registry) (err error) {
	return reg.Register(NewVSIOUniverse())
}

// VSIOSet holds one [OptionState] per enterprise number, all sharing the
// "vsio" universe's suboption syntax. This is how the engine represents
// "a universe parametrized per enterprise-id" without requiring a fresh
// [Universe] registration for every enterprise seen on the wire.
type VSIOSet struct {
	byEnterprise map[uint32]*OptionState
}

// NewVSIOSet returns an empty VSIOSet.
func NewVSIOSet() (s *VSIOSet) {
	return &VSIOSet{byEnterprise: map[uint32]*OptionState{}}
}

// StateFor returns (creating if necessary) the OptionState for enterpriseID.
func (s *VSIOSet) StateFor(reg *Registry, cat *Catalog, enterpriseID uint32) (state *OptionState) {
	state, ok := s.byEnterprise[enterpriseID]
	if !ok {
		state = NewOptionState(reg, cat)
		s.byEnterprise[enterpriseID] = state
	}

	return state
}

// Enterprises returns the set of configured enterprise IDs, in unspecified
// order; callers needing a deterministic emission order should sort it.
func (s *VSIOSet) Enterprises() (ids []uint32) {
	ids = make([]uint32, 0, len(s.byEnterprise))
	for id := range s.byEnterprise {
		ids = append(ids, id)
	}

	return ids
}
