package dhcpopt

import (
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
)

// bucketLadder returns the smallest prime-ish bucket count from the
// 17/31/61/127 ladder that comfortably holds expectedCount entries.
// Grounded on the BIND dhcpd lineage's new_hash_table sizing and "17–128
// buckets" (see SPEC_FULL.md's dropped-feature supplement #2).
func bucketLadder(expectedCount int) (n int) {
	switch {
	case expectedCount <= 17:
		return 17
	case expectedCount <= 31:
		return 31
	case expectedCount <= 61:
		return 61
	default:
		return 127
	}
}

// hashedTable is an open-chained hash table keyed by option code, used by
// universes whose [Universe.Discipline] is [DisciplineHashed].
type hashedTable struct {
	buckets [][]*OptionCache
}

// newHashedTable returns an empty hashedTable sized for expectedCount
// entries.
func newHashedTable(expectedCount int) (t *hashedTable) {
	return &hashedTable{buckets: make([][]*OptionCache, bucketLadder(expectedCount))}
}

func (t *hashedTable) bucketIdx(code uint32) (idx int) {
	return int(code) % len(t.buckets)
}

// lookup returns the (possibly chained) entry stored under code.
func (t *hashedTable) lookup(code uint32) (c *OptionCache, ok bool) {
	idx := t.bucketIdx(code)
	for _, c := range t.buckets[idx] {
		if c.Descriptor.Code == code {
			return c, true
		}
	}

	return nil, false
}

// save inserts entry, replacing any existing entry with the same code.
func (t *hashedTable) save(entry *OptionCache) {
	idx := t.bucketIdx(entry.Descriptor.Code)
	bucket := t.buckets[idx]

	for i, c := range bucket {
		if c.Descriptor.Code == entry.Descriptor.Code {
			bucket[i] = entry

			return
		}
	}

	t.buckets[idx] = append(bucket, entry)
}

// delete removes the entry stored under code, if any.
func (t *hashedTable) delete(code uint32) {
	idx := t.bucketIdx(code)
	bucket := t.buckets[idx]

	for i, c := range bucket {
		if c.Descriptor.Code == code {
			t.buckets[idx] = append(bucket[:i], bucket[i+1:]...)

			return
		}
	}
}

// foreach calls fn for every entry in t, stopping early if fn returns false.
func (t *hashedTable) foreach(fn func(c *OptionCache) (cont bool)) {
	for _, bucket := range t.buckets {
		for _, c := range bucket {
			if !fn(c) {
				return
			}
		}
	}
}

// linkedChain is an ordered list of entries, used by universes whose
// [Universe.Discipline] is [DisciplineLinked] (e.g. FQDN sub-options, where
// emission order must equal configuration order).
type linkedChain struct {
	entries []*OptionCache
}

func (l *linkedChain) lookup(code uint32) (c *OptionCache, ok bool) {
	for _, c := range l.entries {
		if c.Descriptor.Code == code {
			return c, true
		}
	}

	return nil, false
}

func (l *linkedChain) save(entry *OptionCache) {
	for i, c := range l.entries {
		if c.Descriptor.Code == entry.Descriptor.Code {
			l.entries[i] = entry

			return
		}
	}

	l.entries = append(l.entries, entry)
}

func (l *linkedChain) delete(code uint32) {
	for i, c := range l.entries {
		if c.Descriptor.Code == code {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)

			return
		}
	}
}

func (l *linkedChain) foreach(fn func(c *OptionCache) (cont bool)) {
	for _, c := range l.entries {
		if !fn(c) {
			return
		}
	}
}

// universeSlot holds one universe's portion of an [OptionState], using
// whichever discipline the universe selects.
type universeSlot struct {
	universe *Universe
	hashed *hashedTable
	linked *linkedChain
}

func newUniverseSlot(u *Universe, expectedCount int) (s *universeSlot) {
	s = &universeSlot{universe: u}

	if u.Discipline == DisciplineHashed {
		s.hashed = newHashedTable(expectedCount)
	} else {
		s.linked = &linkedChain{}
	}

	return s
}

func (s *universeSlot) lookup(code uint32) (c *OptionCache, ok bool) {
	if s.hashed != nil {
		return s.hashed.lookup(code)
	}

	return s.linked.lookup(code)
}

func (s *universeSlot) save(entry *OptionCache) {
	if s.hashed != nil {
		s.hashed.save(entry)

		return
	}

	s.linked.save(entry)
}

func (s *universeSlot) delete(code uint32) {
	if s.hashed != nil {
		s.hashed.delete(code)

		return
	}

	s.linked.delete(code)
}

func (s *universeSlot) foreach(fn func(c *OptionCache) (cont bool)) {
	if s.hashed != nil {
		s.hashed.foreach(fn)

		return
	}

	s.linked.foreach(fn)
}

// OptionState is a per-packet or per-configuration container of
// option-cache entries, physically a map keyed by universe index. The
// zero value is not usable; use [NewOptionState].
type OptionState struct {
	registry *Registry
	catalog *Catalog
	slots map[int]*universeSlot
	vsio *VSIOSet
}

// NewOptionState returns an empty OptionState bound to reg and cat.
func NewOptionState(reg *Registry, cat *Catalog) (s *OptionState) {
	return &OptionState{
		registry: reg,
		catalog: cat,
		slots: map[int]*universeSlot{},
	}
}

// VSIO returns (creating if necessary) the per-enterprise VSIO sub-option
// set attached to s.
func (s *OptionState) VSIO() (set *VSIOSet) {
	if s.vsio == nil {
		s.vsio = NewVSIOSet()
	}

	return s.vsio
}

// slotFor returns (creating if necessary) the slot for u.
func (s *OptionState) slotFor(u *Universe) (slot *universeSlot) {
	slot, ok := s.slots[u.Index]
	if !ok {
		slot = newUniverseSlot(u, 32)
		s.slots[u.Index] = slot
	}

	return slot
}

// Lookup returns the entry (or chain head) stored for code within u.
func (s *OptionState) Lookup(u *Universe, code uint32) (c *OptionCache, ok bool) {
	slot, ok := s.slots[u.Index]
	if !ok {
		return nil, false
	}

	return slot.lookup(code)
}

// Save stores entry under u, replacing any existing entry (and its chain)
// with the same code.
func (s *OptionState) Save(u *Universe, entry *OptionCache) {
	s.slotFor(u).save(entry)
}

// Delete removes the entry stored for code within u.
func (s *OptionState) Delete(u *Universe, code uint32) {
	if slot, ok := s.slots[u.Index]; ok {
		slot.delete(code)
	}
}

// Foreach calls fn for every entry stored within u, stopping early if fn
// returns false.
func (s *OptionState) Foreach(u *Universe, fn func(c *OptionCache) (cont bool)) {
	if slot, ok := s.slots[u.Index]; ok {
		slot.foreach(fn)
	}
}

// Ingest records a freshly parsed raw payload for code within u, honoring
// the per-universe duplicate-handling rule: concatenation for universes
// with ConcatDuplicates, or an insertion-order chain otherwise. This is
// distinct from [OptionState.Save], which implements the
// unconditional-replace semantics configuration composition needs; Ingest
// is used exclusively by the parser.
func (s *OptionState) Ingest(u *Universe, d *Descriptor, payload []byte, terminated, hadNulls bool) {
	slot := s.slotFor(u)

	if u.ConcatDuplicates {
		if existing, ok := slot.lookup(d.Code); ok {
			existing.Data = append(append([]byte(nil), existing.Data...), payload...)
			existing.Terminated = existing.Terminated || terminated
			existing.HadNulls = existing.HadNulls || hadNulls

			return
		}

		slot.save(&OptionCache{
			Descriptor: d,
			Data:       append([]byte(nil), payload...),
			Terminated: terminated,
			HadNulls:   hadNulls,
		})

		return
	}

	entry := &OptionCache{Descriptor: d, Data: payload, Terminated: terminated, HadNulls: hadNulls}

	if existing, ok := slot.lookup(d.Code); ok {
		chainAppend(existing, entry)

		return
	}

	slot.save(entry)
}

// CompositionOp is a configuration-time composition operator.
type CompositionOp uint8

const (
	// OpDefault writes only if no existing entry for the code exists.
	OpDefault CompositionOp = iota

	// OpSupersede unconditionally replaces any existing entry.
	OpSupersede

	// OpAppend produces concat(old, new).
	OpAppend

	// OpPrepend produces concat(new, old).
	OpPrepend
)

// Apply performs a configuration-time composition of value into the entry
// stored under code within u.
func (s *OptionState) Apply(u *Universe, code uint32, op CompositionOp, value Expression) (err error) {
	defer func() { err = errors.Annotate(err, "applying option %d in %s: %w", code, u.Name) }()

	d, _ := s.catalog.Lookup(u.Name, code)

	existing, hasExisting := s.Lookup(u, code)

	switch op {
	case OpDefault:
		if hasExisting {
			return nil
		}

		s.Save(u, &OptionCache{Descriptor: d, Expr: value})

	case OpSupersede:
		s.Save(u, &OptionCache{Descriptor: d, Expr: value})

	case OpAppend:
		expr := value
		if hasExisting {
			expr = &concatExpr{a: asExpression(existing), b: value}
		}

		s.Save(u, &OptionCache{Descriptor: d, Expr: expr})

	case OpPrepend:
		expr := value
		if hasExisting {
			expr = &concatExpr{a: value, b: asExpression(existing)}
		}

		s.Save(u, &OptionCache{Descriptor: d, Expr: expr})

	default:
		return fmt.Errorf("composition op %d: %w", op, errBadCompositionOp)
	}

	return nil
}

// errBadCompositionOp is returned by [OptionState.Apply] for an unknown
// [CompositionOp] value.
const errBadCompositionOp errors.Error = "unknown composition operator"
