// Package dhcpopt implements the option parsing, storage, and assembly
// engine shared by DHCPv4 (RFC 2131/2132) and DHCPv6 (RFC 3315) option
// spaces: decoding raw TLV option streams into a configured-option store,
// and re-emitting them into outbound packets under size, ordering, and
// priority rules.
//
// The network I/O layer, the lease/client state machine, and the
// configuration-file parser are external collaborators; this package only
// ever sees buffers and configured option trees.
package dhcpopt

import (
	"fmt"
	"sync"

	"github.com/AdguardTeam/golibs/errors"
)

// StorageDiscipline selects how a universe keeps its option-cache entries.
//
// See [OptionState].
type StorageDiscipline uint8

const (
	// DisciplineHashed stores entries in a bucketed hash table keyed by
	// code, for universes where random access dominates (DHCPv4, DHCPv6,
	// site-local, vendor-encapsulated).
	DisciplineHashed StorageDiscipline = iota

	// DisciplineLinked stores entries in an ordered chain, for universes
	// whose emission order must equal configuration order (FQDN
	// sub-options).
	DisciplineLinked
)

// String implements the [fmt.Stringer] interface for StorageDiscipline.
func (d StorageDiscipline) String() (s string) {
	switch d {
	case DisciplineHashed:
		return "hashed"
	case DisciplineLinked:
		return "linked"
	default:
		return fmt.Sprintf("StorageDiscipline(%d)", uint8(d))
	}
}

// Universe describes a single option namespace. Identity is [Universe.Index]
// once registered; the zero value is not a valid Universe.
//
// Universes are registered once at startup via [Registry.Register] and must
// not be mutated afterwards; see [Registry.Freeze].
type Universe struct {
	// EncOpt is the option descriptor, in another universe, whose payload
	// carries this universe, or nil if this universe is not reached through
	// encapsulation (e.g. the root DHCPv4/DHCPv6 universes).
	EncOpt *Descriptor

	// Name is the human-readable, globally unique namespace name, e.g.
	// "dhcp", "dhcpv6", "fqdn", "vendor-encapsulated", "agent", "vsio".
	Name string

	// Index is the numeric registry slot. Assigned by [Registry.Register].
	Index int

	// TagSize is the width, in bytes, of an option tag: 1, 2, or 4.
	TagSize int

	// LengthSize is the width, in bytes, of an option length field: 0, 1,
	// 2, or 4. Zero means the payload consumes the remainder of the
	// enclosing buffer.
	LengthSize int

	// EndTag is the sentinel tag value that terminates the option stream.
	EndTag uint32

	// PadTag, when HasPadTag is true, is a tag that carries no length or
	// payload and simply advances the cursor by TagSize (DHCPv4 code 0).
	PadTag uint32

	// HasPadTag reports whether PadTag is meaningful for this universe.
	HasPadTag bool

	// ConcatDuplicates, when true, means repeated occurrences of the same
	// code are concatenated into a single entry rather than chained.
	ConcatDuplicates bool

	// Discipline selects the storage/lookup strategy for this universe's
	// option state.
	Discipline StorageDiscipline

	// Encapsulate, when non-nil, replaces the generic per-sub-option TLV
	// walk normally used to assemble this universe's content when it is
	// reached through encapsulation. Universes whose wire layout is not
	// itself a TLV stream of their sub-options (e.g. FQDN's fixed
	// flags/rcode/name layout) set this to rebuild that layout from the
	// canonical sub-entries instead.
	Encapsulate EncapsulateFunc
}

// EncapsulateFunc rebuilds a sub-universe's wire payload from the entries
// state holds for it, for universes whose [Universe.Encapsulate] is set.
type EncapsulateFunc func(state *OptionState, scope EvalScope) (payload []byte)

// Validate implements a validate.Interface-shaped contract for *Universe: it
// reports configuration inconsistencies that must be fatal at startup.
func (u *Universe) Validate() (err error) {
	if u == nil {
		return errNilUniverse
	}

	if u.Name == "" {
		return errors.Error("universe: empty name")
	}

	switch u.TagSize {
	case 1, 2, 4:
	default:
		return fmt.Errorf("universe %s: tag size %d: %w", u.Name, u.TagSize, errBadWidth)
	}

	switch u.LengthSize {
	case 0, 1, 2, 4:
	default:
		return fmt.Errorf("universe %s: length size %d: %w", u.Name, u.LengthSize, errBadWidth)
	}

	return nil
}

// errNilUniverse and errBadWidth are the static errors returned by
// [Universe.Validate]; see [internal/dhcpd/config.go]'s errNilConfig for the
// constant-error-value convention this follows.
const (
	errNilUniverse errors.Error = "universe: nil"
	errBadWidth errors.Error = "unsupported field width"
)

// getTag reads a tag from the front of buf using u's tag width.
func (u *Universe) getTag(buf []byte) (tag uint32) {
	switch u.TagSize {
	case 1:
		return uint32(buf[0])
	case 2:
		return uint32(buf[0])<<8 | uint32(buf[1])
	case 4:
		return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	default:
		panic(fmt.Errorf("universe %s: %w", u.Name, errBadWidth))
	}
}

// putTag writes tag to the front of buf using u's tag width.
func (u *Universe) putTag(buf []byte, tag uint32) {
	switch u.TagSize {
	case 1:
		buf[0] = byte(tag)
	case 2:
		buf[0], buf[1] = byte(tag>>8), byte(tag)
	case 4:
		buf[0], buf[1], buf[2], buf[3] = byte(tag>>24), byte(tag>>16), byte(tag>>8), byte(tag)
	default:
		panic(fmt.Errorf("universe %s: %w", u.Name, errBadWidth))
	}
}

// getLength reads a length from the front of buf using u's length width.
// getLength must not be called when u.LengthSize is 0.
func (u *Universe) getLength(buf []byte) (length int) {
	switch u.LengthSize {
	case 1:
		return int(buf[0])
	case 2:
		return int(buf[0])<<8 | int(buf[1])
	case 4:
		return int(buf[0])<<24 | int(buf[1])<<16 | int(buf[2])<<8 | int(buf[3])
	default:
		panic(fmt.Errorf("universe %s: %w", u.Name, errBadWidth))
	}
}

// putLength writes length to the front of buf using u's length width.
func (u *Universe) putLength(buf []byte, length int) {
	switch u.LengthSize {
	case 1:
		buf[0] = byte(length)
	case 2:
		buf[0], buf[1] = byte(length>>8), byte(length)
	case 4:
		buf[0], buf[1], buf[2], buf[3] = byte(length>>24), byte(length>>16), byte(length>>8), byte(length)
	default:
		panic(fmt.Errorf("universe %s: %w", u.Name, errBadWidth))
	}
}

// Registry is the process-wide set of registered universes. It is frozen
// after initialization: [Registry.Register] returns an error once
// [Registry.Freeze] has been called, and reads are safe for concurrent use
// at any time.
type Registry struct {
	mu sync.RWMutex
	byName map[string]*Universe
	byIndex map[int]*Universe
	nextIdx int
	isFrozen bool
}

// NewRegistry returns an empty, unfrozen Registry.
func NewRegistry() (r *Registry) {
	return &Registry{
		byName: map[string]*Universe{},
		byIndex: map[int]*Universe{},
	}
}

// Register assigns u an index and adds it to r. It returns an error if u is
// invalid, its name is already taken, or r is frozen.
func (r *Registry) Register(u *Universe) (err error) {
	defer func() { err = errors.Annotate(err, "registering universe: %w") }()

	if err = u.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isFrozen {
		return fmt.Errorf("%s: %w", u.Name, errRegistryFrozen)
	}

	if _, ok := r.byName[u.Name]; ok {
		return fmt.Errorf("%s: %w", u.Name, errDuplicateUniverse)
	}

	u.Index = r.nextIdx
	r.nextIdx++

	r.byName[u.Name] = u
	r.byIndex[u.Index] = u

	return nil
}

// Freeze marks r as immutable. Subsequent calls to [Registry.Register]
// return an error.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.isFrozen = true
}

// ByName returns the universe registered under name, if any.
func (r *Registry) ByName(name string) (u *Universe, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok = r.byName[name]

	return u, ok
}

// ByIndex returns the universe registered at idx, if any.
func (r *Registry) ByIndex(idx int) (u *Universe, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok = r.byIndex[idx]

	return u, ok
}

// Len returns the number of registered universes.
func (r *Registry) Len() (n int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byName)
}

const (
	// errRegistryFrozen is returned by [Registry.Register] once the
	// registry has been frozen.
	errRegistryFrozen errors.Error = "registry is frozen"

	// errDuplicateUniverse is returned by [Registry.Register] for a name
	// that is already registered.
	errDuplicateUniverse errors.Error = "universe already registered"
)
