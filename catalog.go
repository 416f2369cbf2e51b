package dhcpopt

import (
	"fmt"
	"sync"

	"github.com/AdguardTeam/golibs/errors"
)

// Descriptor maps a (universe, numeric code) pair to a human-readable name
// and a compiled value [Format].
type Descriptor struct {
	// Format is the compiled schema for this option's value.
	Format *Format

	// Universe is the name of the namespace this descriptor belongs to.
	Universe string

	// Name is the option's human-readable name, e.g. "host-name".
	Name string

	// FormatStr is the original, uncompiled format string.
	FormatStr string

	// Code is the option's numeric code within Universe.
	Code uint32

	// Synthetic is true for descriptors fabricated by the parser for
	// unrecognized codes.
	Synthetic bool
}

// Catalog maps (universe, code) to [Descriptor], and also holds descriptors
// by name for configuration lookups. A Catalog is safe for concurrent use.
type Catalog struct {
	mu sync.RWMutex
	byCode map[string]map[uint32]*Descriptor
	byName map[string]map[string]*Descriptor
	synthetic map[string]map[uint32]*Descriptor
}

// NewCatalog returns an empty Catalog.
func NewCatalog() (c *Catalog) {
	return &Catalog{
		byCode: map[string]map[uint32]*Descriptor{},
		byName: map[string]map[string]*Descriptor{},
		synthetic: map[string]map[uint32]*Descriptor{},
	}
}

// Register compiles d.FormatStr (if d.Format is nil) and adds d to c. It
// returns an error if d is incomplete, its format is corrupt, or its
// (universe, code) pair is already registered.
func (c *Catalog) Register(d *Descriptor) (err error) {
	defer func() { err = errors.Annotate(err, "registering option %s.%s: %w", d.Universe, d.Name) }()

	if d.Universe == "" || d.Name == "" {
		return errors.Error("incomplete descriptor")
	}

	if d.Format == nil {
		d.Format, err = CompileFormat(d.FormatStr)
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	byCode, ok := c.byCode[d.Universe]
	if !ok {
		byCode = map[uint32]*Descriptor{}
		c.byCode[d.Universe] = byCode
	}

	if _, ok = byCode[d.Code]; ok {
		return fmt.Errorf("code %d: %w", d.Code, errDuplicateOption)
	}

	byName, ok := c.byName[d.Universe]
	if !ok {
		byName = map[string]*Descriptor{}
		c.byName[d.Universe] = byName
	}

	byCode[d.Code] = d
	byName[d.Name] = d

	return nil
}

// Lookup returns the descriptor for (universe, code). If none is
// registered, it fabricates and memoizes a synthetic "unknown-<code>"
// descriptor with a raw hex-or-ascii format, so that round-tripping an
// unrecognized option remains possible.
func (c *Catalog) Lookup(universe string, code uint32) (d *Descriptor, ok bool) {
	c.mu.RLock()
	d, ok = c.byCode[universe][code]
	c.mu.RUnlock()

	if ok {
		return d, true
	}

	return c.syntheticFor(universe, code), false
}

// ByUniverse returns every registered (non-synthetic) descriptor within
// universe, in unspecified order. Used by the assembler to discover which
// options encapsulate a given sub-universe.
func (c *Catalog) ByUniverse(universe string) (ds []*Descriptor) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byCode := c.byCode[universe]
	ds = make([]*Descriptor, 0, len(byCode))
	for _, d := range byCode {
		ds = append(ds, d)
	}

	return ds
}

// LookupByName returns the descriptor named name within universe.
func (c *Catalog) LookupByName(universe, name string) (d *Descriptor, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok = c.byName[universe][name]

	return d, ok
}

// syntheticFor returns (creating and memoizing if necessary) the synthetic
// descriptor for an unrecognized (universe, code) pair.
func (c *Catalog) syntheticFor(universe string, code uint32) (d *Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byCode, ok := c.synthetic[universe]
	if !ok {
		byCode = map[uint32]*Descriptor{}
		c.synthetic[universe] = byCode
	}

	if d, ok = byCode[code]; ok {
		return d
	}

	fm, _ := CompileFormat("X")
	d = &Descriptor{
		Universe: universe,
		Code: code,
		Name: fmt.Sprintf("unknown-%d", code),
		FormatStr: "X",
		Format: fm,
		Synthetic: true,
	}
	byCode[code] = d

	return d
}

// errDuplicateOption is returned by [Catalog.Register] for a code that is
// already registered within its universe.
const errDuplicateOption errors.Error = "option code already registered"
