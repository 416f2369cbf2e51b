package dhcpopt

import (
	"fmt"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
)

// AtomKind is a single atom of a [Format] string.
type AtomKind byte

// Atom kinds. The letter matches the format-string character used by the
// option-definition syntax this package compiles.
const (
	AtomIPv4 AtomKind = 'I'
	AtomInt32 AtomKind = 'l'
	AtomUint32 AtomKind = 'L'
	AtomInt16 AtomKind = 's'
	AtomUint16 AtomKind = 'S'
	AtomInt8 AtomKind = 'b'
	AtomUint8 AtomKind = 'B'
	AtomFlag AtomKind = 'f'
	AtomLeaseTime AtomKind = 'T'
	AtomText AtomKind = 't'
	AtomDomain AtomKind = 'd'
	AtomDomainList AtomKind = 'D'
	AtomCompression AtomKind = 'c'
	AtomHexOrASCII AtomKind = 'X'
	AtomHex AtomKind = 'x'
	AtomEnum AtomKind = 'N'
	AtomEncapsulate AtomKind = 'E'
	AtomPartialEncap AtomKind = 'e'
)

// InfiniteLeaseTime is the sentinel value of an [AtomLeaseTime] atom meaning
// "infinite".
const InfiniteLeaseTime uint32 = 0xFFFFFFFF

// Atom is one decoded element of a format string.
type Atom struct {
	// Kind is the atom's type.
	Kind AtomKind

	// Space names the enumeration (for [AtomEnum]) or universe (for
	// [AtomEncapsulate] and [AtomPartialEncap]) referenced by this atom, as
	// given between the dots in "N.<space>." or "E.<space>.".
	Space string
}

// Format is a compiled option value schema. Use [CompileFormat] to build
// one from a raw format string instead of constructing it directly, so
// atoms do not need to be re-parsed on every evaluation.
type Format struct {
	// Raw is the original format string.
	Raw string

	// Atoms is the ordered, non-repeating part of the schema.
	Atoms []Atom

	// Array, when true, means the atom sequence repeats until the buffer is
	// exhausted (format atoms "A"/"a").
	Array bool

	// Optional, when true, means a trailing occurrence of the format may be
	// absent from the wire without being an error (format atom "o").
	Optional bool
}

// Encapsulation reports whether fm fully or partially encapsulates another
// universe and, if so, which one and whether the encapsulation is "pure"
// (uppercase E: the whole payload is the sub-universe's TLV stream) versus
// partial (lowercase e: a prefix of the payload is, with trailing bytes or
// header fields of its own).
func (fm *Format) Encapsulation() (space string, pure, ok bool) {
	if fm == nil {
		return "", false, false
	}

	for _, a := range fm.Atoms {
		switch a.Kind {
		case AtomEncapsulate:
			return a.Space, true, true
		case AtomPartialEncap:
			return a.Space, false, true
		}
	}

	return "", false, false
}

// IsText reports whether fm contains a text or domain-name atom, which
// controls NUL-termination on assembly.
func (fm *Format) IsText() (ok bool) {
	if fm == nil {
		return false
	}

	for _, a := range fm.Atoms {
		switch a.Kind {
		case AtomText, AtomDomain, AtomDomainList:
			return true
		}
	}

	return false
}

// errBadFormat is the sentinel wrapped by every [CompileFormat] failure.
const errBadFormat errors.Error = "corrupt format string"

// CompileFormat parses a format string into a [Format]. Every atom listed
// must be honored; an unknown atom is a corruption error surfaced to the
// caller rather than silently skipped.
func CompileFormat(raw string) (fm *Format, err error) {
	defer func() { err = errors.Annotate(err, "format %q: %w", raw) }()

	fm = &Format{Raw: raw}

	runes := []rune(raw)
	prevWasD := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch AtomKind(r) {
		case AtomIPv4, AtomInt32, AtomUint32, AtomInt16, AtomUint16, AtomInt8,
			AtomUint8, AtomFlag, AtomLeaseTime, AtomText, AtomDomain,
			AtomDomainList, AtomHexOrASCII, AtomHex:
			fm.Atoms = append(fm.Atoms, Atom{Kind: AtomKind(r)})
			prevWasD = r == 'D'

		case AtomCompression:
			if !prevWasD {
				return nil, fmt.Errorf("%w: 'c' must follow 'D'", errBadFormat)
			}

			fm.Atoms = append(fm.Atoms, Atom{Kind: AtomCompression})
			prevWasD = false

		case AtomEnum, AtomEncapsulate, AtomPartialEncap:
			space, n, perr := parseDottedSpace(runes[i+1:])
			if perr != nil {
				return nil, perr
			}

			fm.Atoms = append(fm.Atoms, Atom{Kind: AtomKind(r), Space: space})
			i += n
			prevWasD = false

		case 'A', 'a':
			fm.Array = true
			prevWasD = false

		case 'o':
			fm.Optional = true
			prevWasD = false

		default:
			return nil, fmt.Errorf("%w: unknown atom %q", errBadFormat, string(r))
		}
	}

	return fm, nil
}

// parseDottedSpace parses "<space>." immediately following an N/E/e atom and
// returns the space name plus the number of runes consumed (including the
// trailing dot).
func parseDottedSpace(rest []rune) (space string, consumed int, err error) {
	if len(rest) == 0 || rest[0] != '.' {
		return "", 0, fmt.Errorf("%w: missing '.' after N/E/e", errBadFormat)
	}

	dot := strings.IndexRune(string(rest[1:]), '.')
	if dot < 0 {
		return "", 0, fmt.Errorf("%w: unterminated space name", errBadFormat)
	}

	space = string(rest[1 : 1+dot])
	if space == "" {
		return "", 0, fmt.Errorf("%w: empty space name", errBadFormat)
	}

	// +1 for the leading dot, +1 for the trailing dot.
	return space, dot + 2, nil
}
