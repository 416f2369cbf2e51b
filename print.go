package dhcpopt

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/miekg/dns"
)

// PrintMode selects the pretty-printer's quoting and separator
// conventions.
type PrintMode uint8

const (
	// PrintPlain renders bare values: space-separated array elements, no
	// quotes around text.
	PrintPlain PrintMode = iota

	// PrintConfigEcho renders values the way a configuration file would
	// accept them back: quoted text, comma-separated array elements.
	PrintConfigEcho
)

// errPrintTooShort means a fixed-width atom's payload ran out of bytes.
const errPrintTooShort errors.Error = "option value shorter than its format requires"

// Printer renders option-cache values to human-readable strings. Grounded
// on the inverse direction of dhcpsvc's typed-option decoders in
// `internal/dhcpd/options.go`.
type Printer struct {
	enums *EnumSet
}

// NewPrinter returns a Printer resolving [AtomEnum] labels through enums.
// A nil enums is valid; every enum lookup then falls back to its numeric
// form.
func NewPrinter(enums *EnumSet) (p *Printer) {
	if enums == nil {
		enums = NewEnumSet()
	}

	return &Printer{enums: enums}
}

// Print renders data under d's compiled format.
func (p *Printer) Print(d *Descriptor, data []byte, mode PrintMode) (s string, err error) {
	defer func() { err = errors.Annotate(err, "printing %s: %w", d.Name) }()

	fm := d.Format
	if fm == nil {
		return "", errBadFormat
	}

	var elems []string

	for {
		elem, rest, perr := p.printOnce(fm, data, mode)
		if perr != nil {
			return "", perr
		}

		elems = append(elems, elem)
		data = rest

		if !fm.Array || len(data) == 0 {
			break
		}
	}

	sep := " "
	if mode == PrintConfigEcho {
		sep = ","
	}

	return strings.Join(elems, sep), nil
}

// printOnce renders one occurrence of fm's atom sequence from the front of
// data, returning the rendered string and the unconsumed remainder.
func (p *Printer) printOnce(fm *Format, data []byte, mode PrintMode) (s string, rest []byte, err error) {
	var parts []string

	for _, atom := range fm.Atoms {
		var part string

		part, data, err = p.printAtom(atom, data, mode)
		if err != nil {
			if fm.Optional && len(data) == 0 {
				return "<absent>", data, nil
			}

			return "", data, err
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, " "), data, nil
}

// printAtom renders a single atom from the front of data.
func (p *Printer) printAtom(atom Atom, data []byte, mode PrintMode) (s string, rest []byte, err error) {
	need := func(n int) (err error) {
		if len(data) < n {
			return errPrintTooShort
		}

		return nil
	}

	switch atom.Kind {
	case AtomIPv4:
		if err = need(4); err != nil {
			return "<bad-ipv4>", data, err
		}

		a, _ := AddrFromBytes(data[:4])

		return Format(a), data[4:], nil

	case AtomInt32:
		if err = need(4); err != nil {
			return "", data, err
		}

		return fmt.Sprintf("%d", int32(binary.BigEndian.Uint32(data))), data[4:], nil

	case AtomUint32:
		if err = need(4); err != nil {
			return "", data, err
		}

		return fmt.Sprintf("%d", binary.BigEndian.Uint32(data)), data[4:], nil

	case AtomInt16:
		if err = need(2); err != nil {
			return "", data, err
		}

		return fmt.Sprintf("%d", int16(binary.BigEndian.Uint16(data))), data[2:], nil

	case AtomUint16:
		if err = need(2); err != nil {
			return "", data, err
		}

		return fmt.Sprintf("%d", binary.BigEndian.Uint16(data)), data[2:], nil

	case AtomInt8:
		if err = need(1); err != nil {
			return "", data, err
		}

		return fmt.Sprintf("%d", int8(data[0])), data[1:], nil

	case AtomUint8:
		if err = need(1); err != nil {
			return "", data, err
		}

		return fmt.Sprintf("%d", data[0]), data[1:], nil

	case AtomFlag:
		if err = need(1); err != nil {
			return "", data, err
		}

		if data[0] != 0 {
			return "true", data[1:], nil
		}

		return "false", data[1:], nil

	case AtomLeaseTime:
		if err = need(4); err != nil {
			return "", data, err
		}

		v := binary.BigEndian.Uint32(data)
		if v == InfiniteLeaseTime {
			return "infinite", data[4:], nil
		}

		return fmt.Sprintf("%d", v), data[4:], nil

	case AtomText:
		txt := strings.TrimRight(string(data), "\x00")

		return quoteText(txt, mode), nil, nil

	case AtomDomain:
		name, _, derr := dns.UnpackDomainName(ensureRootLabel(data), 0)
		if derr != nil {
			return "<bad-domain>", nil, fmt.Errorf("%w", derr)
		}

		return quoteText(strings.TrimSuffix(name, "."), mode), nil, nil

	case AtomDomainList:
		names, derr := unpackDomainList(data)
		if derr != nil {
			return "", nil, derr
		}

		sep := " "
		if mode == PrintConfigEcho {
			sep = ","
		}

		for i, n := range names {
			names[i] = quoteText(n, mode)
		}

		return strings.Join(names, sep), nil, nil

	case AtomCompression:
		// Carries no payload of its own; it only modifies how the
		// preceding 'D' atom was packed on the wire.
		return "", data, nil

	case AtomHexOrASCII:
		return printHexOrASCII(data, mode), nil, nil

	case AtomHex:
		return printHex(data), nil, nil

	case AtomEnum:
		if err = need(1); err != nil {
			return "", data, err
		}

		return p.enums.Lookup(atom.Space, uint32(data[0])), data[1:], nil

	case AtomEncapsulate, AtomPartialEncap:
		// The encapsulated sub-universe is printed by walking its own
		// option-cache entries, not as a single atom; represent the raw
		// bytes here for completeness when printed standalone.
		return printHex(data), nil, nil

	default:
		return "", data, fmt.Errorf("%w: unprintable atom %q", errBadFormat, string(rune(atom.Kind)))
	}
}

// ensureRootLabel appends a trailing zero-length label if buf does not
// already end in one, as [dns.UnpackDomainName] requires.
func ensureRootLabel(buf []byte) (out []byte) {
	if len(buf) > 0 && buf[len(buf)-1] == 0 {
		return buf
	}

	return append(append([]byte(nil), buf...), 0)
}

// unpackDomainList splits an RFC1035-encoded sequence of names (DHCPv6
// DOMAIN_SEARCH_LIST, or DHCPv4 option 119) into its component names.
func unpackDomainList(buf []byte) (names []string, err error) {
	msg := ensureRootLabel(buf)

	for off := 0; off < len(msg); {
		name, next, derr := dns.UnpackDomainName(msg, off)
		if derr != nil {
			return nil, fmt.Errorf("domain list: %w", derr)
		}

		names = append(names, strings.TrimSuffix(name, "."))

		if next <= off {
			break
		}

		off = next
	}

	return names, nil
}

// quoteText applies escape rules and, in config-echo mode,
// wraps the result in double quotes.
func quoteText(s string, mode PrintMode) (out string) {
	var b strings.Builder

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteString(`\'`)
		case '$':
			b.WriteString(`\$`)
		case '`':
			b.WriteString("\\`")
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\%03o`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}

	if mode == PrintConfigEcho {
		return `"` + b.String() + `"`
	}

	return b.String()
}

// printHexOrASCII renders buf as escaped ASCII text (quoted in config-echo
// mode) if every byte is printable, or as colon-separated hex otherwise.
func printHexOrASCII(buf []byte, mode PrintMode) (s string) {
	for _, b := range buf {
		if b < 0x20 || b >= 0x7f {
			return printHex(buf)
		}
	}

	return quoteText(string(buf), mode)
}

// printHex renders buf as colon-separated hex bytes.
func printHex(buf []byte) (s string) {
	parts := make([]string, len(buf))
	for i, b := range buf {
		parts[i] = fmt.Sprintf("%02x", b)
	}

	return strings.Join(parts, ":")
}
