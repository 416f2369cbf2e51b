package dhcpopt

import (
	"fmt"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/miekg/dns"
)

// FQDN option (v4 option 81 / v6 option 39) flag bits, per RFC 4702/4704.
const (
	fqdnFlagServerUpdate = 1 << 0
	fqdnFlagNoClientUpdate = 1 << 1
	fqdnFlagEncoded = 1 << 2
)

// errFQDNTooShort means the FQDN option's fixed header (flags, rcode1,
// rcode2) did not fit in the payload.
const errFQDNTooShort errors.Error = "fqdn option shorter than fixed header"

// errFQDNBadLabel means a DNS-encoded name inside an FQDN option carried a
// label longer than the 63-octet RFC 1035 limit.
const errFQDNBadLabel errors.Error = "fqdn option: oversize dns label"

// decodeFQDN decodes the FQDN option's fixed wire layout directly into the
// canonical "fqdn" sub-universe, bypassing the generic TLV walk: this
// option's payload is not itself a TLV stream.
func (p *Parser) decodeFQDN(state *OptionState, payload []byte) (err error) {
	fqdnUniverse, ok := p.registry.ByName(UniverseFQDN)
	if !ok {
		return fmt.Errorf("%s: %w", UniverseFQDN, ErrUnknownUniverse)
	}

	if len(payload) < 3 {
		return fmt.Errorf("fqdn: %w", errFQDNTooShort)
	}

	flags := payload[0]
	rcode1 := payload[1]
	rcode2 := payload[2]
	namePart := payload[3:]

	encoded := flags&fqdnFlagEncoded != 0
	serverUpdate := flags&fqdnFlagServerUpdate != 0
	noClientUpdate := flags&fqdnFlagNoClientUpdate != 0

	var name string
	if len(namePart) > 0 {
		if encoded {
			name, err = decodeFQDNLabels(namePart)
			if err != nil {
				return fmt.Errorf("fqdn: %w", err)
			}
		} else {
			name = string(namePart)

			// RFC 4702 §2.2: an ASCII name not NUL-terminated means the
			// client does not want the server updating DNS; mirror that
			// into NO_CLIENT_UPDATE regardless of what the flags byte said.
			if strings.IndexByte(name, 0) < 0 {
				noClientUpdate = true
			} else {
				name = strings.TrimRight(name, "\x00")
			}
		}
	}

	putFlag := func(code uint32, v bool) {
		d, _ := p.catalog.Lookup(UniverseFQDN, code)
		data := []byte{0}
		if v {
			data[0] = 1
		}

		state.Ingest(fqdnUniverse, d, data, false, false)
	}

	putByte := func(code uint32, v byte) {
		d, _ := p.catalog.Lookup(UniverseFQDN, code)
		state.Ingest(fqdnUniverse, d, []byte{v}, false, false)
	}

	putText := func(code uint32, v string) {
		d, _ := p.catalog.Lookup(UniverseFQDN, code)
		state.Ingest(fqdnUniverse, d, []byte(v), false, false)
	}

	putFlag(FQDNEncoded, encoded)
	putFlag(FQDNServerUpdate, serverUpdate)
	putFlag(FQDNNoClientUpdate, noClientUpdate)
	putByte(FQDNRcode1, rcode1)
	putByte(FQDNRcode2, rcode2)
	putText(FQDNWhole, name)

	host, domain, _ := strings.Cut(name, ".")
	putText(FQDNHostname, host)
	putText(FQDNDomainname, domain)

	return nil
}

// decodeFQDNLabels decompresses an RFC 1035-encoded, non-pointer-compressed
// name (the FQDN option never carries compression pointers, per RFC 4702
// §2.1) into its dotted-string form, using miekg/dns's wire parser for
// label boundaries.
func decodeFQDNLabels(buf []byte) (name string, err error) {
	// dns.UnpackDomainName requires a full message buffer plus offset; the
	// FQDN option's name runs from offset 0 to the end of buf, with no
	// trailing root label required (ISC's original tolerates a bare name
	// lacking the final 0x00).
	msg := buf
	if len(msg) == 0 || msg[len(msg)-1] != 0 {
		msg = append(append([]byte(nil), buf...), 0)
	}

	offset := 0
	for offset < len(msg) {
		labelLen := int(msg[offset])
		if labelLen == 0 {
			break
		}

		if labelLen > 63 {
			return "", errFQDNBadLabel
		}

		offset += 1 + labelLen
		if offset > len(msg) {
			return "", fmt.Errorf("%w: truncated label", ErrTruncated)
		}
	}

	parsed, _, perr := dns.UnpackDomainName(msg, 0)
	if perr != nil {
		return "", fmt.Errorf("unpacking dns labels: %w", perr)
	}

	return strings.TrimSuffix(parsed, "."), nil
}
