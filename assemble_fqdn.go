package dhcpopt

import "github.com/miekg/dns"

// encodeFQDN rebuilds the FQDN option's fixed wire layout (flags, rcode1,
// rcode2, name) from the "fqdn" sub-universe's canonical entries. This is
// the assembly-side mirror of decodeFQDN: since the sub-entries never
// correspond byte-for-byte to TLVs, the generic encapsulated-universe walk
// cannot produce a valid payload here.
func encodeFQDN(u *Universe, state *OptionState, scope EvalScope) (payload []byte) {
	boolOf := func(code uint32) bool {
		v, ok := fqdnEval(u, state, scope, code)

		return ok && len(v) == 1 && v[0] != 0
	}

	byteOf := func(code uint32) byte {
		v, ok := fqdnEval(u, state, scope, code)
		if !ok || len(v) != 1 {
			return 0
		}

		return v[0]
	}

	textOf := func(code uint32) string {
		v, ok := fqdnEval(u, state, scope, code)
		if !ok {
			return ""
		}

		return string(v)
	}

	var flags byte
	if boolOf(FQDNServerUpdate) {
		flags |= fqdnFlagServerUpdate
	}
	if boolOf(FQDNNoClientUpdate) {
		flags |= fqdnFlagNoClientUpdate
	}

	encoded := boolOf(FQDNEncoded)
	if encoded {
		flags |= fqdnFlagEncoded
	}

	payload = append(payload, flags, byteOf(FQDNRcode1), byteOf(FQDNRcode2))

	name := textOf(FQDNWhole)
	if name == "" {
		if host := textOf(FQDNHostname); host != "" {
			name = host
			if domain := textOf(FQDNDomainname); domain != "" {
				name += "." + domain
			}
		}
	}

	if name == "" {
		return payload
	}

	if !encoded {
		return append(payload, name...)
	}

	labels, err := encodeFQDNLabels(name)
	if err != nil {
		return payload
	}

	return append(payload, labels...)
}

// fqdnEval looks up code within u in state and evaluates it, reporting
// whether an entry existed and evaluated without error.
func fqdnEval(u *Universe, state *OptionState, scope EvalScope, code uint32) (data []byte, ok bool) {
	c, ok := state.Lookup(u, code)
	if !ok {
		return nil, false
	}

	data, err := asExpression(c).Evaluate(scope)

	return data, err == nil
}

// encodeFQDNLabels packs name into RFC 1035 length-prefixed wire labels,
// terminated by the root label, using miekg/dns's wire encoder.
func encodeFQDNLabels(name string) (buf []byte, err error) {
	msg := make([]byte, 256)

	off, err := dns.PackDomainName(dns.Fqdn(name), msg, 0, nil, false)
	if err != nil {
		return nil, err
	}

	return msg[:off], nil
}
