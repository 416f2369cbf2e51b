package dhcpopt

import (
	"context"
	"sort"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
)

// AssembleDHCPv6 packs cfg into an outbound DHCPv6 options buffer. Simpler
// than the v4 assembler: a flat 2-byte tag/2-byte length stream, no
// overload, no splitting.
//
// requiredCodes are always emitted first; oro is the client's Option
// Request Option list, walked next with duplicates against requiredCodes
// skipped. VSIO entries configured under [UniverseVSIO] are assembled once
// per enterprise and wrapped in option 17.
func (a *Assembler) AssembleDHCPv6(cfg *OptionState, scope EvalScope, requiredCodes, oro []uint32) (buf []byte, err error) {
	ctx := context.Background()

	u, ok := a.registry.ByName(UniverseDHCPv6)
	if !ok {
		return nil, ErrUnknownUniverse
	}

	seen := map[uint32]bool{}

	for _, code := range requiredCodes {
		buf = a.appendDHCPv6Option(ctx, buf, u, code, cfg, scope)
		seen[code] = true
	}

	for _, code := range oro {
		if seen[code] {
			continue
		}

		seen[code] = true
		buf = a.appendDHCPv6Option(ctx, buf, u, code, cfg, scope)
	}

	buf = append(buf, a.assembleVSIO(ctx, cfg, scope)...)

	return buf, nil
}

// appendDHCPv6Option evaluates and appends a single top-level DHCPv6
// option (and its encapsulated sub-universe content, if any) to buf.
func (a *Assembler) appendDHCPv6Option(ctx context.Context, buf []byte, u *Universe, code uint32, cfg *OptionState, scope EvalScope) []byte {
	if code == OptV6VendorOpts {
		// VSIO is assembled separately, once per enterprise, after the
		// ORO walk; skip it here even if requested or listed in the ORO.
		return buf
	}

	d, _ := a.catalog.Lookup(u.Name, code)

	var value []byte
	if entry, ok := cfg.Lookup(u, code); ok {
		v, err := asExpression(entry).Evaluate(scope)
		if err != nil {
			a.logger.WarnContext(ctx, "evaluating dhcpv6 option failed", "option", d.Name, slogutil.KeyError, err)
		} else {
			value = v
		}
	}

	space, pure, hasEncap := d.Format.Encapsulation()
	if hasEncap {
		if sub, ok := a.registry.ByName(space); ok {
			subBytes := a.assembleSub(ctx, sub, cfg, scope, false)
			if pure {
				value = subBytes
			} else {
				value = append(append([]byte(nil), value...), subBytes...)
			}
		}
	}

	if len(value) == 0 {
		return buf
	}

	return appendTLV(buf, u, code, value)
}

// assembleVSIO packs cfg's [VSIOSet], if any, into option 17 records, one
// per configured enterprise, each as
// `<enterprise-id:4><inner TLV stream>`.
func (a *Assembler) assembleVSIO(ctx context.Context, cfg *OptionState, scope EvalScope) (buf []byte) {
	if cfg.vsio == nil {
		return nil
	}

	vsioUniverse, ok := a.registry.ByName(UniverseVSIO)
	if !ok {
		return nil
	}

	enterprises := cfg.vsio.Enterprises()
	sort.Slice(enterprises, func(i, j int) bool { return enterprises[i] < enterprises[j] })

	for _, enterpriseID := range enterprises {
		sub := cfg.vsio.byEnterprise[enterpriseID]

		inner := a.assembleFlat(ctx, vsioUniverse, sub, scope, false)
		if len(inner) == 0 {
			continue
		}

		payload := make([]byte, 4+len(inner))
		payload[0] = byte(enterpriseID >> 24)
		payload[1] = byte(enterpriseID >> 16)
		payload[2] = byte(enterpriseID >> 8)
		payload[3] = byte(enterpriseID)
		copy(payload[4:], inner)

		dhcpv6Universe, _ := a.registry.ByName(UniverseDHCPv6)
		buf = appendTLV(buf, dhcpv6Universe, OptV6VendorOpts, payload)
	}

	return buf
}
