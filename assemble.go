package dhcpopt

import (
	"context"
	"log/slog"
	"sort"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
)

// Assembler packs a configured [OptionState] into an outbound DHCPv4/v6
// option buffer under size, priority, and encapsulation rules. Grounded on
// `dhcpsvc/options4.go`'s `updateOptions` merge-by-code style, generalized
// to the full priority-list and 3-region packing algorithm.
type Assembler struct {
	registry *Registry
	catalog *Catalog
	logger *slog.Logger
}

// NewAssembler returns an Assembler bound to reg and cat, logging through l.
func NewAssembler(reg *Registry, cat *Catalog, l *slog.Logger) (a *Assembler) {
	return &Assembler{registry: reg, catalog: cat, logger: l}
}

// siteCodeCutoff is the DHCPv4 option code at and above which options are
// "site specific" (RFC 2132 §9.28), used by the no-PRL priority-list
// branch to order site options after well-known ones.
const siteCodeCutoff = 128

// AssembleResult is the outcome of [Assembler.AssembleDHCPv4]: the main
// options-field bytes, plus the file/sname secondary regions when overload
// was used.
type AssembleResult struct {
	// Options is the content of the options field proper (everything after
	// the magic cookie), terminated with END if space allowed.
	Options []byte

	// File is the full 128-byte "file" header field, meaningful only if
	// Overload&1 != 0.
	File []byte

	// Sname is the full 64-byte "sname" header field, meaningful only if
	// Overload&2 != 0.
	Sname []byte

	// Overload is the bitmask written into option 52: bit 0 for File, bit 1
	// for Sname.
	Overload byte
}

// sizeLimit computes how many bytes are available for options, given the
// client's option-57 maximum message size, any server-configured cap, and
// (for BOOTP clients that sent no option 57) the inbound packet size.
func (a *Assembler) sizeLimit(maxMessageSize, configuredMax, inboundLen int, bootp bool) (n int) {
	switch {
	case maxMessageSize > 0:
		limit := maxMessageSize
		if configuredMax > 0 && configuredMax < limit {
			limit = configuredMax
		}

		n = limit - v4OffOpts
	case bootp:
		n = inboundLen
		if n < 64 {
			n = 64
		}
	default:
		n = 576 - v4OffOpts
	}

	if n < 0 {
		n = 0
	}

	return n
}

// dhcpv4PriorityHead is the protocol-mandatory head of every priority list.
var dhcpv4PriorityHead = []uint32{
	OptMessageType, OptServerIdentifier, OptLeaseTime, OptMessage,
	OptRequestedAddress, OptAssociatedIP,
}

// dhcpv4NoPRLHead is prepended (after the mandatory head) when the client
// sent no parameter request list.
var dhcpv4NoPRLHead = []uint32{
	OptSubnetMask, OptRouters, OptDomainNameServers, OptHostName, OptFQDN,
}

// buildPriorityList implements priority-list construction.
func (a *Assembler) buildPriorityList(cfg *OptionState, u *Universe, prl []uint32) (list []uint32) {
	seen := map[uint32]bool{}
	add := func(code uint32) {
		if seen[code] {
			return
		}

		seen[code] = true
		list = append(list, code)
	}

	for _, code := range dhcpv4PriorityHead {
		add(code)
	}

	if _, ok := cfg.Lookup(u, OptSubnetSelection); ok {
		add(OptSubnetSelection)
	}

	if len(prl) > 0 {
		for _, code := range prl {
			if code != OptRelayAgentInformation {
				add(code)
			}
		}

		add(OptFQDN)
		add(OptSubnetMask)
	} else {
		for _, code := range dhcpv4NoPRLHead {
			add(code)
		}

		var below, atOrAbove []uint32
		cfg.Foreach(u, func(c *OptionCache) (cont bool) {
			code := c.Descriptor.Code
			if code < siteCodeCutoff {
				below = append(below, code)
			} else {
				atOrAbove = append(atOrAbove, code)
			}

			return true
		})

		sort.Slice(below, func(i, j int) bool { return below[i] < below[j] })
		sort.Slice(atOrAbove, func(i, j int) bool { return atOrAbove[i] < atOrAbove[j] })

		for _, code := range below {
			add(code)
		}

		for _, code := range atOrAbove {
			add(code)
		}

		for _, d := range a.catalog.ByUniverse(u.Name) {
			if d.Code == OptRelayAgentInformation {
				continue
			}

			space, _, hasEncap := d.Format.Encapsulation()
			if !hasEncap {
				continue
			}

			sub, ok := a.registry.ByName(space)
			if !ok || !universeNonEmpty(cfg, sub) {
				continue
			}

			add(d.Code)
		}

		add(OptVendorEncapsulated)
	}

	const maxPriorityEntries = 300
	if len(list) > maxPriorityEntries {
		list = list[:maxPriorityEntries]
	}

	return list
}

// universeNonEmpty reports whether cfg holds any entry at all within u.
func universeNonEmpty(cfg *OptionState, u *Universe) (ok bool) {
	cfg.Foreach(u, func(*OptionCache) (cont bool) {
		ok = true

		return false
	})

	return ok
}

// threeCursors is the assembler's main/file/sname packing state: the three
// logical regions options can land in when overload is in play.
type threeCursors struct {
	main, file, sname []byte
	mainCap, fileCap, snameCap int
	usedFile, usedSname bool
}

// tryAppend attempts to write <code><len><chunk> into *buf, honoring
// capLen and slack (bytes that must remain free for later use, e.g. the
// END tag).
func tryAppend(buf *[]byte, capLen, slack int, u *Universe, code uint32, chunk []byte) (ok bool) {
	hdrLen := u.TagSize + u.LengthSize
	needed := hdrLen + len(chunk)

	if len(*buf)+needed+slack > capLen {
		return false
	}

	hdr := make([]byte, hdrLen)
	u.putTag(hdr, code)
	if u.LengthSize > 0 {
		u.putLength(hdr[u.TagSize:], len(chunk))
	}

	*buf = append(*buf, hdr...)
	*buf = append(*buf, chunk...)

	return true
}

// place packs value for code across the three regions, splitting into
// ≤255-byte segments when necessary; segments may land in different
// regions. If no region has room for some segment, the whole option is
// rolled back.
func (c *threeCursors) place(u *Universe, code uint32, value []byte) (ok bool) {
	snapMain, snapFile, snapSname := len(c.main), len(c.file), len(c.sname)
	snapUsedFile, snapUsedSname := c.usedFile, c.usedSname

	for _, chunk := range splitChunks(value, 255) {
		switch {
		case tryAppend(&c.main, c.mainCap, 1+3, u, code, chunk):
		case tryAppend(&c.file, c.fileCap, 1, u, code, chunk):
			c.usedFile = true
		case tryAppend(&c.sname, c.snameCap, 1, u, code, chunk):
			c.usedSname = true
		default:
			c.main = c.main[:snapMain]
			c.file = c.file[:snapFile]
			c.sname = c.sname[:snapSname]
			c.usedFile = snapUsedFile
			c.usedSname = snapUsedSname

			return false
		}
	}

	return true
}

// splitChunks splits value into segments of at most max bytes each. A
// single empty input yields a single empty chunk, so zero-length options
// still get written.
func splitChunks(value []byte, max int) (chunks [][]byte) {
	if len(value) == 0 {
		return [][]byte{{}}
	}

	for len(value) > 0 {
		n := max
		if n > len(value) {
			n = len(value)
		}

		chunks = append(chunks, value[:n])
		value = value[n:]
	}

	return chunks
}

// terminateRegion pads buf to capLen with an END tag followed by PAD
// bytes. If buf already fills capLen, it is truncated to fit.
func terminateRegion(buf []byte, capLen int) (out []byte) {
	if len(buf) >= capLen {
		return buf[:capLen]
	}

	out = make([]byte, capLen)
	copy(out, buf)
	out[len(buf)] = 255 // END

	return out
}

// assembleFlat packs every entry configured within u into a flat TLV
// stream, evaluating each (and its non-concatenating duplicate chain) via
// scope. Used both for DHCPv4/v6 encapsulated sub-universes and for the
// DHCPv6 assembler's own top-level walk.
func (a *Assembler) assembleFlat(ctx context.Context, u *Universe, state *OptionState, scope EvalScope, terminate bool) (buf []byte) {
	state.Foreach(u, func(c *OptionCache) (cont bool) {
		for cur := c; cur != nil; cur = cur.Next {
			val, err := asExpression(cur).Evaluate(scope)
			if err != nil {
				a.logger.WarnContext(ctx, "evaluating option failed", "universe", u.Name, "option", cur.Descriptor.Name, slogutil.KeyError, err)

				continue
			}

			space, pure, hasEncap := cur.Descriptor.Format.Encapsulation()
			if hasEncap {
				if sub, ok := a.registry.ByName(space); ok {
					subBytes := a.assembleSub(ctx, sub, state, scope, terminate)
					if pure {
						val = subBytes
					} else {
						val = append(append([]byte(nil), val...), subBytes...)
					}
				}
			}

			if len(val) == 0 {
				continue
			}

			if cur.Descriptor.Format.IsText() && terminate {
				val = append(val, 0)
			}

			buf = appendTLV(buf, u, cur.Descriptor.Code, val)
		}

		return true
	})

	return buf
}

// assembleSub produces sub's encapsulated payload: its own [Universe.
// Encapsulate] hook if it has one (for universes whose wire layout is not
// a TLV stream of their sub-options), otherwise the generic TLV walk.
func (a *Assembler) assembleSub(ctx context.Context, sub *Universe, state *OptionState, scope EvalScope, terminate bool) (buf []byte) {
	if sub.Encapsulate != nil {
		return sub.Encapsulate(state, scope)
	}

	return a.assembleFlat(ctx, sub, state, scope, terminate)
}

// appendTLV appends a single tag/length/value record to buf, splitting
// into the largest chunks u's length width can represent if value exceeds
// it.
func appendTLV(buf []byte, u *Universe, code uint32, value []byte) []byte {
	if u.LengthSize == 0 {
		hdr := make([]byte, u.TagSize)
		u.putTag(hdr, code)

		return append(append(buf, hdr...), value...)
	}

	maxLen := (1 << uint(8*u.LengthSize)) - 1
	if len(value) <= maxLen {
		hdr := make([]byte, u.TagSize+u.LengthSize)
		u.putTag(hdr, code)
		u.putLength(hdr[u.TagSize:], len(value))

		return append(append(buf, hdr...), value...)
	}

	for len(value) > 0 {
		n := maxLen
		if n > len(value) {
			n = len(value)
		}

		hdr := make([]byte, u.TagSize+u.LengthSize)
		u.putTag(hdr, code)
		u.putLength(hdr[u.TagSize:], n)

		buf = append(buf, hdr...)
		buf = append(buf, value[:n]...)
		value = value[n:]
	}

	return buf
}

// packOne evaluates and places a single option code from cfg into cur,
// including its encapsulated sub-universe content, following the same
// three-region packing rules as assembleFlat.
func (a *Assembler) packOne(ctx context.Context, cur *threeCursors, u *Universe, code uint32, cfg *OptionState, scope EvalScope, terminate bool) {
	d, _ := a.catalog.Lookup(u.Name, code)

	var value []byte
	if entry, ok := cfg.Lookup(u, code); ok {
		v, err := asExpression(entry).Evaluate(scope)
		if err != nil {
			a.logger.WarnContext(ctx, "evaluating option failed", "option", d.Name, slogutil.KeyError, err)
		} else {
			value = v
		}
	}

	space, _, hasEncap := d.Format.Encapsulation()
	if hasEncap {
		if sub, ok := a.registry.ByName(space); ok {
			subBytes := a.assembleSub(ctx, sub, cfg, scope, terminate)
			value = append(append([]byte(nil), value...), subBytes...)
		}
	}

	if len(value) == 0 {
		return
	}

	if d.Format.IsText() && terminate {
		value = append(value, 0)
	}

	cur.place(u, code, value)
}

// AssembleDHCPv4 packs cfg into an outbound DHCPv4 options buffer.
// maxMessageSize is the client-advertised option 57 value (0 if
// absent); configuredMax is a host-imposed ceiling (0 for none);
// inboundLen and bootp feed the BOOTP branch of the size policy.
func (a *Assembler) AssembleDHCPv4(
	cfg *OptionState,
	scope EvalScope,
	prl []uint32,
	maxMessageSize, configuredMax, inboundLen int,
	bootp, terminate bool,
) (res *AssembleResult, err error) {
	ctx := context.Background()

	u, ok := a.registry.ByName(UniverseDHCPv4)
	if !ok {
		return nil, ErrUnknownUniverse
	}

	cur := &threeCursors{
		mainCap: a.sizeLimit(maxMessageSize, configuredMax, inboundLen, bootp),
		fileCap: v4FileLen,
		snameCap: v4SnameLen,
	}

	for _, code := range a.buildPriorityList(cfg, u, prl) {
		if code == OptRelayAgentInformation {
			continue
		}

		a.packOne(ctx, cur, u, code, cfg, scope, terminate)
	}

	// Relay-agent-information is emitted last, in its own tail pass, never
	// reorderable under client PRL control.
	if _, ok = cfg.Lookup(u, OptRelayAgentInformation); ok {
		a.packOne(ctx, cur, u, OptRelayAgentInformation, cfg, scope, terminate)
	}

	overload := byte(0)
	if cur.usedFile {
		overload |= 1
	}

	if cur.usedSname {
		overload |= 2
	}

	if overload != 0 {
		// Reserved via the +3 slack above, so this always fits.
		tryAppend(&cur.main, cur.mainCap, 0, u, OptOverload, []byte{overload})

		cur.file = terminateRegion(cur.file, v4FileLen)
		cur.sname = terminateRegion(cur.sname, v4SnameLen)
	}

	if len(cur.main)+1 <= cur.mainCap {
		cur.main = append(cur.main, 255) // END
	}

	return &AssembleResult{Options: cur.main, File: cur.file, Sname: cur.sname, Overload: overload}, nil
}
