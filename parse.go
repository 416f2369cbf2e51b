package dhcpopt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
)

// Parser decodes raw option buffers into an [OptionState], recursively
// following encapsulated sub-universes and DHCPv4 overload regions.
// Grounded on internal/dhcpd/options.go's tolerant parsing stance and
// internal/dhcpsvc/handler4.go's option-walking style, generalized from
// one fixed universe to any registered [Universe].
type Parser struct {
	registry *Registry
	catalog *Catalog
	logger *slog.Logger
}

// NewParser returns a Parser bound to reg and cat, logging through l.
func NewParser(reg *Registry, cat *Catalog, l *slog.Logger) (p *Parser) {
	return &Parser{registry: reg, catalog: cat, logger: l}
}

// errEncapCycle is returned when an encapsulation atom would recurse into a
// universe that is already being parsed on the current call stack.
const errEncapCycle errors.Error = "encapsulation cycle"

// Parse decodes buf under universe into state. It never reads beyond
// len(buf).
func (p *Parser) Parse(state *OptionState, buf []byte, universe *Universe) (err error) {
	return p.parseInto(context.Background(), state, buf, universe, newBitSet())
}

// parseInto is the recursive core of Parse. visited guards against
// encapsulation cycles.
func (p *Parser) parseInto(
	ctx context.Context,
	state *OptionState,
	buf []byte,
	u *Universe,
	visited *bitSet,
) (err error) {
	key := uint64(u.Index)
	if visited.isSet(key) {
		return fmt.Errorf("%s: %w", u.Name, errEncapCycle)
	}

	visited.set(key, true)
	defer visited.set(key, false)

	length := len(buf)
	offset := 0

	for {
		if offset+u.TagSize > length {
			return nil
		}

		tag := u.getTag(buf[offset:])
		if tag == u.EndTag {
			return nil
		}

		if u.HasPadTag && tag == u.PadTag {
			offset += u.TagSize

			continue
		}

		hdrEnd := offset + u.TagSize

		var payloadLen int
		if u.LengthSize == 0 {
			payloadLen = length - hdrEnd
		} else {
			if hdrEnd+u.LengthSize > length {
				return fmt.Errorf("%s: %w", u.Name, ErrTruncated)
			}

			payloadLen = u.getLength(buf[hdrEnd:])
			hdrEnd += u.LengthSize
		}

		if payloadLen < 0 || hdrEnd+payloadLen > length {
			d, _ := p.catalog.Lookup(u.Name, tag)

			return newOptionErr(d, u.Name, offset, payloadLen, ErrBufferOverrun)
		}

		payload := buf[hdrEnd : hdrEnd+payloadLen]
		d, _ := p.catalog.Lookup(u.Name, tag)

		p.handleOption(ctx, state, u, d, payload, visited)

		offset = hdrEnd + payloadLen
	}
}

// handleOption stores or recursively decodes a single parsed option,
// depending on whether its format carries an encapsulation atom.
func (p *Parser) handleOption(
	ctx context.Context,
	state *OptionState,
	u *Universe,
	d *Descriptor,
	payload []byte,
	visited *bitSet,
) {
	space, pure, hasEncap := d.Format.Encapsulation()
	if !hasEncap {
		p.ingest(state, u, d, payload)

		return
	}

	sub, ok := p.registry.ByName(space)
	if !ok {
		p.logger.ErrorContext(ctx, "unknown universe in encapsulation", "space", space, "option", d.Name)
		p.ingest(state, u, d, payload)

		return
	}

	// FQDN and VSIO payloads are not themselves plain TLV streams (FQDN has
	// a fixed flags/rcode/name layout; VSIO is prefixed by a 4-byte
	// enterprise number), so each gets a dedicated decoder instead of a
	// direct recursive walk.
	var err error
	switch space {
	case UniverseFQDN:
		err = p.decodeFQDN(state, payload)
	case UniverseVSIO:
		err = p.decodeVSIO(ctx, state, sub, payload, visited)
	default:
		err = p.parseInto(ctx, state, payload, sub, visited)
	}

	if err != nil {
		p.logger.DebugContext(ctx, "encapsulated parse failed", "option", d.Name, slogutil.KeyError, err)
	}

	if err == nil && pure {
		// Pure (uppercase "E") encapsulation: the whole payload belongs to
		// the sub-universe, nothing to keep in u's own state.
		return
	}

	// Partial ("e") encapsulation, or a failed sub-parse: keep the raw
	// payload alongside whatever the sub-parse managed to decode.
	p.ingest(state, u, d, payload)
}

// ingest applies the per-universe duplicate-handling rule for a freshly
// decoded option.
func (p *Parser) ingest(state *OptionState, u *Universe, d *Descriptor, payload []byte) {
	terminated := len(payload) > 0 && d.Format.IsText() && payload[len(payload)-1] == 0

	state.Ingest(u, d, payload, terminated, false)
}
