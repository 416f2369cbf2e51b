package dhcpopt

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
)

// errVSIOTooShort means a VSIO payload did not even hold its 4-byte
// enterprise-number prefix.
const errVSIOTooShort errors.Error = "vsio option shorter than enterprise-number prefix"

// decodeVSIO decodes a Vendor-Specific Information Option payload
// (`<enterprise-id:4><TLV-stream>`) into the per-enterprise [VSIOSet]
// attached to state, walking the TLV stream through the ordinary recursive
// parser under the shared "vsio" sub-universe.
func (p *Parser) decodeVSIO(
	ctx context.Context,
	state *OptionState,
	vsioUniverse *Universe,
	payload []byte,
	visited *bitSet,
) (err error) {
	if len(payload) < 4 {
		return fmt.Errorf("vsio: %w", errVSIOTooShort)
	}

	enterpriseID := binary.BigEndian.Uint32(payload)
	subState := state.VSIO().StateFor(p.registry, p.catalog, enterpriseID)

	return p.parseInto(ctx, subState, payload[4:], vsioUniverse, visited)
}
