package dhcpopt

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
)

// DHCPv4 fixed-header field offsets and widths (RFC 2131 §2).
const (
	v4OffOp = 0
	v4OffHtype = 1
	v4OffHlen = 2
	v4OffHops = 3
	v4OffXID = 4
	v4OffSecs = 8
	v4OffFlags = 10
	v4OffCiaddr = 12
	v4OffYiaddr = 16
	v4OffSiaddr = 20
	v4OffGiaddr = 24
	v4OffChaddr = 28
	v4OffSname = 44
	v4OffFile = 108
	v4OffCookie = 236
	v4OffOpts = 240

	v4SnameLen = 64
	v4FileLen = 128
	v4MinLen = v4OffOpts
)

// errV4TooShort means a buffer was too small to hold the fixed DHCPv4
// header plus the magic cookie.
const errV4TooShort errors.Error = "dhcpv4 packet shorter than fixed header"

// serverMessageTypes is the set of DHCPv4 message types the
// partial-parse tolerance rule applies to: messages a server sends, for which a client
// should act on whatever MESSAGE_TYPE it could recover even if the rest of
// the option stream is malformed.
var serverMessageTypes = map[byte]bool{
	MsgTypeOffer: true,
	MsgTypeAck: true,
	MsgTypeNak: true,
}

// ParseDHCPv4 decodes a raw DHCPv4 datagram (fixed header, magic cookie,
// and options region, including option 52 overload re-parsing) into a
// [Packet]. Grounded on internal/dhcpd/v4_server.go's message-unmarshaling
// shape, generalized to the universe-driven [Parser].
func (p *Parser) ParseDHCPv4(raw []byte) (pkt *Packet, err error) {
	ctx := context.Background()

	pkt = &Packet{Raw: raw, Version: V4}

	if len(raw) < v4MinLen {
		return pkt, fmt.Errorf("dhcpv4: %w", errV4TooShort)
	}

	if !bytes.Equal(raw[v4OffCookie:v4OffOpts], dhcpv4MagicCookie[:]) {
		// No magic cookie means this is plain BOOTP, not DHCP: mark options
		// invalid but hand the packet back so the caller can still route it
		// to the BOOTP path instead of dropping it.
		pkt.Options = NewOptionState(p.registry, p.catalog)

		return pkt, nil
	}

	u, ok := p.registry.ByName(UniverseDHCPv4)
	if !ok {
		return pkt, fmt.Errorf("dhcpv4: %w", ErrUnknownUniverse)
	}

	state := NewOptionState(p.registry, p.catalog)
	pkt.Options = state

	parseErr := p.parseInto(ctx, state, raw[v4OffOpts:], u, newBitSet())

	mtEntry, haveMT := state.Lookup(u, OptMessageType)
	if mtEntry != nil && len(mtEntry.Data) == 1 {
		pkt.MessageType = mtEntry.Data[0]
	}

	if parseErr != nil {
		// Server robustness rule: a server-originated message type that
		// was captured before the parse failed is still actionable, even
		// if the rest of the option stream was malformed.
		if haveMT && serverMessageTypes[pkt.MessageType] {
			p.logger.WarnContext(ctx, "tolerating malformed dhcpv4 options", "msg_type", pkt.MessageType, slogutil.KeyError, parseErr)
		} else {
			return pkt, fmt.Errorf("dhcpv4: %w", parseErr)
		}
	}

	if err = p.applyOverload(ctx, state, u, raw); err != nil {
		p.logger.WarnContext(ctx, "dhcpv4 overload re-parse failed", slogutil.KeyError, err)
	}

	pkt.Valid = true

	return pkt, nil
}

// applyOverload re-parses the sname and/or file fields as additional option
// TLV streams when option 52 (DHO_DHCP_OPTION_OVERLOAD) says to.
func (p *Parser) applyOverload(ctx context.Context, state *OptionState, u *Universe, raw []byte) (err error) {
	ov, ok := state.Lookup(u, OptOverload)
	if !ok || len(ov.Data) != 1 {
		return nil
	}

	flags := ov.Data[0]

	if flags&1 != 0 {
		if perr := p.parseInto(ctx, state, raw[v4OffFile:v4OffFile+v4FileLen], u, newBitSet()); perr != nil {
			err = errors.Join(err, fmt.Errorf("file region: %w", perr))
		}
	}

	if flags&2 != 0 {
		if perr := p.parseInto(ctx, state, raw[v4OffSname:v4OffSname+v4SnameLen], u, newBitSet()); perr != nil {
			err = errors.Join(err, fmt.Errorf("sname region: %w", perr))
		}
	}

	return err
}

// v4ReadXID reads the 4-byte transaction ID out of a raw DHCPv4 buffer.
func v4ReadXID(raw []byte) (xid uint32) {
	return binary.BigEndian.Uint32(raw[v4OffXID:])
}
