package dhcpopt

import (
	"context"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
)

// DHCPv6 fixed-header layouts (RFC 8415 §8, §9).
const (
	v6OffMsgType = 0
	v6ClientMinLen = 4 // msg-type(1) + transaction-id(3)
	v6RelayMinLen = 34 // msg-type(1) + hop-count(1) + link-addr(16) + peer-addr(16)
)

// errV6TooShort means a buffer was too small to hold the DHCPv6 fixed
// header its message type calls for (client/server or relay framing).
const errV6TooShort errors.Error = "dhcpv6 packet shorter than fixed header"

// ParseDHCPv6 decodes a raw DHCPv6 message into a [Packet], discriminating
// relay-forward/relay-reply framing from client/server framing by the first
// byte.
func (p *Parser) ParseDHCPv6(raw []byte) (pkt *Packet, err error) {
	ctx := context.Background()

	pkt = &Packet{Raw: raw, Version: V6}

	if len(raw) < 1 {
		return pkt, fmt.Errorf("dhcpv6: %w", errV6TooShort)
	}

	pkt.MessageType = raw[v6OffMsgType]

	u, ok := p.registry.ByName(UniverseDHCPv6)
	if !ok {
		return pkt, fmt.Errorf("dhcpv6: %w", ErrUnknownUniverse)
	}

	state := NewOptionState(p.registry, p.catalog)
	pkt.Options = state

	var optsStart int

	switch pkt.MessageType {
	case MsgTypeV6RelayForw, MsgTypeV6RelayRepl:
		if len(raw) < v6RelayMinLen {
			return pkt, fmt.Errorf("dhcpv6 relay: %w", errV6TooShort)
		}

		pkt.IsRelay = true
		pkt.HopCount = raw[1]

		pkt.LinkAddr, err = AddrFromBytes(raw[2:18])
		if err != nil {
			return pkt, fmt.Errorf("dhcpv6 relay link-address: %w", err)
		}

		pkt.PeerAddr, err = AddrFromBytes(raw[18:34])
		if err != nil {
			return pkt, fmt.Errorf("dhcpv6 relay peer-address: %w", err)
		}

		optsStart = v6RelayMinLen

	default:
		if len(raw) < v6ClientMinLen {
			return pkt, fmt.Errorf("dhcpv6: %w", errV6TooShort)
		}

		copy(pkt.TransactionID[:], raw[1:4])
		optsStart = v6ClientMinLen
	}

	if err = p.parseInto(ctx, state, raw[optsStart:], u, newBitSet()); err != nil {
		return pkt, fmt.Errorf("dhcpv6: %w", err)
	}

	pkt.Valid = true

	return pkt, nil
}
