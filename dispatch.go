package dhcpopt

import (
	"context"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
)

// v4MaxHlen is the largest hardware-address length the DHCPv4 universe's
// fixed header permits.
const v4MaxHlen = 16

// errV4BadHlen means a DHCPv4 packet's hlen field exceeded v4MaxHlen.
const errV4BadHlen errors.Error = "dhcpv4 hlen exceeds 16"

// Dispatcher routes raw datagrams to [Parser.ParseDHCPv4]/[ParseDHCPv6]
// after the length and header sanity checks they require, then hands the
// decoded [Packet] to a caller-supplied handler keyed by whether it carries
// a recognized DHCP message type or looks like plain BOOTP. Grounded on
// `dhcpsvc/handler4.go`/`handler6.go`'s `serveV4`/`serveV6` dispatch,
// narrowed to parse+validate+callback; the lease/state-machine logic those
// methods also perform belongs to the host, not this package.
type Dispatcher struct {
	parser *Parser
}

// NewDispatcher returns a Dispatcher backed by p.
func NewDispatcher(p *Parser) (d *Dispatcher) {
	return &Dispatcher{parser: p}
}

// DHCPv4Handler receives a successfully parsed DHCPv4 packet. isDHCP
// reports whether a MESSAGE_TYPE option was present (a DHCP client) versus
// absent (plain BOOTP).
type DHCPv4Handler func(ctx context.Context, pkt *Packet, isDHCP bool)

// DHCPv6Handler receives a successfully parsed DHCPv6 packet.
type DHCPv6Handler func(ctx context.Context, pkt *Packet)

// DispatchDHCPv4 validates and parses raw, then invokes handle. It returns
// an error without invoking handle if raw fails the header sanity checks.
func (d *Dispatcher) DispatchDHCPv4(ctx context.Context, raw []byte, handle DHCPv4Handler) (err error) {
	if len(raw) < v4MinLen {
		return fmt.Errorf("dhcpv4 dispatch: %w", errV4TooShort)
	}

	hlen := raw[v4OffHlen]
	if hlen > v4MaxHlen {
		return fmt.Errorf("dhcpv4 dispatch: hlen %d: %w", hlen, errV4BadHlen)
	}

	pkt, err := d.parser.ParseDHCPv4(raw)
	if err != nil {
		return fmt.Errorf("dhcpv4 dispatch: %w", err)
	}

	u, _ := d.parser.registry.ByName(UniverseDHCPv4)
	_, isDHCP := pkt.Options.Lookup(u, OptMessageType)

	handle(ctx, pkt, isDHCP)

	return nil
}

// DispatchDHCPv6 validates and parses raw, then invokes handle.
func (d *Dispatcher) DispatchDHCPv6(ctx context.Context, raw []byte, handle DHCPv6Handler) (err error) {
	if len(raw) < 1 {
		return fmt.Errorf("dhcpv6 dispatch: %w", errV6TooShort)
	}

	minLen := v6ClientMinLen
	if raw[v6OffMsgType] == MsgTypeV6RelayForw || raw[v6OffMsgType] == MsgTypeV6RelayRepl {
		minLen = v6RelayMinLen
	}

	if len(raw) < minLen {
		return fmt.Errorf("dhcpv6 dispatch: %w", errV6TooShort)
	}

	pkt, err := d.parser.ParseDHCPv6(raw)
	if err != nil {
		return fmt.Errorf("dhcpv6 dispatch: %w", err)
	}

	handle(ctx, pkt)

	return nil
}
