package dhcpopt

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildV4Packet assembles a minimal, well-formed DHCPv4 datagram: a
// zeroed fixed header, the magic cookie, opts appended to the options
// region, and optional file/sname region overrides.
func buildV4Packet(t *testing.T, opts, file, sname []byte) []byte {
	t.Helper()

	raw := make([]byte, v4MinLen)
	copy(raw[v4OffCookie:v4OffOpts], dhcpv4MagicCookie[:])

	if file != nil {
		require.LessOrEqual(t, len(file), v4FileLen)
		copy(raw[v4OffFile:], file)
	}

	if sname != nil {
		require.LessOrEqual(t, len(sname), v4SnameLen)
		copy(raw[v4OffSname:], sname)
	}

	raw = append(raw, opts...)

	return raw
}

func testParser(t *testing.T) (*Parser, *Engine) {
	t.Helper()

	e, err := NewEngine()
	require.NoError(t, err)

	return NewParser(e.Registry, e.Catalog, slog.Default()), e
}

func TestParseDHCPv4_Minimal(t *testing.T) {
	p, e := testParser(t)

	opts := []byte{
		byte(OptMessageType), 1, byte(MsgTypeDiscover),
		byte(OptParameterRequestList), 2, byte(OptSubnetMask), byte(OptRouters),
		255, // END
	}

	raw := buildV4Packet(t, opts, nil, nil)

	pkt, err := p.ParseDHCPv4(raw)
	require.NoError(t, err)
	assert.True(t, pkt.Valid)
	assert.Equal(t, MsgTypeDiscover, uint32(pkt.MessageType))

	u, _ := e.Registry.ByName(UniverseDHCPv4)
	entry, ok := pkt.Options.Lookup(u, OptParameterRequestList)
	require.True(t, ok)
	assert.Equal(t, []byte{byte(OptSubnetMask), byte(OptRouters)}, entry.Data)
}

func TestParseDHCPv4_TooShort(t *testing.T) {
	p, _ := testParser(t)

	_, err := p.ParseDHCPv4(make([]byte, 10))
	assert.ErrorIs(t, err, errV4TooShort)
}

func TestParseDHCPv4_BadCookie(t *testing.T) {
	p, _ := testParser(t)

	raw := make([]byte, v4MinLen)
	pkt, err := p.ParseDHCPv4(raw)
	require.NoError(t, err)
	assert.False(t, pkt.Valid)
	require.NotNil(t, pkt.Options)
}

func TestParseDHCPv4_Overload(t *testing.T) {
	p, e := testParser(t)
	u, _ := e.Registry.ByName(UniverseDHCPv4)

	fileOpts := []byte{byte(OptHostName), 3, 'f', 'o', 'o', 255}
	snameOpts := []byte{byte(OptDomainName), 3, 'b', 'a', 'r', 255}

	opts := []byte{
		byte(OptMessageType), 1, byte(MsgTypeOffer),
		byte(OptOverload), 1, 3, // both file and sname used
		255,
	}

	raw := buildV4Packet(t, opts, fileOpts, snameOpts)

	pkt, err := p.ParseDHCPv4(raw)
	require.NoError(t, err)

	host, ok := pkt.Options.Lookup(u, OptHostName)
	require.True(t, ok)
	assert.Equal(t, "foo", string(host.Data))

	domain, ok := pkt.Options.Lookup(u, OptDomainName)
	require.True(t, ok)
	assert.Equal(t, "bar", string(domain.Data))
}

func TestParseDHCPv4_ServerRobustnessTolerance(t *testing.T) {
	p, e := testParser(t)
	u, _ := e.Registry.ByName(UniverseDHCPv4)

	// MESSAGE_TYPE=ACK is captured, then the stream is corrupted by an
	// option whose declared length overruns the buffer.
	opts := []byte{
		byte(OptMessageType), 1, byte(MsgTypeAck),
		byte(OptHostName), 200, 'x',
	}

	raw := buildV4Packet(t, opts, nil, nil)

	pkt, err := p.ParseDHCPv4(raw)
	require.NoError(t, err, "a server-originated ACK tolerates a malformed tail")
	assert.True(t, pkt.Valid)

	mt, ok := pkt.Options.Lookup(u, OptMessageType)
	require.True(t, ok)
	assert.Equal(t, byte(MsgTypeAck), mt.Data[0])
}

func TestParseDHCPv4_ClientOriginatedCorruptionIsFatal(t *testing.T) {
	p, _ := testParser(t)

	// MESSAGE_TYPE=DISCOVER (client-originated) does not get the
	// tolerance treatment.
	opts := []byte{
		byte(OptMessageType), 1, byte(MsgTypeDiscover),
		byte(OptHostName), 200, 'x',
	}

	raw := buildV4Packet(t, opts, nil, nil)

	_, err := p.ParseDHCPv4(raw)
	assert.Error(t, err)
}

func TestV4ReadXID(t *testing.T) {
	raw := buildV4Packet(t, nil, nil, nil)
	raw[v4OffXID] = 0xDE
	raw[v4OffXID+1] = 0xAD
	raw[v4OffXID+2] = 0xBE
	raw[v4OffXID+3] = 0xEF

	assert.Equal(t, uint32(0xDEADBEEF), v4ReadXID(raw))
}
