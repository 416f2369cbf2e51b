package dhcpopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fqdnEntry(t *testing.T, e *Engine, state *OptionState, code uint32) *OptionCache {
	t.Helper()

	fqdnUniverse, ok := e.Registry.ByName(UniverseFQDN)
	require.True(t, ok)

	entry, ok := state.Lookup(fqdnUniverse, code)
	require.True(t, ok)

	return entry
}

func TestDecodeFQDN_ASCII_NotTerminated(t *testing.T) {
	p, e := testParser(t)
	state := NewOptionState(e.Registry, e.Catalog)

	payload := append([]byte{0, 0, 0}, []byte("host.example.com")...)

	require.NoError(t, p.decodeFQDN(state, payload))

	assert.Equal(t, "host.example.com", string(fqdnEntry(t, e, state, FQDNWhole).Data))
	assert.Equal(t, "host", string(fqdnEntry(t, e, state, FQDNHostname).Data))
	assert.Equal(t, "example.com", string(fqdnEntry(t, e, state, FQDNDomainname).Data))
	assert.Equal(t, byte(1), fqdnEntry(t, e, state, FQDNNoClientUpdate).Data[0])
}

func TestDecodeFQDN_ASCII_Terminated(t *testing.T) {
	p, e := testParser(t)
	state := NewOptionState(e.Registry, e.Catalog)

	payload := append([]byte{0, 0, 0}, append([]byte("host.example.com"), 0)...)

	require.NoError(t, p.decodeFQDN(state, payload))

	assert.Equal(t, "host.example.com", string(fqdnEntry(t, e, state, FQDNWhole).Data))
	assert.Equal(t, byte(0), fqdnEntry(t, e, state, FQDNNoClientUpdate).Data[0])
}

func TestDecodeFQDN_Encoded(t *testing.T) {
	p, e := testParser(t)
	state := NewOptionState(e.Registry, e.Catalog)

	labels := []byte{4, 'h', 'o', 's', 't', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}
	payload := append([]byte{fqdnFlagEncoded | fqdnFlagServerUpdate, 0, 0}, labels...)

	require.NoError(t, p.decodeFQDN(state, payload))

	assert.Equal(t, "host.example.com", string(fqdnEntry(t, e, state, FQDNWhole).Data))
	assert.Equal(t, byte(1), fqdnEntry(t, e, state, FQDNEncoded).Data[0])
	assert.Equal(t, byte(1), fqdnEntry(t, e, state, FQDNServerUpdate).Data[0])
}

func TestDecodeFQDN_TooShort(t *testing.T) {
	p, _ := testParser(t)
	state := NewOptionState(NewRegistry(), NewCatalog())

	err := p.decodeFQDN(state, []byte{0, 0})
	assert.ErrorIs(t, err, errFQDNTooShort)
}

func TestDecodeFQDN_OversizeLabel(t *testing.T) {
	p, e := testParser(t)
	state := NewOptionState(e.Registry, e.Catalog)

	oversize := make([]byte, 65)
	oversize[0] = 64 // exceeds the 63-octet label limit

	payload := append([]byte{fqdnFlagEncoded, 0, 0}, oversize...)

	err := p.decodeFQDN(state, payload)
	assert.ErrorIs(t, err, errFQDNBadLabel)
}
