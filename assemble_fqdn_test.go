package dhcpopt

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFQDN_ASCII(t *testing.T) {
	p, e := testParser(t)
	state := NewOptionState(e.Registry, e.Catalog)

	payload := append([]byte{fqdnFlagServerUpdate, 1, 2}, []byte("host.example.com")...)
	require.NoError(t, p.decodeFQDN(state, payload))

	fqdnUniverse, _ := e.Registry.ByName(UniverseFQDN)
	got := encodeFQDN(fqdnUniverse, state, EvalScope{})

	require.Len(t, got, 3+len("host.example.com"))
	// The name is not NUL-terminated, so decodeFQDN also set
	// no-client-update.
	assert.Equal(t, byte(fqdnFlagServerUpdate|fqdnFlagNoClientUpdate), got[0])
	assert.Equal(t, byte(1), got[1])
	assert.Equal(t, byte(2), got[2])
	assert.Equal(t, "host.example.com", string(got[3:]))
}

func TestEncodeFQDN_Encoded(t *testing.T) {
	p, e := testParser(t)
	state := NewOptionState(e.Registry, e.Catalog)

	labels := []byte{4, 'h', 'o', 's', 't', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}
	payload := append([]byte{fqdnFlagEncoded, 0, 0}, labels...)
	require.NoError(t, p.decodeFQDN(state, payload))

	fqdnUniverse, _ := e.Registry.ByName(UniverseFQDN)
	got := encodeFQDN(fqdnUniverse, state, EvalScope{})

	require.True(t, len(got) > 3)
	assert.Equal(t, byte(fqdnFlagEncoded), got[0])
	assert.Equal(t, labels, got[3:])
}

func TestAssembleDHCPv4_FQDNRoundTrip(t *testing.T) {
	p, e := testParser(t)
	a := NewAssembler(e.Registry, e.Catalog, slog.Default())

	state := NewOptionState(e.Registry, e.Catalog)
	payload := append([]byte{fqdnFlagServerUpdate, 0, 0}, []byte("host.example.com")...)
	require.NoError(t, p.decodeFQDN(state, payload))

	u, _ := e.Registry.ByName(UniverseDHCPv4)
	d, _ := e.Catalog.Lookup(u.Name, OptFQDN)

	// decodeFQDN only populates the "fqdn" sub-universe; give the DHCPv4
	// universe an entry under option 81 so the assembler's priority list
	// picks it up and drives the Encapsulate hook.
	state.Save(u, &OptionCache{Descriptor: d, Expr: ConstEvaluator(nil)})

	res, err := a.AssembleDHCPv4(state, EvalScope{}, nil, 0, 0, 0, false, true)
	require.NoError(t, err)

	idx := indexOfByte(res.Options, byte(OptFQDN))
	require.NotEqual(t, -1, idx)

	length := int(res.Options[idx+1])
	value := res.Options[idx+2 : idx+2+length]

	require.True(t, len(value) >= 3)
	assert.Equal(t, byte(fqdnFlagServerUpdate|fqdnFlagNoClientUpdate), value[0])
	assert.Equal(t, "host.example.com", string(value[3:]))
}
