package dhcpopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_RegistersBuiltinUniverses(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	for _, name := range []string{
		UniverseDHCPv4,
		UniverseDHCPv6,
		UniverseFQDN,
		UniverseVSIO,
		UniverseAgent,
		UniverseVendorEncapsulated,
	} {
		_, ok := e.Registry.ByName(name)
		assert.True(t, ok, "universe %s must be registered", name)
	}
}

func TestNewEngine_FreezesRegistry(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	err = e.Registry.Register(&Universe{Name: "late", TagSize: 1, LengthSize: 1})
	assert.ErrorIs(t, err, errRegistryFrozen)
}

func TestWireEncapsulation_LinksEncOptFromEnclosingOption(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	fqdn, ok := e.Registry.ByName(UniverseFQDN)
	require.True(t, ok)

	require.NotNil(t, fqdn.EncOpt)
	assert.Equal(t, UniverseDHCPv4, fqdn.EncOpt.Universe)
	assert.Equal(t, uint32(OptFQDN), fqdn.EncOpt.Code)
}
