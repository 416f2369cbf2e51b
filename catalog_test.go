package dhcpopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_RegisterAndLookup(t *testing.T) {
	cat := NewCatalog()

	d := &Descriptor{Universe: "dhcp", Code: 1, Name: "subnet-mask", FormatStr: "I"}
	require.NoError(t, cat.Register(d))

	got, ok := cat.Lookup("dhcp", 1)
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.False(t, got.Synthetic)

	byName, ok := cat.LookupByName("dhcp", "subnet-mask")
	require.True(t, ok)
	assert.Same(t, d, byName)
}

func TestCatalog_Register_Duplicate(t *testing.T) {
	cat := NewCatalog()

	require.NoError(t, cat.Register(&Descriptor{Universe: "dhcp", Code: 1, Name: "a", FormatStr: "I"}))

	err := cat.Register(&Descriptor{Universe: "dhcp", Code: 1, Name: "b", FormatStr: "I"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDuplicateOption)
}

func TestCatalog_Register_Incomplete(t *testing.T) {
	cat := NewCatalog()

	err := cat.Register(&Descriptor{Universe: "", Code: 1, Name: "a", FormatStr: "I"})
	require.Error(t, err)

	err = cat.Register(&Descriptor{Universe: "dhcp", Code: 1, Name: "", FormatStr: "I"})
	require.Error(t, err)
}

func TestCatalog_Lookup_SyntheticFallback(t *testing.T) {
	cat := NewCatalog()

	d, ok := cat.Lookup("dhcp", 250)
	require.False(t, ok)
	require.NotNil(t, d)
	assert.True(t, d.Synthetic)
	assert.Equal(t, "unknown-250", d.Name)
	assert.Equal(t, uint32(250), d.Code)

	// A second lookup for the same unregistered code returns the same
	// memoized descriptor, not a fresh one.
	again, ok := cat.Lookup("dhcp", 250)
	require.False(t, ok)
	assert.Same(t, d, again)
}

func TestCatalog_ByUniverse(t *testing.T) {
	cat := NewCatalog()

	require.NoError(t, cat.Register(&Descriptor{Universe: "dhcp", Code: 1, Name: "a", FormatStr: "I"}))
	require.NoError(t, cat.Register(&Descriptor{Universe: "dhcp", Code: 2, Name: "b", FormatStr: "I"}))
	require.NoError(t, cat.Register(&Descriptor{Universe: "dhcpv6", Code: 1, Name: "c", FormatStr: "I"}))

	ds := cat.ByUniverse("dhcp")
	assert.Len(t, ds, 2)

	assert.Empty(t, cat.ByUniverse("unregistered"))
}
