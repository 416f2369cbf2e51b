package dhcpopt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVSIO(t *testing.T) {
	p, e := testParser(t)
	vsioUniverse, ok := e.Registry.ByName(UniverseVSIO)
	require.True(t, ok)

	state := NewOptionState(e.Registry, e.Catalog)

	// enterprise 9 (Cisco), one suboption code 1 with payload "x".
	payload := []byte{0, 0, 0, 9, 0, 1, 0, 1, 'x'}

	err := p.decodeVSIO(context.Background(), state, vsioUniverse, payload, newBitSet())
	require.NoError(t, err)

	enterprises := state.VSIO().Enterprises()
	require.Len(t, enterprises, 1)
	assert.Equal(t, uint32(9), enterprises[0])

	sub := state.VSIO().StateFor(e.Registry, e.Catalog, 9)
	entry, ok := sub.Lookup(vsioUniverse, 1)
	require.True(t, ok)
	assert.Equal(t, []byte("x"), entry.Data)
}

func TestDecodeVSIO_TooShort(t *testing.T) {
	p, e := testParser(t)
	vsioUniverse, _ := e.Registry.ByName(UniverseVSIO)
	state := NewOptionState(e.Registry, e.Catalog)

	err := p.decodeVSIO(context.Background(), state, vsioUniverse, []byte{0, 0, 1}, newBitSet())
	assert.ErrorIs(t, err, errVSIOTooShort)
}
