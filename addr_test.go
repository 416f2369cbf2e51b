package dhcpopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, b []byte) Addr {
	t.Helper()

	a, err := AddrFromBytes(b)
	require.NoError(t, err)

	return a
}

func TestAddrFromBytes(t *testing.T) {
	_, err := AddrFromBytes([]byte{1, 2, 3})
	assert.ErrorIs(t, err, errBadAddrLen)

	a := mustAddr(t, []byte{192, 168, 1, 1})
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, "192.168.1.1", Format(a))

	zero, err := AddrFromBytes(nil)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestSubnetAndBroadcast(t *testing.T) {
	addr := mustAddr(t, []byte{192, 168, 1, 42})
	mask := mustAddr(t, []byte{255, 255, 255, 0})

	subnet, err := SubnetOf(addr, mask)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.0", Format(subnet))

	broadcast, err := BroadcastOf(subnet, mask)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.255", Format(broadcast))

	assert.True(t, Matches(addr, Net{Addr: subnet, Mask: mask}))
	assert.False(t, Matches(mustAddr(t, []byte{10, 0, 0, 1}), Net{Addr: subnet, Mask: mask}))
}

func TestCompose_HostOf(t *testing.T) {
	subnet := mustAddr(t, []byte{192, 168, 1, 0})
	mask := mustAddr(t, []byte{255, 255, 255, 0})

	addr, err := Compose(subnet, mask, 42)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.42", Format(addr))

	host, err := HostOf(addr, mask)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), host)

	_, err = Compose(subnet, mask, 1<<9)
	assert.ErrorIs(t, err, errHostOverflow)
}

func TestSameLenMismatch(t *testing.T) {
	v4 := mustAddr(t, []byte{1, 2, 3, 4})
	v6 := mustAddr(t, make([]byte, 16))

	_, err := SubnetOf(v4, v6)
	assert.ErrorIs(t, err, errLenMismatch)

	zero := Addr{}
	_, err = SubnetOf(zero, v4)
	assert.ErrorIs(t, err, errZeroLenAddr)
}

func TestPrefixLen(t *testing.T) {
	testCases := []struct {
		mask []byte
		want int
	}{
		{mask: []byte{255, 255, 255, 0}, want: 24},
		{mask: []byte{255, 255, 255, 255}, want: 32},
		{mask: []byte{255, 255, 254, 0}, want: 23},
		{mask: []byte{0, 0, 0, 0}, want: 0},
	}

	for _, tc := range testCases {
		a := mustAddr(t, tc.mask)
		assert.Equal(t, tc.want, PrefixLen(a))
	}
}

func TestFormatCIDR(t *testing.T) {
	a := mustAddr(t, []byte{10, 0, 0, 0})
	assert.Equal(t, "10.0.0.0/8", FormatCIDR(a, 8))
}

func TestFormat_IPv6(t *testing.T) {
	v6 := mustAddr(t, []byte{
			0x20, 0x01, 0x0d, 0xb8,
			0, 0, 0, 0,
			0, 0, 0, 0,
			0, 0, 0, 1,
	})

	assert.Equal(t, "2001:db8::1", Format(v6))
}

func TestEqual(t *testing.T) {
	a := mustAddr(t, []byte{1, 2, 3, 4})
	b := mustAddr(t, []byte{1, 2, 3, 4})
	c := mustAddr(t, []byte{1, 2, 3, 5})

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}
