package dhcpopt

import (
	"fmt"
	"net/netip"

	"github.com/AdguardTeam/golibs/errors"
)

// Addr is an address value holding either an IPv4 (4-byte) or IPv6 (16-byte)
// address, or the zero-length "no address" value. Grounded on dhcpsvc's
// ipRange/netip.Addr handling in internal/dhcpd/iprange.go, generalized to
// the dual v4/v6, fixed-capacity buffer this package needs.
type Addr struct {
	bytes [16]byte
	n int
}

// AddrFromBytes returns an Addr copying b, which must have length 0, 4, or
// 16. It returns an error otherwise.
func AddrFromBytes(b []byte) (a Addr, err error) {
	switch len(b) {
	case 0, 4, 16:
		var out Addr
		out.n = len(b)
		copy(out.bytes[:], b)

		return out, nil
	default:
		return Addr{}, fmt.Errorf("address length %d: %w", len(b), errBadAddrLen)
	}
}

// errBadAddrLen is returned by [AddrFromBytes] for a length outside
// {0, 4, 16}.
const errBadAddrLen errors.Error = "address length must be 0, 4, or 16"

// Len returns a's length in bytes: 0, 4, or 16.
func (a Addr) Len() (n int) {
	return a.n
}

// Bytes returns a's bytes, of length a.Len().
func (a Addr) Bytes() (b []byte) {
	return append([]byte(nil), a.bytes[:a.n]...)
}

// IsZero reports whether a is the zero-length "no address" value.
func (a Addr) IsZero() (ok bool) {
	return a.n == 0
}

// sameLen returns an error unless a and b have equal, non-zero length.
func sameLen(a, b Addr) (err error) {
	if a.n == 0 || b.n == 0 {
		return errZeroLenAddr
	}

	if a.n != b.n {
		return fmt.Errorf("%d != %d: %w", a.n, b.n, errLenMismatch)
	}

	return nil
}

const (
	errZeroLenAddr errors.Error = "zero-length address"
	errLenMismatch errors.Error = "address lengths differ"
)

// SubnetOf returns the bytewise AND of addr and mask.
func SubnetOf(addr, mask Addr) (subnet Addr, err error) {
	if err = sameLen(addr, mask); err != nil {
		return Addr{}, fmt.Errorf("subnet_of: %w", err)
	}

	out := Addr{n: addr.n}
	for i := range addr.n {
		out.bytes[i] = addr.bytes[i] & mask.bytes[i]
	}

	return out, nil
}

// BroadcastOf returns the bytewise OR of subnet and the complement of mask.
func BroadcastOf(subnet, mask Addr) (broadcast Addr, err error) {
	if err = sameLen(subnet, mask); err != nil {
		return Addr{}, fmt.Errorf("broadcast_of: %w", err)
	}

	out := Addr{n: subnet.n}
	for i := range subnet.n {
		out.bytes[i] = subnet.bytes[i] | ^mask.bytes[i]
	}

	return out, nil
}

// Compose places the low bits of host into the low unmasked bytes of
// subnet, as selected by mask. It returns an error if host's significant
// bits exceed the capacity left unmasked.
func Compose(subnet, mask Addr, host uint32) (addr Addr, err error) {
	if err = sameLen(subnet, mask); err != nil {
		return Addr{}, fmt.Errorf("compose: %w", err)
	}

	hostBits := 8 * subnet.n
	for i := range subnet.n {
		if mask.bytes[i] != 0xFF {
			hostBits = 8 * (subnet.n - i)

			break
		}
	}

	if hostBits < 32 && host>>uint(hostBits) != 0 {
		return Addr{}, fmt.Errorf("host part %d exceeds %d bits: %w", host, hostBits, errHostOverflow)
	}

	out := Addr{n: subnet.n}
	copy(out.bytes[:subnet.n], subnet.bytes[:subnet.n])

	for i := 0; i < 4 && i < subnet.n; i++ {
		bytePos := subnet.n - 1 - i
		hostByte := byte(host >> (8 * i))
		out.bytes[bytePos] = (subnet.bytes[bytePos] & mask.bytes[bytePos]) | (hostByte &^ mask.bytes[bytePos])
	}

	return out, nil
}

// errHostOverflow is returned by [Compose] when host does not fit in the
// bits left unmasked by mask.
const errHostOverflow errors.Error = "host part exceeds mask capacity"

// HostOf returns the low 32 bits of (addr AND NOT mask), in host byte order.
func HostOf(addr, mask Addr) (host uint32, err error) {
	if err = sameLen(addr, mask); err != nil {
		return 0, fmt.Errorf("host_of: %w", err)
	}

	for i := 0; i < 4 && i < addr.n; i++ {
		bytePos := addr.n - 1 - i
		b := addr.bytes[bytePos] &^ mask.bytes[bytePos]
		host |= uint32(b) << (8 * i)
	}

	return host, nil
}

// Equal reports whether a and b hold the same length and bytes.
func Equal(a, b Addr) (ok bool) {
	return a.n == b.n && a.bytes == b.bytes
}

// Net is an address/mask pair, as used by [Matches].
type Net struct {
	Addr Addr
	Mask Addr
}

// Matches reports whether addr lies within net (i.e. subnet_of(addr,
// net.Mask) == net.Addr).
func Matches(addr Addr, net Net) (ok bool) {
	subnet, err := SubnetOf(addr, net.Mask)
	if err != nil {
		return false
	}

	return Equal(subnet, net.Addr)
}

// Format renders addr in dotted-quad (4-byte) or colon-hex (16-byte) form.
func Format(addr Addr) (s string) {
	switch addr.n {
	case 4:
		return fmt.Sprintf("%d.%d.%d.%d", addr.bytes[0], addr.bytes[1], addr.bytes[2], addr.bytes[3])
	case 16:
		return formatV6(addr.bytes)
	default:
		return "<none>"
	}
}

// formatV6 renders a 16-byte address in RFC 5952 compressed colon-hex form
// via net/netip, dhcpsvc's preferred address type for new code (see
// dhcpsvc's netip.Addr-based config fields).
func formatV6(b [16]byte) (s string) {
	return netip.AddrFrom16(b).String()
}

// PrefixLen returns the number of leading set bits of mask, scanning from
// the most significant bit until a clear bit is found. An all-ones mask
// returns the full address width.
func PrefixLen(mask Addr) (bits int) {
	for i := range mask.n {
		b := mask.bytes[i]
		if b == 0xFF {
			bits += 8

			continue
		}

		for b&0x80 != 0 {
			bits++
			b <<= 1
		}

		break
	}

	return bits
}

// FormatCIDR renders addr as "<addr>/<bits>".
func FormatCIDR(addr Addr, bits int) (s string) {
	return fmt.Sprintf("%s/%d", Format(addr), bits)
}
