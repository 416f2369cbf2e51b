package dhcpopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleDHCPv6_RequiredThenORO(t *testing.T) {
	a, e := testAssembler(t)
	u, _ := e.Registry.ByName(UniverseDHCPv6)

	const (
		optClientID = 1
		optServerID = 2
		optDNSServers = 23
	)

	cfg := NewOptionState(e.Registry, e.Catalog)
	for _, code := range []uint32{optClientID, optServerID, optDNSServers} {
		d := &Descriptor{Universe: u.Name, Code: code, Name: "x", FormatStr: "X"}
		_ = e.Catalog.Register(d)
		cfg.Save(u, &OptionCache{Descriptor: d, Expr: ConstEvaluator([]byte{9})})
	}

	// optServerID is listed in the ORO too; it must not be emitted twice.
	buf, err := a.AssembleDHCPv6(cfg, EvalScope{}, []uint32{optServerID}, []uint32{optClientID, optServerID, optDNSServers})
	require.NoError(t, err)

	codes := v6TagsIn(buf)
	require.Equal(t, []uint32{optServerID, optClientID, optDNSServers}, codes)
}

func TestAssembleDHCPv6_SkipsVendorOptsFromDirectEmission(t *testing.T) {
	a, e := testAssembler(t)
	u, _ := e.Registry.ByName(UniverseDHCPv6)

	cfg := NewOptionState(e.Registry, e.Catalog)
	d, _ := e.Catalog.Lookup(u.Name, OptV6VendorOpts)
	// An entry under option 17 itself must never be emitted by the
	// required/ORO walk; only assembleVSIO is allowed to produce it.
	cfg.Save(u, &OptionCache{Descriptor: d, Expr: ConstEvaluator([]byte{1, 2, 3, 4})})

	buf, err := a.AssembleDHCPv6(cfg, EvalScope{}, []uint32{OptV6VendorOpts}, nil)
	require.NoError(t, err)
	assert.Empty(t, buf)
}

func TestAssembleDHCPv6_VSIOPerEnterprise(t *testing.T) {
	a, e := testAssembler(t)
	u, _ := e.Registry.ByName(UniverseDHCPv6)
	vsioUniverse, _ := e.Registry.ByName(UniverseVSIO)

	cfg := NewOptionState(e.Registry, e.Catalog)

	const enterpriseID = uint32(9)
	sub := cfg.VSIO().StateFor(e.Registry, e.Catalog, enterpriseID)
	d := &Descriptor{Universe: UniverseVSIO, Code: 1, Name: "x", FormatStr: "X"}
	_ = e.Catalog.Register(d)
	sub.Save(vsioUniverse, &OptionCache{Descriptor: d, Expr: ConstEvaluator([]byte{7})})

	buf, err := a.AssembleDHCPv6(cfg, EvalScope{}, nil, nil)
	require.NoError(t, err)

	codes := v6TagsIn(buf)
	require.Equal(t, []uint32{OptV6VendorOpts}, codes)

	// Payload is <enterprise-id:4><inner TLV stream>; check the enterprise
	// ID landed at the front of the option 17 payload.
	length := uint32(buf[2])<<8 | uint32(buf[3])
	require.GreaterOrEqual(t, length, uint32(4))
	payload := buf[4 : 4+length]
	gotEnterprise := uint32(payload[0])<<24 | uint32(payload[1])<<16 | uint32(payload[2])<<8 | uint32(payload[3])
	assert.Equal(t, enterpriseID, gotEnterprise)
}

// v6TagsIn walks a flat 2-byte-tag/2-byte-length DHCPv6 option stream and
// returns the tags in emission order.
func v6TagsIn(buf []byte) (codes []uint32) {
	for i := 0; i+4 <= len(buf); {
		tag := uint32(buf[i])<<8 | uint32(buf[i+1])
		length := int(buf[i+2])<<8 | int(buf[i+3])
		codes = append(codes, tag)
		i += 4 + length
	}

	return codes
}
