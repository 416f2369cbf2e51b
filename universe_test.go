package dhcpopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniverse_Validate(t *testing.T) {
	var nilUniverse *Universe
	assert.ErrorIs(t, nilUniverse.Validate(), errNilUniverse)

	assert.Error(t, (&Universe{Name: "", TagSize: 1}).Validate())
	assert.ErrorIs(t, (&Universe{Name: "x", TagSize: 3}).Validate(), errBadWidth)
	assert.ErrorIs(t, (&Universe{Name: "x", TagSize: 1, LengthSize: 3}).Validate(), errBadWidth)
	assert.NoError(t, (&Universe{Name: "x", TagSize: 2, LengthSize: 2}).Validate())
}

func TestUniverse_TagLengthRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		u *Universe
		tag uint32
		ln int
	}{
		{name: "1_byte", u: &Universe{TagSize: 1, LengthSize: 1}, tag: 0xAB, ln: 200},
		{name: "2_byte", u: &Universe{TagSize: 2, LengthSize: 2}, tag: 0xBEEF, ln: 40000},
		{name: "4_byte", u: &Universe{TagSize: 4, LengthSize: 4}, tag: 0xDEADBEEF, ln: 1 << 20},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
				tagBuf := make([]byte, tc.u.TagSize)
				tc.u.putTag(tagBuf, tc.tag)
				assert.Equal(t, tc.tag, tc.u.getTag(tagBuf))

				lenBuf := make([]byte, tc.u.LengthSize)
				tc.u.putLength(lenBuf, tc.ln)
				assert.Equal(t, tc.ln, tc.u.getLength(lenBuf))
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	u1 := &Universe{Name: "dhcp", TagSize: 1, LengthSize: 1}
	u2 := &Universe{Name: "dhcpv6", TagSize: 2, LengthSize: 2}

	require.NoError(t, reg.Register(u1))
	require.NoError(t, reg.Register(u2))

	assert.Equal(t, 0, u1.Index)
	assert.Equal(t, 1, u2.Index)
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.ByName("dhcp")
	require.True(t, ok)
	assert.Same(t, u1, got)

	got, ok = reg.ByIndex(1)
	require.True(t, ok)
	assert.Same(t, u2, got)

	_, ok = reg.ByName("missing")
	assert.False(t, ok)

	err := reg.Register(&Universe{Name: "dhcp", TagSize: 1, LengthSize: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDuplicateUniverse)

	reg.Freeze()

	err = reg.Register(&Universe{Name: "late", TagSize: 1, LengthSize: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, errRegistryFrozen)
}

func TestStorageDiscipline_String(t *testing.T) {
	assert.Equal(t, "hashed", DisciplineHashed.String())
	assert.Equal(t, "linked", DisciplineLinked.String())
	assert.Equal(t, "StorageDiscipline(7)", StorageDiscipline(7).String())
}
