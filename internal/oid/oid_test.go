package oid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    OID
		wantErr bool
	}{
		{in: ".1.3.6.1", want: OID{1, 3, 6, 1}},
		{in: "1.3.6.1", want: OID{1, 3, 6, 1}},
		{in: " .1.3 ", want: OID{1, 3}},
		{in: "", wantErr: true},
		{in: ".", wantErr: true},
		{in: ".1..3", wantErr: true},
		{in: ".1.x.3", wantErr: true},
		{in: ".1.-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidOID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, ".1.3.6.1.2.1.17", OID{1, 3, 6, 1, 2, 1, 17}.String())
	assert.Equal(t, "", OID{}.String())
}

func TestIsRootOf(t *testing.T) {
	root := MustParse(".1.3.6.1.2.1.17.7.1.2.2.1.2.1")

	assert.True(t, root.IsRootOf(root.Append(170, 187, 204, 221, 238, 255)))
	assert.False(t, root.IsRootOf(root), "an OID is not its own root")
	assert.False(t, root.IsRootOf(MustParse(".1.3.6.1.2.1.17.7.1.2.2.1.3.1.0")))
	assert.False(t, root.IsRootOf(MustParse(".1.3.6.1.2.1.17")))
	assert.False(t, root.IsRootOf(MustParse(".1.3.6.1.2.1.17.7.1.2.2.1.2.10.1")))
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := make(OID, 2, 8)
	base[0], base[1] = 1, 3

	a := base.Append(6)
	b := base.Append(7)

	assert.Equal(t, OID{1, 3, 6}, a)
	assert.Equal(t, OID{1, 3, 7}, b)
	assert.Equal(t, OID{1, 3}, base)
}

func TestTailAndHasSuffix(t *testing.T) {
	o := MustParse(".1.2.3.4.5")

	assert.Equal(t, OID{4, 5}, o.Tail(2))
	assert.Nil(t, o.Tail(6))
	assert.True(t, o.HasSuffix(OID{3, 4, 5}))
	assert.False(t, o.HasSuffix(OID{3, 4}))
	assert.False(t, OID{5}.HasSuffix(OID{4, 5}))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{".1.3", ".1.3", 0},
		{".1.3", ".1.3.1", -1},
		{".1.3.1", ".1.3", 1},
		{".1.3.9", ".1.3.10", -1},
		{".1.4", ".1.3.99", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compare(MustParse(tt.a), MustParse(tt.b)), "%s vs %s", tt.a, tt.b)
	}
}
