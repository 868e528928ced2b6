package zarr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDtype(t *testing.T) {
	t.Run("accepted forms", func(t *testing.T) {
		cases := []struct {
			in   string
			want Dtype
		}{
			{"<f4", Dtype{LittleEndian, KindFloat, 4}},
			{"<f8", Dtype{LittleEndian, KindFloat, 8}},
			{">f4", Dtype{BigEndian, KindFloat, 4}},
			{"=f8", Dtype{LittleEndian, KindFloat, 8}},
			{"<i2", Dtype{LittleEndian, KindInt, 2}},
			{">i8", Dtype{BigEndian, KindInt, 8}},
			{"<u1", Dtype{LittleEndian, KindUint, 1}},
			{"|b1", Dtype{NoOrder, KindBool, 1}},
			{"|u1", Dtype{NoOrder, KindUint, 1}},
		}
		for _, tc := range cases {
			t.Run(tc.in, func(t *testing.T) {
				d, err := ParseDtype(tc.in)
				require.NoError(t, err)
				assert.Equal(t, tc.want, d)
			})
		}
	})

	t.Run("rejected forms", func(t *testing.T) {
		for _, in := range []string{"", "f", "f4", "?f4", "<s4", "<f1", "<f2", "|b2", "<i3", "<f16", "|f8", "|i4", "|u2"} {
			t.Run(in, func(t *testing.T) {
				_, err := ParseDtype(in)
				assert.Error(t, err)
			})
		}
	})
}

func TestDecodeEncodeValues(t *testing.T) {
	t.Run("float32 little endian", func(t *testing.T) {
		d, err := ParseDtype("<f4")
		require.NoError(t, err)
		want := []float64{287.5, -12.25, 0}
		raw, err := d.EncodeValues(want)
		require.NoError(t, err)
		got, err := d.DecodeValues(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("float64 big endian", func(t *testing.T) {
		d, err := ParseDtype(">f8")
		require.NoError(t, err)
		want := []float64{-1812452.6, 3.14159265358979}
		raw, err := d.EncodeValues(want)
		require.NoError(t, err)
		got, err := d.DecodeValues(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("int16 widens on decode", func(t *testing.T) {
		d, err := ParseDtype("<i2")
		require.NoError(t, err)
		raw, err := d.EncodeValues([]float64{-300, 42})
		require.NoError(t, err)
		got, err := d.DecodeValues(raw)
		require.NoError(t, err)
		assert.Equal(t, []float64{-300, 42}, got)
	})

	t.Run("ragged byte count is an error", func(t *testing.T) {
		d, err := ParseDtype("<f4")
		require.NoError(t, err)
		_, err = d.DecodeValues(make([]byte, 7))
		assert.Error(t, err)
	})
}
