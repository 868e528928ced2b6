package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want Unit
	}{
		{"K", Kelvin},
		{"kelvin", Kelvin},
		{" degC ", Celsius},
		{"Celsius", Celsius},
		{"DEG_F", Fahrenheit},
		{"f", Fahrenheit},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			u, err := Normalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, u)
		})
	}

	_, err := Normalize("furlongs")
	assert.Error(t, err)
}

func TestTransform(t *testing.T) {
	cases := []struct {
		from, to string
		in, want float64
	}{
		{"K", "degC", 273.15, 0},
		{"K", "degC", 287.5, 14.35},
		{"degC", "K", 0, 273.15},
		{"K", "degF", 273.15, 32},
		{"degF", "K", 32, 273.15},
		{"degC", "degF", 100, 212},
		{"degF", "degC", 212, 100},
	}
	for _, tc := range cases {
		t.Run(tc.from+" to "+tc.to, func(t *testing.T) {
			fn, err := Transform(tc.from, tc.to)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, fn(tc.in), 1e-9)
		})
	}

	t.Run("identity is exact and idempotent", func(t *testing.T) {
		fn, err := Transform("kelvin", "K")
		require.NoError(t, err)
		assert.Equal(t, 287.5, fn(287.5))
		assert.Equal(t, 287.5, fn(fn(287.5)))
	})

	t.Run("unknown units fail", func(t *testing.T) {
		_, err := Transform("pascal", "K")
		assert.Error(t, err)
		_, err = Transform("K", "pascal")
		assert.Error(t, err)
	})
}
