package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefConstruction(t *testing.T) {
	t.Run("coordinate and data refs for the documented example", func(t *testing.T) {
		coord, err := CoordRef("hrrrzarr", "20210214", "12", "2m_above_ground", "TMP")
		require.NoError(t, err)
		assert.Equal(t, "sfc/20210214/20210214_12z_anl.zarr/2m_above_ground/TMP", coord.Key)
		assert.Equal(t, "s3://hrrrzarr/sfc/20210214/20210214_12z_anl.zarr/2m_above_ground/TMP", coord.URI())

		data, err := DataRef("hrrrzarr", "20210214", "12", "2m_above_ground", "TMP")
		require.NoError(t, err)
		assert.Equal(t, "sfc/20210214/20210214_12z_anl.zarr/2m_above_ground/TMP/2m_above_ground", data.Key)
	})

	t.Run("both refs share the same prefix", func(t *testing.T) {
		coord, err := CoordRef("hrrrzarr", "20230601", "00", "surface", "PRES")
		require.NoError(t, err)
		data, err := DataRef("hrrrzarr", "20230601", "00", "surface", "PRES")
		require.NoError(t, err)
		assert.Equal(t, coord.Key+"/surface", data.Key)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		cases := []struct {
			name                        string
			date, hour, level, variable string
		}{
			{"date not YYYYMMDD", "2021-02-14", "12", "2m_above_ground", "TMP"},
			{"date not a calendar date", "20211345", "12", "2m_above_ground", "TMP"},
			{"hour out of range", "20210214", "24", "2m_above_ground", "TMP"},
			{"hour not two digits", "20210214", "7", "2m_above_ground", "TMP"},
			{"level with slash", "20210214", "12", "2m/above", "TMP"},
			{"empty variable", "20210214", "12", "2m_above_ground", ""},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := CoordRef("hrrrzarr", tc.date, tc.hour, tc.level, tc.variable)
				assert.Error(t, err)
			})
		}
	})

	t.Run("empty bucket", func(t *testing.T) {
		_, err := CoordRef("", "20210214", "12", "2m_above_ground", "TMP")
		assert.Error(t, err)
	})
}

func TestRequestValidate(t *testing.T) {
	valid := Request{
		Date: "20210214", Hour: "12", Variable: "TMP", Level: "2m_above_ground",
		TargetUnit: "degC", ContourStep: 2,
		BBox:    BoundingBox{WestLon: -109, EastLon: -90, SouthLat: 33, NorthLat: 45},
		WidthPx: 800, HeightPx: 600,
	}
	require.NoError(t, valid.Validate())

	t.Run("zero contour step", func(t *testing.T) {
		r := valid
		r.ContourStep = 0
		assert.Error(t, r.Validate())
	})

	t.Run("missing target unit", func(t *testing.T) {
		r := valid
		r.TargetUnit = ""
		assert.Error(t, r.Validate())
	})

	t.Run("inverted bbox", func(t *testing.T) {
		r := valid
		r.BBox = BoundingBox{WestLon: -90, EastLon: -109, SouthLat: 33, NorthLat: 45}
		assert.Error(t, r.Validate())
	})

	t.Run("zero image size", func(t *testing.T) {
		r := valid
		r.WidthPx = 0
		assert.Error(t, r.Validate())
	})
}

func TestBoundingBoxCorners(t *testing.T) {
	b := BoundingBox{WestLon: -109, EastLon: -90, SouthLat: 33, NorthLat: 45}
	corners := b.Corners()
	assert.Equal(t, [2]float64{-109, 33}, corners[0])
	assert.Equal(t, [2]float64{-90, 33}, corners[1])
	assert.Equal(t, [2]float64{-90, 45}, corners[2])
	assert.Equal(t, [2]float64{-109, 45}, corners[3])
}
