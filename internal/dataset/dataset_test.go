package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudrift/hrrrmap/internal/zarr"
)

func coordMeta(n int) *zarr.ArrayMeta {
	return &zarr.ArrayMeta{
		ZarrFormat: 2,
		Shape:      []int{n},
		Chunks:     []int{n},
		DtypeStr:   "<f8",
		Order:      "C",
	}
}

func gridMeta(ny, nx int) *zarr.ArrayMeta {
	return &zarr.ArrayMeta{
		ZarrFormat: 2,
		Shape:      []int{ny, nx},
		Chunks:     []int{ny, nx},
		DtypeStr:   "<f4",
		Order:      "C",
	}
}

func zeros(n int) []float64 { return make([]float64, n) }

// fixtureGroups builds a coordinate group with x/y/latitude arrays and a data
// group carrying the variable plus its own copy of the coordinates.
func fixtureGroups(t *testing.T, ny, nx int, variable string) (coord, data *zarr.Group) {
	t.Helper()
	ctx := context.Background()
	store := zarr.NewMemoryStore()

	cw := zarr.NewGroupWriter(store, "coord")
	require.NoError(t, cw.WriteArray("projection_x_coordinate", coordMeta(nx), zarr.Attributes{"units": "m"}, zeros(nx)))
	require.NoError(t, cw.WriteArray("projection_y_coordinate", coordMeta(ny), zarr.Attributes{"units": "m"}, zeros(ny)))
	require.NoError(t, cw.WriteArray("latitude", coordMeta(ny), nil, zeros(ny)))
	require.NoError(t, cw.Finish())

	dw := zarr.NewGroupWriter(store, "data")
	require.NoError(t, dw.WriteArray(variable, gridMeta(ny, nx), zarr.Attributes{"units": "K"}, zeros(ny*nx)))
	require.NoError(t, dw.WriteArray("projection_x_coordinate", coordMeta(nx), nil, zeros(nx)))
	require.NoError(t, dw.WriteArray("forecast_period", coordMeta(1), nil, zeros(1)))
	require.NoError(t, dw.Finish())

	cg, err := zarr.OpenGroup(ctx, store, "coord")
	require.NoError(t, err)
	dg, err := zarr.OpenGroup(ctx, store, "data")
	require.NoError(t, err)
	return cg, dg
}

func TestAssemble(t *testing.T) {
	ctx := context.Background()

	t.Run("merges coordinates from both handles", func(t *testing.T) {
		coord, data := fixtureGroups(t, 4, 6, "TMP")
		ds, err := Assemble(ctx, coord, data, "TMP")
		require.NoError(t, err)

		assert.Equal(t, []string{
			"forecast_period", "latitude", "projection_x_coordinate", "projection_y_coordinate",
		}, ds.CoordNames())
		assert.Equal(t, "K", ds.VarUnits())
		assert.Equal(t, []int{4, 6}, ds.Var.Meta().Shape)
		require.NotNil(t, ds.X)
		require.NotNil(t, ds.Y)

		// The coordinate handle wins when both groups define an array.
		assert.Equal(t, "m", ds.X.Units())
	})

	t.Run("variable is never treated as a coordinate", func(t *testing.T) {
		coord, data := fixtureGroups(t, 4, 6, "TMP")
		ds, err := Assemble(ctx, coord, data, "TMP")
		require.NoError(t, err)
		assert.NotContains(t, ds.CoordNames(), "TMP")
	})

	t.Run("missing variable", func(t *testing.T) {
		coord, data := fixtureGroups(t, 4, 6, "TMP")
		_, err := Assemble(ctx, coord, data, "DPT")
		assert.ErrorIs(t, err, zarr.ErrNotFound)
	})

	t.Run("coordinate extent mismatch", func(t *testing.T) {
		coord, _ := fixtureGroups(t, 4, 6, "TMP")
		_, wrongData := fixtureGroups(t, 4, 5, "TMP")
		_, err := Assemble(ctx, coord, wrongData, "TMP")
		assert.ErrorIs(t, err, ErrGridMismatch)
	})

	t.Run("missing projection coordinates", func(t *testing.T) {
		store := zarr.NewMemoryStore()
		cw := zarr.NewGroupWriter(store, "coord")
		require.NoError(t, cw.WriteArray("latitude", coordMeta(4), nil, zeros(4)))
		require.NoError(t, cw.Finish())
		dw := zarr.NewGroupWriter(store, "data")
		require.NoError(t, dw.WriteArray("TMP", gridMeta(4, 6), nil, zeros(24)))
		require.NoError(t, dw.Finish())

		cg, err := zarr.OpenGroup(ctx, store, "coord")
		require.NoError(t, err)
		dg, err := zarr.OpenGroup(ctx, store, "data")
		require.NoError(t, err)

		_, err = Assemble(ctx, cg, dg, "TMP")
		assert.ErrorIs(t, err, ErrGridMismatch)
	})
}
