// Package dataset combines the archive's split coordinate and data stores
// into one logical dataset.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cloudrift/hrrrmap/internal/zarr"
)

// Coordinate array names the archive may carry. The projection x/y pair is
// required; the rest ride along when present.
var coordinateNames = map[string]bool{
	"projection_x_coordinate": true,
	"projection_y_coordinate": true,
	"latitude":                true,
	"longitude":               true,
	"forecast_period":         true,
	"forecast_reference_time": true,
	"time":                    true,
	"height":                  true,
	"pressure":                true,
}

// ErrGridMismatch reports that the two handles do not describe the same grid.
var ErrGridMismatch = errors.New("coordinate grid mismatch")

// Dataset is the union of the coordinate handle's coordinate arrays and the
// data handle's variable. Arrays stay lazy; assembly reads metadata only.
type Dataset struct {
	Coords map[string]*zarr.Array
	Var    *zarr.Array

	// X and Y are the projection-native coordinate arrays, aliases into
	// Coords for the two the renderer needs.
	X *zarr.Array
	Y *zarr.Array
}

// CoordNames lists the combined dataset's coordinates, sorted.
func (d *Dataset) CoordNames() []string {
	names := make([]string, 0, len(d.Coords))
	for name := range d.Coords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VarUnits returns the variable's units attribute.
func (d *Dataset) VarUnits() string { return d.Var.Units() }

// Assemble merges the two handles: coordinates come from coordGroup, the
// named variable from dataGroup. It fails if the variable is absent or if the
// coordinate extents disagree with the variable's shape.
func Assemble(ctx context.Context, coordGroup, dataGroup *zarr.Group, variable string) (*Dataset, error) {
	ds := &Dataset{Coords: map[string]*zarr.Array{}}

	for _, name := range coordGroup.ArrayNames() {
		if !coordinateNames[name] {
			continue
		}
		arr, err := coordGroup.OpenArray(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("assemble: coordinate %q: %w", name, err)
		}
		ds.Coords[name] = arr
	}

	// The data group may also carry coordinates; the union keeps the first
	// handle's copy when both define one.
	for _, name := range dataGroup.ArrayNames() {
		if !coordinateNames[name] {
			continue
		}
		if _, ok := ds.Coords[name]; ok {
			continue
		}
		arr, err := dataGroup.OpenArray(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("assemble: coordinate %q: %w", name, err)
		}
		ds.Coords[name] = arr
	}

	v, err := dataGroup.OpenArray(ctx, variable)
	if err != nil {
		return nil, fmt.Errorf("assemble: variable %q: %w", variable, err)
	}
	ds.Var = v

	x, okX := ds.Coords["projection_x_coordinate"]
	y, okY := ds.Coords["projection_y_coordinate"]
	if !okX || !okY {
		return nil, fmt.Errorf("assemble: %w: projection x/y coordinates missing (have %v)",
			ErrGridMismatch, ds.CoordNames())
	}
	ds.X, ds.Y = x, y

	shape := v.Meta().Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("assemble: variable %q is %d-dimensional, want 2", variable, len(shape))
	}
	if y.Meta().Shape[0] != shape[0] || x.Meta().Shape[0] != shape[1] {
		return nil, fmt.Errorf("assemble: %w: variable shape %v vs coordinate extents y=%d x=%d",
			ErrGridMismatch, shape, y.Meta().Shape[0], x.Meta().Shape[0])
	}

	return ds, nil
}
