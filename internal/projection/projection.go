// Package projection reconstructs the archive grid's Lambert conformal conic
// projection from externally published parameters.
package projection

import (
	"fmt"

	"github.com/ctessum/geom/proj"
)

// Params are the scalar projection parameters published alongside the
// archive. The grid assumes a spherical earth, so the semi-major and
// semi-minor axes are equal; both are passed through explicitly rather than
// letting the projection default to an ellipsoid, which would displace every
// rendered coordinate.
type Params struct {
	Lat0 float64 `json:"lat_0"` // central latitude
	Lat1 float64 `json:"lat_1"` // first standard parallel
	Lat2 float64 `json:"lat_2"` // second standard parallel
	Lon0 float64 `json:"lon_0"` // central longitude
	A    float64 `json:"a"`     // semi-major axis, metres
	B    float64 `json:"b"`     // semi-minor axis, metres
}

// Validate checks the parameters are usable.
func (p Params) Validate() error {
	if p.A <= 0 || p.B <= 0 {
		return fmt.Errorf("projection params: semi-axes a=%g b=%g must be positive", p.A, p.B)
	}
	if p.Lat1 < -90 || p.Lat1 > 90 || p.Lat2 < -90 || p.Lat2 > 90 || p.Lat0 < -90 || p.Lat0 > 90 {
		return fmt.Errorf("projection params: latitude out of range (lat_0=%g lat_1=%g lat_2=%g)",
			p.Lat0, p.Lat1, p.Lat2)
	}
	// The published document uses the 0..360 longitude convention, so both
	// spellings of a western meridian are accepted.
	if p.Lon0 < -180 || p.Lon0 >= 360 {
		return fmt.Errorf("projection params: lon_0=%g out of range", p.Lon0)
	}
	return nil
}

// Projection is an immutable Lambert conformal conic description plus the
// transform from geographic coordinates into the grid's native metres. It
// affects only how data is displayed, never the numeric values.
type Projection struct {
	params Params
	toGrid proj.Transformer
}

// New constructs the projection from its parameters.
func New(p Params) (*Projection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	lcc, err := proj.Parse(fmt.Sprintf(
		"+proj=lcc +lat_1=%g +lat_2=%g +lat_0=%g +lon_0=%g +x_0=0 +y_0=0 +a=%g +b=%g +units=m +no_defs",
		p.Lat1, p.Lat2, p.Lat0, p.Lon0, p.A, p.B))
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	geographic, err := proj.Parse(fmt.Sprintf("+proj=longlat +a=%g +b=%g +no_defs", p.A, p.B))
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}

	toGrid, err := geographic.NewTransform(lcc)
	if err != nil {
		return nil, fmt.Errorf("projection transform: %w", err)
	}

	return &Projection{params: p, toGrid: toGrid}, nil
}

func (pr *Projection) Params() Params { return pr.params }

// GeographicToGrid transforms a (lon, lat) degree pair into projection-native
// metre coordinates.
func (pr *Projection) GeographicToGrid(lon, lat float64) (x, y float64, err error) {
	return pr.toGrid(lon, lat)
}
