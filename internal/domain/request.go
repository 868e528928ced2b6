package domain

import (
	"fmt"
	"time"
)

// BoundingBox is a geographic clipping extent in degrees. The corners are
// transformed into projection-native coordinates before use; the box itself
// never touches the numeric data.
type BoundingBox struct {
	WestLon  float64
	EastLon  float64
	SouthLat float64
	NorthLat float64
}

// Validate checks that the box is non-degenerate and within plausible bounds.
func (b BoundingBox) Validate() error {
	if b.WestLon < -180 || b.EastLon > 180 || b.WestLon >= b.EastLon {
		return fmt.Errorf("bounding box: longitudes [%g, %g] invalid", b.WestLon, b.EastLon)
	}
	if b.SouthLat < -90 || b.NorthLat > 90 || b.SouthLat >= b.NorthLat {
		return fmt.Errorf("bounding box: latitudes [%g, %g] invalid", b.SouthLat, b.NorthLat)
	}
	return nil
}

// Corners returns the four (lon, lat) corner pairs: SW, SE, NE, NW.
func (b BoundingBox) Corners() [4][2]float64 {
	return [4][2]float64{
		{b.WestLon, b.SouthLat},
		{b.EastLon, b.SouthLat},
		{b.EastLon, b.NorthLat},
		{b.WestLon, b.NorthLat},
	}
}

// Request carries one invocation's configuration. All fields come from the
// caller; the pipeline defines no defaults of its own.
type Request struct {
	Date     string // YYYYMMDD
	Hour     string // two-digit UTC hour
	Variable string // GRIB2 short name, e.g. "TMP"
	Level    string // archive level code, e.g. "2m_above_ground"

	TargetUnit  string  // unit the variable is converted to before reduction
	ContourStep float64 // spacing between contour levels, in TargetUnit

	BBox           BoundingBox
	BoundariesPath string // optional GeoJSON overlay, empty to skip

	WidthPx  int
	HeightPx int
}

// Validate checks the request without touching the network.
func (r Request) Validate() error {
	if _, err := analysisKey(r.Date, r.Hour, r.Level, r.Variable); err != nil {
		return err
	}
	if r.TargetUnit == "" {
		return fmt.Errorf("request: target unit is required")
	}
	if r.ContourStep <= 0 {
		return fmt.Errorf("request: contour step must be positive, got %g", r.ContourStep)
	}
	if err := r.BBox.Validate(); err != nil {
		return err
	}
	if r.WidthPx <= 0 || r.HeightPx <= 0 {
		return fmt.Errorf("request: image dimensions %dx%d invalid", r.WidthPx, r.HeightPx)
	}
	return nil
}

// RenderResult is the outcome of one pipeline run. PNG holds the encoded
// image; nothing is persisted by the pipeline itself.
type RenderResult struct {
	PNG []byte

	Levels []float64
	Min    float64
	Max    float64
	Unit   string

	GeneratedAt time.Time
}
