// Package render draws filled-contour maps of a gridded variable in its
// native projection coordinates.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cloudrift/hrrrmap/internal/domain"
	"github.com/cloudrift/hrrrmap/internal/projection"
)

// Input is everything one render needs. Coordinates are projection-native
// metres; the bounding box is geographic and gets transformed through Proj.
type Input struct {
	X    []float64          // column coordinates, length = Grid.Shape[1]
	Y    []float64          // row coordinates, length = Grid.Shape[0]
	Grid *sparse.DenseArray // row-major [y][x] values, already unit-converted

	Levels []float64
	Proj   *projection.Projection
	BBox   domain.BoundingBox

	Boundaries []Polyline // optional overlay, geographic coordinates

	Title    string
	BarLabel string
	WidthPx  int
	HeightPx int
}

// Map renders the filled-contour map and returns the encoded PNG. Rendering
// failures are fatal to the invocation; there is nothing to recover.
func Map(in Input) ([]byte, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	g := grid{x: in.X, y: in.Y, data: in.Grid}

	colors := moreland.SmoothBlueRed()
	colors.SetMin(in.Levels[0])
	colors.SetMax(in.Levels[len(in.Levels)-1])
	pal := colors.Palette(len(in.Levels) - 1)

	p := plot.New()
	p.Title.Text = in.Title
	p.X.Label.Text = "projection x (m)"
	p.Y.Label.Text = "projection y (m)"

	fill := plotter.NewHeatMap(g, pal)
	fill.Min = in.Levels[0]
	fill.Max = in.Levels[len(in.Levels)-1]
	p.Add(fill)
	p.Add(plotter.NewContour(g, in.Levels, pal))

	for _, line := range in.Boundaries {
		if err := addBoundary(p, line, in.Proj); err != nil {
			return nil, err
		}
	}

	if err := clipToBBox(p, in.BBox, in.Proj); err != nil {
		return nil, err
	}

	bar := &plotter.ColorBar{ColorMap: colors}
	barPlot := plot.New()
	barPlot.Add(bar)
	barPlot.HideY()
	barPlot.X.Label.Text = in.BarLabel

	return encodePNG(p, barPlot, in.WidthPx, in.HeightPx)
}

func (in Input) validate() error {
	shape := in.Grid.Shape
	if len(shape) != 2 {
		return fmt.Errorf("render: grid is %d-dimensional, want 2", len(shape))
	}
	if len(in.Y) != shape[0] || len(in.X) != shape[1] {
		return fmt.Errorf("render: coordinate extents y=%d x=%d do not match grid shape %v",
			len(in.Y), len(in.X), shape)
	}
	if len(in.Levels) < 2 {
		return fmt.Errorf("render: need at least two contour levels, got %d", len(in.Levels))
	}
	if in.WidthPx <= 0 || in.HeightPx <= 0 {
		return fmt.Errorf("render: image dimensions %dx%d invalid", in.WidthPx, in.HeightPx)
	}
	return nil
}

// clipToBBox transforms the geographic corners into grid coordinates and
// fixes the axis ranges to the envelope they span.
func clipToBBox(p *plot.Plot, bbox domain.BoundingBox, proj *projection.Projection) error {
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for _, corner := range bbox.Corners() {
		x, y, err := proj.GeographicToGrid(corner[0], corner[1])
		if err != nil {
			return fmt.Errorf("render: project bbox corner (%g, %g): %w", corner[0], corner[1], err)
		}
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}
	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = ymin, ymax
	return nil
}

// addBoundary projects one geographic polyline and draws it as a thin line.
func addBoundary(p *plot.Plot, line Polyline, proj *projection.Projection) error {
	xys := make(plotter.XYs, 0, len(line))
	for _, pt := range line {
		x, y, err := proj.GeographicToGrid(pt[0], pt[1])
		if err != nil {
			// Points outside the projection's domain are dropped, not fatal;
			// world boundary files routinely include the far hemisphere.
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
	}
	if len(xys) < 2 {
		return nil
	}

	ln, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("render: boundary line: %w", err)
	}
	ln.LineStyle.Color = color.Gray{Y: 64}
	ln.LineStyle.Width = vg.Points(0.5)
	p.Add(ln)
	return nil
}

// encodePNG lays the map above its colorbar on one canvas and encodes it.
func encodePNG(mapPlot, barPlot *plot.Plot, widthPx, heightPx int) ([]byte, error) {
	const dpi = 96
	w := vg.Length(widthPx) / dpi * vg.Inch
	h := vg.Length(heightPx) / dpi * vg.Inch

	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	dc := draw.New(img)

	barH := dc.Rectangle.Size().Y * 0.18
	mainRect := dc.Rectangle
	mainRect.Min.Y += barH
	barRect := dc.Rectangle
	barRect.Max.Y = barRect.Min.Y + barH

	mapPlot.Draw(draw.Canvas{Canvas: dc.Canvas, Rectangle: mainRect})
	barPlot.Draw(draw.Canvas{Canvas: dc.Canvas, Rectangle: barRect})

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// grid adapts the coordinate arrays and dense values to plotter.GridXYZ.
type grid struct {
	x, y []float64
	data *sparse.DenseArray
}

func (g grid) Dims() (c, r int)   { return len(g.x), len(g.y) }
func (g grid) X(c int) float64    { return g.x[c] }
func (g grid) Y(r int) float64    { return g.y[r] }
func (g grid) Z(c, r int) float64 { return g.data.Elements[r*len(g.x)+c] }
