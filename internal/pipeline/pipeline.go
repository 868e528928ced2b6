// Package pipeline wires the resolve, assemble, convert, reduce, and render
// stages into one linear pass.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/cloudrift/hrrrmap/internal/contour"
	"github.com/cloudrift/hrrrmap/internal/dataset"
	"github.com/cloudrift/hrrrmap/internal/domain"
	"github.com/cloudrift/hrrrmap/internal/observability"
	"github.com/cloudrift/hrrrmap/internal/projection"
	"github.com/cloudrift/hrrrmap/internal/render"
	"github.com/cloudrift/hrrrmap/internal/units"
	"github.com/cloudrift/hrrrmap/internal/zarr"
)

// HandleResolver opens the coordinate and data store handles for a request.
type HandleResolver interface {
	Resolve(ctx context.Context, req domain.Request) (coord, data *zarr.Group, err error)
}

// ProjectionFetcher retrieves the grid's projection parameters.
type ProjectionFetcher interface {
	FetchParams(ctx context.Context) (projection.Params, error)
}

// Pipeline executes one resolve → assemble → convert → reduce → render pass.
// It is strictly linear and fail-fast: no stage retries, every error
// propagates to the caller immediately.
type Pipeline struct {
	resolver HandleResolver
	fetcher  ProjectionFetcher
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(r HandleResolver, f ProjectionFetcher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		resolver: r,
		fetcher:  f,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no render has completed yet")
	}
	return nil
}

// Run executes the whole pipeline for one request. The only blocking point is
// the forced array evaluation; everything before it reads metadata only.
func (p *Pipeline) Run(ctx context.Context, req domain.Request) (domain.RenderResult, error) {
	res, err := p.run(ctx, req)
	if err != nil {
		p.metrics.PipelineRuns.WithLabelValues("error").Inc()
		return domain.RenderResult{}, err
	}
	p.metrics.PipelineRuns.WithLabelValues("success").Inc()
	p.ready.Store(true)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, req domain.Request) (domain.RenderResult, error) {
	if err := req.Validate(); err != nil {
		return domain.RenderResult{}, err
	}

	p.metrics.PipelineActive.Set(1)
	defer p.metrics.PipelineActive.Set(0)

	// Resolve + assemble: metadata reads only, no chunk data yet.
	resolveStart := time.Now()
	coordGroup, dataGroup, err := p.resolver.Resolve(ctx, req)
	if err != nil {
		return domain.RenderResult{}, err
	}
	ds, err := dataset.Assemble(ctx, coordGroup, dataGroup, req.Variable)
	if err != nil {
		return domain.RenderResult{}, err
	}
	p.metrics.ResolveDuration.Observe(time.Since(resolveStart).Seconds())
	p.logger.Info("dataset assembled",
		"variable", req.Variable,
		"shape", ds.Var.Meta().Shape,
		"coords", ds.CoordNames(),
	)

	params, err := p.fetcher.FetchParams(ctx)
	if err != nil {
		return domain.RenderResult{}, err
	}
	proj, err := projection.New(params)
	if err != nil {
		return domain.RenderResult{}, err
	}

	// Describe the conversion on the lazy array; nothing evaluates yet.
	srcUnit := ds.VarUnits()
	if srcUnit == "" {
		return domain.RenderResult{}, fmt.Errorf("variable %q carries no units attribute", req.Variable)
	}
	transform, err := units.Transform(srcUnit, req.TargetUnit)
	if err != nil {
		return domain.RenderResult{}, err
	}
	lazyVar := ds.Var.Values().Apply(transform)

	// Force evaluation. This is the pipeline's single blocking point: every
	// chunk is fetched and decoded here, then the conversion runs once.
	computeStart := time.Now()
	grid, err := lazyVar.Compute(ctx)
	if err != nil {
		return domain.RenderResult{}, err
	}
	xs, err := ds.X.Values().Compute(ctx)
	if err != nil {
		return domain.RenderResult{}, err
	}
	ys, err := ds.Y.Values().Compute(ctx)
	if err != nil {
		return domain.RenderResult{}, err
	}
	p.metrics.ComputeDuration.Observe(time.Since(computeStart).Seconds())
	p.metrics.ChunksDecoded.Add(float64(
		chunkCount(ds.Var.Meta()) + chunkCount(ds.X.Meta()) + chunkCount(ds.Y.Meta())))

	min, max, err := finiteRange(grid.Elements)
	if err != nil {
		return domain.RenderResult{}, err
	}
	levels, err := contour.Levels(min, max, req.ContourStep)
	if err != nil {
		return domain.RenderResult{}, err
	}
	p.logger.Info("range reduced", "min", min, "max", max, "levels", len(levels))

	var boundaries []render.Polyline
	if req.BoundariesPath != "" {
		boundaries, err = render.LoadBoundaries(req.BoundariesPath)
		if err != nil {
			return domain.RenderResult{}, err
		}
	}

	renderStart := time.Now()
	png, err := render.Map(render.Input{
		X:          xs.Elements,
		Y:          ys.Elements,
		Grid:       grid,
		Levels:     levels,
		Proj:       proj,
		BBox:       req.BBox,
		Boundaries: boundaries,
		Title:      fmt.Sprintf("%s %s %sZ (%s)", req.Variable, req.Date, req.Hour, req.Level),
		BarLabel:   fmt.Sprintf("%s (%s)", req.Variable, req.TargetUnit),
		WidthPx:    req.WidthPx,
		HeightPx:   req.HeightPx,
	})
	if err != nil {
		return domain.RenderResult{}, err
	}
	p.metrics.RenderDuration.Observe(time.Since(renderStart).Seconds())

	return domain.RenderResult{
		PNG:         png,
		Levels:      levels,
		Min:         min,
		Max:         max,
		Unit:        req.TargetUnit,
		GeneratedAt: domain.Timestamp(),
	}, nil
}

// chunkCount returns how many chunks one forced evaluation touches.
func chunkCount(meta *zarr.ArrayMeta) int {
	n := 1
	for _, g := range meta.ChunkGrid() {
		n *= g
	}
	return n
}

// finiteRange reduces to (min, max) over the finite elements; NaN fill values
// from chunks absent in the store are skipped.
func finiteRange(elements []float64) (float64, float64, error) {
	finite := make([]float64, 0, len(elements))
	for _, v := range elements {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0, errors.New("no finite values in variable array")
	}
	return floats.Min(finite), floats.Max(finite), nil
}
