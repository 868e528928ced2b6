// Command hrrrmap fetches one HRRR Zarr analysis field from the public
// archive and renders a filled-contour map of it.
//
// Usage:
//
//	hrrrmap --date 20210214 --hour 12 --variable TMP --level 2m_above_ground \
//	  --unit degC --step 2 --bbox -109,-90,33,45 --out tmp_12z.png
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cloudrift/hrrrmap/internal/adapter/gridmeta"
	httpadapter "github.com/cloudrift/hrrrmap/internal/adapter/http"
	s3adapter "github.com/cloudrift/hrrrmap/internal/adapter/s3"
	"github.com/cloudrift/hrrrmap/internal/config"
	"github.com/cloudrift/hrrrmap/internal/domain"
	"github.com/cloudrift/hrrrmap/internal/observability"
	"github.com/cloudrift/hrrrmap/internal/pipeline"
	"github.com/cloudrift/hrrrmap/internal/resolver"
)

type flags struct {
	date       string
	hour       string
	variable   string
	level      string
	unit       string
	step       float64
	bbox       string
	boundaries string
	out        string
	width      int
	height     int
}

func main() {
	var f flags

	root := &cobra.Command{
		Use:           "hrrrmap",
		Short:         "Render a contour map from the HRRR Zarr analysis archive",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}

	root.Flags().StringVar(&f.date, "date", "", "analysis date, YYYYMMDD (required)")
	root.Flags().StringVar(&f.hour, "hour", "", "two-digit UTC analysis hour (required)")
	root.Flags().StringVar(&f.variable, "variable", "TMP", "GRIB2 variable short name")
	root.Flags().StringVar(&f.level, "level", "2m_above_ground", "archive vertical-level code")
	root.Flags().StringVar(&f.unit, "unit", "degC", "unit the variable is converted to")
	root.Flags().Float64Var(&f.step, "step", 2, "contour level spacing, in the target unit")
	root.Flags().StringVar(&f.bbox, "bbox", "-109,-90,33,45", "geographic extent: west,east,south,north degrees")
	root.Flags().StringVar(&f.boundaries, "boundaries", "", "optional GeoJSON file drawn as map overlays")
	root.Flags().StringVar(&f.out, "out", "map.png", "output PNG path")
	root.Flags().IntVar(&f.width, "width", 1200, "image width in pixels")
	root.Flags().IntVar(&f.height, "height", 1000, "image height in pixels")
	cobra.CheckErr(root.MarkFlagRequired("date"))
	cobra.CheckErr(root.MarkFlagRequired("hour"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "hrrrmap:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.LogSettings{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	metrics := observability.NewMetrics()

	bbox, err := parseBBox(f.bbox)
	if err != nil {
		return err
	}
	req := domain.Request{
		Date:           f.date,
		Hour:           f.hour,
		Variable:       f.variable,
		Level:          f.level,
		TargetUnit:     f.unit,
		ContourStep:    f.step,
		BBox:           bbox,
		BoundariesPath: f.boundaries,
		WidthPx:        f.width,
		HeightPx:       f.height,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	client, err := s3adapter.NewClient(ctx, s3adapter.Options{
		Region:       cfg.Region,
		Endpoint:     cfg.Endpoint,
		UsePathStyle: cfg.UsePathStyle,
		Timeout:      cfg.HTTPTimeout,
	}, logger, metrics)
	if err != nil {
		return err
	}

	res, err := resolver.New(cfg.StoreVersion, cfg.Bucket,
		s3adapter.NewPathStore(client), s3adapter.NewMapStore(client, cfg.Bucket), logger)
	if err != nil {
		return err
	}

	fetcher := gridmeta.NewClient(cfg.ProjParamsURL, cfg.HTTPTimeout, logger)
	p := pipeline.New(res, fetcher, logger, metrics)

	// The diagnostics listener is useful for watching long renders; it shuts
	// down with the process.
	if cfg.MetricsAddr != "" {
		srv := httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("diagnostics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("diagnostics server shutdown error", "error", err)
			}
		}()
	}

	result, err := p.Run(ctx, req)
	if err != nil {
		return err
	}

	if err := os.WriteFile(f.out, result.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.out, err)
	}
	logger.Info("map rendered",
		"out", f.out,
		"min", result.Min,
		"max", result.Max,
		"unit", result.Unit,
		"levels", len(result.Levels),
		"generated_at", result.GeneratedAt,
	)
	return nil
}

// parseBBox parses "west,east,south,north" degrees.
func parseBBox(s string) (domain.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.BoundingBox{}, fmt.Errorf("bbox %q: want west,east,south,north", s)
	}
	vals := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return domain.BoundingBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		vals[i] = v
	}
	bbox := domain.BoundingBox{WestLon: vals[0], EastLon: vals[1], SouthLat: vals[2], NorthLat: vals[3]}
	return bbox, bbox.Validate()
}
