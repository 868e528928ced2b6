// Command inspect resolves and prints the object references and store
// metadata for one analysis request without rendering anything. It is the
// quickest way to check that a date/hour/variable/level combination exists in
// the archive and that both store handles describe the same grid.
//
// Usage:
//
//	go run ./cmd/inspect -date 20210214 -hour 12 -variable TMP -level 2m_above_ground
//	go run ./cmd/inspect -dir ./testdata/store -date 20210214 -hour 12
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cloudrift/hrrrmap/internal/adapter/s3"
	"github.com/cloudrift/hrrrmap/internal/config"
	"github.com/cloudrift/hrrrmap/internal/dataset"
	"github.com/cloudrift/hrrrmap/internal/domain"
	"github.com/cloudrift/hrrrmap/internal/observability"
	"github.com/cloudrift/hrrrmap/internal/resolver"
	"github.com/cloudrift/hrrrmap/internal/zarr"
)

func main() {
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

func run() int {
	date := flag.String("date", "", "analysis date, YYYYMMDD")
	hour := flag.String("hour", "", "two-digit UTC hour")
	variable := flag.String("variable", "TMP", "variable short name")
	level := flag.String("level", "2m_above_ground", "level code")
	dir := flag.String("dir", "", "inspect a local store directory instead of the archive")
	flag.Parse()

	if *date == "" || *hour == "" {
		flag.Usage()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	logger := observability.NewLogger(observability.LogSettings{Level: "warn", Format: "text"})

	ctx := context.Background()
	coordRef, err := domain.CoordRef(cfg.Bucket, *date, *hour, *level, *variable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	dataRef, _ := domain.DataRef(cfg.Bucket, *date, *hour, *level, *variable)

	fmt.Println("=== Object References ===")
	fmt.Printf("coordinates: %s\n", coordRef.URI())
	fmt.Printf("data:        %s\n", dataRef.URI())
	fmt.Println()

	var coordGroup, dataGroup *zarr.Group
	if *dir != "" {
		store, err := zarr.NewLocalStore(*dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		coordGroup, err = zarr.OpenGroup(ctx, store, coordRef.Key)
		if err == nil {
			dataGroup, err = zarr.OpenGroup(ctx, store, dataRef.Key)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: open local store: %v\n", err)
			return 1
		}
	} else {
		client, err := s3.NewClient(ctx, s3.Options{
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			UsePathStyle: cfg.UsePathStyle,
			Timeout:      cfg.HTTPTimeout,
		}, logger, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		res, err := resolver.New(cfg.StoreVersion, cfg.Bucket,
			s3.NewPathStore(client), s3.NewMapStore(client, cfg.Bucket), logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		fmt.Printf("store flavor: %s (version %s)\n\n", res.Flavor(), cfg.StoreVersion)

		coordGroup, dataGroup, err = res.Resolve(ctx, domain.Request{
			Date: *date, Hour: *hour, Variable: *variable, Level: *level,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: open archive: %v\n", err)
			return 1
		}
	}

	fmt.Println("=== Coordinate Group ===")
	printGroup(coordGroup)
	fmt.Println("=== Data Group ===")
	printGroup(dataGroup)

	ds, err := dataset.Assemble(ctx, coordGroup, dataGroup, *variable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: assembly: %v\n", err)
		return 1
	}
	fmt.Println("=== Assembly ===")
	fmt.Printf("OK: variable %q shape %v, units %q, coordinates %v\n",
		*variable, ds.Var.Meta().Shape, ds.VarUnits(), ds.CoordNames())
	return 0
}

func printGroup(g *zarr.Group) {
	names := g.ArrayNames()
	if len(names) == 0 {
		fmt.Println("(no consolidated metadata; members not listable)")
		fmt.Println()
		return
	}
	for _, name := range names {
		arr, err := g.OpenArray(context.Background(), name)
		if err != nil {
			fmt.Printf("%-28s ERROR: %v\n", name, err)
			continue
		}
		m := arr.Meta()
		fmt.Printf("%-28s shape=%v chunks=%v dtype=%s units=%q\n",
			name, m.Shape, m.Chunks, m.Dtype(), arr.Units())
	}
	fmt.Println()
}
