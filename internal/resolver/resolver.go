// Package resolver selects the store access strategy for the installed
// storage-protocol version and opens the two group handles a request needs.
//
// The archive's access API changed incompatibly at major version 3: v3 clients
// address objects by scheme-stripped path, earlier clients through a per-bucket
// key mapping. The version string is classified exactly once, into a
// two-variant flavor; both variants target the same anonymous backend.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cloudrift/hrrrmap/internal/domain"
	"github.com/cloudrift/hrrrmap/internal/zarr"
)

// Flavor is the resolved access strategy.
type Flavor int

const (
	// FlavorLegacy opens handles through the synchronous per-bucket key
	// mapping (storage protocol major version < 3).
	FlavorLegacy Flavor = iota
	// FlavorV3 strips the storage-scheme prefix from each reference and opens
	// handles through the path-addressed adapter (major version >= 3).
	FlavorV3
)

func (f Flavor) String() string {
	if f == FlavorV3 {
		return "v3"
	}
	return "legacy"
}

// ParseMajor extracts the leading integer of a "<major>.<minor>..." version
// string. A string with no leading integer is a hard error, never a silent
// default to either branch.
func ParseMajor(version string) (int, error) {
	head, _, _ := strings.Cut(version, ".")
	if head == "" {
		return 0, fmt.Errorf("version %q: no leading integer", version)
	}
	major, err := strconv.Atoi(head)
	if err != nil || major < 0 {
		return 0, fmt.Errorf("version %q: no leading integer", version)
	}
	return major, nil
}

// ResolveFlavor classifies a version string.
func ResolveFlavor(version string) (Flavor, error) {
	major, err := ParseMajor(version)
	if err != nil {
		return 0, err
	}
	if major >= 3 {
		return FlavorV3, nil
	}
	return FlavorLegacy, nil
}

// Resolver opens group handles using the flavor fixed at construction.
type Resolver struct {
	flavor    Flavor
	pathStore zarr.Store // v3 addressing
	mapStore  zarr.Store // legacy addressing
	bucket    string
	logger    *slog.Logger
}

// New builds a Resolver for the given storage-protocol version string. Both
// stores must front the same backend configuration.
func New(version, bucket string, pathStore, mapStore zarr.Store, logger *slog.Logger) (*Resolver, error) {
	flavor, err := ResolveFlavor(version)
	if err != nil {
		return nil, err
	}
	logger.Info("store flavor resolved", "version", version, "flavor", flavor.String())
	return &Resolver{
		flavor:    flavor,
		pathStore: pathStore,
		mapStore:  mapStore,
		bucket:    bucket,
		logger:    logger,
	}, nil
}

func (r *Resolver) Flavor() Flavor { return r.flavor }

// OpenGroup opens the group a reference denotes, using the resolved flavor's
// addressing. Connectivity and missing-object errors surface unretried.
func (r *Resolver) OpenGroup(ctx context.Context, ref domain.ObjectRef) (*zarr.Group, error) {
	if r.flavor == FlavorV3 {
		path := strings.TrimPrefix(ref.URI(), "s3://")
		return zarr.OpenGroup(ctx, r.pathStore, path)
	}
	return zarr.OpenGroup(ctx, r.mapStore, ref.Key)
}

// Resolve opens the coordinate and data handles for a request. Both refs are
// derived from the same date/hour/level, so the combined grids always agree
// unless the archive itself is inconsistent.
func (r *Resolver) Resolve(ctx context.Context, req domain.Request) (coord, data *zarr.Group, err error) {
	coordRef, err := domain.CoordRef(r.bucket, req.Date, req.Hour, req.Level, req.Variable)
	if err != nil {
		return nil, nil, err
	}
	dataRef, err := domain.DataRef(r.bucket, req.Date, req.Hour, req.Level, req.Variable)
	if err != nil {
		return nil, nil, err
	}

	coord, err = r.OpenGroup(ctx, coordRef)
	if err != nil {
		return nil, nil, fmt.Errorf("coordinate store %s: %w", coordRef.URI(), err)
	}
	data, err = r.OpenGroup(ctx, dataRef)
	if err != nil {
		return nil, nil, fmt.Errorf("data store %s: %w", dataRef.URI(), err)
	}
	return coord, data, nil
}
