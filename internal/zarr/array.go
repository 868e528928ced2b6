package zarr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
)

// Array is an opened handle onto one chunked array. Opening reads metadata
// only; chunk data is not touched until a Lazy computation is forced.
type Array struct {
	store Store
	path  string
	meta  *ArrayMeta
	attrs Attributes
}

// OpenArray opens the array at the given key prefix, reading its ".zarray"
// document and (if present) its ".zattrs".
func OpenArray(ctx context.Context, store Store, path string) (*Array, error) {
	meta := &ArrayMeta{}
	if err := getJSON(ctx, store, joinKey(path, KeyArray), meta); err != nil {
		return nil, fmt.Errorf("open array %s: %w", path, err)
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("open array %s: %w", path, err)
	}

	attrs := Attributes{}
	if err := getJSON(ctx, store, joinKey(path, KeyAttrs), &attrs); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("open array %s: %w", path, err)
		}
		attrs = nil
	}

	return &Array{store: store, path: path, meta: meta, attrs: attrs}, nil
}

// newArray builds a handle from already-decoded (consolidated) metadata.
func newArray(store Store, path string, meta *ArrayMeta, attrs Attributes) (*Array, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("array %s: %w", path, err)
	}
	return &Array{store: store, path: path, meta: meta, attrs: attrs}, nil
}

func (a *Array) Path() string      { return a.path }
func (a *Array) Meta() *ArrayMeta  { return a.meta }
func (a *Array) Attrs() Attributes { return a.attrs }

// Units returns the array's units attribute, or "" when unset.
func (a *Array) Units() string { return a.attrs.Units() }

// Values returns a description of the full read. No store access happens
// until Compute is called on the result.
func (a *Array) Values() *Lazy {
	return &Lazy{arr: a}
}

// Lazy is a deferred computation over an array: the full read plus any queued
// element-wise operations. It does nothing until Compute forces it.
type Lazy struct {
	arr *Array
	ops []func(float64) float64
}

// Apply queues an element-wise operation, returning a new description. The
// receiver is not modified, matching the build-then-force contract.
func (l *Lazy) Apply(op func(float64) float64) *Lazy {
	ops := make([]func(float64) float64, len(l.ops), len(l.ops)+1)
	copy(ops, l.ops)
	return &Lazy{arr: l.arr, ops: append(ops, op)}
}

// Compute forces the computation: every chunk is fetched, decoded, and
// written into a dense grid, then queued operations run element-wise. This is
// the pipeline's single blocking point.
func (l *Lazy) Compute(ctx context.Context) (*sparse.DenseArray, error) {
	a := l.arr
	out := sparse.ZerosDense(a.meta.Shape...)

	grid := a.meta.ChunkGrid()
	switch len(a.meta.Shape) {
	case 1:
		for i := 0; i < grid[0]; i++ {
			if err := a.copyChunk1D(ctx, out, i); err != nil {
				return nil, err
			}
		}
	case 2:
		for i := 0; i < grid[0]; i++ {
			for j := 0; j < grid[1]; j++ {
				if err := a.copyChunk2D(ctx, out, i, j); err != nil {
					return nil, err
				}
			}
		}
	default:
		return nil, fmt.Errorf("compute %s: %d-dimensional arrays unsupported", a.path, len(a.meta.Shape))
	}

	for _, op := range l.ops {
		for i, v := range out.Elements {
			out.Elements[i] = op(v)
		}
	}
	return out, nil
}

// copyChunk1D fetches chunk i of a 1-D array into out, truncating the edge
// chunk to the array extent.
func (a *Array) copyChunk1D(ctx context.Context, out *sparse.DenseArray, i int) error {
	vals, err := a.readChunk(ctx, strconv.Itoa(i))
	if err != nil {
		return err
	}
	size := a.meta.Chunks[0]
	start := i * size
	for k := 0; k < size && start+k < a.meta.Shape[0]; k++ {
		out.Elements[start+k] = vals[k]
	}
	return nil
}

// copyChunk2D fetches chunk (i, j) of a 2-D row-major array into out.
// Edge chunks are stored padded to the full chunk shape; only the region
// inside the array extent is copied.
func (a *Array) copyChunk2D(ctx context.Context, out *sparse.DenseArray, i, j int) error {
	key := fmt.Sprintf("%d%s%d", i, a.meta.Separator(), j)
	vals, err := a.readChunk(ctx, key)
	if err != nil {
		return err
	}

	ny, nx := a.meta.Shape[0], a.meta.Shape[1]
	cy, cx := a.meta.Chunks[0], a.meta.Chunks[1]
	for r := 0; r < cy; r++ {
		row := i*cy + r
		if row >= ny {
			break
		}
		for c := 0; c < cx; c++ {
			col := j*cx + c
			if col >= nx {
				break
			}
			out.Elements[row*nx+col] = vals[r*cx+c]
		}
	}
	return nil
}

// readChunk fetches and decodes one chunk. A chunk missing from the store is
// legal and decodes to the array's fill value.
func (a *Array) readChunk(ctx context.Context, chunkKey string) ([]float64, error) {
	chunkLen := 1
	for _, c := range a.meta.Chunks {
		chunkLen *= c
	}

	rc, err := a.store.Get(ctx, joinKey(a.path, chunkKey))
	if errors.Is(err, ErrNotFound) {
		vals := make([]float64, chunkLen)
		fill := a.meta.Fill()
		for i := range vals {
			vals[i] = fill
		}
		return vals, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chunk %s/%s: %w", a.path, chunkKey, err)
	}

	dr, err := a.meta.Compressor.Decompress(rc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s/%s: %w", a.path, chunkKey, err)
	}
	defer dr.Close()

	raw, err := io.ReadAll(dr)
	if err != nil {
		return nil, fmt.Errorf("chunk %s/%s: %w", a.path, chunkKey, err)
	}

	vals, err := a.meta.Dtype().DecodeValues(raw)
	if err != nil {
		return nil, fmt.Errorf("chunk %s/%s: %w", a.path, chunkKey, err)
	}
	if len(vals) != chunkLen {
		return nil, fmt.Errorf("chunk %s/%s: got %d values, chunk shape needs %d",
			a.path, chunkKey, len(vals), chunkLen)
	}
	return vals, nil
}

func joinKey(prefix string, parts ...string) string {
	elems := make([]string, 0, len(parts)+1)
	if prefix != "" {
		elems = append(elems, strings.TrimSuffix(prefix, "/"))
	}
	elems = append(elems, parts...)
	return strings.Join(elems, "/")
}
