package zarr

import (
	"encoding/json"
	"fmt"
)

// GroupWriter builds a small group in a writable store: member arrays, their
// chunks, and a consolidated metadata document. It exists for cmd/genstore
// and test fixtures; the remote archive is never written to.
type GroupWriter struct {
	store   WritableStore
	path    string
	entries map[string]json.RawMessage
}

func NewGroupWriter(store WritableStore, path string) *GroupWriter {
	return &GroupWriter{
		store:   store,
		path:    path,
		entries: map[string]json.RawMessage{},
	}
}

// WriteArray writes one member array: its ".zarray" document, optional
// ".zattrs", and every chunk, padded to the chunk shape with the fill value
// the same way the reader expects.
func (w *GroupWriter) WriteArray(name string, meta *ArrayMeta, attrs Attributes, values []float64) error {
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("write array %q: %w", name, err)
	}
	if len(values) != meta.Len() {
		return fmt.Errorf("write array %q: %d values for shape %v", name, len(values), meta.Shape)
	}

	if err := w.putJSON(name+"/"+KeyArray, meta); err != nil {
		return err
	}
	if attrs != nil {
		if err := w.putJSON(name+"/"+KeyAttrs, attrs); err != nil {
			return err
		}
	}

	grid := meta.ChunkGrid()
	switch len(meta.Shape) {
	case 1:
		for i := 0; i < grid[0]; i++ {
			if err := w.putChunk(name, meta, chunkKey1D(i), sliceChunk1D(meta, values, i)); err != nil {
				return err
			}
		}
	case 2:
		for i := 0; i < grid[0]; i++ {
			for j := 0; j < grid[1]; j++ {
				key := fmt.Sprintf("%d%s%d", i, meta.Separator(), j)
				if err := w.putChunk(name, meta, key, sliceChunk2D(meta, values, i, j)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Finish writes the ".zgroup" marker and the consolidated ".zmetadata"
// document covering everything written so far.
func (w *GroupWriter) Finish() error {
	marker := json.RawMessage(`{"zarr_format":2}`)
	if err := w.store.Put(joinKey(w.path, KeyGroup), marker); err != nil {
		return err
	}
	w.entries[KeyGroup] = marker

	doc := map[string]any{
		"zarr_consolidated_format": 1,
		"metadata":                 w.entries,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return w.store.Put(joinKey(w.path, KeyConsolidated), data)
}

func (w *GroupWriter) putJSON(entryKey string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := w.store.Put(joinKey(w.path, entryKey), data); err != nil {
		return err
	}
	w.entries[entryKey] = data
	return nil
}

func (w *GroupWriter) putChunk(name string, meta *ArrayMeta, chunkKey string, vals []float64) error {
	raw, err := meta.Dtype().EncodeValues(vals)
	if err != nil {
		return err
	}
	enc, err := meta.Compressor.Compress(raw)
	if err != nil {
		return err
	}
	return w.store.Put(joinKey(w.path, name, chunkKey), enc)
}

func chunkKey1D(i int) string { return fmt.Sprintf("%d", i) }

func sliceChunk1D(meta *ArrayMeta, values []float64, i int) []float64 {
	size := meta.Chunks[0]
	out := make([]float64, size)
	fill := meta.Fill()
	for k := range out {
		idx := i*size + k
		if idx < meta.Shape[0] {
			out[k] = values[idx]
		} else {
			out[k] = fill
		}
	}
	return out
}

func sliceChunk2D(meta *ArrayMeta, values []float64, i, j int) []float64 {
	ny, nx := meta.Shape[0], meta.Shape[1]
	cy, cx := meta.Chunks[0], meta.Chunks[1]
	out := make([]float64, cy*cx)
	fill := meta.Fill()
	for r := 0; r < cy; r++ {
		for c := 0; c < cx; c++ {
			row, col := i*cy+r, j*cx+c
			if row < ny && col < nx {
				out[r*cx+c] = values[row*nx+col]
			} else {
				out[r*cx+c] = fill
			}
		}
	}
	return out
}
