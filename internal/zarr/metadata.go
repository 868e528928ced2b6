package zarr

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Reserved metadata keys within a group or array prefix.
const (
	KeyArray        = ".zarray"
	KeyGroup        = ".zgroup"
	KeyAttrs        = ".zattrs"
	KeyConsolidated = ".zmetadata"
)

// Attributes holds userland metadata. The archive stores the variable's units
// here under the "units" key.
type Attributes map[string]any

// Units returns the "units" attribute, or "" if absent.
func (a Attributes) Units() string {
	if s, ok := a["units"].(string); ok {
		return s
	}
	return ""
}

// ArrayMeta is the decoded ".zarray" document describing one chunked array.
type ArrayMeta struct {
	ZarrFormat int             `json:"zarr_format"`
	Shape      []int           `json:"shape"`
	Chunks     []int           `json:"chunks"`
	DtypeStr   string          `json:"dtype"`
	Compressor *CompressorMeta `json:"compressor"`
	FillValue  any             `json:"fill_value"`
	Order      string          `json:"order"`

	// DimensionSeparator defaults to "." when unset, producing chunk keys of
	// the form "0.0". "/" produces nested "0/0" keys.
	DimensionSeparator string `json:"dimension_separator,omitempty"`

	dtype Dtype
}

// Validate checks the metadata is something this reader can serve.
func (m *ArrayMeta) Validate() error {
	if len(m.Shape) == 0 || len(m.Shape) > 2 {
		return fmt.Errorf("array metadata: %d-dimensional arrays unsupported", len(m.Shape))
	}
	if len(m.Chunks) != len(m.Shape) {
		return fmt.Errorf("array metadata: %d chunk dims for %d shape dims", len(m.Chunks), len(m.Shape))
	}
	for i, c := range m.Chunks {
		if c <= 0 || m.Shape[i] < 0 {
			return fmt.Errorf("array metadata: invalid extent (shape %v, chunks %v)", m.Shape, m.Chunks)
		}
	}
	if m.Order != "" && m.Order != "C" {
		return fmt.Errorf("array metadata: order %q unsupported (row-major only)", m.Order)
	}
	sep := m.Separator()
	if sep != "." && sep != "/" {
		return fmt.Errorf("array metadata: dimension separator %q invalid", m.DimensionSeparator)
	}
	d, err := ParseDtype(m.DtypeStr)
	if err != nil {
		return fmt.Errorf("array metadata: %w", err)
	}
	m.dtype = d
	return nil
}

// Dtype returns the parsed element type. Validate must have succeeded.
func (m *ArrayMeta) Dtype() Dtype { return m.dtype }

// Separator returns the chunk-key dimension separator, defaulting to ".".
func (m *ArrayMeta) Separator() string {
	if m.DimensionSeparator == "" {
		return "."
	}
	return m.DimensionSeparator
}

// Fill returns the fill value used for chunks absent from the store. The JSON
// encodings "NaN", "Infinity", and "-Infinity" are honored.
func (m *ArrayMeta) Fill() float64 {
	switch v := m.FillValue.(type) {
	case float64:
		return v
	case string:
		switch v {
		case "NaN":
			return math.NaN()
		case "Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		}
	}
	return 0
}

// ChunkGrid returns the number of chunks along each dimension.
func (m *ArrayMeta) ChunkGrid() []int {
	grid := make([]int, len(m.Shape))
	for i := range m.Shape {
		grid[i] = (m.Shape[i] + m.Chunks[i] - 1) / m.Chunks[i]
	}
	return grid
}

// Len returns the total element count.
func (m *ArrayMeta) Len() int {
	n := 1
	for _, s := range m.Shape {
		n *= s
	}
	return n
}

// ConsolidatedMetadata is the decoded ".zmetadata" document: every metadata
// key under the group, inlined so one GET describes the whole hierarchy.
type ConsolidatedMetadata struct {
	ConsolidatedFormat int
	Arrays             map[string]*ArrayMeta
	Attrs              map[string]Attributes
}

func (c *ConsolidatedMetadata) UnmarshalJSON(data []byte) error {
	var raw struct {
		ConsolidatedFormat int                        `json:"zarr_consolidated_format"`
		Metadata           map[string]json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := ConsolidatedMetadata{
		ConsolidatedFormat: raw.ConsolidatedFormat,
		Arrays:             map[string]*ArrayMeta{},
		Attrs:              map[string]Attributes{},
	}

	for key, doc := range raw.Metadata {
		prefix, leaf := splitMetaKey(key)
		switch leaf {
		case KeyArray:
			meta := &ArrayMeta{}
			if err := json.Unmarshal(doc, meta); err != nil {
				return fmt.Errorf("consolidated metadata %q: %w", key, err)
			}
			out.Arrays[prefix] = meta
		case KeyAttrs:
			attrs := Attributes{}
			if err := json.Unmarshal(doc, &attrs); err != nil {
				return fmt.Errorf("consolidated metadata %q: %w", key, err)
			}
			out.Attrs[prefix] = attrs
		case KeyGroup:
			// group markers carry no information the reader needs
		default:
			return fmt.Errorf("consolidated metadata: unrecognized key %q", key)
		}
	}

	*c = out
	return nil
}

// splitMetaKey separates "a/b/.zarray" into ("a/b", ".zarray"). A bare ".zattrs"
// splits into ("", ".zattrs") for group-level attributes.
func splitMetaKey(key string) (prefix, leaf string) {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+1:]
}
