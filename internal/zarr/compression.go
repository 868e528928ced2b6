package zarr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// CompressorMeta identifies the codec applied to each chunk. A null compressor
// in the ".zarray" document decodes to a nil *CompressorMeta, meaning raw
// bytes.
type CompressorMeta struct {
	ID     string `json:"id"`
	CName  string `json:"cname,omitempty"`
	CLevel int    `json:"clevel,omitempty"`
	Level  int    `json:"level,omitempty"`
}

// Decompress wraps a chunk reader with the codec's decompressor. The returned
// reader owns r and must be closed by the caller.
func (m *CompressorMeta) Decompress(r io.ReadCloser) (io.ReadCloser, error) {
	if m == nil {
		return r, nil
	}
	switch m.ID {
	case "zlib":
		zr, err := zlib.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("zlib chunk: %w", err)
		}
		return &chainCloser{Reader: zr, closers: []io.Closer{zr, r}}, nil
	case "gzip":
		gr, err := gzip.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("gzip chunk: %w", err)
		}
		return &chainCloser{Reader: gr, closers: []io.Closer{gr, r}}, nil
	case "zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("zstd chunk: %w", err)
		}
		rc := zr.IOReadCloser()
		return &chainCloser{Reader: rc, closers: []io.Closer{rc, r}}, nil
	default:
		r.Close()
		return nil, fmt.Errorf("unsupported compressor %q", m.ID)
	}
}

// Compress encodes chunk bytes for writing, used by fixtures and cmd/genstore.
func (m *CompressorMeta) Compress(raw []byte) ([]byte, error) {
	if m == nil {
		return raw, nil
	}
	var buf bytes.Buffer
	switch m.ID {
	case "zlib":
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case "gzip":
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case "zstd":
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported compressor %q", m.ID)
	}
	return buf.Bytes(), nil
}

type chainCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *chainCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
