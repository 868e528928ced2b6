package zarr

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ByteOrder mirrors the numpy byte-order characters used in dtype strings.
type ByteOrder byte

const (
	LittleEndian ByteOrder = '<'
	BigEndian    ByteOrder = '>'
	NativeOrder  ByteOrder = '='
	NoOrder      ByteOrder = '|'
)

// Kind is the numpy basic-type character.
type Kind byte

const (
	KindInt      Kind = 'i'
	KindUint     Kind = 'u'
	KindFloat    Kind = 'f'
	KindBool     Kind = 'b'
)

// Dtype describes how the bytes of one array element are interpreted.
// Parsed from numpy-style strings such as "<f4" or ">i2".
type Dtype struct {
	Order ByteOrder
	Kind  Kind
	Size  int // bytes per element
}

// ParseDtype parses a numpy dtype string. Only the scalar numeric forms the
// archive actually uses are supported; structured and string dtypes are
// rejected.
func ParseDtype(s string) (Dtype, error) {
	if len(s) < 3 {
		return Dtype{}, fmt.Errorf("dtype %q: too short", s)
	}

	var d Dtype
	switch ByteOrder(s[0]) {
	case LittleEndian, NativeOrder:
		d.Order = LittleEndian
	case BigEndian:
		d.Order = BigEndian
	case NoOrder:
		d.Order = NoOrder
	default:
		return Dtype{}, fmt.Errorf("dtype %q: unknown byte order %q", s, s[0])
	}

	switch Kind(s[1]) {
	case KindInt, KindUint, KindFloat, KindBool:
		d.Kind = Kind(s[1])
	default:
		return Dtype{}, fmt.Errorf("dtype %q: unsupported kind %q", s, s[1])
	}

	switch s[2:] {
	case "1":
		d.Size = 1
	case "2":
		d.Size = 2
	case "4":
		d.Size = 4
	case "8":
		d.Size = 8
	default:
		return Dtype{}, fmt.Errorf("dtype %q: unsupported size %q", s, s[2:])
	}

	if d.Kind == KindFloat && d.Size < 4 {
		return Dtype{}, fmt.Errorf("dtype %q: no %d-byte float", s, d.Size)
	}
	if d.Kind == KindBool && d.Size != 1 {
		return Dtype{}, fmt.Errorf("dtype %q: bool must be one byte", s)
	}
	// numpy writes '|' only for single-byte types; a multi-byte type without
	// a byte order cannot be decoded.
	if d.Order == NoOrder && d.Size > 1 {
		return Dtype{}, fmt.Errorf("dtype %q: %d-byte type needs a byte order", s, d.Size)
	}
	return d, nil
}

// String renders the dtype back into its numpy form.
func (d Dtype) String() string {
	return fmt.Sprintf("%c%c%d", d.Order, d.Kind, d.Size)
}

func (d Dtype) byteOrder() binary.ByteOrder {
	if d.Order == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// DecodeValues interprets raw chunk bytes as float64 values. The chunked-array
// layer works in float64 throughout; narrower source types are widened on
// decode.
func (d Dtype) DecodeValues(raw []byte) ([]float64, error) {
	if d.Size == 0 || len(raw)%d.Size != 0 {
		return nil, fmt.Errorf("decode %s: %d bytes is not a whole number of elements", d, len(raw))
	}
	n := len(raw) / d.Size
	out := make([]float64, n)
	bo := d.byteOrder()

	for i := 0; i < n; i++ {
		el := raw[i*d.Size : (i+1)*d.Size]
		switch d.Kind {
		case KindFloat:
			if d.Size == 4 {
				out[i] = float64(math.Float32frombits(bo.Uint32(el)))
			} else {
				out[i] = math.Float64frombits(bo.Uint64(el))
			}
		case KindInt:
			switch d.Size {
			case 1:
				out[i] = float64(int8(el[0]))
			case 2:
				out[i] = float64(int16(bo.Uint16(el)))
			case 4:
				out[i] = float64(int32(bo.Uint32(el)))
			case 8:
				out[i] = float64(int64(bo.Uint64(el)))
			}
		case KindUint:
			switch d.Size {
			case 1:
				out[i] = float64(el[0])
			case 2:
				out[i] = float64(bo.Uint16(el))
			case 4:
				out[i] = float64(bo.Uint32(el))
			case 8:
				out[i] = float64(bo.Uint64(el))
			}
		case KindBool:
			if el[0] != 0 {
				out[i] = 1
			}
		}
	}
	return out, nil
}

// EncodeValues is the inverse of DecodeValues, used by cmd/genstore and test
// fixtures to build chunks through the same dtype definitions the reader uses.
func (d Dtype) EncodeValues(values []float64) ([]byte, error) {
	out := make([]byte, len(values)*d.Size)
	bo := d.byteOrder()

	for i, v := range values {
		el := out[i*d.Size : (i+1)*d.Size]
		switch d.Kind {
		case KindFloat:
			if d.Size == 4 {
				bo.PutUint32(el, math.Float32bits(float32(v)))
			} else {
				bo.PutUint64(el, math.Float64bits(v))
			}
		case KindInt:
			switch d.Size {
			case 1:
				el[0] = byte(int8(v))
			case 2:
				bo.PutUint16(el, uint16(int16(v)))
			case 4:
				bo.PutUint32(el, uint32(int32(v)))
			case 8:
				bo.PutUint64(el, uint64(int64(v)))
			}
		case KindUint:
			switch d.Size {
			case 1:
				el[0] = byte(v)
			case 2:
				bo.PutUint16(el, uint16(v))
			case 4:
				bo.PutUint32(el, uint32(v))
			case 8:
				bo.PutUint64(el, uint64(v))
			}
		case KindBool:
			if v != 0 {
				el[0] = 1
			}
		default:
			return nil, fmt.Errorf("encode %s: unsupported kind", d)
		}
	}
	return out, nil
}
