package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// encodeVectors packs equally sized vectors as little-endian float32s.
func encodeVectors(vectors [][]float32) ([]byte, int) {
	if len(vectors) == 0 {
		return nil, 0
	}
	dims := len(vectors[0])
	buf := make([]byte, 0, len(vectors)*dims*4)
	for _, v := range vectors {
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(x))
		}
	}
	return buf, dims
}

// decodeVectors reverses encodeVectors.
func decodeVectors(buf []byte, dims int) ([][]float32, error) {
	if len(buf) == 0 || dims == 0 {
		return nil, nil
	}
	if len(buf)%(dims*4) != 0 {
		return nil, fmt.Errorf("vector blob of %d bytes is not a multiple of %d dimensions", len(buf), dims)
	}
	n := len(buf) / (dims * 4)
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, dims)
		for j := range v {
			off := (i*dims + j) * 4
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
		}
		out[i] = v
	}
	return out, nil
}
