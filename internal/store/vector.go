package store

import (
	"encoding/binary"
	"fmt"
	"math"
)

// decodeVector reads a little-endian float32 blob back into a vector.
// The layout matches sqlite-vec's SerializeFloat32, so values round-trip
// bit-exact.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return v, nil
}
