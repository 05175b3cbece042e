package db

import (
	"encoding/binary"
	"fmt"
	"math"
)

// VectorBytes encodes a float32 vector as the little-endian FLOAT32 blob
// the vector index expects, both for PARAMS at query time and for the
// vector hash field at ingestion time.
func VectorBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// VectorFromBytes decodes a blob produced by VectorBytes.
func VectorFromBytes(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v, nil
}
