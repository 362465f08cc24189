// Package loader reads a um32 program image from a byte stream and
// produces the word vector the execution engine loads into array 0.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Load reads all of r, decoding it as a sequence of 4-byte big-endian
// unsigned words, and returns the decoded word vector. The stream length
// must be a positive multiple of 4.
func Load(r io.Reader) ([]uint32, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("loader: empty image")
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("loader: image length %d is not a multiple of 4", len(raw))
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(raw[i*4 : i*4+4])
	}
	return words, nil
}
