// Package bitstream provides the byte-level primitives shared by the FLIF
// container decoder: the varint reader and a length-limited sub-reader used
// to bound metadata chunk decompression to its declared size.
package bitstream

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// MaxVarintBytes is the hard cap on the number of bytes a varint may
// occupy. It exists purely to bound adversarial input: with no terminator
// inside this many bytes the stream is malformed.
const MaxVarintBytes = 10

// Varint decoding errors.
var (
	ErrInvalidNumber = errors.New("bitstream: varint has no terminator within 10 bytes")
	ErrOverflow      = errors.New("bitstream: varint overflows 64 bits")
)

// ReadVarint reads an unsigned base-128 varint from r: each byte
// contributes its low 7 bits, high bit set means "more bytes follow". The
// accumulator is shifted left 7 bits between non-terminal bytes.
func ReadVarint(r io.Reader) (uint64, error) {
	var buf [1]byte
	var result uint64

	for i := 0; i < MaxVarintBytes; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.Wrap(err, "bitstream: reading varint byte")
		}
		b := buf[0]
		payload := uint64(b & 0x7F)

		if result > math.MaxUint64-payload {
			return 0, ErrOverflow
		}
		result += payload

		if b < 0x80 {
			return result, nil
		}

		if result > math.MaxUint64>>7 {
			return 0, ErrOverflow
		}
		result <<= 7
	}

	return 0, ErrInvalidNumber
}
