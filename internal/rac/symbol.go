package rac

import "fmt"

// SymbolDecoder reads integers uniformly distributed over a caller-given
// range from the underlying Coder's bit stream.
type SymbolDecoder struct {
	c *Coder
}

// NewSymbolDecoder wraps c.
func NewSymbolDecoder(c *Coder) *SymbolDecoder {
	return &SymbolDecoder{c: c}
}

// ReadInt decodes an integer uniformly distributed over [min, max] via
// binary search over the range coder's bits. Written iteratively (rather
// than the reference decoder's recursion) to bound stack depth to a single
// frame regardless of range width.
func (d *SymbolDecoder) ReadInt(min, max int64) (int64, error) {
	if max < min {
		panic(fmt.Sprintf("rac: ReadInt called with max %d < min %d", max, min))
	}

	for min != max {
		med := min + (max-min)/2
		bit, err := d.c.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit {
			min = med + 1
		} else {
			max = med
		}
	}
	return min, nil
}

// ReadIntBits decodes a bits-wide unsigned integer, i.e. ReadInt(0, 2^bits-1).
func (d *SymbolDecoder) ReadIntBits(bits uint) (int64, error) {
	return d.ReadInt(0, (int64(1)<<bits)-1)
}
