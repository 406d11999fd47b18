package rac

import (
	"bytes"
	"testing"
)

func newTestDecoder(t *testing.T, data []byte) *SymbolDecoder {
	t.Helper()
	c, err := NewCoder(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewCoder: %v", err)
	}
	return NewSymbolDecoder(c)
}

func TestReadIntDegenerateRange(t *testing.T) {
	// min == max must return min without consuming any bits. The coder here
	// is over zero bytes; reads past EOF yield 0xFF, not an error.
	c, err := NewCoder(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("NewCoder: %v", err)
	}
	d := NewSymbolDecoder(c)

	got, err := d.ReadInt(42, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("ReadInt(42,42) = %d, want 42", got)
	}
}

func TestReadIntStaysInRange(t *testing.T) {
	data := bytes.Repeat([]byte{0x5A, 0xC3, 0x0F, 0x91}, 16)
	d := newTestDecoder(t, data)

	for i := 0; i < 100; i++ {
		v, err := d.ReadInt(-10, 500)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if v < -10 || v > 500 {
			t.Fatalf("iteration %d: value %d out of [-10, 500]", i, v)
		}
	}
}

func TestReadIntBitsRange(t *testing.T) {
	data := bytes.Repeat([]byte{0x3C}, 32)
	d := newTestDecoder(t, data)

	v, err := d.ReadIntBits(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v < 0 || v > 255 {
		t.Fatalf("ReadIntBits(8) = %d, out of [0,255]", v)
	}
}

func TestReadIntUniformDistribution(t *testing.T) {
	// A long pseudo-random-looking bitstream should spread read_int(0,1)
	// roughly evenly between the two outcomes.
	data := make([]byte, 4096)
	seed := uint32(0x2545F491)
	for i := range data {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		data[i] = byte(seed)
	}
	d := newTestDecoder(t, data)

	ones := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		v, err := d.ReadInt(0, 1)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		ones += int(v)
	}

	frac := float64(ones) / float64(trials)
	if frac < 0.4 || frac > 0.6 {
		t.Fatalf("fraction of 1s = %.3f, want within [0.4, 0.6] for a roughly uniform source", frac)
	}
}
