// Package container implements the FLIF container: magic-byte recognition,
// the format/colorspace descriptor byte, and the metadata chunk list that
// precedes the range-coded payload.
package container

import "github.com/pkg/errors"

// Encoding distinguishes the two FLIF scanline orders.
type Encoding int

const (
	// NonInterlaced decodes the full image in a single pass.
	NonInterlaced Encoding = iota
	// Interlaced decodes progressively refined passes and is required for
	// scale-down decoding.
	Interlaced
)

func (e Encoding) String() string {
	if e == Interlaced {
		return "interlaced"
	}
	return "non-interlaced"
}

// Format is the immutable triple derived from the single format byte that
// follows the FLIF magic.
type Format struct {
	IsAnimated bool
	Encoding   Encoding
	NumPlanes  uint8
}

// Format descriptor errors.
var (
	ErrInvalidFormat           = errors.New("container: invalid format byte")
	ErrUnsupportedColorChannel = errors.New("container: unsupported number of color channels")
)

// ParseFormat derives a Format from the single format byte that follows the
// "FLIF" magic. The high nibble selects animation/interlacing, the low
// nibble is the plane count.
func ParseFormat(b byte) (Format, error) {
	var f Format

	switch b >> 4 {
	case 0x3:
		f.IsAnimated, f.Encoding = false, NonInterlaced
	case 0x4:
		f.IsAnimated, f.Encoding = false, Interlaced
	case 0x5:
		f.IsAnimated, f.Encoding = true, NonInterlaced
	case 0x6:
		f.IsAnimated, f.Encoding = true, Interlaced
	default:
		return Format{}, errors.Wrapf(ErrInvalidFormat, "format byte 0x%02x", b)
	}

	planes := b & 0x0F
	switch planes {
	case 1, 3, 4:
		f.NumPlanes = planes
	default:
		return Format{}, errors.Wrapf(ErrUnsupportedColorChannel, "%d planes", planes)
	}

	return f, nil
}
