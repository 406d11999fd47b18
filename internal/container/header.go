package container

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/deepteams/flif/internal/bitstream"
	"github.com/deepteams/flif/internal/rac"
)

// Header decoder errors.
var (
	ErrInvalidMagic             = errors.New("container: invalid magic bytes")
	ErrArchivedFlifNotSupported = errors.New("container: AR-archived FLIF files are not supported")
	ErrUnsupportedColorDepth    = errors.New("container: unsupported color depth identifier")
)

// Info is the fully populated header summary, ready to hand off to the
// (out of scope) MANIAC/pixel decoder once the prelude has resolved decode
// geometry on top of it.
type Info struct {
	Width, Height uint64
	NFrames       uint64
	NChannels     uint8
	Encoding      Encoding

	// HighestBpp is the maximum per-plane bit depth across all planes. For
	// the common uniform-depth streams ('1'/'2') this is 8 or 16; for a
	// custom per-plane declaration it is whatever bit count the stream
	// names (see PerPlaneBpp).
	HighestBpp  uint8
	PerPlaneBpp []uint8

	// AlphaZero is true iff RGB is stored at pixels where A=0. Always
	// false when NChannels <= 3.
	AlphaZero bool

	// NLoops is present iff the stream is animated, in [0,100].
	NLoops *uint8

	Metadata []MetadataChunk
}

// DecodeHeader reads the FLIF magic, format byte, bpp identifier,
// dimensions, frame count and metadata list from r, then constructs the
// range coder over the remainder of r and uses it to read the per-plane
// bit depths, alpha-zero flag and loop count. r is exclusively owned by
// the returned SymbolDecoder from this point on.
func DecodeHeader(r io.Reader) (*Info, *rac.SymbolDecoder, error) {
	br := bufio.NewReader(r)

	if err := checkMagic(br); err != nil {
		return nil, nil, err
	}

	var formatByte byte
	if err := readByte(br, &formatByte); err != nil {
		return nil, nil, errors.Wrap(err, "container: reading format byte")
	}
	format, err := ParseFormat(formatByte)
	if err != nil {
		return nil, nil, err
	}

	var bppIdent byte
	if err := readByte(br, &bppIdent); err != nil {
		return nil, nil, errors.Wrap(err, "container: reading bpp identifier")
	}
	if bppIdent != '0' && bppIdent != '1' && bppIdent != '2' {
		return nil, nil, errors.Wrapf(ErrUnsupportedColorDepth, "identifier 0x%02x", bppIdent)
	}

	widthMinusOne, err := bitstream.ReadVarint(br)
	if err != nil {
		return nil, nil, errors.Wrap(err, "container: reading width")
	}
	heightMinusOne, err := bitstream.ReadVarint(br)
	if err != nil {
		return nil, nil, errors.Wrap(err, "container: reading height")
	}

	nFrames := uint64(1)
	if format.IsAnimated {
		n, err := bitstream.ReadVarint(br)
		if err != nil {
			return nil, nil, errors.Wrap(err, "container: reading frame count")
		}
		nFrames = n + 2
	}

	metadata, err := ReadMetadataChunks(br)
	if err != nil {
		return nil, nil, err
	}

	coder, err := rac.NewCoder(br)
	if err != nil {
		return nil, nil, errors.Wrap(err, "container: initializing range coder")
	}
	sym := rac.NewSymbolDecoder(coder)

	perPlaneBpp := make([]uint8, format.NumPlanes)
	var highestBpp uint8
	for p := 0; p < int(format.NumPlanes); p++ {
		var bpp uint8
		switch bppIdent {
		case '1':
			bpp = 8
		case '2':
			bpp = 16
		default: // '0': custom per-plane depth
			v, err := sym.ReadInt(1, 16)
			if err != nil {
				return nil, nil, errors.Wrap(err, "container: reading custom plane bit depth")
			}
			// The stream encodes the *depth* as (1<<v)-1; v is already the
			// bit count we want to retain (log2(depth+1) == v exactly).
			bpp = uint8(v)
		}
		perPlaneBpp[p] = bpp
		if bpp > highestBpp {
			highestBpp = bpp
		}
	}

	var alphaZero bool
	if format.NumPlanes > 3 {
		v, err := sym.ReadInt(0, 1)
		if err != nil {
			return nil, nil, errors.Wrap(err, "container: reading alpha-zero flag")
		}
		alphaZero = v != 0
	}

	var nLoops *uint8
	if format.IsAnimated {
		v, err := sym.ReadInt(0, 100)
		if err != nil {
			return nil, nil, errors.Wrap(err, "container: reading loop count")
		}
		loops := uint8(v)
		nLoops = &loops
	}

	info := &Info{
		Width:       widthMinusOne + 1,
		Height:      heightMinusOne + 1,
		NFrames:     nFrames,
		NChannels:   format.NumPlanes,
		Encoding:    format.Encoding,
		HighestBpp:  highestBpp,
		PerPlaneBpp: perPlaneBpp,
		AlphaZero:   alphaZero,
		NLoops:      nLoops,
		Metadata:    metadata,
	}
	return info, sym, nil
}

// checkMagic reads and validates the 4-byte FLIF magic, rejecting the
// AR-archive wrapper by name rather than attempting to parse it.
func checkMagic(r io.Reader) error {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return errors.Wrap(err, "container: reading magic")
	}

	if string(buf[:]) == "!<ar" {
		var rest [4]byte
		if _, err := io.ReadFull(r, rest[:]); err != nil {
			return errors.Wrap(err, "container: reading AR archive magic")
		}
		if string(rest[:]) == "ch>\n" {
			return ErrArchivedFlifNotSupported
		}
		return ErrInvalidMagic
	}

	if string(buf[:]) != "FLIF" {
		return ErrInvalidMagic
	}
	return nil
}

func readByte(r io.Reader, out *byte) error {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	*out = buf[0]
	return nil
}
