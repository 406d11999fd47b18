package flif

import (
	"io"

	"github.com/deepteams/flif/internal/container"
	"github.com/deepteams/flif/internal/prelude"
	"github.com/deepteams/flif/internal/rac"
)

// Info is the decoded header summary: dimensions, channel layout, per-plane
// bit depth, and any ICC/EXIF/XMP metadata chunks.
type Info = container.Info

// Encoding distinguishes FLIF's two scanline orders.
type Encoding = container.Encoding

// The two Encoding values a Format byte can declare.
const (
	NonInterlaced = container.NonInterlaced
	Interlaced    = container.Interlaced
)

// MetadataKind identifies an ancillary chunk's four-letter name.
type MetadataKind = container.MetadataKind

// The three metadata kinds the core recognizes.
const (
	KindICC  = container.KindICC
	KindExif = container.KindExif
	KindXMP  = container.KindXMP
)

// MetadataChunk is one decoded, decompressed ancillary chunk.
type MetadataChunk = container.MetadataChunk

// ResizeDimensions is a target (width, height) pair for scale resolution.
type ResizeDimensions = prelude.ResizeDimensions

// DecoderOptions controls how decode geometry is resolved and bounds
// resource use. Use DefaultOptions for the documented defaults.
type DecoderOptions = prelude.Options

// DefaultOptions returns the library defaults: scale_down=1,
// max_image_buffer_size=5 GiB, max_frames=50000, no resize/fit.
func DefaultOptions() DecoderOptions {
	return prelude.DefaultOptions()
}

// Prelude is the resolved decode geometry and bitchance seed that follows
// header decoding, ready to hand off to a pixel decoder.
type Prelude = prelude.Result

// Decoder owns the live entropy state (range coder + uniform symbol
// decoder) for one FLIF stream, plus the header Info and resolved Prelude.
// A Decoder is not safe for concurrent use: spec.md's single-writer rule
// over the underlying byte source applies for the Decoder's whole
// lifetime.
type Decoder struct {
	Info    *Info
	Prelude *Prelude
	Options DecoderOptions

	sym *rac.SymbolDecoder
}

// Decode reads and validates a FLIF header from r, constructs the range
// coder over the remaining bytes, and resolves decode geometry against
// opts (or DefaultOptions if opts is omitted). The returned Decoder owns r
// exclusively from this point on.
func Decode(r io.Reader, opts ...DecoderOptions) (*Decoder, error) {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}

	info, sym, err := container.DecodeHeader(r)
	if err != nil {
		return nil, err
	}

	pre, err := prelude.Resolve(info, o, sym)
	if err != nil {
		return nil, err
	}

	return &Decoder{Info: info, Prelude: pre, Options: o, sym: sym}, nil
}

// GetInfo reads just the FLIF header (magic through the per-plane bit
// depths, alpha-zero flag and loop count) without resolving decode
// geometry. It is cheaper than Decode for callers that only need
// dimensions, channel layout, or metadata.
func GetInfo(r io.Reader) (*Info, error) {
	info, _, err := container.DecodeHeader(r)
	return info, err
}
