// Package prelude resolves the image-decode geometry and MANIAC entropy
// seed that follow header decoding: resize/scale resolution, buffer-size
// and frame-count guards, per-frame delay, and bitchance initialization.
// This is the handoff point to the (out of scope) context-tree/pixel
// decoder.
package prelude

import (
	"github.com/pkg/errors"

	"github.com/deepteams/flif/internal/container"
	"github.com/deepteams/flif/internal/rac"
)

// Option-conflict and resource-guard errors.
var (
	ErrInvalidScaleDownFactor  = errors.New("prelude: scale_down must be a power of two in [1,128]")
	ErrInvalidResizeDimensions = errors.New("prelude: resize dimensions must be non-zero")
	ErrResizeParameterConflict = errors.New("prelude: resize_dimensions and scale_down>1 cannot both be set")
	ErrScaleNonInterlaced      = errors.New("prelude: cannot scale-decode a non-interlaced image")
	ErrBufferSizeExceedsLimit  = errors.New("prelude: estimated decoded buffer size exceeds the configured limit")
	ErrFrameLimitExceeded      = errors.New("prelude: frame count exceeds the configured limit")
	// ErrUnimplemented is returned for exactly one case the core
	// intentionally declines to support: a non-default per-chance table.
	ErrUnimplemented = errors.New("prelude: unimplemented")
)

// Default option values (spec.md §6).
const (
	DefaultScaleDown          = 1
	DefaultMaxImageBufferSize = 5 * 1024 * 1024 * 1024 // 5 GiB
	DefaultMaxFrames          = 50000
)

// ResizeDimensions is a target (width, height) pair for scale resolution.
type ResizeDimensions struct {
	Width, Height uint64
}

// Options controls how the prelude resolves decode geometry and bounds
// resource use. The zero value is not valid; use DefaultOptions.
type Options struct {
	ScaleDown          uint8
	ResizeDimensions   *ResizeDimensions
	Fit                bool
	MaxImageBufferSize uint64
	MaxFrames          uint64
}

// DefaultOptions returns the documented defaults from spec.md §6.
func DefaultOptions() Options {
	return Options{
		ScaleDown:          DefaultScaleDown,
		MaxImageBufferSize: DefaultMaxImageBufferSize,
		MaxFrames:          DefaultMaxFrames,
	}
}

// Result is the resolved geometry and entropy seed handed off to the pixel
// decoder.
type Result struct {
	Scale               uint8
	TargetWidth         uint64
	TargetHeight        uint64
	FrameDelaysMillis    []*uint32 // len 0 for a still image; len info.NFrames otherwise
	BitChance           rac.BitChance
}

// Resolve computes decode geometry from info and opts, applies the
// buffer-size and frame-count guards, then reads the per-frame delays and
// bitchance parameters from sym.
func Resolve(info *container.Info, opts Options, sym *rac.SymbolDecoder) (*Result, error) {
	scale, targetW, targetH, err := resolveGeometry(info, opts)
	if err != nil {
		return nil, err
	}

	if err := checkBufferSize(info, opts, targetW, targetH); err != nil {
		return nil, err
	}
	if info.NFrames > opts.MaxFrames {
		return nil, errors.Wrapf(ErrFrameLimitExceeded, "%d frames exceeds limit %d", info.NFrames, opts.MaxFrames)
	}

	delays, err := readFrameDelays(info, sym)
	if err != nil {
		return nil, err
	}

	bc, err := readBitChance(sym)
	if err != nil {
		return nil, err
	}

	return &Result{
		Scale:             scale,
		TargetWidth:       targetW,
		TargetHeight:      targetH,
		FrameDelaysMillis: delays,
		BitChance:         bc,
	}, nil
}

// isValidScale reports whether s is a power of two in [1,128].
func isValidScale(s uint8) bool {
	switch s {
	case 1, 2, 4, 8, 16, 32, 64, 128:
		return true
	default:
		return false
	}
}

// ceilDiv computes ceil(w/scale) using the ((w-1)/scale)+1 form spec.md
// specifies, which is exact for the w>=1 the FLIF width/height invariant
// guarantees.
func ceilDiv(w, scale uint64) uint64 {
	return (w-1)/scale + 1
}

func resolveGeometry(info *container.Info, opts Options) (scale uint8, targetW, targetH uint64, err error) {
	W, H := info.Width, info.Height

	var rw, rh uint64
	haveResize := opts.ResizeDimensions != nil
	if haveResize {
		rw, rh = opts.ResizeDimensions.Width, opts.ResizeDimensions.Height
	}

	if haveResize && opts.Fit {
		if rw == 0 || rh == 0 {
			return 0, 0, 0, ErrInvalidResizeDimensions
		}
		// Over-decode margin: a slightly larger interlaced pass yields
		// better chroma quality at the final display size.
		rw = 2*rw - 1
		rh = 2*rh - 1
	}

	scale = opts.ScaleDown
	if scale == 0 {
		scale = DefaultScaleDown
	}
	if !isValidScale(scale) {
		return 0, 0, 0, errors.Wrapf(ErrInvalidScaleDownFactor, "scale_down=%d", scale)
	}

	if haveResize {
		if scale > 1 {
			return 0, 0, 0, ErrResizeParameterConflict
		}
		for ceilDiv(W, uint64(scale)) > rw || ceilDiv(H, uint64(scale)) > rh {
			if scale >= 128 {
				break
			}
			scale *= 2
		}
	}

	if scale != 1 && info.Encoding == container.NonInterlaced {
		return 0, 0, 0, ErrScaleNonInterlaced
	}

	targetW = ceilDiv(W, uint64(scale))
	targetH = ceilDiv(H, uint64(scale))

	if haveResize && opts.Fit {
		// No upscaling: the target never exceeds the natural image size.
		if targetW > W {
			targetW = W
		}
		if targetH > H {
			targetH = H
		}
	}

	return scale, targetW, targetH, nil
}

func checkBufferSize(info *container.Info, opts Options, targetW, targetH uint64) error {
	bytesPerChannel := uint64(1)
	if info.HighestBpp > 8 {
		bytesPerChannel = 2
	}
	extra := uint64(0)
	if info.NChannels > 1 {
		extra = 2
	}
	bytesPerPixel := bytesPerChannel * (uint64(info.NChannels) + extra)

	est := targetW * targetH * info.NFrames * uint64(info.NChannels) * bytesPerPixel
	if est > opts.MaxImageBufferSize {
		return errors.Wrapf(ErrBufferSizeExceedsLimit, "estimated %d bytes exceeds limit %d", est, opts.MaxImageBufferSize)
	}
	return nil
}

func readFrameDelays(info *container.Info, sym *rac.SymbolDecoder) ([]*uint32, error) {
	if info.NFrames <= 1 {
		return nil, nil
	}
	delays := make([]*uint32, info.NFrames)
	for i := range delays {
		v, err := sym.ReadInt(0, 60000)
		if err != nil {
			return nil, errors.Wrap(err, "prelude: reading frame delay")
		}
		d := uint32(v)
		delays[i] = &d
	}
	return delays, nil
}

func readBitChance(sym *rac.SymbolDecoder) (rac.BitChance, error) {
	custom, err := sym.ReadInt(0, 1)
	if err != nil {
		return rac.BitChance{}, errors.Wrap(err, "prelude: reading bitchance-custom flag")
	}
	if custom == 0 {
		return rac.DefaultBitChance(), nil
	}

	cutoff, err := sym.ReadInt(1, 128)
	if err != nil {
		return rac.BitChance{}, errors.Wrap(err, "prelude: reading bitchance cutoff")
	}
	alphaInvDivisor, err := sym.ReadInt(2, 128)
	if err != nil {
		return rac.BitChance{}, errors.Wrap(err, "prelude: reading bitchance alpha divisor")
	}
	perChanceTable, err := sym.ReadInt(0, 1)
	if err != nil {
		return rac.BitChance{}, errors.Wrap(err, "prelude: reading per-chance table flag")
	}
	if perChanceTable != 0 {
		return rac.BitChance{}, errors.Wrap(ErrUnimplemented, "non-default bitchance")
	}

	return rac.NewBitChance(uint8(cutoff), uint32(alphaInvDivisor)), nil
}
