package prelude

import (
	"bytes"
	"errors"
	"testing"

	"github.com/deepteams/flif/internal/container"
	"github.com/deepteams/flif/internal/rac"
)

func newTestSymbolDecoder(t *testing.T) *rac.SymbolDecoder {
	t.Helper()
	c, err := rac.NewCoder(bytes.NewReader(bytes.Repeat([]byte{0x3C}, 64)))
	if err != nil {
		t.Fatalf("rac.NewCoder: %v", err)
	}
	return rac.NewSymbolDecoder(c)
}

func TestResolveScaleFromResizeDimensions(t *testing.T) {
	info := &container.Info{
		Width: 1000, Height: 1000, NFrames: 1, NChannels: 3,
		Encoding: container.Interlaced, HighestBpp: 8,
	}
	opts := DefaultOptions()
	opts.ResizeDimensions = &ResizeDimensions{Width: 400, Height: 400}

	res, err := Resolve(info, opts, newTestSymbolDecoder(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Scale != 4 {
		t.Fatalf("scale = %d, want 4", res.Scale)
	}
	if res.TargetWidth != 250 || res.TargetHeight != 250 {
		t.Fatalf("target = %dx%d, want 250x250", res.TargetWidth, res.TargetHeight)
	}
}

func TestResolveScaleNonInterlacedRejected(t *testing.T) {
	info := &container.Info{
		Width: 1000, Height: 1000, NFrames: 1, NChannels: 3,
		Encoding: container.NonInterlaced, HighestBpp: 8,
	}
	opts := DefaultOptions()
	opts.ResizeDimensions = &ResizeDimensions{Width: 400, Height: 400}

	_, err := Resolve(info, opts, newTestSymbolDecoder(t))
	if !errors.Is(err, ErrScaleNonInterlaced) {
		t.Fatalf("err = %v, want ErrScaleNonInterlaced", err)
	}
}

func TestResolveInvalidResizeDimensions(t *testing.T) {
	info := &container.Info{Width: 100, Height: 100, NFrames: 1, NChannels: 1, HighestBpp: 8}
	opts := DefaultOptions()
	opts.Fit = true
	opts.ResizeDimensions = &ResizeDimensions{Width: 0, Height: 400}

	_, err := Resolve(info, opts, newTestSymbolDecoder(t))
	if !errors.Is(err, ErrInvalidResizeDimensions) {
		t.Fatalf("err = %v, want ErrInvalidResizeDimensions", err)
	}
}

func TestResolveResizeScaleConflict(t *testing.T) {
	info := &container.Info{
		Width: 100, Height: 100, NFrames: 1, NChannels: 1,
		Encoding: container.Interlaced, HighestBpp: 8,
	}
	opts := DefaultOptions()
	opts.ScaleDown = 2
	opts.ResizeDimensions = &ResizeDimensions{Width: 40, Height: 40}

	_, err := Resolve(info, opts, newTestSymbolDecoder(t))
	if !errors.Is(err, ErrResizeParameterConflict) {
		t.Fatalf("err = %v, want ErrResizeParameterConflict", err)
	}
}

func TestResolveFrameLimitExceeded(t *testing.T) {
	info := &container.Info{
		Width: 10, Height: 10, NFrames: 60000, NChannels: 1,
		Encoding: container.Interlaced, HighestBpp: 8,
	}
	opts := DefaultOptions()
	opts.MaxFrames = 50000

	_, err := Resolve(info, opts, newTestSymbolDecoder(t))
	if !errors.Is(err, ErrFrameLimitExceeded) {
		t.Fatalf("err = %v, want ErrFrameLimitExceeded", err)
	}
}

func TestResolveBufferSizeExceedsLimit(t *testing.T) {
	info := &container.Info{
		Width: 100000, Height: 100000, NFrames: 1, NChannels: 3,
		Encoding: container.Interlaced, HighestBpp: 8,
	}
	opts := DefaultOptions()

	_, err := Resolve(info, opts, newTestSymbolDecoder(t))
	if !errors.Is(err, ErrBufferSizeExceedsLimit) {
		t.Fatalf("err = %v, want ErrBufferSizeExceedsLimit", err)
	}
}

func TestResolveInvalidScaleDownFactor(t *testing.T) {
	info := &container.Info{Width: 10, Height: 10, NFrames: 1, NChannels: 1, Encoding: container.Interlaced, HighestBpp: 8}
	opts := DefaultOptions()
	opts.ScaleDown = 3

	_, err := Resolve(info, opts, newTestSymbolDecoder(t))
	if !errors.Is(err, ErrInvalidScaleDownFactor) {
		t.Fatalf("err = %v, want ErrInvalidScaleDownFactor", err)
	}
}

func TestResolveStillImageHasNoFrameDelays(t *testing.T) {
	info := &container.Info{
		Width: 10, Height: 10, NFrames: 1, NChannels: 1,
		Encoding: container.Interlaced, HighestBpp: 8,
	}
	res, err := Resolve(info, DefaultOptions(), newTestSymbolDecoder(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.FrameDelaysMillis) != 0 {
		t.Fatalf("FrameDelaysMillis = %v, want empty for a still image", res.FrameDelaysMillis)
	}
}

func TestResolveAnimatedHasOneDelayPerFrame(t *testing.T) {
	info := &container.Info{
		Width: 10, Height: 10, NFrames: 3, NChannels: 1,
		Encoding: container.Interlaced, HighestBpp: 8,
	}
	res, err := Resolve(info, DefaultOptions(), newTestSymbolDecoder(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.FrameDelaysMillis) != 3 {
		t.Fatalf("FrameDelaysMillis has %d entries, want 3", len(res.FrameDelaysMillis))
	}
	for i, d := range res.FrameDelaysMillis {
		if d == nil {
			t.Fatalf("delay %d is nil", i)
		}
		if *d > 60000 {
			t.Fatalf("delay %d = %d, want <= 60000", i, *d)
		}
	}
}
