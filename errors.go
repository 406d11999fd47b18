package flif

import (
	"github.com/deepteams/flif/internal/bitstream"
	"github.com/deepteams/flif/internal/container"
	"github.com/deepteams/flif/internal/prelude"
)

// Errors are re-exported from the internal packages that actually produce
// them: one place for a caller to errors.Is against, regardless of which
// layer raised it.
var (
	// Structural errors, raised while parsing the container header.
	ErrInvalidMagic             = container.ErrInvalidMagic
	ErrArchivedFlifNotSupported = container.ErrArchivedFlifNotSupported
	ErrInvalidFormat            = container.ErrInvalidFormat
	ErrUnsupportedColorChannel  = container.ErrUnsupportedColorChannel
	ErrUnsupportedColorDepth    = container.ErrUnsupportedColorDepth
	ErrFutureFormat             = container.ErrFutureFormat
	ErrUnknownChunk             = container.ErrUnknownChunk
	ErrUnknownCriticalChunk     = container.ErrUnknownCriticalChunk

	// Integer encoding errors, raised by the varint reader.
	ErrVarintInvalidNumber = bitstream.ErrInvalidNumber
	ErrVarintOverflow      = bitstream.ErrOverflow

	// Resource guard errors.
	ErrUnreasonableLength     = container.ErrUnreasonableLength
	ErrBufferSizeExceedsLimit = prelude.ErrBufferSizeExceedsLimit
	ErrFrameLimitExceeded     = prelude.ErrFrameLimitExceeded

	// Option-conflict errors, raised while resolving decode geometry.
	ErrInvalidScaleDownFactor  = prelude.ErrInvalidScaleDownFactor
	ErrInvalidResizeDimensions = prelude.ErrInvalidResizeDimensions
	ErrResizeParameterConflict = prelude.ErrResizeParameterConflict
	ErrScaleNonInterlaced      = prelude.ErrScaleNonInterlaced

	// ErrUnimplemented marks a feature the core intentionally does not
	// support. It is returned only for a non-default bitchance table.
	ErrUnimplemented = prelude.ErrUnimplemented
)
