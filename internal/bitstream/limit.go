package bitstream

import "io"

// LimitReader returns a reader that yields at most n bytes from r, then
// io.EOF. It is used everywhere a declared length must not be exceeded by
// the thing consuming it: a metadata chunk's compressed length must bound
// its deflate decompressor so that decompressor can never read into the
// next chunk's name, or into the range coder's payload.
//
// This is a thin rename of the standard library's io.LimitedReader; kept as
// its own type so callers in this module read as "a bounded FLIF
// sub-stream" rather than a generic io utility, and so the limit can be
// inspected after a short read (see Remaining).
type LimitReader struct {
	r *io.LimitedReader
}

// NewLimitReader wraps r so that no more than n bytes can be read from it.
func NewLimitReader(r io.Reader, n int64) *LimitReader {
	return &LimitReader{r: &io.LimitedReader{R: r, N: n}}
}

// Read implements io.Reader.
func (l *LimitReader) Read(p []byte) (int, error) {
	return l.r.Read(p)
}

// Remaining reports how many bytes may still be read before the limit is
// hit.
func (l *LimitReader) Remaining() int64 {
	return l.r.N
}
