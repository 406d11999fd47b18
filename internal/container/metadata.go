package container

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"

	"github.com/deepteams/flif/internal/bitstream"
	"github.com/deepteams/flif/internal/pool"
)

// ReasonableMetadataLength is the hard cap on a metadata chunk's declared
// length and on its decompressed size, to bound memory use against a hostile
// stream.
const ReasonableMetadataLength = 5 * 1024 * 1024

// MetadataKind identifies the four-letter ancillary chunk name.
type MetadataKind int

const (
	KindICC MetadataKind = iota
	KindExif
	KindXMP
)

func (k MetadataKind) String() string {
	switch k {
	case KindICC:
		return "iCCP"
	case KindExif:
		return "eXif"
	case KindXMP:
		return "eXmp"
	default:
		return "unknown"
	}
}

// MetadataChunk is one decoded, decompressed ancillary chunk.
type MetadataChunk struct {
	Kind MetadataKind
	Data []byte
}

// Metadata chunk reader errors.
var (
	ErrFutureFormat         = errors.New("container: reserved metadata name (future FLIF format)")
	ErrUnknownChunk         = errors.New("container: unknown non-critical metadata chunk")
	ErrUnknownCriticalChunk = errors.New("container: unknown critical metadata chunk")
	ErrUnreasonableLength   = errors.New("container: metadata chunk declares an unreasonable length")
)

// ReadMetadataChunks reads the ordered list of metadata chunks from r,
// stopping as soon as it sees the end-of-list sentinel: a first name byte
// that is either 0x00 or has its top bit set. In the latter case the byte
// is left unconsumed in r (via r.UnreadByte) because it is the first byte
// of the range coder's payload, not part of the metadata list.
func ReadMetadataChunks(r *bufio.Reader) ([]MetadataChunk, error) {
	var chunks []MetadataChunk

	for {
		chunk, done, err := readOneChunk(r)
		if err != nil {
			return nil, err
		}
		if done {
			return chunks, nil
		}
		chunks = append(chunks, chunk)
	}
}

// readOneChunk reads a single chunk, or reports done=true if the list has
// ended (with the sentinel byte already handled per the rules above).
func readOneChunk(r *bufio.Reader) (chunk MetadataChunk, done bool, err error) {
	var name [4]byte

	name[0], err = r.ReadByte()
	if err != nil {
		return MetadataChunk{}, false, errors.Wrap(err, "container: reading metadata chunk name")
	}

	if name[0] == 0 {
		// Consumed, but only as the sentinel: the list is over.
		return MetadataChunk{}, true, nil
	}
	if name[0] > 127 {
		// This byte belongs to the range coder's payload; give it back.
		if err := r.UnreadByte(); err != nil {
			return MetadataChunk{}, false, errors.Wrap(err, "container: unreading range-coder lead byte")
		}
		return MetadataChunk{}, true, nil
	}
	if name[0] < 32 {
		return MetadataChunk{}, false, errors.Wrapf(ErrFutureFormat, "name byte 0x%02x", name[0])
	}

	if _, err := io.ReadFull(r, name[1:]); err != nil {
		return MetadataChunk{}, false, errors.Wrap(err, "container: reading metadata chunk name")
	}

	kind, err := classifyChunkName(name)
	if err != nil {
		return MetadataChunk{}, false, err
	}

	length, err := bitstream.ReadVarint(r)
	if err != nil {
		return MetadataChunk{}, false, errors.Wrap(err, "container: reading metadata chunk length")
	}
	if length > ReasonableMetadataLength {
		return MetadataChunk{}, false, errors.Wrapf(ErrUnreasonableLength, "chunk %q declares %d bytes", name, length)
	}

	limited := bitstream.NewLimitReader(r, int64(length))
	inflater := flate.NewReader(limited)
	defer inflater.Close()

	var out bytes.Buffer
	scratch := pool.Get(pool.Size64K)
	defer pool.Put(scratch)
	if _, err := io.CopyBuffer(&out, io.LimitReader(inflater, ReasonableMetadataLength+1), scratch); err != nil {
		return MetadataChunk{}, false, errors.Wrapf(err, "container: inflating metadata chunk %q", name)
	}
	if out.Len() > ReasonableMetadataLength {
		return MetadataChunk{}, false, errors.Wrapf(ErrUnreasonableLength, "chunk %q inflates past %d bytes", name, ReasonableMetadataLength)
	}
	data := out.Bytes()

	// The varint-declared length governs how much of the input belongs to
	// this chunk, not how much the deflate stream consumed: drain any
	// trailing bytes the decompressor left unread so the next chunk (or the
	// range coder) starts at the right offset.
	if _, err := io.Copy(io.Discard, limited); err != nil {
		return MetadataChunk{}, false, errors.Wrap(err, "container: discarding trailing chunk bytes")
	}

	return MetadataChunk{Kind: kind, Data: data}, false, nil
}

func classifyChunkName(name [4]byte) (MetadataKind, error) {
	switch string(name[:]) {
	case "iCCP":
		return KindICC, nil
	case "eXif":
		return KindExif, nil
	case "eXmp":
		return KindXMP, nil
	}
	if name[0] > 'Z' {
		return 0, errors.Wrapf(ErrUnknownChunk, "chunk %q", name)
	}
	return 0, errors.Wrapf(ErrUnknownCriticalChunk, "chunk %q", name)
}
