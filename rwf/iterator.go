package rwf

import (
	"github.com/mdxfeed/rwfgo/cmn/debug"
)

const (
	// RWF major/minor version this module encodes/decodes; bumped only on
	// an incompatible wire change.
	MajorVersion = 2
	MinorVersion = 0

	maxFrameDepth = 16

	lenDiscrMedium = 0xFD // next 2 bytes (BE) carry the length
	lenDiscrLarge  = 0xFE // next 4 bytes (BE) carry the length
	lenDiscrMax    = 0xFC // literal lengths 0..lenDiscrMax fit in the discriminator byte itself
)

// lenWidth is the total number of bytes (discriminator + value) reserved
// for a container's pending length prefix, chosen from the caller's
// maxEncodingSize hint at *Init time and back-patched at *Complete time.
type lenWidth int

const (
	widthSmall  lenWidth = 1 // lengths 0..lenDiscrMax
	widthMedium lenWidth = 3 // 1 discriminator byte + uint16
	widthLarge  lenWidth = 5 // 1 discriminator byte + uint32
)

func widthFor(maxEncodingSize int) lenWidth {
	switch {
	case maxEncodingSize <= 0:
		return widthMedium
	case maxEncodingSize <= lenDiscrMax:
		return widthSmall
	case maxEncodingSize <= 0xFFFF:
		return widthMedium
	default:
		return widthLarge
	}
}

// frame records one in-progress container: where its length prefix lives
// (lenPos), how wide that reservation is, and where the pre-*Init cursor
// was so *Complete(false) can roll back losslessly.
type frame struct {
	savedPos  int // cursor immediately before this container's length prefix
	lenPos    int // offset of the length prefix itself
	width     lenWidth
	entryBase int // offset entries begin, i.e. savedPos + width
}

// EncodeIterator drives RWF encoding into a caller-owned buffer. Never
// shared across goroutines concurrently; distinct iterators over distinct
// buffers may run in parallel without coordination (spec.md §3, §5).
type EncodeIterator struct {
	buf          []byte
	pos          int
	majorVersion uint8
	minorVersion uint8
	frames       [maxFrameDepth]frame
	depth        int
	failed       bool
}

func (it *EncodeIterator) Clear() {
	*it = EncodeIterator{}
}

func (it *EncodeIterator) SetBuffer(buf Buffer) Ret {
	it.buf = buf.Data
	it.pos = 0
	it.failed = false
	return RetSuccess
}

func (it *EncodeIterator) SetVersion(major, minor uint8) Ret {
	it.majorVersion, it.minorVersion = major, minor
	return RetSuccess
}

func (it *EncodeIterator) Version() (major, minor uint8) { return it.majorVersion, it.minorVersion }

// GetEncodedLength returns the number of bytes written so far at the
// current (outermost, if mid-container) cursor position.
func (it *EncodeIterator) GetEncodedLength() int { return it.pos }

func (it *EncodeIterator) Bytes() []byte { return it.buf[:it.pos] }

// Rewind resets the cursor to an earlier position captured via
// GetEncodedLength, discarding anything written since — used by entry
// encoders to undo a header write when the entry that follows it fails
// before any container frame exists to roll back through PopContainerComplete.
func (it *EncodeIterator) Rewind(pos int) {
	it.pos = pos
	it.failed = false
}

func (it *EncodeIterator) remaining() int { return len(it.buf) - it.pos }

// reserve advances the cursor by n zero bytes and returns the offset at
// which they begin, failing with BUFFER_TOO_SMALL if there isn't room.
func (it *EncodeIterator) reserve(n int) (int, Ret) {
	if it.remaining() < n {
		it.failed = true
		return 0, RetBufferTooSmall
	}
	off := it.pos
	for i := off; i < off+n; i++ {
		it.buf[i] = 0
	}
	it.pos += n
	return off, RetSuccess
}

// WriteRaw appends bytes verbatim, used for pre-encoded pass-through
// (summary data, set defs, whole entries supplied already-encoded).
func (it *EncodeIterator) WriteRaw(b []byte) Ret {
	if it.remaining() < len(b) {
		it.failed = true
		return RetBufferTooSmall
	}
	n := copy(it.buf[it.pos:], b)
	it.pos += n
	return RetSuccess
}

func (it *EncodeIterator) WriteByte(b byte) Ret {
	if it.remaining() < 1 {
		it.failed = true
		return RetBufferTooSmall
	}
	it.buf[it.pos] = b
	it.pos++
	return RetSuccess
}

// PushContainer reserves a pending length prefix sized from
// maxEncodingSize and records the frame; it is the shared first step of
// every container's *Init per spec.md §4.3.
func (it *EncodeIterator) PushContainer(maxEncodingSize int) Ret {
	if it.depth >= maxFrameDepth {
		return RetInvalidArgument
	}
	w := widthFor(maxEncodingSize)
	savedPos := it.pos
	if _, ret := it.reserve(int(w)); ret != RetSuccess {
		it.pos = savedPos
		return ret
	}
	it.frames[it.depth] = frame{savedPos: savedPos, lenPos: savedPos, width: w, entryBase: savedPos + int(w)}
	it.depth++
	return RetSuccess
}

// PopContainerComplete back-patches the reserved length prefix (success)
// or rewinds the cursor to the pre-*Init position (failure), matching
// spec.md §8's rollback invariant.
func (it *EncodeIterator) PopContainerComplete(success bool) Ret {
	debug.Assert(it.depth > 0, "PopContainerComplete without matching PushContainer")
	if it.depth == 0 {
		return RetInvalidArgument
	}
	fr := it.frames[it.depth-1]
	it.depth--
	if !success {
		it.pos = fr.savedPos
		return RetSuccess
	}
	length := it.pos - fr.entryBase
	if ret := patchLength(it.buf, fr.lenPos, fr.width, length); ret != RetSuccess {
		it.pos = fr.savedPos
		return ret
	}
	return RetSuccess
}

// CurrentEntryBase returns the offset where the current container's
// entries began, used by callers that need to compute an entry-relative
// size (e.g. FilterList/Map pre-encoded-length invariants).
func (it *EncodeIterator) CurrentEntryBase() int {
	if it.depth == 0 {
		return 0
	}
	return it.frames[it.depth-1].entryBase
}

func (it *EncodeIterator) Depth() int { return it.depth }

func patchLength(buf []byte, lenPos int, w lenWidth, length int) Ret {
	switch w {
	case widthSmall:
		if length > lenDiscrMax {
			return RetBufferTooSmall
		}
		buf[lenPos] = byte(length)
	case widthMedium:
		if length > 0xFFFF {
			return RetBufferTooSmall
		}
		buf[lenPos] = lenDiscrMedium
		buf[lenPos+1] = byte(length >> 8)
		buf[lenPos+2] = byte(length)
	case widthLarge:
		if length > 0xFFFFFFFF {
			return RetBufferTooSmall
		}
		buf[lenPos] = lenDiscrLarge
		buf[lenPos+1] = byte(length >> 24)
		buf[lenPos+2] = byte(length >> 16)
		buf[lenPos+3] = byte(length >> 8)
		buf[lenPos+4] = byte(length)
	}
	return RetSuccess
}

// DecodeIterator drives RWF decoding over a caller-owned buffer, with a
// per-container read-cursor stack so nested decoders restore the parent
// cursor after END_OF_CONTAINER (spec.md §4.1).
type DecodeIterator struct {
	buf          []byte
	pos          int
	majorVersion uint8
	minorVersion uint8
	frames       [maxFrameDepth]decFrame
	depth        int
}

type decFrame struct {
	end int // offset one past this container's last entry byte
}

func (it *DecodeIterator) Clear() { *it = DecodeIterator{} }

func (it *DecodeIterator) SetBuffer(buf Buffer) Ret {
	it.buf = buf.Data
	it.pos = 0
	return RetSuccess
}

func (it *DecodeIterator) SetVersion(major, minor uint8) Ret {
	it.majorVersion, it.minorVersion = major, minor
	return RetSuccess
}

func (it *DecodeIterator) Version() (major, minor uint8) { return it.majorVersion, it.minorVersion }

func (it *DecodeIterator) remaining() int {
	if it.depth > 0 {
		return it.frames[it.depth-1].end - it.pos
	}
	return len(it.buf) - it.pos
}

// ReadLength reads a self-describing length prefix (see widthFor/patchLength)
// and returns the decoded value plus how many bytes it occupied.
func (it *DecodeIterator) ReadLength() (length, consumed int, ret Ret) {
	if it.remaining() < 1 {
		return 0, 0, RetIncompleteData
	}
	b0 := it.buf[it.pos]
	switch {
	case b0 <= lenDiscrMax:
		return int(b0), 1, RetSuccess
	case b0 == lenDiscrMedium:
		if it.remaining() < 3 {
			return 0, 0, RetIncompleteData
		}
		v := int(it.buf[it.pos+1])<<8 | int(it.buf[it.pos+2])
		return v, 3, RetSuccess
	case b0 == lenDiscrLarge:
		if it.remaining() < 5 {
			return 0, 0, RetIncompleteData
		}
		v := int(it.buf[it.pos+1])<<24 | int(it.buf[it.pos+2])<<16 | int(it.buf[it.pos+3])<<8 | int(it.buf[it.pos+4])
		return v, 5, RetSuccess
	default:
		return 0, 0, RetUnsupportedDataType
	}
}

// PushContainer reads the length prefix at the cursor and pushes a decode
// frame bounding the entries that follow; returns the entries' byte count.
func (it *DecodeIterator) PushContainer() (entriesLen int, ret Ret) {
	if it.depth >= maxFrameDepth {
		return 0, RetInvalidArgument
	}
	length, consumed, ret := it.ReadLength()
	if ret != RetSuccess {
		return 0, ret
	}
	it.pos += consumed
	if it.remaining() < length {
		return 0, RetIncompleteData
	}
	end := it.pos + length
	it.frames[it.depth] = decFrame{end: end}
	it.depth++
	return length, RetSuccess
}

// PopContainer restores the parent cursor to just past this container's
// entries (skipping any unconsumed trailing bytes), mirroring real
// decoders that tolerate forward-compatible extra fields.
func (it *DecodeIterator) PopContainer() Ret {
	debug.Assert(it.depth > 0, "PopContainer without matching PushContainer")
	if it.depth == 0 {
		return RetInvalidArgument
	}
	end := it.frames[it.depth-1].end
	it.depth--
	it.pos = end
	return RetSuccess
}

// AtEnd reports whether the current (innermost, or top-level if depth==0)
// container's entries are exhausted.
func (it *DecodeIterator) AtEnd() bool {
	if it.depth > 0 {
		return it.pos >= it.frames[it.depth-1].end
	}
	return it.pos >= len(it.buf)
}

func (it *DecodeIterator) ReadBytes(n int) ([]byte, Ret) {
	if it.remaining() < n {
		return nil, RetIncompleteData
	}
	b := it.buf[it.pos : it.pos+n]
	it.pos += n
	return b, RetSuccess
}

func (it *DecodeIterator) ReadByte() (byte, Ret) {
	if it.remaining() < 1 {
		return 0, RetIncompleteData
	}
	b := it.buf[it.pos]
	it.pos++
	return b, RetSuccess
}

func (it *DecodeIterator) Pos() int { return it.pos }
func (it *DecodeIterator) Depth() int { return it.depth }

// RawSlice returns the backing bytes in [start, end) without copying or
// moving the cursor — used to re-window already-consumed bytes (e.g. an
// Array entry whose self-delimited length was read to find its extent).
func (it *DecodeIterator) RawSlice(start, end int) []byte { return it.buf[start:end] }
