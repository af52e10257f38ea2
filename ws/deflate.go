package ws

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// deflateTrailer is the 4-byte suffix RFC 7692 §7.2.1 says a DEFLATE
// sender appends and a receiver strips before decompressing.
var deflateTrailer = [4]byte{0x00, 0x00, 0xFF, 0xFF}

// Deflater compresses permessage-deflate payloads (spec.md §4.7/§4.8).
// With noContextTakeover a fresh compressor is used per message; otherwise
// one compressor is Reset and reused. Reset discards the sliding window,
// so in both modes no compression context carries over between messages.
type Deflater struct {
	noContextTakeover bool
	w                 *flate.Writer
	buf               bytes.Buffer
}

func NewDeflater(noContextTakeover bool) *Deflater {
	w, _ := flate.NewWriter(nil, flate.DefaultCompression)
	return &Deflater{noContextTakeover: noContextTakeover, w: w}
}

// Compress returns a message payload with the trailing 0x00 0x00 0xFF
// 0xFF removed per RFC 7692. With noContextTakeover each call gets a
// brand-new compressor; otherwise the same *flate.Writer is Reset and
// reused across calls. Reset drops the writer's dictionary, so in both
// cases the output does not refer back to earlier messages.
func (d *Deflater) Compress(payload []byte) ([]byte, error) {
	d.buf.Reset()
	if d.noContextTakeover {
		d.w, _ = flate.NewWriter(&d.buf, flate.DefaultCompression)
	} else {
		d.w.Reset(&d.buf)
	}
	if _, err := d.w.Write(payload); err != nil {
		return nil, err
	}
	if err := d.w.Flush(); err != nil {
		return nil, err
	}
	out := d.buf.Bytes()
	if bytes.HasSuffix(out, deflateTrailer[:]) {
		out = out[:len(out)-4]
	}
	return append([]byte(nil), out...), nil
}

// Inflater decompresses permessage-deflate payloads, re-appending the
// stripped trailer before feeding flate.Reader (RFC 7692 §7.2.2). Each
// message is inflated with no preset dictionary, so a payload that refers
// back into an earlier message's window is not decoded. A maxSize of 0 or
// less means no size limit.
type Inflater struct {
	noContextTakeover bool
	r                 io.ReadCloser
	src               *bytes.Reader
}

func NewInflater(noContextTakeover bool) *Inflater {
	src := bytes.NewReader(nil)
	return &Inflater{noContextTakeover: noContextTakeover, r: flate.NewReader(src), src: src}
}

func (in *Inflater) Decompress(payload []byte, maxSize int) ([]byte, error) {
	framed := append(append([]byte(nil), payload...), deflateTrailer[:]...)
	// An empty final stored block ends the stream, so the reader stops with
	// io.EOF instead of io.ErrUnexpectedEOF after the sync-flushed data.
	framed = append(framed, 0x01, 0x00, 0x00, 0xFF, 0xFF)
	in.src.Reset(framed)
	if in.noContextTakeover {
		in.r = flate.NewReader(in.src)
	} else if r, ok := in.r.(flate.Resetter); ok {
		if err := r.Reset(in.src, nil); err != nil {
			return nil, err
		}
	}
	var out bytes.Buffer
	var lr io.Reader = in.r
	if maxSize > 0 {
		lr = io.LimitReader(in.r, int64(maxSize)+1)
	}
	n, err := io.Copy(&out, lr)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && n > int64(maxSize) {
		return nil, errMessageTooBig
	}
	return out.Bytes(), nil
}

var errMessageTooBig = &closeError{code: CloseMessageTooBig, text: "decompressed message exceeds maxPayload"}

type closeError struct {
	code int
	text string
}

func (e *closeError) Error() string { return e.text }

func (e *closeError) Code() int { return e.code }
