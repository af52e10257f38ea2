package container

import "github.com/mdxfeed/rwfgo/rwf"

// ArrayHeader declares the uniform primitive type and optional fixed
// item width for an Array (spec.md §3): itemLength == 0 means entries are
// individually length-delimited ("variable").
type ArrayHeader struct {
	PrimitiveType rwf.DataType
	ItemLength    int
}

// ArrayInit pushes the Array's length frame and writes its fixed header
// (primitiveType, itemLength); entries follow via ArrayEntry.
func ArrayInit(iter *rwf.EncodeIterator, h ArrayHeader, maxEncodingSize int) rwf.Ret {
	header := []byte{byte(h.PrimitiveType), byte(h.ItemLength >> 8), byte(h.ItemLength)}
	if ret := iter.WriteRaw(header); ret != rwf.RetSuccess {
		return ret
	}
	return iter.PushContainer(maxEncodingSize)
}

// ArrayEntry writes one pre-encoded primitive value. When ItemLength != 0
// the value must already be exactly that many bytes (fixed width, no
// per-item length prefix); when 0, the value carries its own embedded
// primitive-codec length prefix as produced by EncodeInt/EncodeBuffer/etc.
func ArrayEntry(iter *rwf.EncodeIterator, data []byte) rwf.Ret {
	return iter.WriteRaw(data)
}

func ArrayComplete(iter *rwf.EncodeIterator, success bool) rwf.Ret {
	return iter.PopContainerComplete(success)
}

// DecodeArray parses the header, opens the entries frame and returns the
// header; callers pull entries with DecodeArrayEntry until RSSL_RET_END_OF_CONTAINER.
func DecodeArray(iter *rwf.DecodeIterator) (ArrayHeader, rwf.Ret) {
	b, ret := iter.ReadBytes(3)
	if ret != rwf.RetSuccess {
		return ArrayHeader{}, ret
	}
	h := ArrayHeader{PrimitiveType: rwf.DataType(b[0]), ItemLength: int(b[1])<<8 | int(b[2])}
	if ret := pushArrayEntries(iter); ret != rwf.RetSuccess {
		return h, ret
	}
	return h, rwf.RetSuccess
}

func pushArrayEntries(iter *rwf.DecodeIterator) rwf.Ret {
	_, ret := iter.PushContainer()
	return ret
}

// DecodeArrayEntry returns the next entry's raw bytes (fixed-width slice
// when ItemLength != 0, otherwise the primitive's own self-delimited
// encoding) or RSSL_RET_END_OF_CONTAINER.
func DecodeArrayEntry(iter *rwf.DecodeIterator, h ArrayHeader) ([]byte, rwf.Ret) {
	if iter.AtEnd() {
		iter.PopContainer()
		return nil, rwf.RetEndOfContainer
	}
	if h.ItemLength != 0 {
		return iter.ReadBytes(h.ItemLength)
	}
	return readSelfDelimited(iter, h.PrimitiveType)
}

// readSelfDelimited consumes exactly the bytes one primitive occupies on
// the wire, so Array entries of variable primitives (e.g. ASCII_STRING)
// can be skipped or re-sliced. Types whose extent depends on their
// content (buffers with a long-length prefix, Qos, State, DateTime) are
// decoded to find their end; the rest are skipped by their length byte.
func readSelfDelimited(iter *rwf.DecodeIterator, t rwf.DataType) ([]byte, rwf.Ret) {
	switch t {
	case rwf.DataTypeBuffer, rwf.DataTypeAsciiString, rwf.DataTypeUtf8String,
		rwf.DataTypeQos, rwf.DataTypeState, rwf.DataTypeDateTime:
		before := iter.Pos()
		if _, ret := rwf.DecodePrimitiveType(iter, t); ret != rwf.RetSuccess && ret != rwf.RetBlankData {
			return nil, ret
		}
		return sliceSince(iter, before), rwf.RetSuccess
	case rwf.DataTypeReal:
		before := iter.Pos()
		if _, ret := iter.ReadByte(); ret != rwf.RetSuccess { // hint
			return nil, ret
		}
		n, ret := iter.ReadByte()
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		if _, ret := iter.ReadBytes(int(n)); ret != rwf.RetSuccess {
			return nil, ret
		}
		return sliceSince(iter, before), rwf.RetSuccess
	default:
		before := iter.Pos()
		n, ret := iter.ReadByte()
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		if n > 0 {
			if _, ret := iter.ReadBytes(int(n)); ret != rwf.RetSuccess {
				return nil, ret
			}
		}
		return sliceSince(iter, before), rwf.RetSuccess
	}
}

func sliceSince(iter *rwf.DecodeIterator, start int) []byte {
	end := iter.Pos()
	return iter.RawSlice(start, end)
}
