package msg

import "github.com/mdxfeed/rwfgo/rwf"

// headerFlags control which optional common-header fields are present on
// the wire (spec.md §3 "optional msgKey", "optional extendedHeader").
type headerFlags uint8

const (
	hdrHasKey            headerFlags = 1 << 0
	hdrHasExtendedHeader headerFlags = 1 << 1
	hdrHasPermData        headerFlags = 1 << 2
)

// EncodeMsg is the one-shot path: attrib, extendedHeader, and payload
// must all already be pre-encoded in m (spec.md §4.5).
func EncodeMsg(iter *rwf.EncodeIterator, m *Msg, maxEncodingSize int) rwf.Ret {
	bodyStart, ret := EncodeMsgInit(iter, m, maxEncodingSize)
	switch ret {
	case rwf.RetEncodeMsgKeyOpaque:
		attribStart := iter.GetEncodedLength()
		if ret := iter.WriteRaw(m.Header.Key.Attrib); ret != rwf.RetSuccess {
			EncodeMsgKeyAttribComplete(iter, attribStart, false)
			EncodeMsgComplete(iter, bodyStart, false)
			return ret
		}
		if ret := EncodeMsgKeyAttribComplete(iter, attribStart, true); ret != rwf.RetSuccess {
			EncodeMsgComplete(iter, bodyStart, false)
			return ret
		}
	case rwf.RetSuccess:
	default:
		return ret
	}
	if m.Header.ExtendedHeader != nil {
		if ret := rwf.EncodeBuffer(iter, m.Header.ExtendedHeader); ret != rwf.RetSuccess {
			EncodeMsgComplete(iter, bodyStart, false)
			return ret
		}
	}
	if ret := iter.WriteRaw(m.EncDataBody); ret != rwf.RetSuccess {
		EncodeMsgComplete(iter, bodyStart, false)
		return ret
	}
	return EncodeMsgComplete(iter, bodyStart, true)
}

// EncodeMsgInit writes the common header and class-specific fixed
// fields. Returns RetEncodeMsgKeyOpaque when the caller must now encode
// attrib itself (its type isn't known to this package) and close it with
// EncodeMsgKeyAttribComplete. savedPos is the cursor position before any
// header byte was written; the caller must thread it into the matching
// EncodeMsgComplete so success=false can discard the whole message,
// mirroring container/helpers.go's beginEntry/completeEntry pair.
func EncodeMsgInit(iter *rwf.EncodeIterator, m *Msg, maxEncodingSize int) (savedPos int, ret rwf.Ret) {
	savedPos = iter.GetEncodedLength()
	h := &m.Header
	var flags headerFlags
	if h.Key != nil {
		flags |= hdrHasKey
	}
	if h.ExtendedHeader != nil {
		flags |= hdrHasExtendedHeader
	}
	fixed := []byte{
		byte(h.MsgClass), byte(flags),
		byte(h.StreamID >> 24), byte(h.StreamID >> 16), byte(h.StreamID >> 8), byte(h.StreamID),
		h.DomainType, byte(h.ContainerType),
	}
	if ret := iter.WriteRaw(fixed); ret != rwf.RetSuccess {
		return savedPos, ret
	}
	if ret := encodeClassFields(iter, m); ret != rwf.RetSuccess {
		return savedPos, ret
	}
	if flags.Has(hdrHasKey) {
		if ret := encodeKeyFixed(iter, h.Key); ret != rwf.RetSuccess {
			return savedPos, ret
		}
		if h.Key.Flags.Has(KeyHasAttrib) {
			if h.Key.Attrib != nil {
				if ret := rwf.EncodeBuffer(iter, h.Key.Attrib); ret != rwf.RetSuccess {
					return savedPos, ret
				}
			} else {
				return savedPos, rwf.RetEncodeMsgKeyOpaque
			}
		}
	}
	if flags.Has(hdrHasExtendedHeader) && m.Header.ExtendedHeader == nil {
		return savedPos, rwf.RetEncodeExtendedHeader
	}
	return savedPos, rwf.RetSuccess
}

func (f headerFlags) Has(bit headerFlags) bool { return f&bit != 0 }

// EncodeMsgKeyAttribComplete finishes an attrib the caller encoded
// itself after EncodeMsgInit returned RetEncodeMsgKeyOpaque. attribStart
// is the cursor position captured right after that return, before the
// caller wrote attrib bytes; success=false rewinds past them only,
// leaving the header EncodeMsgInit already committed untouched.
func EncodeMsgKeyAttribComplete(iter *rwf.EncodeIterator, attribStart int, success bool) rwf.Ret {
	if !success {
		iter.Rewind(attribStart)
	}
	return rwf.RetSuccess
}

// EncodeMsgComplete closes the message out; bodyStart is the savedPos
// EncodeMsgInit returned. success=false discards every byte written
// since, including the common header (spec.md §5 "encodeMsgComplete(false)
// discards all bytes written since the matching *Init").
func EncodeMsgComplete(iter *rwf.EncodeIterator, bodyStart int, success bool) rwf.Ret {
	if !success {
		iter.Rewind(bodyStart)
	}
	return rwf.RetSuccess
}

func encodeKeyFixed(iter *rwf.EncodeIterator, k *Key) rwf.Ret {
	if ret := iter.WriteByte(byte(k.Flags)); ret != rwf.RetSuccess {
		return ret
	}
	if k.Flags.Has(KeyHasServiceID) {
		if ret := rwf.EncodeUInt(iter, uint64(k.ServiceID)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if k.Flags.Has(KeyHasName) {
		if ret := rwf.EncodeBuffer(iter, k.Name); ret != rwf.RetSuccess {
			return ret
		}
	}
	if k.Flags.Has(KeyHasNameType) {
		if ret := iter.WriteByte(k.NameType); ret != rwf.RetSuccess {
			return ret
		}
	}
	if k.Flags.Has(KeyHasFilter) {
		if ret := rwf.EncodeUInt(iter, uint64(k.Filter)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if k.Flags.Has(KeyHasIdentifier) {
		if ret := rwf.EncodeInt(iter, int64(k.Identifier)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if k.Flags.Has(KeyHasAttrib) {
		if ret := iter.WriteByte(byte(k.AttribContainerType)); ret != rwf.RetSuccess {
			return ret
		}
	}
	return rwf.RetSuccess
}

func decodeKeyFixed(iter *rwf.DecodeIterator) (*Key, rwf.Ret) {
	k := &Key{}
	fb, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return nil, ret
	}
	k.Flags = KeyFlags(fb)
	if k.Flags.Has(KeyHasServiceID) {
		v, ret := rwf.DecodeUInt(iter)
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		k.ServiceID = uint16(v)
	}
	if k.Flags.Has(KeyHasName) {
		v, ret := rwf.DecodeBuffer(iter)
		if ret != rwf.RetSuccess && ret != rwf.RetBlankData {
			return nil, ret
		}
		k.Name = v
	}
	if k.Flags.Has(KeyHasNameType) {
		v, ret := iter.ReadByte()
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		k.NameType = v
	}
	if k.Flags.Has(KeyHasFilter) {
		v, ret := rwf.DecodeUInt(iter)
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		k.Filter = uint32(v)
	}
	if k.Flags.Has(KeyHasIdentifier) {
		v, ret := rwf.DecodeInt(iter)
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		k.Identifier = int32(v)
	}
	if k.Flags.Has(KeyHasAttrib) {
		ctb, ret := iter.ReadByte()
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		k.AttribContainerType = rwf.DataType(ctb)
	}
	return k, rwf.RetSuccess
}

// DecodeMsg parses the common header and class-specific fixed fields.
// When the message has both an opaque attrib and a payload that could
// collide in type, call DecodeMsgKeyAttrib explicitly instead of relying
// on this function to consume attrib bytes (spec.md §4.5).
func DecodeMsg(iter *rwf.DecodeIterator) (*Msg, rwf.Ret) {
	m := &Msg{}
	fixed, ret := iter.ReadBytes(8)
	if ret != rwf.RetSuccess {
		return nil, ret
	}
	m.Header.MsgClass = Class(fixed[0])
	flags := headerFlags(fixed[1])
	m.Header.StreamID = int32(fixed[2])<<24 | int32(fixed[3])<<16 | int32(fixed[4])<<8 | int32(fixed[5])
	m.Header.DomainType = fixed[6]
	m.Header.ContainerType = rwf.DataType(fixed[7])

	if ret := decodeClassFields(iter, m); ret != rwf.RetSuccess {
		return nil, ret
	}
	if flags.Has(hdrHasKey) {
		k, ret := decodeKeyFixed(iter)
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		m.Header.Key = k
		if k.Flags.Has(KeyHasAttrib) {
			attrib, ret := rwf.DecodeBuffer(iter)
			if ret != rwf.RetSuccess && ret != rwf.RetBlankData {
				return nil, ret
			}
			k.Attrib = attrib
		}
	}
	if flags.Has(hdrHasExtendedHeader) {
		eh, ret := rwf.DecodeBuffer(iter)
		if ret != rwf.RetSuccess && ret != rwf.RetBlankData {
			return nil, ret
		}
		m.Header.ExtendedHeader = eh
	}
	return m, rwf.RetSuccess
}

// DecodeMsgKeyAttrib is required instead of DecodeMsg's implicit attrib
// read when attrib and the payload share one iterator and their types
// might otherwise be ambiguous to a caller inspecting raw bytes.
func DecodeMsgKeyAttrib(iter *rwf.DecodeIterator, key *Key) rwf.Ret {
	if !key.Flags.Has(KeyHasAttrib) {
		return rwf.RetSuccess
	}
	attrib, ret := rwf.DecodeBuffer(iter)
	if ret != rwf.RetSuccess && ret != rwf.RetBlankData {
		return ret
	}
	key.Attrib = attrib
	return rwf.RetSuccess
}

func encodeClassFields(iter *rwf.EncodeIterator, m *Msg) rwf.Ret {
	switch m.Header.MsgClass {
	case ClassRequest:
		if ret := iter.WriteRaw([]byte{byte(m.RequestFlags >> 8), byte(m.RequestFlags)}); ret != rwf.RetSuccess {
			return ret
		}
		if m.RequestFlags.Has(ReqHasPriority) {
			if ret := iter.WriteRaw([]byte{m.Priority.Class, byte(m.Priority.Count >> 8), byte(m.Priority.Count)}); ret != rwf.RetSuccess {
				return ret
			}
		}
		if m.RequestFlags.Has(ReqHasQos) {
			if ret := rwf.EncodeQos(iter, m.Qos); ret != rwf.RetSuccess {
				return ret
			}
		}
		if m.RequestFlags.Has(ReqHasWorstQos) {
			if ret := rwf.EncodeQos(iter, m.WorstQos); ret != rwf.RetSuccess {
				return ret
			}
		}
	case ClassRefresh, ClassStatus, ClassUpdate:
		if ret := rwf.EncodeState(iter, m.State); ret != rwf.RetSuccess {
			return ret
		}
	case ClassPost:
		if ret := iter.WriteRaw([]byte{byte(m.PostUserID >> 24), byte(m.PostUserID >> 16), byte(m.PostUserID >> 8), byte(m.PostUserID)}); ret != rwf.RetSuccess {
			return ret
		}
	case ClassAck:
		if ret := iter.WriteRaw([]byte{byte(m.AckID >> 24), byte(m.AckID >> 16), byte(m.AckID >> 8), byte(m.AckID)}); ret != rwf.RetSuccess {
			return ret
		}
	}
	return rwf.RetSuccess
}

func decodeClassFields(iter *rwf.DecodeIterator, m *Msg) rwf.Ret {
	switch m.Header.MsgClass {
	case ClassRequest:
		b, ret := iter.ReadBytes(2)
		if ret != rwf.RetSuccess {
			return ret
		}
		m.RequestFlags = RequestFlags(b[0])<<8 | RequestFlags(b[1])
		if m.RequestFlags.Has(ReqHasPriority) {
			pb, ret := iter.ReadBytes(3)
			if ret != rwf.RetSuccess {
				return ret
			}
			m.Priority = Priority{Class: pb[0], Count: uint16(pb[1])<<8 | uint16(pb[2])}
		}
		if m.RequestFlags.Has(ReqHasQos) {
			q, ret := rwf.DecodeQos(iter)
			if ret != rwf.RetSuccess {
				return ret
			}
			m.Qos = q
		}
		if m.RequestFlags.Has(ReqHasWorstQos) {
			q, ret := rwf.DecodeQos(iter)
			if ret != rwf.RetSuccess {
				return ret
			}
			m.WorstQos = q
		}
	case ClassRefresh, ClassStatus, ClassUpdate:
		s, ret := rwf.DecodeState(iter)
		if ret != rwf.RetSuccess {
			return ret
		}
		m.State = s
	case ClassPost:
		b, ret := iter.ReadBytes(4)
		if ret != rwf.RetSuccess {
			return ret
		}
		m.PostUserID = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	case ClassAck:
		b, ret := iter.ReadBytes(4)
		if ret != rwf.RetSuccess {
			return ret
		}
		m.AckID = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return rwf.RetSuccess
}
