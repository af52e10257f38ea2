package container

import "github.com/mdxfeed/rwfgo/rwf"

// FieldListHeader is FieldList's fixed header (spec.md §3/§4.3): an
// optional dictionaryId/fieldListNum pair, an optional setId, and an
// optional pre-encoded set-data blob produced by a caller that already
// holds the matching SetDef (see setDataCursor for the decode side).
type FieldListHeader struct {
	Flags        Flags
	DictionaryID int16
	FieldListNum int16
	SetID        uint16
	SetData      []byte
}

// FieldEntry is one FieldList entry. Standard entries carry Data, their
// already-encoded (or, on decode, still-encoded) primitive value; entries
// that came from the set-data section instead carry an already-decoded
// Value, since decoding a set entry requires walking the SetDef that the
// caller supplied to FieldListDecoder.
type FieldEntry struct {
	FieldID  int16
	DataType rwf.DataType
	Data     []byte
	Value    any
}

// FieldListInit writes the fixed header — including, if HasSetData is
// set, the whole set-data blob as a length-framed unit so decoders
// without a matching SetDef can still skip it — then opens the entries
// frame that FieldListEntry/FieldListComplete operate on.
func FieldListInit(iter *rwf.EncodeIterator, h FieldListHeader, maxEncodingSize int) rwf.Ret {
	if ret := iter.WriteByte(byte(h.Flags)); ret != rwf.RetSuccess {
		return ret
	}
	if h.Flags.Has(HasFieldListInfo) {
		if ret := rwf.EncodeInt(iter, int64(h.DictionaryID)); ret != rwf.RetSuccess {
			return ret
		}
		if ret := rwf.EncodeInt(iter, int64(h.FieldListNum)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if h.Flags.Has(HasSetID) {
		if ret := rwf.EncodeUInt(iter, uint64(h.SetID)); ret != rwf.RetSuccess {
			return ret
		}
	}
	if h.Flags.Has(HasSetData) {
		if ret := iter.PushContainer(len(h.SetData)); ret != rwf.RetSuccess {
			return ret
		}
		if ret := iter.WriteRaw(h.SetData); ret != rwf.RetSuccess {
			iter.PopContainerComplete(false)
			return ret
		}
		if ret := iter.PopContainerComplete(true); ret != rwf.RetSuccess {
			return ret
		}
	}
	return iter.PushContainer(maxEncodingSize)
}

// FieldListEntry writes one standard (non-set) entry: fieldId, dataType,
// then a pre-encoded pass-through of the value.
func FieldListEntry(iter *rwf.EncodeIterator, e FieldEntry, maxEncodingSize int) rwf.Ret {
	header := []byte{byte(uint16(e.FieldID) >> 8), byte(e.FieldID), byte(e.DataType)}
	return encodeWholeEntry(iter, header, e.Data, maxEncodingSize)
}

func FieldListComplete(iter *rwf.EncodeIterator, success bool) rwf.Ret {
	return iter.PopContainerComplete(success)
}

// DecodeFieldList parses the fixed header and opens the entries frame;
// the set-data blob (if any) is returned undecoded — pass it plus the
// matching SetDef to NewFieldListDecoder to resolve it.
func DecodeFieldList(iter *rwf.DecodeIterator) (FieldListHeader, rwf.Ret) {
	var h FieldListHeader
	fb, ret := iter.ReadByte()
	if ret != rwf.RetSuccess {
		return h, ret
	}
	h.Flags = Flags(fb)
	if h.Flags.Has(HasFieldListInfo) {
		v, ret := rwf.DecodeInt(iter)
		if ret != rwf.RetSuccess {
			return h, ret
		}
		h.DictionaryID = int16(v)
		v2, ret := rwf.DecodeInt(iter)
		if ret != rwf.RetSuccess {
			return h, ret
		}
		h.FieldListNum = int16(v2)
	}
	if h.Flags.Has(HasSetID) {
		v, ret := rwf.DecodeUInt(iter)
		if ret != rwf.RetSuccess {
			return h, ret
		}
		h.SetID = uint16(v)
	}
	if h.Flags.Has(HasSetData) {
		data, ret := decodeEntryData(iter)
		if ret != rwf.RetSuccess {
			return h, ret
		}
		h.SetData = data
	}
	if _, ret := iter.PushContainer(); ret != rwf.RetSuccess {
		return h, ret
	}
	return h, rwf.RetSuccess
}

// FieldListDecoder yields set-data entries (if a matching SetDef was
// supplied) before standard entries, through one Next() loop — spec.md
// §4.3: decoders must surface set entries transparently via the same
// entry iteration API.
type FieldListDecoder struct {
	iter   *rwf.DecodeIterator
	cursor *setDataCursor
}

func NewFieldListDecoder(iter *rwf.DecodeIterator, h FieldListHeader, def *SetDef) *FieldListDecoder {
	return &FieldListDecoder{iter: iter, cursor: newSetDataCursor(h.SetData, def)}
}

func (d *FieldListDecoder) Next() (FieldEntry, rwf.Ret) {
	if entry, v, ret, ok := d.cursor.next(); ok {
		if ret != rwf.RetSuccess {
			return FieldEntry{}, ret
		}
		return FieldEntry{FieldID: entry.FieldID, DataType: entry.DataType, Value: v}, rwf.RetSuccess
	}
	if d.iter.AtEnd() {
		d.iter.PopContainer()
		return FieldEntry{}, rwf.RetEndOfContainer
	}
	b, ret := d.iter.ReadBytes(3)
	if ret != rwf.RetSuccess {
		return FieldEntry{}, ret
	}
	fid := int16(uint16(b[0])<<8 | uint16(b[1]))
	dt := rwf.DataType(b[2])
	data, ret := decodeEntryData(d.iter)
	if ret != rwf.RetSuccess {
		return FieldEntry{}, ret
	}
	return FieldEntry{FieldID: fid, DataType: dt, Data: data}, rwf.RetSuccess
}
